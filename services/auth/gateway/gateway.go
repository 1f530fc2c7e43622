package gateway

import (
	"context"

	"github.com/piresc/fraudguard/internal/pkg/models"
	"github.com/piresc/fraudguard/internal/pkg/otp"
)

// PublishDemoEcho forwards to the NATS gateway implementation
func (g *AuthGW) PublishDemoEcho(ctx context.Context, echo otp.Echo) error {
	return g.natsGateway.PublishDemoEcho(ctx, echo)
}

// PublishOTPEvent forwards to the NATS gateway implementation
func (g *AuthGW) PublishOTPEvent(ctx context.Context, subject string, event *models.OTPEvent) error {
	return g.natsGateway.PublishOTPEvent(ctx, subject, event)
}
