package auth

import (
	"context"

	"github.com/piresc/fraudguard/internal/pkg/models"
	"github.com/piresc/fraudguard/internal/pkg/otp"
)

//go:generate mockgen -destination=mocks/mock_gateway.go -package=mocks github.com/piresc/fraudguard/services/auth AuthGW

// AuthGW defines the outbound gateways of the auth service
type AuthGW interface {
	// NATS Gateway
	PublishDemoEcho(ctx context.Context, echo otp.Echo) error
	PublishOTPEvent(ctx context.Context, subject string, event *models.OTPEvent) error
}
