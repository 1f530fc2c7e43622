package gateway

import (
	"context"

	"github.com/piresc/fraudguard/internal/pkg/constants"
	"github.com/piresc/fraudguard/internal/pkg/models"
	natspkg "github.com/piresc/fraudguard/internal/pkg/nats"
	nrpkg "github.com/piresc/fraudguard/internal/pkg/newrelic"
	"github.com/piresc/fraudguard/internal/pkg/otp"
)

const messagingLibrary = "NATS"

// NATSGateway implements the NATS gateway operations for the auth service
type NATSGateway struct {
	client *natspkg.Client
}

// NewNATSGateway creates a new NATS gateway
func NewNATSGateway(client *natspkg.Client) *NATSGateway {
	return &NATSGateway{
		client: client,
	}
}

// PublishDemoEcho publishes a delivered code to the demo echo subject
func (g *NATSGateway) PublishDemoEcho(ctx context.Context, echo otp.Echo) error {
	return g.publish(ctx, constants.SubjectOTPDemoEcho, echo)
}

// PublishOTPEvent publishes a lifecycle event to subject
func (g *NATSGateway) PublishOTPEvent(ctx context.Context, subject string, event *models.OTPEvent) error {
	return g.publish(ctx, subject, event)
}

func (g *NATSGateway) publish(ctx context.Context, subject string, message interface{}) error {
	if g.client == nil {
		return nil
	}
	return nrpkg.WithProducerSegment(ctx, messagingLibrary, subject, func() error {
		return g.client.PublishJSON(subject, message)
	})
}
