package gateway

import (
	natspkg "github.com/piresc/fraudguard/internal/pkg/nats"
	"github.com/piresc/fraudguard/services/auth"
)

// AuthGW handles auth gateway operations
type AuthGW struct {
	natsGateway *NATSGateway
}

// NewAuthGW creates a new gateway instance. A nil client yields a gateway
// whose publishes are no-ops, for deployments without a broker.
func NewAuthGW(natsClient *natspkg.Client) auth.AuthGW {
	return &AuthGW{
		natsGateway: NewNATSGateway(natsClient),
	}
}
