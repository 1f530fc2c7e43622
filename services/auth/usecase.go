package auth

import (
	"context"

	"github.com/piresc/fraudguard/internal/pkg/models"
	"github.com/piresc/fraudguard/internal/pkg/otp"
)

//go:generate mockgen -destination=mocks/mock_usecase.go -package=mocks github.com/piresc/fraudguard/services/auth AuthUC

// AuthUC drives OTP sessions on behalf of the transport handlers
type AuthUC interface {
	// handle OTP
	RequestOTP(ctx context.Context, req *models.OTPRequest) (*models.OTPRequestResponse, error)
	VerifyOTP(ctx context.Context, req *models.VerifyRequest) (*models.AuthResponse, error)

	// handle resend countdown
	StartCountdown(ctx context.Context, sessionID string, sink otp.CountdownSink, onComplete func()) error
	CancelCountdown(ctx context.Context, sessionID string) error

	// handle sessions
	SessionStatus(ctx context.Context, sessionID string) (*models.SessionStatus, error)
	EndSession(ctx context.Context, sessionID string) error
	Shutdown(ctx context.Context) error
}
