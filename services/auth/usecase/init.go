package usecase

import (
	"time"

	"github.com/piresc/fraudguard/internal/pkg/models"
	"github.com/piresc/fraudguard/internal/pkg/otp"
	"github.com/piresc/fraudguard/services/auth"
)

// AuthUC implements auth.AuthUC on top of an in-memory session registry
type AuthUC struct {
	cfg      *models.Config
	gw       auth.AuthGW
	clock    otp.Clock
	generate otp.Generator
	sessions *sessionStore
}

// Option customises an AuthUC
type Option func(*AuthUC)

// WithGenerator replaces the random code generator
func WithGenerator(g otp.Generator) Option {
	return func(uc *AuthUC) {
		uc.generate = g
	}
}

// NewAuthUC creates a new auth usecase instance. A nil clock selects the
// system clock.
func NewAuthUC(
	cfg *models.Config,
	authGW auth.AuthGW,
	clock otp.Clock,
	opts ...Option,
) *AuthUC {
	if clock == nil {
		clock = otp.SystemClock()
	}

	uc := &AuthUC{
		cfg:   cfg,
		gw:    authGW,
		clock: clock,
	}
	for _, opt := range opts {
		opt(uc)
	}

	idleTTL := time.Duration(cfg.OTP.SessionIdleTTLSeconds) * time.Second
	uc.sessions = newSessionStore(clock, idleTTL)

	return uc
}

func (uc *AuthUC) newLifecycle() *otp.Lifecycle {
	var sink otp.EchoSink
	if uc.cfg.OTP.DemoMode {
		sink = otp.MultiEchoSink{
			otp.LogEchoSink{},
			otp.EchoSinkFunc(uc.gw.PublishDemoEcho),
		}
	}

	latency := time.Duration(uc.cfg.OTP.DeliveryLatencyMillis) * time.Millisecond
	if latency < 0 {
		latency = 0
	}

	return otp.New(otp.Options{
		Clock:             uc.clock,
		Channel:           otp.NewSimulatedChannel(uc.clock, latency, sink),
		Generate:          uc.generate,
		Validity:          time.Duration(uc.cfg.OTP.ValiditySeconds) * time.Second,
		ResendCooldown:    time.Duration(uc.cfg.OTP.ResendCooldownSeconds) * time.Second,
		MaxVerifyAttempts: uc.cfg.OTP.MaxVerifyAttempts,
	})
}
