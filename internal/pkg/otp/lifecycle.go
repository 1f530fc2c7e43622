package otp

import (
	"context"
	"crypto/subtle"
	"fmt"
	"sync"
	"time"

	"github.com/piresc/fraudguard/internal/utils"
)

const (
	// DefaultValidity is how long an issued code stays verifiable
	DefaultValidity = 300 * time.Second
	// DefaultResendCooldown is the length of the resend countdown
	DefaultResendCooldown = 60 * time.Second
)

// State is the derived state of a session's code
type State int

const (
	StateNoCodeIssued State = iota
	StateCodeActive
	StateCodeExpired
)

func (s State) String() string {
	switch s {
	case StateCodeActive:
		return "code_active"
	case StateCodeExpired:
		return "code_expired"
	default:
		return "no_code_issued"
	}
}

// Options configures a Lifecycle. Zero values select the defaults.
type Options struct {
	Clock          Clock
	Channel        DeliveryChannel
	Generate       Generator
	Validity       time.Duration
	ResendCooldown time.Duration
	// MaxVerifyAttempts clears the code after that many consecutive
	// mismatches. Zero means unlimited.
	MaxVerifyAttempts int
}

// Issued is the result of a successful RequestCode
type Issued struct {
	MaskedPhone      string
	ExpiresInSeconds int
}

// Lifecycle owns one authentication session's code, its expiry and its
// resend countdown. All methods are safe for concurrent use.
type Lifecycle struct {
	clock       Clock
	channel     DeliveryChannel
	generate    Generator
	validity    time.Duration
	cooldown    time.Duration
	maxAttempts int

	mu        sync.Mutex
	code      string
	expiresAt time.Time
	failures  int

	cdMu      sync.Mutex
	countdown *countdown
}

// New creates an empty session
func New(opts Options) *Lifecycle {
	if opts.Clock == nil {
		opts.Clock = SystemClock()
	}
	if opts.Channel == nil {
		opts.Channel = NewSimulatedChannel(opts.Clock, DefaultDeliveryLatency, nil)
	}
	if opts.Generate == nil {
		opts.Generate = GenerateCode
	}
	if opts.Validity <= 0 {
		opts.Validity = DefaultValidity
	}
	if opts.ResendCooldown < time.Second {
		opts.ResendCooldown = DefaultResendCooldown
	}
	if opts.MaxVerifyAttempts < 0 {
		opts.MaxVerifyAttempts = 0
	}

	return &Lifecycle{
		clock:       opts.Clock,
		channel:     opts.Channel,
		generate:    opts.Generate,
		validity:    opts.Validity,
		cooldown:    opts.ResendCooldown,
		maxAttempts: opts.MaxVerifyAttempts,
	}
}

// RequestCode issues a new code for phone and hands it to the delivery
// channel. The caller is suspended for the delivery round-trip; the session
// is only mutated once delivery succeeds, replacing any unconsumed code.
func (l *Lifecycle) RequestCode(ctx context.Context, phone string) (*Issued, error) {
	if !utils.ValidatePhoneNumber(phone) {
		return nil, ErrInvalidPhoneFormat
	}

	code, err := l.generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate OTP: %w", err)
	}

	issued := &Issued{
		MaskedPhone:      utils.MaskPhoneNumber(phone),
		ExpiresInSeconds: int(l.validity / time.Second),
	}

	err = l.channel.Send(ctx, Delivery{
		Phone:            phone,
		MaskedPhone:      issued.MaskedPhone,
		Code:             code,
		ExpiresInSeconds: issued.ExpiresInSeconds,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to deliver OTP: %w", err)
	}

	l.mu.Lock()
	l.code = code
	l.expiresAt = l.clock.Now().Add(l.validity)
	l.failures = 0
	l.mu.Unlock()

	return issued, nil
}

// VerifyCode checks entered against the outstanding code. A match or an
// expired code clears the session; a mismatch leaves it untouched unless
// the attempt limit is reached.
func (l *Lifecycle) VerifyCode(entered string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.code == "" {
		return ErrNoCodeRequested
	}

	if l.clock.Now().After(l.expiresAt) {
		l.clearLocked()
		return ErrCodeExpired
	}

	if subtle.ConstantTimeCompare([]byte(entered), []byte(l.code)) == 1 {
		l.clearLocked()
		return nil
	}

	l.failures++
	if l.maxAttempts > 0 && l.failures >= l.maxAttempts {
		l.clearLocked()
		return ErrTooManyAttempts
	}
	return ErrCodeMismatch
}

// State reports the session's derived state without changing it
func (l *Lifecycle) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch {
	case l.code == "":
		return StateNoCodeIssued
	case l.clock.Now().After(l.expiresAt):
		return StateCodeExpired
	default:
		return StateCodeActive
	}
}

// ExpiresAt returns the expiry of the outstanding code, if any
func (l *Lifecycle) ExpiresAt() (time.Time, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.expiresAt, l.code != ""
}

// Close tears the session down: the countdown is cancelled and any
// outstanding code is discarded.
func (l *Lifecycle) Close() {
	l.CancelCountdown()

	l.mu.Lock()
	l.clearLocked()
	l.mu.Unlock()
}

func (l *Lifecycle) clearLocked() {
	l.code = ""
	l.expiresAt = time.Time{}
	l.failures = 0
}
