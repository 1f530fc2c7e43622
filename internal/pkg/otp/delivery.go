package otp

import (
	"context"
	"errors"
	"time"

	"github.com/piresc/fraudguard/internal/pkg/logger"
)

// DefaultDeliveryLatency is the fixed round-trip of the simulated SMS gateway
const DefaultDeliveryLatency = 1500 * time.Millisecond

// Delivery is a code handed to a DeliveryChannel
type Delivery struct {
	Phone            string
	MaskedPhone      string
	Code             string
	ExpiresInSeconds int
}

// DeliveryChannel sends a generated code to the phone number's owner
type DeliveryChannel interface {
	Send(ctx context.Context, d Delivery) error
}

// Echo is what a demo deployment surfaces in place of a real SMS. It never
// carries the unmasked phone number.
type Echo struct {
	MaskedPhone      string    `json:"masked_phone"`
	Code             string    `json:"code"`
	ExpiresInSeconds int       `json:"expires_in_seconds"`
	SentAt           time.Time `json:"sent_at"`
}

// EchoSink receives demo echoes of delivered codes
type EchoSink interface {
	Echo(ctx context.Context, e Echo) error
}

// EchoSinkFunc adapts a function to EchoSink
type EchoSinkFunc func(ctx context.Context, e Echo) error

// Echo calls f(ctx, e)
func (f EchoSinkFunc) Echo(ctx context.Context, e Echo) error {
	return f(ctx, e)
}

// MultiEchoSink fans an echo out to every sink, returning the joined errors
type MultiEchoSink []EchoSink

// Echo forwards e to every sink
func (m MultiEchoSink) Echo(ctx context.Context, e Echo) error {
	var errs []error
	for _, sink := range m {
		if err := sink.Echo(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogEchoSink writes echoes to the application log
type LogEchoSink struct{}

// Echo logs the code at info level
func (LogEchoSink) Echo(ctx context.Context, e Echo) error {
	logger.InfoCtx(ctx, "Demo OTP delivered",
		logger.String("masked_phone", e.MaskedPhone),
		logger.String("otp_code", e.Code),
		logger.Int("expires_in_seconds", e.ExpiresInSeconds))
	return nil
}

// SimulatedChannel stands in for an SMS gateway: it waits a fixed latency
// and then, when a sink is configured, echoes the code to it. A nil sink
// means no raw code ever leaves the process.
type SimulatedChannel struct {
	clock   Clock
	latency time.Duration
	sink    EchoSink
}

// NewSimulatedChannel creates a simulated delivery channel
func NewSimulatedChannel(clock Clock, latency time.Duration, sink EchoSink) *SimulatedChannel {
	if clock == nil {
		clock = SystemClock()
	}
	return &SimulatedChannel{
		clock:   clock,
		latency: latency,
		sink:    sink,
	}
}

// Send waits for the simulated round-trip. It only fails when ctx is done
// before the latency elapses; echo failures are logged and swallowed.
func (c *SimulatedChannel) Send(ctx context.Context, d Delivery) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.clock.After(c.latency):
	}

	logger.InfoCtx(ctx, "OTP sent",
		logger.String("masked_phone", d.MaskedPhone),
		logger.Int("expires_in_seconds", d.ExpiresInSeconds))

	if c.sink == nil {
		return nil
	}

	echo := Echo{
		MaskedPhone:      d.MaskedPhone,
		Code:             d.Code,
		ExpiresInSeconds: d.ExpiresInSeconds,
		SentAt:           c.clock.Now(),
	}
	if err := c.sink.Echo(ctx, echo); err != nil {
		logger.WarnCtx(ctx, "Failed to echo demo OTP",
			logger.String("masked_phone", d.MaskedPhone),
			logger.Err(err))
	}
	return nil
}
