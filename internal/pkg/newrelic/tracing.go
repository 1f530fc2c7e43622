package newrelic

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrecho-v4"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// FromEchoContext returns the transaction nrecho attached to the request
func FromEchoContext(c echo.Context) *newrelic.Transaction {
	return nrecho.FromContext(c)
}

// FromContext returns the transaction carried by ctx, if any
func FromContext(ctx context.Context) *newrelic.Transaction {
	return newrelic.FromContext(ctx)
}

// StartSegment starts a named segment, nil without a transaction
func StartSegment(txn *newrelic.Transaction, name string) *newrelic.Segment {
	if txn == nil {
		return nil
	}
	return txn.StartSegment(name)
}

// AddTransactionAttribute adds a custom attribute to the transaction
func AddTransactionAttribute(txn *newrelic.Transaction, key string, value interface{}) {
	if txn != nil {
		txn.AddAttribute(key, value)
	}
}

// NoticeTransactionError reports an error to New Relic
func NoticeTransactionError(txn *newrelic.Transaction, err error) {
	if txn != nil && err != nil {
		txn.NoticeError(err)
	}
}

// WithSegment times fn as a segment of the transaction in ctx. Errors from fn
// are left to the caller to report since most OTP failures are expected.
func WithSegment(ctx context.Context, segmentName string, fn func() error) error {
	_, err := WithSegmentAndReturn(ctx, segmentName, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// WithSegmentAndReturn is WithSegment for functions producing a value
func WithSegmentAndReturn[T any](ctx context.Context, segmentName string, fn func() (T, error)) (T, error) {
	if segment := StartSegment(FromContext(ctx), segmentName); segment != nil {
		defer segment.End()
	}
	return fn()
}
