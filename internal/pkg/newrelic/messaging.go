package newrelic

import (
	"context"

	"github.com/newrelic/go-agent/v3/newrelic"
)

// WithProducerSegment records fn as a message publish to subject on library
func WithProducerSegment(ctx context.Context, library, subject string, fn func() error) error {
	txn := FromContext(ctx)
	if txn == nil {
		return fn()
	}

	segment := &newrelic.MessageProducerSegment{
		StartTime:       txn.StartSegmentNow(),
		Library:         library,
		DestinationType: newrelic.MessageTopic,
		DestinationName: subject,
	}
	defer segment.End()

	err := fn()
	if err != nil {
		txn.NoticeError(err)
	}

	return err
}
