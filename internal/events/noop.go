package events

import (
	"context"
	"log/slog"
)

// NoopPublisher logs receipt events without sending them anywhere. Useful
// until a real broker is wired in.
type NoopPublisher struct{}

// NewNoopPublisher returns a new no-op event publisher.
func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

func (n *NoopPublisher) PublishReceiptProcessed(_ context.Context, receiptID string, points int64) error {
	slog.Debug("event::receipt_processed", "receipt_id", receiptID, "points", points)
	return nil
}
