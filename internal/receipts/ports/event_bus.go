package ports

import "context"

// ReceiptEventPublisher defines the contract for publishing receipt lifecycle
// events.
type ReceiptEventPublisher interface {
	PublishReceiptProcessed(ctx context.Context, receiptID string, points int64) error
}
