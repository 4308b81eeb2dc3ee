package ports

import (
	"context"
	"errors"

	"github.com/mivanovic/receipt-points/internal/receipts/domain"
)

// ReceiptRepository exposes the storage operations required by the application
// layer. Records are insert-only: once stored, a record is never updated or
// deleted.
type ReceiptRepository interface {
	Insert(ctx context.Context, record domain.ReceiptRecord) error
	GetByID(ctx context.Context, id string) (*domain.ReceiptRecord, error)
}

var (
	// ErrNotFound is returned when the requested receipt does not exist.
	ErrNotFound = errors.New("receipt not found")

	// ErrDuplicateID is returned when a record with the same id is already
	// stored. Identifiers are random UUIDs, so seeing this indicates a
	// programming error rather than a recoverable runtime condition.
	ErrDuplicateID = errors.New("duplicate receipt id")
)
