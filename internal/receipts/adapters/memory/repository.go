package memory

import (
	"context"
	"sync"

	"github.com/mivanovic/receipt-points/internal/receipts/domain"
	"github.com/mivanovic/receipt-points/internal/receipts/ports"
)

// Repository stores receipt records in process memory. A single instance is
// shared by all request handlers for the life of the process.
type Repository struct {
	mu      sync.RWMutex
	records map[string]domain.ReceiptRecord
}

// NewRepository constructs a new in-memory repository.
func NewRepository() *Repository {
	return &Repository{records: make(map[string]domain.ReceiptRecord)}
}

// Insert stores a fully scored record. An id is never reassigned: inserting
// the same id twice fails with ports.ErrDuplicateID instead of overwriting.
// The record is committed whole under the write lock, so concurrent readers
// see either nothing or the record with its points already set.
func (r *Repository) Insert(_ context.Context, record domain.ReceiptRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[record.ID]; ok {
		return ports.ErrDuplicateID
	}
	r.records[record.ID] = record
	return nil
}

// GetByID fetches a single record by identifier.
func (r *Repository) GetByID(_ context.Context, id string) (*domain.ReceiptRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.records[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	copy := record
	return &copy, nil
}
