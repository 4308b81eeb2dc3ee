package queries

import (
	"context"

	"github.com/google/uuid"
	"github.com/mivanovic/receipt-points/internal/receipts/domain"
	"github.com/mivanovic/receipt-points/internal/receipts/ports"
)

// GetPointsQuery represents a request to retrieve a scored receipt by its ID.
type GetPointsQuery struct {
	ReceiptID string
}

// GetPointsQueryHandler executes GetPointsQuery and returns the stored record
// if found.
type GetPointsQueryHandler struct {
	repo ports.ReceiptRepository
}

// NewGetPointsQueryHandler constructs a GetPointsQueryHandler.
func NewGetPointsQueryHandler(repo ports.ReceiptRepository) *GetPointsQueryHandler {
	return &GetPointsQueryHandler{repo: repo}
}

// Handle executes the query and retrieves the record.
func (h *GetPointsQueryHandler) Handle(ctx context.Context, query GetPointsQuery) (*domain.ReceiptRecord, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	record, err := h.repo.GetByID(ctx, query.ReceiptID)
	if err != nil {
		return nil, err
	}

	return record, nil
}

// Validate rejects identifiers that cannot name a stored receipt without
// touching the repository. A malformed id is indistinguishable from an
// unknown one to the caller, so both surface as ports.ErrNotFound. Only the
// canonical 36-character UUID form is accepted.
func (q GetPointsQuery) Validate() error {
	if len(q.ReceiptID) != 36 {
		return ports.ErrNotFound
	}
	if err := uuid.Validate(q.ReceiptID); err != nil {
		return ports.ErrNotFound
	}
	return nil
}
