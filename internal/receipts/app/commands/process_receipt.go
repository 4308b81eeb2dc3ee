package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mivanovic/receipt-points/internal/receipts/domain"
	"github.com/mivanovic/receipt-points/internal/receipts/ports"
)

// ProcessReceiptCommand carries a receipt that already passed boundary
// validation. The handler performs no format checking of its own.
type ProcessReceiptCommand struct {
	Receipt domain.Receipt
}

type CommandHandler interface {
	Handle(ctx context.Context, cmd ProcessReceiptCommand) (*domain.ReceiptRecord, error)
}

type ProcessReceiptCommandHandler struct {
	repo   ports.ReceiptRepository
	events ports.ReceiptEventPublisher
}

func NewProcessReceiptCommandHandler(
	repo ports.ReceiptRepository,
	events ports.ReceiptEventPublisher,
) *ProcessReceiptCommandHandler {
	return &ProcessReceiptCommandHandler{
		repo:   repo,
		events: events,
	}
}

// Handle assigns a fresh identifier, scores the receipt and stores the
// resulting record as one unit of work. The id is only handed back once the
// record is visible in the repository.
func (h *ProcessReceiptCommandHandler) Handle(ctx context.Context, cmd ProcessReceiptCommand) (*domain.ReceiptRecord, error) {
	id, err := generateReceiptID()
	if err != nil {
		return nil, err
	}

	record := domain.ReceiptRecord{
		ID:        id,
		Receipt:   cmd.Receipt,
		Points:    domain.Score(cmd.Receipt),
		CreatedAt: time.Now().UTC(),
	}

	if err := h.repo.Insert(ctx, record); err != nil {
		return nil, fmt.Errorf("insert receipt: %w", err)
	}

	if err := h.events.PublishReceiptProcessed(ctx, record.ID, record.Points); err != nil {
		return &record, fmt.Errorf("receipt stored but failed to publish event: %w", err)
	}

	return &record, nil
}

func generateReceiptID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate receipt id: %w", err)
	}
	return id.String(), nil
}
