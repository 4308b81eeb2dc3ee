package app

import (
	"context"
	"log/slog"

	"github.com/mivanovic/receipt-points/internal/receipts/app/commands"
	"github.com/mivanovic/receipt-points/internal/receipts/app/queries"
	"github.com/mivanovic/receipt-points/internal/receipts/domain"
	"github.com/mivanovic/receipt-points/internal/receipts/metrics"
	"github.com/mivanovic/receipt-points/internal/receipts/ports"
)

// Service bundles use cases for handling receipts via the API.
type Service struct {
	repo                  ports.ReceiptRepository
	events                ports.ReceiptEventPublisher
	idemStore             ports.IdempotencyStore
	processReceiptHandler commands.CommandHandler
	getPointsHandler      *queries.GetPointsQueryHandler
}

// NewService wires required dependencies.
func NewService(
	repo ports.ReceiptRepository,
	events ports.ReceiptEventPublisher,
	idem ports.IdempotencyStore,
	logger *slog.Logger,
	metrics *metrics.Metrics,
) *Service {
	coreHandler := commands.NewProcessReceiptCommandHandler(repo, events)
	observableHandler := commands.NewObservableCommandHandler(coreHandler, logger, metrics)

	return &Service{
		repo:                  repo,
		events:                events,
		idemStore:             idem,
		processReceiptHandler: observableHandler,
		getPointsHandler:      queries.NewGetPointsQueryHandler(repo),
	}
}

// ProcessReceipt ingests a validated receipt and returns the stored record,
// including the identifier under which its points can be retrieved later.
func (s *Service) ProcessReceipt(ctx context.Context, receipt domain.Receipt) (*domain.ReceiptRecord, error) {
	cmd := commands.ProcessReceiptCommand{Receipt: receipt}
	return s.processReceiptHandler.Handle(ctx, cmd)
}

// GetPoints returns the points previously computed for the given receipt id.
func (s *Service) GetPoints(ctx context.Context, id string) (int64, error) {
	record, err := s.getPointsHandler.Handle(ctx, queries.GetPointsQuery{ReceiptID: id})
	if err != nil {
		return 0, err
	}
	return record.Points, nil
}

// SaveIdempotentResponse writes response details for a key.
func (s *Service) SaveIdempotentResponse(ctx context.Context, key string, response ports.StoredResponse) error {
	return s.idemStore.Save(ctx, key, response)
}

// GetIdempotentResponse retrieves previously stored response data.
func (s *Service) GetIdempotentResponse(ctx context.Context, key string) (*ports.StoredResponse, error) {
	return s.idemStore.Get(ctx, key)
}
