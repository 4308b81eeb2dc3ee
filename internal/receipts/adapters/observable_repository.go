package adapters

import (
	"context"
	"time"

	"github.com/mivanovic/receipt-points/internal/receipts/domain"
	"github.com/mivanovic/receipt-points/internal/receipts/ports"
	"github.com/mivanovic/receipt-points/internal/storage"
	"github.com/mivanovic/receipt-points/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

type ObservableRepository struct {
	repo    ports.ReceiptRepository
	metrics *storage.Metrics
}

func NewObservableRepository(repo ports.ReceiptRepository, metrics *storage.Metrics) *ObservableRepository {
	return &ObservableRepository{
		repo:    repo,
		metrics: metrics,
	}
}

func (r *ObservableRepository) Insert(ctx context.Context, record domain.ReceiptRecord) error {
	ctx, span := telemetry.StartSpan(ctx, "ReceiptRepository.Insert")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("receipt.id", record.ID),
		attribute.String("operation", "insert"),
	)

	start := time.Now()
	err := r.repo.Insert(ctx, record)
	duration := time.Since(start).Seconds()

	r.metrics.RecordOperation(ctx, "insert_receipt", duration)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return err
	}

	telemetry.SetSpanSuccess(span)
	return nil
}

func (r *ObservableRepository) GetByID(ctx context.Context, id string) (*domain.ReceiptRecord, error) {
	ctx, span := telemetry.StartSpan(ctx, "ReceiptRepository.GetByID")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("receipt.id", id),
		attribute.String("operation", "get_by_id"),
	)

	start := time.Now()
	record, err := r.repo.GetByID(ctx, id)
	duration := time.Since(start).Seconds()

	r.metrics.RecordOperation(ctx, "get_receipt_by_id", duration)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return nil, err
	}

	telemetry.SetSpanSuccess(span)
	return record, nil
}
