package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/mivanovic/receipt-points/internal/receipts/domain"
	"github.com/mivanovic/receipt-points/internal/receipts/metrics"
	"github.com/mivanovic/receipt-points/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

type ObservableCommandHandler struct {
	handler CommandHandler
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewObservableCommandHandler(handler CommandHandler, logger *slog.Logger, metrics *metrics.Metrics) *ObservableCommandHandler {
	return &ObservableCommandHandler{
		handler: handler,
		logger:  logger,
		metrics: metrics,
	}
}

func (o *ObservableCommandHandler) Handle(ctx context.Context, cmd ProcessReceiptCommand) (*domain.ReceiptRecord, error) {
	ctx, span := telemetry.StartSpan(ctx, "ProcessReceiptCommand.Handle")
	defer span.End()

	start := time.Now()
	var success bool
	defer func() {
		duration := time.Since(start).Seconds()
		o.metrics.RecordProcessingDuration(ctx, duration)
		o.metrics.RecordReceiptProcessed(ctx, success)
	}()

	o.logger.InfoContext(ctx, "processing receipt",
		"retailer", cmd.Receipt.Retailer,
		"item_count", len(cmd.Receipt.Items),
	)

	record, err := o.handler.Handle(ctx, cmd)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		o.logger.ErrorContext(ctx, "failed to process receipt",
			"error", err,
			"retailer", cmd.Receipt.Retailer,
		)
		return nil, err
	}

	telemetry.AddSpanAttributes(span,
		attribute.String("receipt.id", record.ID),
		attribute.String("receipt.retailer", record.Receipt.Retailer),
		attribute.Int("receipt.item_count", len(record.Receipt.Items)),
		attribute.Int64("receipt.points", record.Points),
	)

	o.metrics.RecordPointsAwarded(ctx, record.Points)

	o.logger.InfoContext(ctx, "receipt processed successfully",
		"receipt_id", record.ID,
		"points", record.Points,
	)

	success = true
	telemetry.SetSpanSuccess(span)

	return record, nil
}
