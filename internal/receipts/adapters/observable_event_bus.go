package adapters

import (
	"context"
	"time"

	"github.com/mivanovic/receipt-points/internal/events"
	"github.com/mivanovic/receipt-points/internal/receipts/ports"
	"github.com/mivanovic/receipt-points/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

type ObservableEventPublisher struct {
	bus     ports.ReceiptEventPublisher
	metrics *events.Metrics
}

func NewObservableEventPublisher(bus ports.ReceiptEventPublisher, metrics *events.Metrics) *ObservableEventPublisher {
	return &ObservableEventPublisher{
		bus:     bus,
		metrics: metrics,
	}
}

func (e *ObservableEventPublisher) PublishReceiptProcessed(ctx context.Context, receiptID string, points int64) error {
	ctx, span := telemetry.StartSpan(ctx, "ReceiptEventPublisher.PublishReceiptProcessed")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("receipt.id", receiptID),
		attribute.Int64("receipt.points", points),
		attribute.String("event.type", "receipt.processed"),
	)

	start := time.Now()
	err := e.bus.PublishReceiptProcessed(ctx, receiptID, points)
	duration := time.Since(start).Seconds()

	e.metrics.RecordPublish(ctx, "receipt.processed", duration, err == nil)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return err
	}

	telemetry.SetSpanSuccess(span)
	return nil
}
