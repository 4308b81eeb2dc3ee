package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	receiptsProcessedTotal metric.Int64Counter
	pointsAwarded          metric.Int64Histogram
	processingDuration     metric.Float64Histogram
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.receiptsProcessedTotal, err = meter.Int64Counter(
		"receipts_processed_total",
		metric.WithDescription("Total number of receipts processed"),
		metric.WithUnit("{receipt}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create receipts_processed_total counter: %w", err)
	}

	m.pointsAwarded, err = meter.Int64Histogram(
		"receipt_points_awarded",
		metric.WithDescription("Points awarded per processed receipt"),
		metric.WithUnit("{point}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create receipt_points_awarded histogram: %w", err)
	}

	m.processingDuration, err = meter.Float64Histogram(
		"receipt_processing_duration_seconds",
		metric.WithDescription("Duration of receipt processing operations"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create receipt_processing_duration histogram: %w", err)
	}

	return m, nil
}

func (m *Metrics) RecordReceiptProcessed(ctx context.Context, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	m.receiptsProcessedTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", status),
	))
}

func (m *Metrics) RecordPointsAwarded(ctx context.Context, points int64) {
	m.pointsAwarded.Record(ctx, points)
}

func (m *Metrics) RecordProcessingDuration(ctx context.Context, durationSeconds float64) {
	m.processingDuration.Record(ctx, durationSeconds)
}
