package storage

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	operationDuration metric.Float64Histogram
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.operationDuration, err = meter.Float64Histogram(
		"store_operation_duration_seconds",
		metric.WithDescription("Receipt store operation duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create store_operation_duration histogram: %w", err)
	}

	return m, nil
}

func (m *Metrics) RecordOperation(ctx context.Context, operation string, durationSeconds float64) {
	m.operationDuration.Record(ctx, durationSeconds, metric.WithAttributes(
		attribute.String("operation", operation),
	))
}
