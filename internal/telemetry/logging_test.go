package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func newBufferedLogger(buf *bytes.Buffer) *slog.Logger {
	handler := &traceHandler{baseHandler: slog.NewJSONHandler(buf, nil)}
	return slog.New(handler)
}

func spanContext(t *testing.T) context.Context {
	t.Helper()

	traceID, err := trace.TraceIDFromHex("0123456789abcdef0123456789abcdef")
	if err != nil {
		t.Fatalf("parse trace id: %v", err)
	}
	spanID, err := trace.SpanIDFromHex("0123456789abcdef")
	if err != nil {
		t.Fatalf("parse span id: %v", err)
	}

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	return trace.ContextWithSpanContext(context.Background(), sc)
}

func decodeLogLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	return entry
}

func TestLoggerTraceInjection(t *testing.T) {
	t.Run("adds trace and span ids when a span is active", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newBufferedLogger(&buf)

		logger.InfoContext(spanContext(t), "processing receipt")

		entry := decodeLogLine(t, &buf)
		if entry["trace_id"] != "0123456789abcdef0123456789abcdef" {
			t.Errorf("expected trace_id to be injected, got %v", entry["trace_id"])
		}
		if entry["span_id"] != "0123456789abcdef" {
			t.Errorf("expected span_id to be injected, got %v", entry["span_id"])
		}
		if entry["msg"] != "processing receipt" {
			t.Errorf("expected message to be preserved, got %v", entry["msg"])
		}
	})

	t.Run("omits trace fields without an active span", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newBufferedLogger(&buf)

		logger.InfoContext(context.Background(), "processing receipt")

		entry := decodeLogLine(t, &buf)
		if _, ok := entry["trace_id"]; ok {
			t.Error("expected no trace_id without an active span")
		}
		if _, ok := entry["span_id"]; ok {
			t.Error("expected no span_id without an active span")
		}
	})

	t.Run("preserves attributes added with With", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newBufferedLogger(&buf).With("receipt_id", "abc")

		logger.InfoContext(context.Background(), "receipt processed")

		entry := decodeLogLine(t, &buf)
		if entry["receipt_id"] != "abc" {
			t.Errorf("expected receipt_id attribute, got %v", entry["receipt_id"])
		}
	})

	t.Run("respects groups", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newBufferedLogger(&buf).WithGroup("receipt")

		logger.InfoContext(context.Background(), "scored", "points", 109)

		entry := decodeLogLine(t, &buf)
		group, ok := entry["receipt"].(map[string]any)
		if !ok {
			t.Fatalf("expected receipt group, got %v", entry["receipt"])
		}
		if group["points"] != float64(109) {
			t.Errorf("expected points inside group, got %v", group["points"])
		}
	})
}
