package http

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/mivanovic/receipt-points/internal/events"
	idemmemory "github.com/mivanovic/receipt-points/internal/idempotency/memory"
	"github.com/mivanovic/receipt-points/internal/receipts/adapters/memory"
	"github.com/mivanovic/receipt-points/internal/receipts/app"
	receiptmetrics "github.com/mivanovic/receipt-points/internal/receipts/metrics"
	"go.opentelemetry.io/otel/metric/noop"
)

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()

	meter := noop.NewMeterProvider().Meter("test")
	metrics, err := receiptmetrics.NewMetrics(meter)
	if err != nil {
		t.Fatalf("create metrics: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := app.NewService(
		memory.NewRepository(),
		events.NewNoopPublisher(),
		idemmemory.NewStore(),
		logger,
		metrics,
	)

	mux := http.NewServeMux()
	NewHandler(service).Register(mux)
	return mux
}

const validReceipt = `{
	"retailer": "M&M Corner Market",
	"purchaseDate": "2022-03-20",
	"purchaseTime": "14:33",
	"items": [
		{"shortDescription": "Gatorade", "price": "2.25"},
		{"shortDescription": "Gatorade", "price": "2.25"},
		{"shortDescription": "Gatorade", "price": "2.25"},
		{"shortDescription": "Gatorade", "price": "2.25"}
	],
	"total": "9.00"
}`

func postReceipt(t *testing.T, mux *http.ServeMux, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/receipts/process", strings.NewReader(body))
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func getPoints(t *testing.T, mux *http.ServeMux, id string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/receipts/%s/points", id), nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeID(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var payload struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode id response: %v", err)
	}
	return payload.ID
}

func TestProcessReceipt(t *testing.T) {
	t.Run("returns 201 with a UUID for a valid receipt", func(t *testing.T) {
		mux := newTestMux(t)

		rec := postReceipt(t, mux, validReceipt, nil)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
		}
		id := decodeID(t, rec)
		if err := uuid.Validate(id); err != nil {
			t.Errorf("expected UUID id, got %q: %v", id, err)
		}
	})

	t.Run("points are retrievable under the returned id", func(t *testing.T) {
		mux := newTestMux(t)

		id := decodeID(t, postReceipt(t, mux, validReceipt, nil))
		rec := getPoints(t, mux, id)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var payload struct {
			Points int64 `json:"points"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
			t.Fatalf("decode points response: %v", err)
		}
		if payload.Points != 109 {
			t.Errorf("expected 109 points, got %d", payload.Points)
		}
	})

	t.Run("repeated submissions yield distinct ids", func(t *testing.T) {
		mux := newTestMux(t)

		first := decodeID(t, postReceipt(t, mux, validReceipt, nil))
		second := decodeID(t, postReceipt(t, mux, validReceipt, nil))

		if first == second {
			t.Errorf("expected distinct ids, got %q twice", first)
		}
	})

	t.Run("rejects structurally invalid receipts with the fixed message", func(t *testing.T) {
		invalid := []struct {
			name string
			body string
		}{
			{"malformed json", `{`},
			{"empty object", `{}`},
			{"missing retailer", `{"purchaseDate":"2022-01-01","purchaseTime":"13:01","items":[{"shortDescription":"Pepsi","price":"1.25"}],"total":"1.25"}`},
			{"retailer with invalid characters", `{"retailer":"Target!!!","purchaseDate":"2022-01-01","purchaseTime":"13:01","items":[{"shortDescription":"Pepsi","price":"1.25"}],"total":"1.25"}`},
			{"total without cents", `{"retailer":"Target","purchaseDate":"2022-01-01","purchaseTime":"13:01","items":[{"shortDescription":"Pepsi","price":"1.25"}],"total":"1"}`},
			{"total with one decimal", `{"retailer":"Target","purchaseDate":"2022-01-01","purchaseTime":"13:01","items":[{"shortDescription":"Pepsi","price":"1.25"}],"total":"1.2"}`},
			{"price with invalid format", `{"retailer":"Target","purchaseDate":"2022-01-01","purchaseTime":"13:01","items":[{"shortDescription":"Pepsi","price":"abc"}],"total":"1.25"}`},
			{"impossible date", `{"retailer":"Target","purchaseDate":"2022-13-45","purchaseTime":"13:01","items":[{"shortDescription":"Pepsi","price":"1.25"}],"total":"1.25"}`},
			{"impossible time", `{"retailer":"Target","purchaseDate":"2022-01-01","purchaseTime":"25:61","items":[{"shortDescription":"Pepsi","price":"1.25"}],"total":"1.25"}`},
			{"missing items", `{"retailer":"Target","purchaseDate":"2022-01-01","purchaseTime":"13:01","total":"1.25"}`},
			{"item description with invalid characters", `{"retailer":"Target","purchaseDate":"2022-01-01","purchaseTime":"13:01","items":[{"shortDescription":"Pepsi & Co","price":"1.25"}],"total":"1.25"}`},
		}

		for _, tt := range invalid {
			t.Run(tt.name, func(t *testing.T) {
				mux := newTestMux(t)

				rec := postReceipt(t, mux, tt.body, nil)

				if rec.Code != http.StatusBadRequest {
					t.Fatalf("expected status 400, got %d: %s", rec.Code, rec.Body.String())
				}
				if !strings.Contains(rec.Body.String(), invalidReceiptMessage) {
					t.Errorf("expected fixed message %q, got %s", invalidReceiptMessage, rec.Body.String())
				}
			})
		}
	})

	t.Run("rejects non-POST methods", func(t *testing.T) {
		mux := newTestMux(t)

		req := httptest.NewRequest(http.MethodGet, "/receipts/process", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected status 405, got %d", rec.Code)
		}
	})

	t.Run("a 14:00 purchase earns no afternoon bonus but 14:01 does", func(t *testing.T) {
		mux := newTestMux(t)
		const receiptAt = `{"retailer":"&","purchaseDate":"2022-01-02","purchaseTime":"%s","items":[{"shortDescription":"x","price":"1.01"}],"total":"10.01"}`

		fetch := func(purchaseTime string) int64 {
			id := decodeID(t, postReceipt(t, mux, fmt.Sprintf(receiptAt, purchaseTime), nil))
			rec := getPoints(t, mux, id)
			if rec.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d", rec.Code)
			}
			var payload struct {
				Points int64 `json:"points"`
			}
			if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
				t.Fatalf("decode points response: %v", err)
			}
			return payload.Points
		}

		if got := fetch("14:00"); got != 0 {
			t.Errorf("14:00 receipt: expected 0 points, got %d", got)
		}
		if got := fetch("14:01"); got != 10 {
			t.Errorf("14:01 receipt: expected 10 points, got %d", got)
		}
	})
}

func TestProcessReceiptIdempotency(t *testing.T) {
	t.Run("replays the original response for a reused key", func(t *testing.T) {
		mux := newTestMux(t)
		headers := map[string]string{"Idempotency-Key": "key-1"}

		first := postReceipt(t, mux, validReceipt, headers)
		second := postReceipt(t, mux, validReceipt, headers)

		if second.Code != http.StatusCreated {
			t.Fatalf("expected status 201 on replay, got %d", second.Code)
		}
		if decodeID(t, first) != decodeID(t, second) {
			t.Error("expected the same id for a reused idempotency key")
		}
	})

	t.Run("different keys ingest different receipts", func(t *testing.T) {
		mux := newTestMux(t)

		first := postReceipt(t, mux, validReceipt, map[string]string{"Idempotency-Key": "key-1"})
		second := postReceipt(t, mux, validReceipt, map[string]string{"Idempotency-Key": "key-2"})

		if decodeID(t, first) == decodeID(t, second) {
			t.Error("expected distinct ids for distinct idempotency keys")
		}
	})
}

func TestGetPoints(t *testing.T) {
	t.Run("returns 404 with the fixed message for an unknown id", func(t *testing.T) {
		mux := newTestMux(t)

		rec := getPoints(t, mux, "adb6b560-0eef-42bc-9d16-df48f30e89b2")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), receiptNotFoundMessage) {
			t.Errorf("expected fixed message %q, got %s", receiptNotFoundMessage, rec.Body.String())
		}
	})

	t.Run("returns 404 for a malformed id", func(t *testing.T) {
		mux := newTestMux(t)

		rec := getPoints(t, mux, "not-a-uuid")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), receiptNotFoundMessage) {
			t.Errorf("expected fixed message %q, got %s", receiptNotFoundMessage, rec.Body.String())
		}
	})

	t.Run("returns 404 when the points suffix is missing", func(t *testing.T) {
		mux := newTestMux(t)

		req := httptest.NewRequest(http.MethodGet, "/receipts/adb6b560-0eef-42bc-9d16-df48f30e89b2", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", rec.Code)
		}
	})

	t.Run("rejects non-GET methods", func(t *testing.T) {
		mux := newTestMux(t)

		req := httptest.NewRequest(http.MethodPost, "/receipts/adb6b560-0eef-42bc-9d16-df48f30e89b2/points", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected status 405, got %d", rec.Code)
		}
	})
}
