package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/mivanovic/receipt-points/internal/receipts/app"
	"github.com/mivanovic/receipt-points/internal/receipts/ports"
)

// Fixed user-facing messages. Clients match on these, so they never vary
// with the underlying error.
const (
	invalidReceiptMessage  = "The receipt is invalid."
	receiptNotFoundMessage = "No receipt found for that ID."
)

// Handler exposes HTTP endpoints for receipt operations.
type Handler struct {
	service  *app.Service
	validate *receiptValidator
}

// NewHandler constructs a Handler.
func NewHandler(service *app.Service) *Handler {
	return &Handler{service: service, validate: newReceiptValidator()}
}

// Register binds the receipt handlers to the provided ServeMux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/receipts/process", h.handleProcess)
	mux.HandleFunc("/receipts/", h.handleReceiptByID)
}

func (h *Handler) handleProcess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	h.processReceipt(w, r)
}

func (h *Handler) handleReceiptByID(w http.ResponseWriter, r *http.Request) {
	trimmed := strings.TrimPrefix(r.URL.Path, "/receipts/")
	id, ok := strings.CutSuffix(trimmed, "/points")
	if !ok || id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, receiptNotFoundMessage)
		return
	}

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	h.getPoints(w, r, id)
}

func (h *Handler) processReceipt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Replays are opt-in: without the header every request ingests a fresh
	// receipt under a fresh id.
	idemKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	if idemKey != "" {
		stored, err := h.service.GetIdempotentResponse(ctx, idemKey)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if stored != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(stored.StatusCode)
			_, _ = w.Write(stored.Body)
			return
		}
	}

	var payload receiptRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, invalidReceiptMessage)
		return
	}

	receipt, err := h.validate.toDomain(payload)
	if err != nil {
		writeError(w, http.StatusBadRequest, invalidReceiptMessage)
		return
	}

	record, err := h.service.ProcessReceipt(ctx, receipt)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	body, err := json.Marshal(map[string]string{"id": record.ID})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if idemKey != "" {
		stored := ports.StoredResponse{
			StatusCode: http.StatusCreated,
			Body:       body,
			ReceiptID:  record.ID,
		}
		if err := h.service.SaveIdempotentResponse(ctx, idemKey, stored); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write(body)
}

func (h *Handler) getPoints(w http.ResponseWriter, r *http.Request, id string) {
	points, err := h.service.GetPoints(r.Context(), id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			writeError(w, http.StatusNotFound, receiptNotFoundMessage)
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"points": points})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
