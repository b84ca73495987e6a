package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/md-rashed-zaman/storefront/libs/httpx"
	"github.com/md-rashed-zaman/storefront/services/delivery-service/internal/delivery"
	"github.com/md-rashed-zaman/storefront/services/delivery-service/internal/model"
)

type DeliveryHandler struct {
	svc    *delivery.Service
	logger *slog.Logger
}

func NewDeliveryHandler(svc *delivery.Service, logger *slog.Logger) *DeliveryHandler {
	return &DeliveryHandler{svc: svc, logger: logger}
}

func (h *DeliveryHandler) Status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	status, err := h.svc.Status(r.Context(), r.URL.Query().Get("merchant_id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, status)
}

func (h *DeliveryHandler) Slots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	req, err := quoteRequestFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	resp, err := h.svc.Slots(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func (h *DeliveryHandler) Quote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req model.QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	resp, err := h.svc.Quote(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func (h *DeliveryHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, delivery.ErrInvalidRequest) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.logger.Error("delivery evaluation failed", "err", err, "request_id", httpx.RequestIDFromContext(r.Context()))
	http.Error(w, "failed to evaluate delivery", http.StatusInternalServerError)
}

func quoteRequestFromQuery(r *http.Request) (model.QuoteRequest, error) {
	q := r.URL.Query()
	req := model.QuoteRequest{
		MerchantID:   q.Get("merchant_id"),
		City:         q.Get("city"),
		Neighborhood: q.Get("neighborhood"),
		Date:         q.Get("date"),
	}
	if raw := strings.TrimSpace(q.Get("distance_km")); raw != "" {
		km, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return model.QuoteRequest{}, errors.New("invalid distance_km")
		}
		req.DistanceKm = &km
	}
	return req, nil
}
