package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/md-rashed-zaman/storefront/libs/httpx"
	"github.com/md-rashed-zaman/storefront/services/delivery-service/internal/model"
	"github.com/md-rashed-zaman/storefront/services/delivery-service/internal/settings"
)

// CacheWriter puts freshly stored settings in front of any stale cached copy.
type CacheWriter interface {
	Remember(ctx context.Context, s model.MerchantSettings) error
}

type SettingsHandler struct {
	store  settings.Store
	cache  CacheWriter
	logger *slog.Logger
}

func NewSettingsHandler(store settings.Store, cache CacheWriter, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{store: store, cache: cache, logger: logger}
}

// merchantIDFromHeader reads the merchant set by the gateway after authentication.
func merchantIDFromHeader(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-Merchant-Id"))
}

func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.Get(w, r)
	case http.MethodPut:
		h.Put(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	merchantID := merchantIDFromHeader(r)
	if merchantID == "" {
		http.Error(w, "missing X-Merchant-Id", http.StatusBadRequest)
		return
	}

	s, err := h.store.Get(r.Context(), merchantID)
	if errors.Is(err, settings.ErrNotFound) {
		http.Error(w, "delivery settings not configured", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("load delivery settings failed", "err", err, "merchant_id", merchantID)
		http.Error(w, "failed to load settings", http.StatusInternalServerError)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, s)
}

func (h *SettingsHandler) Put(w http.ResponseWriter, r *http.Request) {
	merchantID := merchantIDFromHeader(r)
	if merchantID == "" {
		http.Error(w, "missing X-Merchant-Id", http.StatusBadRequest)
		return
	}

	var req model.MerchantSettings
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	if req.MerchantID != "" && strings.TrimSpace(req.MerchantID) != merchantID {
		http.Error(w, "merchant_id does not match X-Merchant-Id", http.StatusBadRequest)
		return
	}
	req.MerchantID = merchantID
	req.Timezone = strings.TrimSpace(req.Timezone)
	if req.Timezone == "" {
		req.Timezone = "UTC"
	}

	if problems := req.Validate(); len(problems) > 0 {
		httpx.WriteJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": problems})
		return
	}

	stored, err := h.store.Replace(r.Context(), req)
	if err != nil {
		h.logger.Error("replace delivery settings failed", "err", err, "merchant_id", merchantID)
		http.Error(w, "failed to save settings", http.StatusInternalServerError)
		return
	}
	if h.cache != nil {
		if err := h.cache.Remember(r.Context(), stored); err != nil {
			h.logger.Warn("settings cache update failed", "err", err, "merchant_id", merchantID)
		}
	}
	h.logger.Info("delivery settings replaced", "merchant_id", merchantID, "version", stored.Version)
	httpx.WriteJSON(w, http.StatusOK, stored)
}
