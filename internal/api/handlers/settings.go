package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/service"
)

// SettingsHandler handles application settings HTTP requests. Values
// flagged encrypted are stored as fernet tokens and decrypted on read.
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
	}
}

// SettingResponse is one setting key/value pair.
type SettingResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Get handles GET requests for one setting value.
//
// Endpoint: GET /api/settings/{key}
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	value, err := h.settingsService.Get(key)
	if err != nil {
		respondServiceError(w, err, "Failed to retrieve setting")
		return
	}

	respondJSON(w, http.StatusOK, SettingResponse{Key: key, Value: value})
}

// SetSettingRequest is the body of a settings write.
type SetSettingRequest struct {
	Value   string `json:"value"`
	Encrypt bool   `json:"encrypt"`
}

// Set handles PUT requests storing a setting value, optionally encrypted.
//
// Endpoint: PUT /api/settings/{key}
func (h *SettingsHandler) Set(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var req SetSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if err := h.settingsService.Set(r.Context(), key, req.Value, req.Encrypt); err != nil {
		respondServiceError(w, err, "Failed to store setting")
		return
	}

	respondJSON(w, http.StatusOK, SettingResponse{Key: key, Value: req.Value})
}
