package handlers

import (
	"net/http"

	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/service"
)

// FxHandler handles exchange rate HTTP requests.
type FxHandler struct {
	fxService *service.FxService
}

// NewFxHandler creates a new FxHandler
func NewFxHandler(fxService *service.FxService) *FxHandler {
	return &FxHandler{
		fxService: fxService,
	}
}

// List handles GET requests for stored exchange rates. When both from and to
// are given, only the latest rate for that directed pair is returned.
//
// Endpoint: GET /api/fx?from=TWD&to=USD
func (h *FxHandler) List(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")

	if from != "" || to != "" {
		rate, err := h.fxService.GetLatestRate(from, to)
		if err != nil {
			respondServiceError(w, err, "Failed to retrieve exchange rate")
			return
		}
		respondJSON(w, http.StatusOK, rate)
		return
	}

	rates, err := h.fxService.GetRates()
	if err != nil {
		respondServiceError(w, err, "Failed to retrieve exchange rates")
		return
	}

	respondJSON(w, http.StatusOK, rates)
}

// UpdateResponse reports an exchange rate refresh.
type UpdateResponse struct {
	RatesStored int `json:"ratesStored"`
}

// Update handles POST requests fetching current rates for every traded
// currency against the base.
//
// Endpoint: POST /api/fx/update
func (h *FxHandler) Update(w http.ResponseWriter, r *http.Request) {
	stored, err := h.fxService.UpdateRates(r.Context())
	if err != nil {
		respondServiceError(w, err, "Failed to update exchange rates")
		return
	}

	respondJSON(w, http.StatusOK, UpdateResponse{RatesStored: stored})
}
