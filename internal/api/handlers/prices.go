package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/service"
)

// PriceHandler handles price data HTTP requests.
type PriceHandler struct {
	priceService *service.PriceService
}

// NewPriceHandler creates a new PriceHandler
func NewPriceHandler(priceService *service.PriceService) *PriceHandler {
	return &PriceHandler{
		priceService: priceService,
	}
}

// Get handles GET requests for a symbol's stored price history.
//
// Endpoint: GET /api/prices/{symbol}
func (h *PriceHandler) Get(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	prices, err := h.priceService.GetPrices(symbol)
	if err != nil {
		respondServiceError(w, err, "Failed to retrieve prices")
		return
	}

	respondJSON(w, http.StatusOK, prices)
}

// UpdateAll handles POST requests refreshing the current price of every
// symbol in the transaction log.
//
// Endpoint: POST /api/prices/update
func (h *PriceHandler) UpdateAll(w http.ResponseWriter, r *http.Request) {
	result, err := h.priceService.UpdateAll(r.Context())
	if err != nil {
		respondServiceError(w, err, "Failed to update prices")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// UpdateSymbolResponse reports a single-symbol price refresh.
type UpdateSymbolResponse struct {
	Symbol   string  `json:"symbol"`
	Date     string  `json:"date"`
	Close    float64 `json:"close"`
	NewPrice bool    `json:"newPrice"`
}

// UpdateSymbol handles POST requests refreshing one symbol's current price.
//
// Endpoint: POST /api/prices/{symbol}/update
func (h *PriceHandler) UpdateSymbol(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	price, added, err := h.priceService.UpdateCurrent(r.Context(), symbol)
	if err != nil {
		respondServiceError(w, err, "Failed to update price")
		return
	}

	respondJSON(w, http.StatusOK, UpdateSymbolResponse{
		Symbol:   symbol,
		Date:     price.Date.Format("2006-01-02"),
		Close:    price.Close,
		NewPrice: added,
	})
}

// BackfillResponse reports how many historical price rows were added.
type BackfillResponse struct {
	Symbol      string `json:"symbol"`
	PricesAdded int    `json:"pricesAdded"`
}

// Backfill handles POST requests filling in a symbol's missing historical
// prices from its earliest transaction through yesterday.
//
// Endpoint: POST /api/prices/{symbol}/backfill
func (h *PriceHandler) Backfill(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	added, err := h.priceService.BackfillHistory(r.Context(), symbol)
	if err != nil {
		respondServiceError(w, err, "Failed to backfill prices")
		return
	}

	respondJSON(w, http.StatusOK, BackfillResponse{
		Symbol:      symbol,
		PricesAdded: added,
	})
}
