package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/service"
)

// StockHandler handles per-symbol detail HTTP requests: metrics, chart
// data, dividend summaries and the transaction event timeline.
type StockHandler struct {
	stockService *service.StockService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stockService *service.StockService) *StockHandler {
	return &StockHandler{
		stockService: stockService,
	}
}

// Metrics handles GET requests for a symbol's risk and return metrics.
//
// Endpoint: GET /api/stocks/{symbol}/metrics
func (h *StockHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	metrics, err := h.stockService.GetMetrics(symbol)
	if err != nil {
		respondServiceError(w, err, "Failed to compute stock metrics")
		return
	}

	respondJSON(w, http.StatusOK, metrics)
}

// Chart handles GET requests for a symbol's merged price and position
// series. Optional start and end query parameters bound the price range.
//
// Endpoint: GET /api/stocks/{symbol}/chart?start=2024-01-01&end=2024-12-31
func (h *StockHandler) Chart(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	startDate, ok := parseDateParam(r, "start")
	if !ok {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid start date"})
		return
	}
	endDate, ok := parseDateParam(r, "end")
	if !ok {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid end date"})
		return
	}

	points, err := h.stockService.GetChart(symbol, startDate, endDate)
	if err != nil {
		respondServiceError(w, err, "Failed to build chart data")
		return
	}

	respondJSON(w, http.StatusOK, points)
}

// Dividends handles GET requests for a symbol's dividend summary.
//
// Endpoint: GET /api/stocks/{symbol}/dividends
func (h *StockHandler) Dividends(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	summary, err := h.stockService.GetDividends(symbol)
	if err != nil {
		respondServiceError(w, err, "Failed to summarize dividends")
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// Events handles GET requests for a symbol's classified transaction
// timeline with running share counts.
//
// Endpoint: GET /api/stocks/{symbol}/events
func (h *StockHandler) Events(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	events, err := h.stockService.GetEvents(symbol)
	if err != nil {
		respondServiceError(w, err, "Failed to extract events")
		return
	}

	respondJSON(w, http.StatusOK, events)
}
