package handlers

import (
	"net/http"
	"time"

	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/service"
)

// PortfolioHandler handles portfolio-level HTTP requests: positions,
// position history, the multi-currency summary and NAV history.
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
	navService       *service.NavService
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(portfolioService *service.PortfolioService, navService *service.NavService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
		navService:       navService,
	}
}

// Positions handles GET requests for current open positions marked to
// market with the latest stored prices.
//
// Endpoint: GET /api/portfolio/positions
func (h *PortfolioHandler) Positions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.portfolioService.GetPositions()
	if err != nil {
		respondServiceError(w, err, "Failed to retrieve positions")
		return
	}

	respondJSON(w, http.StatusOK, positions)
}

// History handles GET requests for per-position lifetime entries, including
// closed positions, sorted by last activity descending.
//
// Endpoint: GET /api/portfolio/history
func (h *PortfolioHandler) History(w http.ResponseWriter, r *http.Request) {
	history, err := h.portfolioService.GetPositionHistory()
	if err != nil {
		respondServiceError(w, err, "Failed to retrieve position history")
		return
	}

	respondJSON(w, http.StatusOK, history)
}

// Summary handles GET requests for the portfolio summary: native
// per-currency buckets plus totals converted into the base currency. An
// optional base query parameter overrides the configured reporting currency.
//
// Endpoint: GET /api/portfolio/summary?base=USD
func (h *PortfolioHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.portfolioService.GetSummary(r.URL.Query().Get("base"))
	if err != nil {
		respondServiceError(w, err, "Failed to get portfolio summary")
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// Nav handles GET requests for daily NAV history. Optional start and end
// query parameters bound the range; the default is the trailing year.
//
// Endpoint: GET /api/portfolio/nav?start=2024-01-01&end=2024-12-31
func (h *PortfolioHandler) Nav(w http.ResponseWriter, r *http.Request) {
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

	now := time.Now().UTC()
	if endDate.IsZero() {
		endDate = now
	}
	if startDate.IsZero() {
		startDate = endDate.AddDate(-1, 0, 0)
	}
	if endDate.Before(startDate) {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "end date before start date"})
		return
	}

	snapshots, err := h.navService.GetHistory(startDate, endDate)
	if err != nil {
		respondServiceError(w, err, "Failed to retrieve NAV history")
		return
	}

	respondJSON(w, http.StatusOK, snapshots)
}

// NavRebuildResponse reports the outcome of a snapshot rebuild.
type NavRebuildResponse struct {
	Days int `json:"days"`
}

// NavRebuild handles POST requests to recompute and replace the stored NAV
// snapshots from the transaction log.
//
// Endpoint: POST /api/portfolio/nav/rebuild
func (h *PortfolioHandler) NavRebuild(w http.ResponseWriter, r *http.Request) {
	days, err := h.navService.Rebuild(r.Context())
	if err != nil {
		respondServiceError(w, err, "Failed to rebuild NAV snapshots")
		return
	}

	respondJSON(w, http.StatusOK, NavRebuildResponse{Days: days})
}
