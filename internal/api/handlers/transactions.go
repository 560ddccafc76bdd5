package handlers

import (
	"net/http"

	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/service"
)

// TransactionHandler handles transaction log HTTP requests.
type TransactionHandler struct {
	transactionService *service.TransactionService
	dataDir            string
}

// NewTransactionHandler creates a new TransactionHandler. dataDir is the
// directory holding the per-market transaction CSV files for re-imports.
func NewTransactionHandler(transactionService *service.TransactionService, dataDir string) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		dataDir:            dataDir,
	}
}

// List handles GET requests for the transaction log. An optional symbol
// query parameter narrows the result to one symbol.
//
// Endpoint: GET /api/transactions?symbol=AAPL
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")

	if symbol != "" {
		transactions, err := h.transactionService.GetTransactionsBySymbol(symbol)
		if err != nil {
			respondServiceError(w, err, "Failed to retrieve transactions")
			return
		}
		respondJSON(w, http.StatusOK, transactions)
		return
	}

	transactions, err := h.transactionService.GetTransactions()
	if err != nil {
		respondServiceError(w, err, "Failed to retrieve transactions")
		return
	}

	respondJSON(w, http.StatusOK, transactions)
}

// Stats handles GET requests for transaction counts by type and currency.
//
// Endpoint: GET /api/transactions/stats
func (h *TransactionHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.transactionService.GetStats()
	if err != nil {
		respondServiceError(w, err, "Failed to compute transaction stats")
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

// Import handles POST requests appending transactions from a CSV request
// body. The currency query parameter stamps every imported row.
//
// Endpoint: POST /api/transactions/import?currency=USD
// Body: raw CSV (date, stock, type, quantity, price, fees, split_ratio)
func (h *TransactionHandler) Import(w http.ResponseWriter, r *http.Request) {
	currency := r.URL.Query().Get("currency")

	result, err := h.transactionService.ImportCSV(r.Context(), r.Body, currency)
	if err != nil {
		respondServiceError(w, err, "Failed to import transactions")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Reimport handles POST requests replacing the whole stored log with the
// contents of the per-market CSV files in the configured data directory.
//
// Endpoint: POST /api/transactions/reimport
func (h *TransactionHandler) Reimport(w http.ResponseWriter, r *http.Request) {
	result, err := h.transactionService.ImportFromDir(r.Context(), h.dataDir)
	if err != nil {
		respondServiceError(w, err, "Failed to re-import transactions")
		return
	}

	respondJSON(w, http.StatusOK, result)
}
