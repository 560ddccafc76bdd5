package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/api/handlers"
	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/model"
	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/repository"
	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/service"
	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/testutil"
)

// TestTransactionHandler tests the transaction endpoints end to end against
// an in-memory database.
//
// WHY: The handlers translate service sentinels into HTTP statuses; these
// tests pin the contract the desktop frontend relies on.
func TestTransactionHandler(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := service.NewTransactionService(repository.NewTransactionRepository(db))
	handler := handlers.NewTransactionHandler(svc, t.TempDir())

	testutil.NewTransaction("AAPL", "buy").
		WithDate(testutil.Date(2024, time.January, 2)).
		Build(t, db)
	testutil.NewTransaction("2330", "buy").
		WithDate(testutil.Date(2024, time.February, 2)).
		WithCurrency("TWD").
		Build(t, db)

	t.Run("list returns the full log", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
		w := httptest.NewRecorder()

		handler.List(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}
		var transactions []model.Transaction
		if err := json.NewDecoder(w.Body).Decode(&transactions); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(transactions) != 2 {
			t.Errorf("Expected 2 transactions, got %d", len(transactions))
		}
	})

	t.Run("list filters by symbol", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/transactions?symbol=AAPL", nil)
		w := httptest.NewRecorder()

		handler.List(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}
		var transactions []model.Transaction
		if err := json.NewDecoder(w.Body).Decode(&transactions); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(transactions) != 1 || transactions[0].Symbol != "AAPL" {
			t.Errorf("Unexpected filtered result: %+v", transactions)
		}
	})

	t.Run("import without currency is a 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/transactions/import", strings.NewReader(""))
		w := httptest.NewRecorder()

		handler.Import(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("import appends parsed rows", func(t *testing.T) {
		csv := "2024-03-02,MSFT,buy,5,400,1,0\nnot-a-date,x,buy,1,1,0,0\n"
		req := httptest.NewRequest(http.MethodPost, "/api/transactions/import?currency=USD", strings.NewReader(csv))
		w := httptest.NewRecorder()

		handler.Import(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}
		var result struct {
			Imported int `json:"imported"`
			Skipped  int `json:"skipped"`
		}
		if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if result.Imported != 1 || result.Skipped != 1 {
			t.Errorf("Expected 1 imported / 1 skipped, got %+v", result)
		}
		testutil.AssertRowCount(t, db, "stock_transaction", 3)
	})

	t.Run("stats counts by type", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/transactions/stats", nil)
		w := httptest.NewRecorder()

		handler.Stats(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}
		var stats model.TransactionStats
		if err := json.NewDecoder(w.Body).Decode(&stats); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if stats.Buys != 3 {
			t.Errorf("Expected 3 buys, got %d", stats.Buys)
		}
	})
}
