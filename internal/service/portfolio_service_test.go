package service_test

import (
	"math"
	"testing"
	"time"

	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/repository"
	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/service"
	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/testutil"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// TestPortfolioService_GetPositions tests marking positions to market with
// the latest stored price.
//
// WHY: A symbol the provider has never priced must still appear in the
// positions view with shares and cost basis; only the market fields stay
// nil.
func TestPortfolioService_GetPositions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	transactionRepo := repository.NewTransactionRepository(db)
	priceRepo := repository.NewPriceRepository(db)
	fxService := service.NewFxService(repository.NewFxRateRepository(db), transactionRepo, nil, "USD")
	svc := service.NewPortfolioService(transactionRepo, priceRepo, fxService)

	testutil.NewTransaction("AAPL", "buy").
		WithDate(testutil.Date(2024, time.January, 2)).
		WithQuantity(10).
		WithPrice(100).
		Build(t, db)
	testutil.NewTransaction("MSFT", "buy").
		WithDate(testutil.Date(2024, time.January, 2)).
		WithQuantity(5).
		WithPrice(400).
		Build(t, db)
	testutil.NewPrice("AAPL", testutil.Date(2024, time.June, 1), 150).Build(t, db)

	positions, err := svc.GetPositions()
	if err != nil {
		t.Fatalf("GetPositions failed: %v", err)
	}
	if len(positions) != 2 {
		t.Fatalf("Expected 2 positions, got %d", len(positions))
	}

	bySymbol := map[string]int{}
	for i, pos := range positions {
		bySymbol[pos.Symbol] = i
	}

	priced := positions[bySymbol["AAPL"]]
	if priced.CurrentValue == nil || !almostEqual(*priced.CurrentValue, 1500) {
		t.Errorf("Expected AAPL valued at 1500, got %v", priced.CurrentValue)
	}
	if priced.GainLoss == nil || !almostEqual(*priced.GainLoss, 500) {
		t.Errorf("Expected AAPL gain 500, got %v", priced.GainLoss)
	}

	unpriced := positions[bySymbol["MSFT"]]
	if unpriced.CurrentValue != nil {
		t.Errorf("Expected unpriced MSFT to stay unenriched, got %v", *unpriced.CurrentValue)
	}
	if !almostEqual(unpriced.TotalCost, 2000) {
		t.Errorf("Expected MSFT cost basis 2000, got %v", unpriced.TotalCost)
	}
}

// TestPortfolioService_GetSummary tests multi-currency aggregation with
// stored exchange rates.
func TestPortfolioService_GetSummary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	transactionRepo := repository.NewTransactionRepository(db)
	priceRepo := repository.NewPriceRepository(db)
	fxService := service.NewFxService(repository.NewFxRateRepository(db), transactionRepo, nil, "USD")
	svc := service.NewPortfolioService(transactionRepo, priceRepo, fxService)

	testutil.NewTransaction("AAPL", "buy").
		WithQuantity(10).
		WithPrice(100).
		Build(t, db)
	testutil.NewTransaction("2330", "buy").
		WithQuantity(1000).
		WithPrice(0.9).
		WithCurrency("TWD").
		Build(t, db)
	testutil.NewPrice("AAPL", testutil.Date(2024, time.June, 1), 100).Build(t, db)
	testutil.NewPrice("2330", testutil.Date(2024, time.June, 1), 1).Build(t, db)
	testutil.NewExchangeRate("TWD", "USD", 0.03).Build(t, db)

	summary, err := svc.GetSummary("")
	if err != nil {
		t.Fatalf("GetSummary failed: %v", err)
	}

	// 10 * 100 USD + 1000 * 1 TWD * 0.03 = 1030.
	if !almostEqual(summary.TotalValue, 1030) {
		t.Errorf("Expected total value 1030, got %v", summary.TotalValue)
	}

	twd, ok := summary.ByCurrency["TWD"]
	if !ok {
		t.Fatal("Expected a TWD bucket")
	}
	if !almostEqual(twd.Value, 1000) {
		t.Errorf("Expected native TWD bucket 1000, got %v", twd.Value)
	}
}

// TestPortfolioService_GetPositionHistory tests that closed positions stay
// visible in the history view.
func TestPortfolioService_GetPositionHistory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	transactionRepo := repository.NewTransactionRepository(db)
	priceRepo := repository.NewPriceRepository(db)
	fxService := service.NewFxService(repository.NewFxRateRepository(db), transactionRepo, nil, "USD")
	svc := service.NewPortfolioService(transactionRepo, priceRepo, fxService)

	testutil.NewTransaction("AAPL", "buy").
		WithDate(testutil.Date(2024, time.January, 2)).
		WithQuantity(10).
		WithPrice(100).
		Build(t, db)
	testutil.NewTransaction("AAPL", "sell").
		WithDate(testutil.Date(2024, time.March, 2)).
		WithQuantity(10).
		WithPrice(120).
		Build(t, db)

	history, err := svc.GetPositionHistory()
	if err != nil {
		t.Fatalf("GetPositionHistory failed: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("Expected 1 history entry, got %d", len(history))
	}
	entry := history[0]
	if entry.Shares != 0 {
		t.Errorf("Expected closed position, got %v shares", entry.Shares)
	}
	if !almostEqual(entry.RealizedPnl, 200) {
		t.Errorf("Expected realized pnl 200, got %v", entry.RealizedPnl)
	}
}
