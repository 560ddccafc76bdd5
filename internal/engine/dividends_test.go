package engine_test

import (
	"testing"

	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/engine"
	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/model"
)

// TestSummarizeDividends tests dividend aggregation and the trailing yield.
//
// WHY: The yield must be nil (unknown), not zero, whenever there are no
// dividends or no position value; the UI renders the two cases differently.
func TestSummarizeDividends(t *testing.T) {
	now := date(2024, 7, 1)

	t.Run("no dividends yields empty summary with nil yield", func(t *testing.T) {
		txs := []model.Transaction{
			tx(date(2024, 1, 2), "AAPL", "buy", 10, 100, 0),
		}
		value := 1500.0

		summary := engine.SummarizeDividends(txs, &value, now)

		if summary.Count != 0 {
			t.Errorf("Expected count 0, got %d", summary.Count)
		}
		if summary.TotalDividends != 0 {
			t.Errorf("Expected total 0, got %v", summary.TotalDividends)
		}
		if summary.AnnualYield != nil {
			t.Errorf("Expected nil yield, got %v", *summary.AnnualYield)
		}
	})

	t.Run("payouts group by year and quarter", func(t *testing.T) {
		txs := []model.Transaction{
			tx(date(2023, 2, 10), "AAPL", "dividend", 10, 0.5, 0),
			tx(date(2024, 2, 10), "AAPL", "dividend", 10, 0.6, 0),
			tx(date(2024, 5, 10), "AAPL", "div", 10, 0.6, 0),
		}

		summary := engine.SummarizeDividends(txs, nil, now)

		if summary.Count != 3 {
			t.Errorf("Expected 3 payouts, got %d", summary.Count)
		}
		if !almostEqual(summary.TotalDividends, 17) {
			t.Errorf("Expected total 17, got %v", summary.TotalDividends)
		}
		if !almostEqual(summary.ByYear[2024], 12) {
			t.Errorf("Expected 12 in 2024, got %v", summary.ByYear[2024])
		}
		if !almostEqual(summary.ByQuarter["2024-Q2"], 6) {
			t.Errorf("Expected 6 in 2024-Q2, got %v", summary.ByQuarter["2024-Q2"])
		}
	})

	t.Run("trailing yield uses last 12 months against current value", func(t *testing.T) {
		txs := []model.Transaction{
			tx(date(2022, 2, 10), "AAPL", "dividend", 10, 5, 0), // outside window
			tx(date(2024, 2, 10), "AAPL", "dividend", 10, 5, 0), // inside window
		}
		value := 1000.0

		summary := engine.SummarizeDividends(txs, &value, now)

		if !almostEqual(summary.Last12Months, 50) {
			t.Errorf("Expected 50 in trailing window, got %v", summary.Last12Months)
		}
		if summary.AnnualYield == nil {
			t.Fatal("Expected a yield")
		}
		if !almostEqual(*summary.AnnualYield, 5) {
			t.Errorf("Expected 5%% yield, got %v", *summary.AnnualYield)
		}
	})

	t.Run("zero current value suppresses yield", func(t *testing.T) {
		txs := []model.Transaction{
			tx(date(2024, 2, 10), "AAPL", "dividend", 10, 5, 0),
		}
		zero := 0.0

		summary := engine.SummarizeDividends(txs, &zero, now)

		if summary.AnnualYield != nil {
			t.Errorf("Expected nil yield for zero value, got %v", *summary.AnnualYield)
		}
	})
}

// TestExtractEvents tests the classified transaction timeline.
func TestExtractEvents(t *testing.T) {
	split := tx(date(2024, 3, 2), "AAPL", "split", 0, 0, 0)
	split.SplitRatio = 2
	txs := []model.Transaction{
		tx(date(2024, 1, 2), "AAPL", "buy", 10, 100, 0),
		tx(date(2024, 2, 2), "AAPL", "dividend", 10, 0.5, 0),
		split,
		tx(date(2024, 4, 2), "AAPL", "sell", 5, 60, 0),
		tx(date(2024, 5, 2), "AAPL", "transfer", 1, 1, 0), // unrecognized
	}

	events := engine.ExtractEvents(txs)

	if len(events) != 4 {
		t.Fatalf("Expected 4 events (unrecognized skipped), got %d", len(events))
	}

	wantTypes := []engine.EventType{engine.EventBuy, engine.EventDividend, engine.EventSplit, engine.EventSell}
	wantShares := []float64{10, 10, 20, 15}
	for i, event := range events {
		if event.Type != wantTypes[i] {
			t.Errorf("Event %d: expected type %s, got %s", i, wantTypes[i], event.Type)
		}
		if !almostEqual(event.SharesAfter, wantShares[i]) {
			t.Errorf("Event %d: expected %v shares after, got %v", i, wantShares[i], event.SharesAfter)
		}
	}
}

// TestComputeStats tests the transaction log counters.
func TestComputeStats(t *testing.T) {
	split := tx(date(2024, 3, 2), "AAPL", "split", 0, 0, 0)
	split.SplitRatio = 2
	jp := tx(date(2024, 4, 2), "7203", "buy", 100, 2000, 0)
	jp.Currency = "JPY"
	txs := []model.Transaction{
		tx(date(2024, 1, 2), "AAPL", "buy", 10, 100, 0),
		tx(date(2024, 2, 2), "AAPL", "dividend", 10, 0.5, 0),
		split,
		jp,
	}

	stats := engine.ComputeStats(txs, nil)

	if stats.Total != 4 {
		t.Errorf("Expected total 4, got %d", stats.Total)
	}
	if stats.Buys != 2 || stats.Dividends != 1 || stats.Splits != 1 {
		t.Errorf("Unexpected type counts: %+v", stats)
	}
	if stats.ByCurrency["USD"] != 3 || stats.ByCurrency["JPY"] != 1 {
		t.Errorf("Unexpected currency counts: %+v", stats.ByCurrency)
	}
	// Allowlisted currencies are pre-seeded even when absent.
	if count, ok := stats.ByCurrency["HKD"]; !ok || count != 0 {
		t.Errorf("Expected HKD pre-seeded at 0, got %v (present %v)", count, ok)
	}
}
