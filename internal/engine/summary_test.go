package engine_test

import (
	"testing"

	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/engine"
	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/model"
)

// rateTable is a minimal ConvertFunc backed by a per-currency multiplier
// into the base.
func rateTable(rates map[string]float64) engine.ConvertFunc {
	return func(amount float64, from string) (float64, bool) {
		rate, ok := rates[from]
		if !ok {
			return 0, false
		}
		return amount * rate, true
	}
}

// TestSummarize tests the multi-currency portfolio summary.
//
// WHY: The summary must keep native buckets untouched while converting
// grand totals, and a missing rate must degrade to a zero contribution
// instead of failing the whole summary.
func TestSummarize(t *testing.T) {
	value := func(v float64) *float64 { return &v }

	t.Run("buckets hold native values, totals converted", func(t *testing.T) {
		positions := []model.Position{
			{Symbol: "AAPL", Currency: "USD", TotalCost: 90, CurrentValue: value(100)},
			{Symbol: "2330", Currency: "TWD", TotalCost: 900, CurrentValue: value(1000)},
		}
		convert := rateTable(map[string]float64{"USD": 1, "TWD": 0.03})

		summary := engine.Summarize(positions, "USD", convert)

		twd := summary.ByCurrency["TWD"]
		if !almostEqual(twd.Value, 1000) {
			t.Errorf("Expected native TWD bucket value 1000, got %v", twd.Value)
		}
		if twd.Positions != 1 {
			t.Errorf("Expected 1 TWD position, got %d", twd.Positions)
		}

		// 100 USD + 1000 TWD * 0.03 = 130.
		if !almostEqual(summary.TotalValue, 130) {
			t.Errorf("Expected total value 130, got %v", summary.TotalValue)
		}
		if !almostEqual(summary.TotalCost, 117) {
			t.Errorf("Expected total cost 117, got %v", summary.TotalCost)
		}
	})

	t.Run("position without market value falls back to cost", func(t *testing.T) {
		positions := []model.Position{
			{Symbol: "AAPL", Currency: "USD", TotalCost: 500},
		}
		convert := rateTable(map[string]float64{"USD": 1})

		summary := engine.Summarize(positions, "USD", convert)

		if !almostEqual(summary.TotalValue, 500) {
			t.Errorf("Expected cost fallback value 500, got %v", summary.TotalValue)
		}
		if !almostEqual(summary.TotalGainLoss, 0) {
			t.Errorf("Expected zero gain for cost-valued position, got %v", summary.TotalGainLoss)
		}
	})

	t.Run("unconvertible currency contributes zero but keeps its bucket", func(t *testing.T) {
		positions := []model.Position{
			{Symbol: "AAPL", Currency: "USD", TotalCost: 100, CurrentValue: value(100)},
			{Symbol: "7203", Currency: "JPY", TotalCost: 50000, CurrentValue: value(60000)},
		}
		convert := rateTable(map[string]float64{"USD": 1})

		summary := engine.Summarize(positions, "USD", convert)

		if !almostEqual(summary.TotalValue, 100) {
			t.Errorf("Expected JPY to contribute zero, total value 100, got %v", summary.TotalValue)
		}
		jpy, ok := summary.ByCurrency["JPY"]
		if !ok {
			t.Fatal("Expected JPY bucket to exist despite missing rate")
		}
		if !almostEqual(jpy.Value, 60000) {
			t.Errorf("Expected native JPY bucket value 60000, got %v", jpy.Value)
		}
	})

	t.Run("gain percent guard on zero cost", func(t *testing.T) {
		summary := engine.Summarize(nil, "USD", rateTable(map[string]float64{"USD": 1}))

		if summary.TotalGainLossPercent != 0 {
			t.Errorf("Expected 0 percent on empty portfolio, got %v", summary.TotalGainLossPercent)
		}
	})
}
