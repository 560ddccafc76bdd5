package engine_test

import (
	"testing"
	"time"

	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/engine"
	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/model"
)

func price(d time.Time, close float64) model.Price {
	return model.Price{Symbol: "AAPL", Date: d, Close: close}
}

// TestMaxDrawdown tests peak-to-trough tracking.
//
// WHY: Drawdown must report the decline relative to the peak in effect at
// the trough, not the final peak, and must handle monotonic series.
func TestMaxDrawdown(t *testing.T) {
	t.Run("single drawdown", func(t *testing.T) {
		prices := []model.Price{
			price(date(2024, 1, 1), 100),
			price(date(2024, 1, 2), 120),
			price(date(2024, 1, 3), 90),
		}

		dd := engine.MaxDrawdown(prices)

		if !almostEqual(dd.Amount, 30) {
			t.Errorf("Expected drawdown amount 30, got %v", dd.Amount)
		}
		if !almostEqual(dd.Percent, 25) {
			t.Errorf("Expected drawdown percent 25, got %v", dd.Percent)
		}
	})

	t.Run("monotonic rise has zero drawdown", func(t *testing.T) {
		prices := []model.Price{
			price(date(2024, 1, 1), 100),
			price(date(2024, 1, 2), 110),
			price(date(2024, 1, 3), 120),
		}

		dd := engine.MaxDrawdown(prices)

		if dd.Amount != 0 || dd.Percent != 0 {
			t.Errorf("Expected zero drawdown, got %+v", dd)
		}
	})
}

// TestVolatility tests the annualized standard deviation of daily returns.
func TestVolatility(t *testing.T) {
	t.Run("too few points yields zero", func(t *testing.T) {
		prices := []model.Price{
			price(date(2024, 1, 1), 100),
			price(date(2024, 1, 2), 101),
		}

		// One usable return is below the two-return minimum.
		if v := engine.Volatility(prices); v != 0 {
			t.Errorf("Expected 0 volatility, got %v", v)
		}
	})

	t.Run("flat series has zero volatility", func(t *testing.T) {
		prices := []model.Price{
			price(date(2024, 1, 1), 100),
			price(date(2024, 1, 2), 100),
			price(date(2024, 1, 3), 100),
			price(date(2024, 1, 4), 100),
		}

		if v := engine.Volatility(prices); !almostEqual(v, 0) {
			t.Errorf("Expected 0 volatility for flat series, got %v", v)
		}
	})
}

// TestAnnualizedReturn tests compounding of a total return over a holding
// period.
func TestAnnualizedReturn(t *testing.T) {
	t.Run("zero holding days yields zero", func(t *testing.T) {
		if r := engine.AnnualizedReturn(50, 0); r != 0 {
			t.Errorf("Expected 0 for zero holding days, got %v", r)
		}
	})

	t.Run("one year round trip is identity", func(t *testing.T) {
		r := engine.AnnualizedReturn(10, 365)
		// 365 days is within rounding of one 365.25-day year.
		if r < 9.9 || r > 10.2 {
			t.Errorf("Expected roughly 10, got %v", r)
		}
	})
}

// TestBestWorstDay tests single-day extremes.
func TestBestWorstDay(t *testing.T) {
	prices := []model.Price{
		price(date(2024, 1, 1), 100),
		price(date(2024, 1, 2), 110), // +10%
		price(date(2024, 1, 3), 99),  // -10%
	}

	best, worst, ok := engine.BestWorstDay(prices)
	if !ok {
		t.Fatal("Expected extremes to be found")
	}
	if !almostEqual(best.Percent, 10) {
		t.Errorf("Expected best day +10%%, got %v", best.Percent)
	}
	if !almostEqual(worst.Percent, -10) {
		t.Errorf("Expected worst day -10%%, got %v", worst.Percent)
	}
	if !best.Date.Equal(date(2024, 1, 2)) {
		t.Errorf("Expected best day 2024-01-02, got %v", best.Date)
	}
}

// TestComputeStockMetrics tests the assembled per-symbol view.
//
// WHY: The assembly values the position at the latest close and must leave
// return figures at zero when the position is closed or unpriced.
func TestComputeStockMetrics(t *testing.T) {
	now := date(2024, 6, 1)

	t.Run("open position valued at latest close", func(t *testing.T) {
		txs := []model.Transaction{
			tx(date(2024, 1, 2), "AAPL", "buy", 10, 100, 0),
		}
		prices := []model.Price{
			price(date(2024, 1, 2), 100),
			price(date(2024, 5, 31), 150),
		}

		metrics := engine.ComputeStockMetrics("AAPL", prices, txs, now)

		if !almostEqual(metrics.Shares, 10) {
			t.Errorf("Expected 10 shares, got %v", metrics.Shares)
		}
		if metrics.CurrentValue == nil || !almostEqual(*metrics.CurrentValue, 1500) {
			t.Errorf("Expected current value 1500, got %v", metrics.CurrentValue)
		}
		if !almostEqual(metrics.TotalReturnPercent, 50) {
			t.Errorf("Expected total return 50%%, got %v", metrics.TotalReturnPercent)
		}
		if metrics.AnnualizedReturn <= metrics.TotalReturnPercent {
			t.Errorf("Expected sub-year holding to annualize above 50%%, got %v", metrics.AnnualizedReturn)
		}
		if metrics.HoldingDays <= 0 {
			t.Errorf("Expected positive holding days, got %d", metrics.HoldingDays)
		}
	})

	t.Run("closed position has no market fields", func(t *testing.T) {
		txs := []model.Transaction{
			tx(date(2024, 1, 2), "AAPL", "buy", 10, 100, 0),
			tx(date(2024, 2, 2), "AAPL", "sell", 10, 120, 0),
		}
		prices := []model.Price{price(date(2024, 2, 2), 120)}

		metrics := engine.ComputeStockMetrics("AAPL", prices, txs, now)

		if metrics.CurrentValue != nil {
			t.Errorf("Expected nil current value for closed position, got %v", *metrics.CurrentValue)
		}
		if metrics.TotalReturnPercent != 0 {
			t.Errorf("Expected zero return figures, got %v", metrics.TotalReturnPercent)
		}
	})
}
