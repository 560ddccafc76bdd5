package engine_test

import (
	"testing"

	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/engine"
	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/model"
)

// TestBuildChartData tests the price/transaction merge.
//
// WHY: The chart is a two-pointer sweep; transactions must take effect on
// their own price point (date <= price date) and carry forward across
// later points.
func TestBuildChartData(t *testing.T) {
	t.Run("transactions apply on and after their date", func(t *testing.T) {
		prices := []model.Price{
			price(date(2024, 1, 1), 10),
			price(date(2024, 1, 2), 11),
			price(date(2024, 1, 3), 12),
		}
		txs := []model.Transaction{
			tx(date(2024, 1, 2), "AAPL", "buy", 5, 11, 1),
		}

		points := engine.BuildChartData(prices, txs)

		if len(points) != 3 {
			t.Fatalf("Expected 3 points, got %d", len(points))
		}

		wantShares := []float64{0, 5, 5}
		wantCost := []float64{0, 56, 56}
		for i, point := range points {
			if !almostEqual(point.Shares, wantShares[i]) {
				t.Errorf("Point %d: expected %v shares, got %v", i, wantShares[i], point.Shares)
			}
			if !almostEqual(point.CostBasis, wantCost[i]) {
				t.Errorf("Point %d: expected cost basis %v, got %v", i, wantCost[i], point.CostBasis)
			}
		}
	})

	t.Run("sell reduces cost basis by average cost", func(t *testing.T) {
		prices := []model.Price{
			price(date(2024, 1, 1), 10),
			price(date(2024, 1, 5), 12),
		}
		txs := []model.Transaction{
			tx(date(2024, 1, 1), "AAPL", "buy", 10, 10, 0),
			tx(date(2024, 1, 4), "AAPL", "sell", 5, 12, 0),
		}

		points := engine.BuildChartData(prices, txs)

		if !almostEqual(points[0].CostBasis, 100) {
			t.Errorf("Expected cost basis 100 on day 1, got %v", points[0].CostBasis)
		}
		if !almostEqual(points[1].Shares, 5) || !almostEqual(points[1].CostBasis, 50) {
			t.Errorf("Expected 5 shares / 50 cost after sell, got %v / %v", points[1].Shares, points[1].CostBasis)
		}
	})

	t.Run("unsorted inputs are handled", func(t *testing.T) {
		prices := []model.Price{
			price(date(2024, 1, 3), 12),
			price(date(2024, 1, 1), 10),
		}
		txs := []model.Transaction{
			tx(date(2024, 1, 2), "AAPL", "buy", 5, 11, 0),
		}

		points := engine.BuildChartData(prices, txs)

		if !points[0].Date.Equal(date(2024, 1, 1)) {
			t.Errorf("Expected ascending output, first point %v", points[0].Date)
		}
		if !almostEqual(points[1].Shares, 5) {
			t.Errorf("Expected 5 shares on second point, got %v", points[1].Shares)
		}
	})

	t.Run("no prices yields empty series", func(t *testing.T) {
		txs := []model.Transaction{
			tx(date(2024, 1, 2), "AAPL", "buy", 5, 11, 0),
		}

		if points := engine.BuildChartData(nil, txs); len(points) != 0 {
			t.Errorf("Expected empty series, got %d points", len(points))
		}
	})
}

// TestCostBasisSeries tests the per-date cost basis replay.
func TestCostBasisSeries(t *testing.T) {
	txs := []model.Transaction{
		tx(date(2024, 1, 2), "AAPL", "buy", 10, 100, 0),
		tx(date(2024, 2, 2), "AAPL", "sell", 5, 120, 0),
	}

	series := engine.CostBasisSeries(txs)

	if !almostEqual(series["2024-01-02"], 1000) {
		t.Errorf("Expected 1000 on buy date, got %v", series["2024-01-02"])
	}
	if !almostEqual(series["2024-02-02"], 500) {
		t.Errorf("Expected 500 after half sold, got %v", series["2024-02-02"])
	}
}
