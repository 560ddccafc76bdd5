package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/model"
	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/repository"
	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/testutil"
)

// TestPriceRepository_GetPrices tests reads over the price history.
func TestPriceRepository_GetPrices(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewPriceRepository(db)

	testutil.NewPrice("AAPL", testutil.Date(2024, time.January, 3), 102).Build(t, db)
	testutil.NewPrice("AAPL", testutil.Date(2024, time.January, 1), 100).Build(t, db)
	testutil.NewPrice("AAPL", testutil.Date(2024, time.January, 2), 101).Build(t, db)
	testutil.NewPrice("2330", testutil.Date(2024, time.January, 2), 600).Build(t, db)

	t.Run("full history sorted ascending", func(t *testing.T) {
		prices, err := repo.GetPrices("AAPL")
		if err != nil {
			t.Fatalf("GetPrices failed: %v", err)
		}
		if len(prices) != 3 {
			t.Fatalf("Expected 3 prices, got %d", len(prices))
		}
		for i := 1; i < len(prices); i++ {
			if prices[i].Date.Before(prices[i-1].Date) {
				t.Errorf("Prices out of order at %d: %v before %v", i, prices[i].Date, prices[i-1].Date)
			}
		}
	})

	t.Run("range is inclusive on both ends", func(t *testing.T) {
		prices, err := repo.GetPricesInRange("AAPL",
			testutil.Date(2024, time.January, 1),
			testutil.Date(2024, time.January, 2))
		if err != nil {
			t.Fatalf("GetPricesInRange failed: %v", err)
		}
		if len(prices) != 2 {
			t.Errorf("Expected 2 prices in range, got %d", len(prices))
		}
	})

	t.Run("latest price per symbol", func(t *testing.T) {
		latest, err := repo.GetLatestPrice("AAPL")
		if err != nil {
			t.Fatalf("GetLatestPrice failed: %v", err)
		}
		if latest.Close != 102 {
			t.Errorf("Expected latest close 102, got %v", latest.Close)
		}
	})

	t.Run("latest price for unknown symbol is sql.ErrNoRows", func(t *testing.T) {
		_, err := repo.GetLatestPrice("MSFT")
		if !errors.Is(err, sql.ErrNoRows) {
			t.Errorf("Expected sql.ErrNoRows, got %v", err)
		}
	})

	t.Run("latest prices map covers all priced symbols", func(t *testing.T) {
		latest, err := repo.GetLatestPrices()
		if err != nil {
			t.Fatalf("GetLatestPrices failed: %v", err)
		}
		if len(latest) != 2 {
			t.Fatalf("Expected 2 symbols, got %d", len(latest))
		}
		if latest["AAPL"].Close != 102 || latest["2330"].Close != 600 {
			t.Errorf("Unexpected latest prices: %+v", latest)
		}
	})
}

// TestPriceRepository_UpsertPrices tests merge-by-date write semantics.
//
// WHY: Refreshing the current quote intraday must replace that day's row
// without duplicating it or disturbing the rest of history.
func TestPriceRepository_UpsertPrices(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewPriceRepository(db)
	ctx := context.Background()

	day := testutil.Date(2024, time.January, 2)
	volume := 1000.0
	initial := []model.Price{
		{Symbol: "AAPL", Date: day, Close: 100, Volume: &volume, Source: model.PriceSourceYahoo},
		{Symbol: "AAPL", Date: testutil.Date(2024, time.January, 1), Close: 99, Source: model.PriceSourceYahoo},
	}
	if err := repo.UpsertPrices(ctx, initial); err != nil {
		t.Fatalf("UpsertPrices failed: %v", err)
	}

	// Same (symbol, date) key with a new close replaces, not duplicates.
	update := []model.Price{{Symbol: "AAPL", Date: day, Close: 105, Source: model.PriceSourceYahoo}}
	if err := repo.UpsertPrices(ctx, update); err != nil {
		t.Fatalf("UpsertPrices update failed: %v", err)
	}

	testutil.AssertRowCount(t, db, "price", 2)

	latest, err := repo.GetLatestPrice("AAPL")
	if err != nil {
		t.Fatalf("GetLatestPrice failed: %v", err)
	}
	if latest.Close != 105 {
		t.Errorf("Expected updated close 105, got %v", latest.Close)
	}
	if latest.Volume != nil {
		t.Errorf("Expected volume replaced by NULL, got %v", *latest.Volume)
	}

	prices, err := repo.GetPrices("AAPL")
	if err != nil {
		t.Fatalf("GetPrices failed: %v", err)
	}
	if prices[0].Close != 99 {
		t.Errorf("Expected untouched history row 99, got %v", prices[0].Close)
	}
}
