package engine

import (
	"math"
	"sort"
	"time"

	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/model"
)

// tradingDaysPerYear is the conventional annualization factor for daily
// return volatility.
const tradingDaysPerYear = 252

// Drawdown is the largest peak-to-trough decline observed in a price
// series, reported at the point of maximum drawdown rather than at the end
// of the series.
type Drawdown struct {
	Amount  float64 `json:"amount"`
	Percent float64 `json:"percent"`
}

// DayMove is a single day's simple return.
type DayMove struct {
	Date    time.Time `json:"date"`
	Percent float64   `json:"percent"`
}

// StockMetrics bundles the per-symbol detail calculations.
type StockMetrics struct {
	Symbol             string   `json:"symbol"`
	Shares             float64  `json:"shares"`
	AverageCost        float64  `json:"averageCost"`
	TotalCost          float64  `json:"totalCost"`
	CurrentPrice       *float64 `json:"currentPrice,omitempty"`
	CurrentValue       *float64 `json:"currentValue,omitempty"`
	TotalReturnPercent float64  `json:"totalReturnPercent"`
	AnnualizedReturn   float64  `json:"annualizedReturn"`
	Volatility         float64  `json:"volatility"`
	MaxDrawdown        Drawdown `json:"maxDrawdown"`
	BestDay            *DayMove `json:"bestDay,omitempty"`
	WorstDay           *DayMove `json:"worstDay,omitempty"`
	HoldingDays        int      `json:"holdingDays"`
}

// AnnualizedReturn converts a total return over holdingDays into a
// compounded annual rate, both expressed as percentages. Returns 0 when the
// holding period is not positive.
func AnnualizedReturn(totalReturnPercent float64, holdingDays int) float64 {
	if holdingDays <= 0 {
		return 0
	}
	return (math.Pow(1+totalReturnPercent/100, 365.25/float64(holdingDays)) - 1) * 100
}

// MaxDrawdown walks the price series once, tracking the running peak close.
// The reported percent is relative to the peak in effect at the point of
// maximum drawdown.
func MaxDrawdown(prices []model.Price) Drawdown {
	var peak, maxAmount, maxPercent float64
	for _, p := range prices {
		if p.Close > peak {
			peak = p.Close
		}
		drawdown := peak - p.Close
		if drawdown > maxAmount {
			maxAmount = drawdown
			if peak != 0 {
				maxPercent = drawdown / peak * 100
			} else {
				maxPercent = 0
			}
		}
	}
	return Drawdown{Amount: maxAmount, Percent: maxPercent}
}

// dailyReturns computes simple day-over-day returns, skipping pairs whose
// base close is zero.
func dailyReturns(prices []model.Price) []float64 {
	returns := make([]float64, 0, len(prices))
	for i := 1; i < len(prices); i++ {
		prev := prices[i-1].Close
		if prev == 0 {
			continue
		}
		returns = append(returns, (prices[i].Close-prev)/prev)
	}
	return returns
}

// Volatility is the sample standard deviation of daily simple returns,
// annualized by sqrt(252) and expressed as a percent. Fewer than two usable
// returns yield 0.
func Volatility(prices []model.Price) float64 {
	returns := dailyReturns(prices)
	if len(returns) < 2 {
		return 0
	}

	var sum float64
	for _, r := range returns {
		sum += r
	}
	mean := sum / float64(len(returns))

	var variance float64
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns) - 1)

	return math.Sqrt(variance) * math.Sqrt(tradingDaysPerYear) * 100
}

// BestWorstDay returns the largest single-day gain and loss in the series.
// ok is false when the series has fewer than two points.
func BestWorstDay(prices []model.Price) (best, worst DayMove, ok bool) {
	if len(prices) < 2 {
		return DayMove{}, DayMove{}, false
	}
	first := true
	for i := 1; i < len(prices); i++ {
		prev := prices[i-1].Close
		if prev == 0 {
			continue
		}
		move := DayMove{
			Date:    prices[i].Date,
			Percent: (prices[i].Close - prev) / prev * 100,
		}
		if first {
			best, worst = move, move
			first = false
			continue
		}
		if move.Percent > best.Percent {
			best = move
		}
		if move.Percent < worst.Percent {
			worst = move
		}
	}
	if first {
		return DayMove{}, DayMove{}, false
	}
	return best, worst, true
}

// HoldingPeriodDays is the number of days between the earliest transaction
// and now, clamped at zero.
func HoldingPeriodDays(txs []model.Transaction, now time.Time) int {
	var earliest time.Time
	for _, tx := range txs {
		if tx.Date.IsZero() {
			continue
		}
		if earliest.IsZero() || tx.Date.Before(earliest) {
			earliest = tx.Date
		}
	}
	if earliest.IsZero() {
		return 0
	}
	days := int(now.Sub(earliest).Hours() / 24)
	return max(0, days)
}

// ComputeStockMetrics assembles the per-symbol detail view from the symbol's
// price history and transactions. Prices need not be pre-sorted. The
// position is valued at the most recent close; with no open position or no
// prices the return figures stay zero.
func ComputeStockMetrics(symbol string, prices []model.Price, txs []model.Transaction, now time.Time) StockMetrics {
	sortedPrices := make([]model.Price, len(prices))
	copy(sortedPrices, prices)
	sort.SliceStable(sortedPrices, func(i, j int) bool {
		return sortedPrices[i].Date.Before(sortedPrices[j].Date)
	})

	metrics := StockMetrics{
		Symbol:      symbol,
		MaxDrawdown: MaxDrawdown(sortedPrices),
		Volatility:  Volatility(sortedPrices),
		HoldingDays: HoldingPeriodDays(txs, now),
	}

	if best, worst, ok := BestWorstDay(sortedPrices); ok {
		metrics.BestDay = &best
		metrics.WorstDay = &worst
	}

	positions := BuildPositions(txs, DefaultOptions)
	for _, pos := range positions {
		if pos.Symbol != symbol {
			continue
		}
		metrics.Shares += pos.Shares
		metrics.TotalCost += pos.TotalCost
	}
	if metrics.Shares > 0 {
		metrics.AverageCost = metrics.TotalCost / metrics.Shares
	}

	if len(sortedPrices) > 0 && metrics.Shares > 0 {
		latest := sortedPrices[len(sortedPrices)-1].Close
		value := metrics.Shares * latest
		metrics.CurrentPrice = &latest
		metrics.CurrentValue = &value
		if metrics.TotalCost != 0 {
			metrics.TotalReturnPercent = (value - metrics.TotalCost) / metrics.TotalCost * 100
		}
		metrics.AnnualizedReturn = AnnualizedReturn(metrics.TotalReturnPercent, metrics.HoldingDays)
	}

	return metrics
}
