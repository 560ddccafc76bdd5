package engine

import (
	"math"

	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/model"
)

// RoundingPrecision is the factor used to round monetary summary values to
// two decimal places.
const RoundingPrecision = 100.0

// round rounds a monetary value to two decimal places. Only aggregate
// outputs are rounded; intermediate accumulation keeps full precision.
func round(value float64) float64 {
	return math.Round(value*RoundingPrecision) / RoundingPrecision
}

// ConvertFunc converts an amount from the given currency into a summary's
// base currency. ok == false means no rate chain could resolve the currency;
// the caller treats the amount as unconvertible rather than failing, so a
// single missing pair cannot blank an entire multi-currency summary.
type ConvertFunc func(amount float64, fromCurrency string) (converted float64, ok bool)

// Summarize aggregates positions into a portfolio summary. Per-currency
// buckets hold native, unconverted totals; grand totals are converted into
// base via convert. A position with no live market value is valued at its
// cost basis, not zero.
func Summarize(positions []model.Position, base string, convert ConvertFunc) model.PortfolioSummary {
	summary := model.PortfolioSummary{
		BaseCurrency: base,
		ByCurrency:   make(map[string]model.CurrencySummary),
	}

	for _, pos := range positions {
		value := pos.TotalCost
		if pos.CurrentValue != nil {
			value = *pos.CurrentValue
		}
		cost := pos.TotalCost
		gainLoss := value - cost

		bucket := summary.ByCurrency[pos.Currency]
		bucket.Value += value
		bucket.Cost += cost
		bucket.GainLoss += gainLoss
		bucket.Positions++
		summary.ByCurrency[pos.Currency] = bucket

		if converted, ok := convert(value, pos.Currency); ok {
			summary.TotalValue += converted
		}
		if converted, ok := convert(cost, pos.Currency); ok {
			summary.TotalCost += converted
		}
	}

	summary.TotalGainLoss = summary.TotalValue - summary.TotalCost
	if summary.TotalCost != 0 {
		summary.TotalGainLossPercent = summary.TotalGainLoss / summary.TotalCost * 100
	}

	summary.TotalValue = round(summary.TotalValue)
	summary.TotalCost = round(summary.TotalCost)
	summary.TotalGainLoss = round(summary.TotalGainLoss)
	summary.TotalGainLossPercent = round(summary.TotalGainLossPercent)

	return summary
}
