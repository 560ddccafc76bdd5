package engine

import (
	"fmt"
	"time"

	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/model"
)

// DividendSummary aggregates the dividend transactions of one symbol.
// AnnualYield is the trailing-12-month payout relative to the current
// position value; it is nil (not zero) when there are no dividends or the
// position value is zero or unknown.
type DividendSummary struct {
	Count          int                `json:"count"`
	TotalDividends float64            `json:"totalDividends"`
	Last12Months   float64            `json:"last12Months"`
	ByYear         map[int]float64    `json:"byYear"`
	ByQuarter      map[string]float64 `json:"byQuarter"`
	AnnualYield    *float64           `json:"annualYield"`
}

// SummarizeDividends filters dividend-type transactions (any type starting
// with "div"), treating quantity x price as the payout per transaction, and
// groups payouts by calendar year and quarter. currentValue, when known, is
// the market value of the position used for the trailing yield.
func SummarizeDividends(txs []model.Transaction, currentValue *float64, now time.Time) DividendSummary {
	summary := DividendSummary{
		ByYear:    make(map[int]float64),
		ByQuarter: make(map[string]float64),
	}

	yearAgo := now.AddDate(-1, 0, 0)

	for _, tx := range txs {
		if !isDividendLoose(normalizeType(tx.Type)) {
			continue
		}
		payout := tx.Quantity * tx.Price
		summary.Count++
		summary.TotalDividends += payout

		if tx.Date.IsZero() {
			continue
		}
		year := tx.Date.Year()
		quarter := (int(tx.Date.Month())-1)/3 + 1
		summary.ByYear[year] += payout
		summary.ByQuarter[fmt.Sprintf("%d-Q%d", year, quarter)] += payout

		if tx.Date.After(yearAgo) {
			summary.Last12Months += payout
		}
	}

	if summary.Count > 0 && currentValue != nil && *currentValue > 0 {
		yield := summary.Last12Months / *currentValue * 100
		summary.AnnualYield = &yield
	}

	return summary
}
