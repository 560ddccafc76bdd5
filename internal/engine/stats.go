package engine

import (
	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/model"
)

// DefaultStatCurrencies is the currency allowlist counted by ComputeStats
// when the caller passes none; it matches the markets the transaction files
// are imported from.
var DefaultStatCurrencies = []string{"USD", "TWD", "JPY", "HKD"}

// ComputeStats counts transactions by type bucket and by currency. Dividend
// types are matched by substring, splits by exact type. Ordering of the
// input does not matter.
func ComputeStats(txs []model.Transaction, currencies []string) model.TransactionStats {
	if len(currencies) == 0 {
		currencies = DefaultStatCurrencies
	}

	stats := model.TransactionStats{
		ByCurrency: make(map[string]int, len(currencies)),
	}
	allowed := make(map[string]bool, len(currencies))
	for _, c := range currencies {
		stats.ByCurrency[c] = 0
		allowed[c] = true
	}

	for _, tx := range txs {
		stats.Total++

		txType := normalizeType(tx.Type)
		switch {
		case isBuy(txType):
			stats.Buys++
		case isSell(txType):
			stats.Sells++
		case isDividendLoose(txType):
			stats.Dividends++
		case txType == "split":
			stats.Splits++
		}

		if allowed[tx.Currency] {
			stats.ByCurrency[tx.Currency]++
		}
	}

	return stats
}
