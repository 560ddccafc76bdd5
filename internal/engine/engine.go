// Package engine contains the position and valuation calculation core: pure,
// stateless transformations from a chronological transaction log to share
// positions, cost basis, realized/unrealized P&L, dividend aggregates and
// chart series. Every function receives its full input and returns a new
// output, performs no I/O, and is safe to call from any number of concurrent
// callers.
//
// Cost basis uses the average-cost method throughout. No FIFO/LIFO or
// specific-lot selection is modeled; this is a deliberate simplification,
// not an oversight.
package engine

import (
	"sort"
	"strings"

	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/model"
)

type positionKey struct {
	Symbol   string
	Currency string
}

// SortTransactions returns a copy of txs sorted by date ascending. The sort
// is stable: transactions sharing a date keep their input order, which is
// load-bearing for non-commutative same-day sequences (a same-day
// buy-then-sell is not the same as sell-then-buy).
func SortTransactions(txs []model.Transaction) []model.Transaction {
	sorted := make([]model.Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}

func normalizeType(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}

func isBuy(t string) bool {
	return t == "buy" || t == "purchase"
}

func isSell(t string) bool {
	return t == "sell" || t == "sale"
}

// isDividend matches the exact dividend aliases used by the history builder.
// Reporting views that need broader recognition use isDividendLoose.
func isDividend(t string) bool {
	return t == "dividend" || t == "div"
}

// isDividendLoose matches any type starting with "div" (dividend summaries
// and transaction statistics).
func isDividendLoose(t string) bool {
	return strings.HasPrefix(t, "div")
}
