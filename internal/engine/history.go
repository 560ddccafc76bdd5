package engine

import (
	"sort"

	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/model"
)

// historyOptions is the configuration the history builder evolved with:
// substring split matching and independent clamping on over-sell. It is
// intentionally different from DefaultOptions (see Options).
var historyOptions = Options{SplitMatch: SplitMatchSubstring, OverSell: OverSellClamp}

// BuildPositionHistory folds the transaction log into one entry per
// (symbol, currency), retaining closed positions for historical reporting.
// On top of the open-position fold it tracks:
//
//   - Invested: cumulative cost of all buys, never decremented by sells
//   - RemainingCost: the running cost basis of the still-held shares
//   - RealizedPnl: sell proceeds minus cost basis, plus dividend payouts
//   - Dividends: dividend payouts only (quantity x price per transaction)
//
// Over-selling clamps shares and remaining cost independently at zero rather
// than hard-resetting the position. The result is sorted by last transaction
// date descending; entries with no date sort last.
func BuildPositionHistory(txs []model.Transaction) []model.PositionHistoryEntry {
	sorted := SortTransactions(txs)

	acc := make(map[positionKey]*model.PositionHistoryEntry)
	order := make([]positionKey, 0)

	for _, tx := range sorted {
		key := positionKey{Symbol: tx.Symbol, Currency: tx.Currency}
		entry, ok := acc[key]
		if !ok {
			entry = &model.PositionHistoryEntry{Symbol: tx.Symbol, Currency: tx.Currency}
			acc[key] = entry
			order = append(order, key)
		}

		txType := normalizeType(tx.Type)
		switch {
		case isBuy(txType):
			cost := tx.Quantity*tx.Price + tx.Fees
			entry.Shares += tx.Quantity
			entry.Invested += cost
			entry.RemainingCost += cost

		case isSell(txType):
			averageCost := 0.0
			if entry.Shares > 0 {
				averageCost = entry.RemainingCost / entry.Shares
			}
			costBasis := averageCost * tx.Quantity
			proceeds := tx.Quantity*tx.Price - tx.Fees
			entry.RealizedPnl += proceeds - costBasis
			entry.Shares = max(0, entry.Shares-tx.Quantity)
			entry.RemainingCost = max(0, entry.RemainingCost-costBasis)

		case isDividend(txType):
			payout := tx.Quantity * tx.Price
			entry.Dividends += payout
			entry.RealizedPnl += payout

		case historyOptions.matchesSplit(txType):
			if tx.SplitRatio > 0 && entry.Shares > 0 {
				entry.Shares *= tx.SplitRatio
			}
		}

		if !tx.Date.IsZero() {
			date := tx.Date
			entry.LastTransaction = &date
		}
	}

	entries := make([]model.PositionHistoryEntry, 0, len(order))
	for _, key := range order {
		entry := acc[key]
		if entry.Shares > 0 {
			entry.Status = model.PositionActive
		} else {
			entry.Status = model.PositionClosed
		}
		entries = append(entries, *entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].LastTransaction, entries[j].LastTransaction
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})

	return entries
}
