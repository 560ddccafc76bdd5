package engine

import (
	"strings"

	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/model"
)

// SplitMatch controls how a transaction type is recognized as a stock split.
type SplitMatch int

const (
	// SplitMatchExact accepts only the exact type "split".
	SplitMatchExact SplitMatch = iota
	// SplitMatchSubstring accepts any type containing "split".
	SplitMatchSubstring
)

// OverSellPolicy controls what happens when a sell exceeds the held shares.
type OverSellPolicy int

const (
	// OverSellReset zeroes the whole position: shares, total cost and
	// average cost all reset to 0.
	OverSellReset OverSellPolicy = iota
	// OverSellClamp clamps shares and total cost independently at zero,
	// leaving the average cost untouched.
	OverSellClamp
)

// Options parameterizes the position fold. The two historical variants of
// the accumulator differed only in these two rules, so both behaviors are
// kept available and pinned by tests instead of silently reconciled.
type Options struct {
	SplitMatch SplitMatch
	OverSell   OverSellPolicy
}

// DefaultOptions is the configuration of the open-position accumulator:
// exact split matching and a hard reset on over-sell.
var DefaultOptions = Options{SplitMatch: SplitMatchExact, OverSell: OverSellReset}

func (o Options) matchesSplit(t string) bool {
	if o.SplitMatch == SplitMatchSubstring {
		return strings.Contains(t, "split")
	}
	return t == "split"
}

// BuildPositions folds the transaction log into current open positions, one
// per distinct (symbol, currency). Transactions are processed in date order
// (stable for equal dates); positions whose shares end at or below zero are
// dropped from the result. Output order is first-appearance order of each
// key within the sorted log, which makes repeated runs over the same input
// byte-for-byte identical.
func BuildPositions(txs []model.Transaction, opts Options) []model.Position {
	sorted := SortTransactions(txs)

	acc := make(map[positionKey]*model.Position)
	order := make([]positionKey, 0)

	for _, tx := range sorted {
		key := positionKey{Symbol: tx.Symbol, Currency: tx.Currency}
		pos, ok := acc[key]
		if !ok {
			pos = &model.Position{Symbol: tx.Symbol, Currency: tx.Currency}
			acc[key] = pos
			order = append(order, key)
		}

		txType := normalizeType(tx.Type)
		switch {
		case isBuy(txType):
			cost := tx.Quantity*tx.Price + tx.Fees
			pos.Shares += tx.Quantity
			pos.TotalCost += cost
			if pos.Shares > 0 {
				pos.AverageCost = pos.TotalCost / pos.Shares
			} else {
				pos.AverageCost = 0
			}

		case isSell(txType):
			costBasis := pos.AverageCost * tx.Quantity
			pos.Shares -= tx.Quantity
			pos.TotalCost -= costBasis
			if pos.Shares <= 0 {
				switch opts.OverSell {
				case OverSellReset:
					pos.Shares = 0
					pos.TotalCost = 0
					pos.AverageCost = 0
				case OverSellClamp:
					pos.Shares = max(0, pos.Shares)
					pos.TotalCost = max(0, pos.TotalCost)
				}
			}

		case opts.matchesSplit(txType):
			// shares * averageCost is invariant under a split, so the
			// running total cost needs no adjustment.
			if tx.SplitRatio > 0 && pos.Shares > 0 {
				pos.Shares *= tx.SplitRatio
				pos.AverageCost /= tx.SplitRatio
			}

		default:
			// dividends and unrecognized types do not affect the open
			// position
		}
	}

	positions := make([]model.Position, 0, len(order))
	for _, key := range order {
		if pos := acc[key]; pos.Shares > 0 {
			positions = append(positions, *pos)
		}
	}
	return positions
}
