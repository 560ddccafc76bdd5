package model

import "time"

// Position is the current holding of one symbol in one currency, derived by
// folding the transaction log. Cost basis uses the average-cost method only:
// every sell consumes the single running weighted average, never FIFO/LIFO
// lots. TotalCost is accumulated independently of AverageCost to avoid
// compounding rounding drift; shares == 0 implies both are zero.
type Position struct {
	Symbol          string     `json:"symbol"`
	Currency        string     `json:"currency"`
	Shares          float64    `json:"shares"`
	AverageCost     float64    `json:"averageCost"`
	TotalCost       float64    `json:"totalCost"`
	CurrentPrice    *float64   `json:"currentPrice,omitempty"`
	CurrentValue    *float64   `json:"currentValue,omitempty"`
	GainLoss        *float64   `json:"gainLoss,omitempty"`
	GainLossPercent *float64   `json:"gainLossPercent,omitempty"`
	LastUpdated     *time.Time `json:"lastUpdated,omitempty"`
}

// PositionStatus marks whether a history entry still holds shares.
type PositionStatus string

const (
	PositionActive PositionStatus = "active"
	PositionClosed PositionStatus = "closed"
)

// PositionHistoryEntry extends Position semantics for historical reporting.
// Unlike Position, closed positions are retained. Invested is the lifetime
// sum of buy costs and is never decremented by sells; RemainingCost plays the
// role of Position.TotalCost; RealizedPnl covers sell proceeds minus cost
// basis plus dividend payouts.
type PositionHistoryEntry struct {
	Symbol          string         `json:"symbol"`
	Currency        string         `json:"currency"`
	Shares          float64        `json:"shares"`
	Invested        float64        `json:"invested"`
	RemainingCost   float64        `json:"remainingCost"`
	RealizedPnl     float64        `json:"realizedPnl"`
	Dividends       float64        `json:"dividends"`
	Status          PositionStatus `json:"status"`
	LastTransaction *time.Time     `json:"lastTransaction,omitempty"`
}

// CurrencySummary holds native-currency totals for one currency bucket of a
// portfolio summary. Values are unconverted.
type CurrencySummary struct {
	Value     float64 `json:"value"`
	Cost      float64 `json:"cost"`
	GainLoss  float64 `json:"gainLoss"`
	Positions int     `json:"positions"`
}

// PortfolioSummary represents the portfolio state at a point in time with
// grand totals converted into the base currency. Positions whose currency
// cannot be converted contribute zero to the converted totals but still
// appear in their native ByCurrency bucket.
type PortfolioSummary struct {
	BaseCurrency         string                     `json:"baseCurrency"`
	TotalValue           float64                    `json:"totalValue"`
	TotalCost            float64                    `json:"totalCost"`
	TotalGainLoss        float64                    `json:"totalGainLoss"`
	TotalGainLossPercent float64                    `json:"totalGainLossPercent"`
	ByCurrency           map[string]CurrencySummary `json:"byCurrency"`
}
