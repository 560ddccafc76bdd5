package model

import "time"

// NavSnapshot is a persisted point-in-time valuation of the whole portfolio
// in a base currency. Snapshots are regenerated from the transaction log
// rather than mutated incrementally, so a stale table can always be rebuilt;
// readers fall back to on-demand recomputation when the table is empty.
type NavSnapshot struct {
	ID             string    `json:"id"`
	Date           time.Time `json:"date"`
	BaseCurrency   string    `json:"baseCurrency"`
	TotalValue     float64   `json:"totalValue"`
	TotalCost      float64   `json:"totalCost"`
	UnrealizedGain float64   `json:"unrealizedGain"`
	RealizedGain   float64   `json:"realizedGain"`
	TotalDividends float64   `json:"totalDividends"`
	TotalGainLoss  float64   `json:"totalGainLoss"`
	CalculatedAt   time.Time `json:"calculatedAt"`
}
