package engine

import (
	"time"

	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/model"
)

// Enrich returns a copy of the position marked to market at currentPrice.
// The caller is responsible for sourcing the quote (cached or freshly
// fetched) and for batching calls across symbols; this function has no side
// effects and never touches the input.
func Enrich(pos model.Position, currentPrice float64, now time.Time) model.Position {
	value := pos.Shares * currentPrice
	gainLoss := value - pos.TotalCost
	gainLossPercent := 0.0
	if pos.TotalCost != 0 {
		gainLossPercent = gainLoss / pos.TotalCost * 100
	}

	pos.CurrentPrice = &currentPrice
	pos.CurrentValue = &value
	pos.GainLoss = &gainLoss
	pos.GainLossPercent = &gainLossPercent
	pos.LastUpdated = &now
	return pos
}
