package engine

import (
	"sort"

	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/model"
)

const dateKeyLayout = "2006-01-02"

// CostBasisSeries replays the transaction log chronologically and records
// the cost basis after every transaction, keyed by date (YYYY-MM-DD). Buys
// increase cost by quantity x price + fees; sells decrease it by the average
// cost per share held at the time of sale. Values carry forward between
// transaction dates and are never interpolated.
func CostBasisSeries(txs []model.Transaction) map[string]float64 {
	sorted := SortTransactions(txs)

	series := make(map[string]float64, len(sorted))
	var shares, cost float64

	for _, tx := range sorted {
		txType := normalizeType(tx.Type)
		switch {
		case isBuy(txType):
			shares += tx.Quantity
			cost += tx.Quantity*tx.Price + tx.Fees

		case isSell(txType):
			averageCost := 0.0
			if shares > 0 {
				averageCost = cost / shares
			}
			shares = max(0, shares-tx.Quantity)
			cost = max(0, cost-averageCost*tx.Quantity)

		case historyOptions.matchesSplit(txType):
			if tx.SplitRatio > 0 && shares > 0 {
				shares *= tx.SplitRatio
			}
		}

		if !tx.Date.IsZero() {
			series[tx.Date.Format(dateKeyLayout)] = cost
		}
	}

	return series
}

// BuildChartData merges a symbol's price history with its transactions into
// chart points carrying the running share count and cost basis as of each
// price date. The merge is a two-pointer sweep, O(prices + transactions):
// for each price point the transaction cursor first advances over every
// transaction dated on or before it, then the point is emitted. Inputs need
// not be pre-sorted; both are sorted ascending by date here.
func BuildChartData(prices []model.Price, txs []model.Transaction) []model.ChartDataPoint {
	sortedPrices := make([]model.Price, len(prices))
	copy(sortedPrices, prices)
	sort.SliceStable(sortedPrices, func(i, j int) bool {
		return sortedPrices[i].Date.Before(sortedPrices[j].Date)
	})
	sortedTxs := SortTransactions(txs)

	points := make([]model.ChartDataPoint, 0, len(sortedPrices))
	var shares, costBasis float64
	cursor := 0

	for _, price := range sortedPrices {
		for cursor < len(sortedTxs) && !sortedTxs[cursor].Date.After(price.Date) {
			tx := sortedTxs[cursor]
			txType := normalizeType(tx.Type)
			switch {
			case isBuy(txType):
				shares += tx.Quantity
				costBasis += tx.Quantity*tx.Price + tx.Fees
			case isSell(txType):
				averageCost := 0.0
				if shares > 0 {
					averageCost = costBasis / shares
				}
				shares = max(0, shares-tx.Quantity)
				costBasis = max(0, costBasis-averageCost*tx.Quantity)
			case historyOptions.matchesSplit(txType):
				if tx.SplitRatio > 0 && shares > 0 {
					shares *= tx.SplitRatio
				}
			}
			cursor++
		}

		points = append(points, model.ChartDataPoint{
			Date:            price.Date,
			Close:           price.Close,
			UnadjustedClose: price.UnadjustedClose,
			CostBasis:       costBasis,
			Volume:          price.Volume,
			Shares:          shares,
		})
	}

	return points
}
