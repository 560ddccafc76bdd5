package model

import "time"

// ChartDataPoint is one merged point of a stock detail chart: the price on a
// date annotated with the running share count and cost basis as of that date.
// Shares follows whichever share-count convention the price series uses, so a
// position can be valued at any historical point as adjusted shares times
// adjusted close, or raw shares times UnadjustedClose.
type ChartDataPoint struct {
	Date            time.Time `json:"date"`
	Close           float64   `json:"close"`
	UnadjustedClose *float64  `json:"unadjustedClose,omitempty"`
	CostBasis       float64   `json:"costBasis"`
	Volume          *float64  `json:"volume,omitempty"`
	Shares          float64   `json:"shares"`
}
