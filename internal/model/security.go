package model

import "time"

// Security describes one tracked instrument. ApiSymbol is the identifier
// used against the market data provider when it differs from the local
// ticker (e.g. 2330 vs 2330.TW).
type Security struct {
	ID          string    `json:"id"`
	Ticker      string    `json:"ticker"`
	Name        string    `json:"name"`
	Exchange    string    `json:"exchange"`
	Currency    string    `json:"currency"`
	Type        string    `json:"type"`
	Sector      string    `json:"sector"`
	DataSource  string    `json:"dataSource"`
	ApiSymbol   string    `json:"apiSymbol"`
	LastUpdated time.Time `json:"lastUpdated"`
}
