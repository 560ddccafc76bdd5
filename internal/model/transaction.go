package model

import "time"

// Transaction represents one row of the imported trade log after numeric
// normalization. The raw CSV files store quantity, price, fees and split
// ratio as user-edited strings (currency symbols, thousands separators,
// blanks); those are parsed at the ingestion boundary so that every consumer
// of this struct only ever sees numbers.
type Transaction struct {
	ID         string    `json:"id"`
	Date       time.Time `json:"date"`
	Symbol     string    `json:"symbol"` // may embed an exchange prefix/suffix, e.g. 2330.TW
	Type       string    `json:"type"`   // free text: buy/purchase/sell/sale/dividend/div/split
	Quantity   float64   `json:"quantity"`
	Price      float64   `json:"price"`
	Fees       float64   `json:"fees"`
	SplitRatio float64   `json:"splitRatio"`
	Currency   string    `json:"currency"`
	CreatedAt  time.Time `json:"createdAt,omitempty"`
}

// TransactionStats aggregates simple counts over the transaction log.
// Dividend types are matched by substring, splits by exact type, mirroring
// the classification used by the reporting views.
type TransactionStats struct {
	Total      int            `json:"total"`
	Buys       int            `json:"buys"`
	Sells      int            `json:"sells"`
	Dividends  int            `json:"dividends"`
	Splits     int            `json:"splits"`
	ByCurrency map[string]int `json:"byCurrency"`
}
