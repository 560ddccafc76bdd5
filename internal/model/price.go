package model

import "time"

// Price record provenance tags.
const (
	PriceSourceManual = "manual"
	PriceSourceYahoo  = "yahoo"
	PriceSourceYfapi  = "yfapi"
)

// Price is one historical price point for a symbol. Close is the only
// required quote; the remaining fields are optional columns that may be
// absent depending on the source. UnadjustedClose carries the raw close for
// series that store split-adjusted values in Close.
type Price struct {
	ID              string    `json:"id"`
	Symbol          string    `json:"symbol"`
	Date            time.Time `json:"date"`
	Close           float64   `json:"close"`
	Open            *float64  `json:"open,omitempty"`
	High            *float64  `json:"high,omitempty"`
	Low             *float64  `json:"low,omitempty"`
	Volume          *float64  `json:"volume,omitempty"`
	AdjustedClose   *float64  `json:"adjustedClose,omitempty"`
	UnadjustedClose *float64  `json:"unadjustedClose,omitempty"`
	Source          string    `json:"source"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// PriceUpdateResponse reports the outcome of refreshing a single symbol.
type PriceUpdateResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	NewPrices bool   `json:"newPrices"`
}

// BulkPriceUpdateResponse reports the outcome of refreshing every tracked
// symbol. Success is true if at least one symbol was updated.
type BulkPriceUpdateResponse struct {
	Success        bool                 `json:"success"`
	UpdatedSymbols []UpdatedSymbol      `json:"updatedSymbols"`
	Errors         []UpdatedSymbolError `json:"errors"`
	TotalUpdated   int                  `json:"totalUpdated"`
	TotalErrors    int                  `json:"totalErrors"`
}

// UpdatedSymbol is one successfully refreshed symbol with the number of new
// price rows added.
type UpdatedSymbol struct {
	Symbol      string `json:"symbol"`
	PricesAdded int    `json:"pricesAdded"`
}

// UpdatedSymbolError is one symbol that failed to refresh, with the error
// message encountered.
type UpdatedSymbolError struct {
	Symbol string `json:"symbol"`
	Error  string `json:"error"`
}
