package model

import "time"

// ExchangeRate is a stored currency conversion fact for a specific date.
// Directionality matters: the row always means "1 unit of FromCurrency equals
// Rate units of ToCurrency". Consumers that need the opposite direction must
// go through the fx.Converter, which normalizes direction, rather than
// inverting rates at call sites.
type ExchangeRate struct {
	ID           string    `json:"id"`
	FromCurrency string    `json:"fromCurrency"`
	ToCurrency   string    `json:"toCurrency"`
	Date         time.Time `json:"date"`
	Rate         float64   `json:"rate"`
	Source       string    `json:"source"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
