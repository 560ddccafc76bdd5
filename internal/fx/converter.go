// Package fx provides a typed currency conversion abstraction. Stored
// exchange rates always mean "1 unit of From equals Value units of To";
// every consumer goes through Converter.Convert, which normalizes direction
// internally, so the historical class of inverted-rate bugs cannot recur at
// call sites.
package fx

import (
	"strings"
	"time"

	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/model"
)

// Rate is one directed conversion fact.
type Rate struct {
	From  string
	To    string
	Value float64
	Date  time.Time
}

// Converter resolves conversions from a snapshot of persisted rates. It is
// an explicit value injected into callers rather than an ambient singleton;
// rebuilding it from fresh rows is cheap and keeps the calculation functions
// pure.
type Converter struct {
	base  string
	rates map[string]Rate // "FROM/TO" -> latest rate for the pair
}

// NewConverter builds a converter over the given rate rows, keeping only the
// most recent rate per pair. base is the pivot currency used for cross
// conversions when no direct or inverse rate exists.
func NewConverter(base string, rows []model.ExchangeRate) *Converter {
	c := &Converter{
		base:  normalize(base),
		rates: make(map[string]Rate, len(rows)),
	}
	for _, row := range rows {
		if row.Rate <= 0 {
			continue
		}
		rate := Rate{
			From:  normalize(row.FromCurrency),
			To:    normalize(row.ToCurrency),
			Value: row.Rate,
			Date:  row.Date,
		}
		key := rate.From + "/" + rate.To
		if existing, ok := c.rates[key]; !ok || rate.Date.After(existing.Date) {
			c.rates[key] = rate
		}
	}
	return c
}

// Base returns the converter's pivot currency.
func (c *Converter) Base() string {
	return c.base
}

// Convert converts amount from one currency to another. Resolution order:
// identity, direct rate, inverse rate, then a cross through the base
// currency. ok == false means the pair is unresolvable; callers are expected
// to degrade to a zero contribution rather than fail.
func (c *Converter) Convert(amount float64, from, to string) (float64, bool) {
	from, to = normalize(from), normalize(to)
	if from == "" || to == "" {
		return 0, false
	}
	if from == to {
		return amount, true
	}

	if factor, ok := c.factor(from, to); ok {
		return amount * factor, true
	}

	// Cross via the base currency: FROM -> base -> TO.
	if from != c.base && to != c.base {
		toBase, ok1 := c.factor(from, c.base)
		fromBase, ok2 := c.factor(c.base, to)
		if ok1 && ok2 {
			return amount * toBase * fromBase, true
		}
	}

	return 0, false
}

// ToBase converts amount into the converter's base currency. Its signature
// matches engine.ConvertFunc.
func (c *Converter) ToBase(amount float64, from string) (float64, bool) {
	return c.Convert(amount, from, c.base)
}

// factor resolves the multiplier for a single hop, trying the stored
// direction first and falling back to the inverse.
func (c *Converter) factor(from, to string) (float64, bool) {
	if rate, ok := c.rates[from+"/"+to]; ok {
		return rate.Value, true
	}
	if rate, ok := c.rates[to+"/"+from]; ok && rate.Value != 0 {
		return 1 / rate.Value, true
	}
	return 0, false
}

func normalize(currency string) string {
	return strings.ToUpper(strings.TrimSpace(currency))
}
