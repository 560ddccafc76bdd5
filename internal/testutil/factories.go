package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/model"
)

// MakeID generates a unique ID for test records.
func MakeID() string {
	return uuid.New().String()
}

// Date builds a midnight-UTC date for test data.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// TransactionBuilder provides a fluent interface for creating test
// transactions.
//
// Example usage:
//
//	tx := testutil.NewTransaction("AAPL", "buy").
//	    WithDate(testutil.Date(2024, 1, 2)).
//	    WithQuantity(10).
//	    WithPrice(100).
//	    Build(t, db)
type TransactionBuilder struct {
	transaction model.Transaction
}

// NewTransaction creates a TransactionBuilder with sensible defaults.
func NewTransaction(symbol, txType string) *TransactionBuilder {
	return &TransactionBuilder{
		transaction: model.Transaction{
			ID:       MakeID(),
			Date:     Date(2024, time.January, 2),
			Symbol:   symbol,
			Type:     txType,
			Quantity: 10,
			Price:    100,
			Currency: "USD",
		},
	}
}

// WithDate sets the transaction date.
func (b *TransactionBuilder) WithDate(date time.Time) *TransactionBuilder {
	b.transaction.Date = date
	return b
}

// WithQuantity sets the quantity.
func (b *TransactionBuilder) WithQuantity(quantity float64) *TransactionBuilder {
	b.transaction.Quantity = quantity
	return b
}

// WithPrice sets the price.
func (b *TransactionBuilder) WithPrice(price float64) *TransactionBuilder {
	b.transaction.Price = price
	return b
}

// WithFees sets the fees.
func (b *TransactionBuilder) WithFees(fees float64) *TransactionBuilder {
	b.transaction.Fees = fees
	return b
}

// WithSplitRatio sets the split ratio.
func (b *TransactionBuilder) WithSplitRatio(ratio float64) *TransactionBuilder {
	b.transaction.SplitRatio = ratio
	return b
}

// WithCurrency sets the currency.
func (b *TransactionBuilder) WithCurrency(currency string) *TransactionBuilder {
	b.transaction.Currency = currency
	return b
}

// Build inserts the transaction into the database and returns it.
func (b *TransactionBuilder) Build(t *testing.T, db *sql.DB) model.Transaction {
	t.Helper()

	query := `
		INSERT INTO stock_transaction (id, date, symbol, type, quantity, price, fees, split_ratio, currency, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	tx := b.transaction
	_, err := db.Exec(query,
		tx.ID,
		tx.Date.UTC().Format("2006-01-02"),
		tx.Symbol,
		tx.Type,
		tx.Quantity,
		tx.Price,
		tx.Fees,
		tx.SplitRatio,
		tx.Currency,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		t.Fatalf("Failed to create test transaction: %v", err)
	}

	return tx
}

// PriceBuilder provides a fluent interface for creating test price rows.
type PriceBuilder struct {
	price model.Price
}

// NewPrice creates a PriceBuilder with sensible defaults.
func NewPrice(symbol string, date time.Time, close float64) *PriceBuilder {
	return &PriceBuilder{
		price: model.Price{
			ID:     MakeID(),
			Symbol: symbol,
			Date:   date,
			Close:  close,
			Source: model.PriceSourceManual,
		},
	}
}

// WithVolume sets the traded volume.
func (b *PriceBuilder) WithVolume(volume float64) *PriceBuilder {
	b.price.Volume = &volume
	return b
}

// WithSource sets the provenance tag.
func (b *PriceBuilder) WithSource(source string) *PriceBuilder {
	b.price.Source = source
	return b
}

// Build inserts the price row into the database and returns it.
func (b *PriceBuilder) Build(t *testing.T, db *sql.DB) model.Price {
	t.Helper()

	query := `
		INSERT INTO price (id, symbol, date, close, volume, source, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	p := b.price
	var volume any
	if p.Volume != nil {
		volume = *p.Volume
	}
	_, err := db.Exec(query,
		p.ID,
		p.Symbol,
		p.Date.UTC().Format("2006-01-02"),
		p.Close,
		volume,
		p.Source,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		t.Fatalf("Failed to create test price: %v", err)
	}

	return p
}

// ExchangeRateBuilder provides a fluent interface for creating test
// exchange rates. The stored direction is "1 From = Rate To".
type ExchangeRateBuilder struct {
	rate model.ExchangeRate
}

// NewExchangeRate creates an ExchangeRateBuilder with sensible defaults.
func NewExchangeRate(from, to string, rate float64) *ExchangeRateBuilder {
	return &ExchangeRateBuilder{
		rate: model.ExchangeRate{
			ID:           MakeID(),
			FromCurrency: from,
			ToCurrency:   to,
			Date:         Date(2024, time.January, 2),
			Rate:         rate,
			Source:       model.PriceSourceManual,
		},
	}
}

// WithDate sets the rate date.
func (b *ExchangeRateBuilder) WithDate(date time.Time) *ExchangeRateBuilder {
	b.rate.Date = date
	return b
}

// Build inserts the exchange rate into the database and returns it.
func (b *ExchangeRateBuilder) Build(t *testing.T, db *sql.DB) model.ExchangeRate {
	t.Helper()

	query := `
		INSERT INTO exchange_rate (id, from_currency, to_currency, date, rate, source, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	er := b.rate
	_, err := db.Exec(query,
		er.ID,
		er.FromCurrency,
		er.ToCurrency,
		er.Date.UTC().Format("2006-01-02"),
		er.Rate,
		er.Source,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		t.Fatalf("Failed to create test exchange rate: %v", err)
	}

	return er
}
