package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/model"
)

// PriceRepository provides data access methods for the price table. Prices
// are keyed by (symbol, date); writing a row for an existing key replaces
// the old quote while the rest of history is preserved (merge-by-date).
type PriceRepository struct {
	db *sql.DB
}

// NewPriceRepository creates a new PriceRepository with the provided database connection.
func NewPriceRepository(db *sql.DB) *PriceRepository {
	return &PriceRepository{db: db}
}

const priceColumns = "id, symbol, date, close, open, high, low, volume, adjusted_close, unadjusted_close, source, updated_at"

func scanPrice(rows *sql.Rows) (model.Price, error) {
	var p model.Price
	var dateStr, updatedAtStr string
	var open, high, low, volume, adjClose, unadjClose sql.NullFloat64

	err := rows.Scan(
		&p.ID,
		&p.Symbol,
		&dateStr,
		&p.Close,
		&open,
		&high,
		&low,
		&volume,
		&adjClose,
		&unadjClose,
		&p.Source,
		&updatedAtStr,
	)
	if err != nil {
		return model.Price{}, fmt.Errorf("failed to scan price results: %w", err)
	}

	p.Date, err = ParseTime(dateStr)
	if err != nil || p.Date.IsZero() {
		return model.Price{}, fmt.Errorf("failed to parse date: %w", err)
	}
	p.UpdatedAt, err = ParseTime(updatedAtStr)
	if err != nil {
		return model.Price{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	if open.Valid {
		p.Open = &open.Float64
	}
	if high.Valid {
		p.High = &high.Float64
	}
	if low.Valid {
		p.Low = &low.Float64
	}
	if volume.Valid {
		p.Volume = &volume.Float64
	}
	if adjClose.Valid {
		p.AdjustedClose = &adjClose.Float64
	}
	if unadjClose.Valid {
		p.UnadjustedClose = &unadjClose.Float64
	}

	return p, nil
}

// GetPrices retrieves the full price history for a symbol, sorted by date
// ascending as the chart builder requires.
func (r *PriceRepository) GetPrices(symbol string) ([]model.Price, error) {
	query := `
		SELECT ` + priceColumns + `
		FROM price
		WHERE symbol = ?
		ORDER BY date ASC
	`

	rows, err := r.db.Query(query, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to query price table: %w", err)
	}
	defer rows.Close()

	prices := []model.Price{}
	for rows.Next() {
		p, err := scanPrice(rows)
		if err != nil {
			return nil, err
		}
		prices = append(prices, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating price table: %w", err)
	}

	return prices, nil
}

// GetPricesInRange retrieves prices for a symbol between startDate and
// endDate inclusive, sorted ascending.
func (r *PriceRepository) GetPricesInRange(symbol string, startDate, endDate time.Time) ([]model.Price, error) {
	query := `
		SELECT ` + priceColumns + `
		FROM price
		WHERE symbol = ?
		AND date >= ?
		AND date <= ?
		ORDER BY date ASC
	`

	rows, err := r.db.Query(query, symbol, dateKey(startDate), dateKey(endDate))
	if err != nil {
		return nil, fmt.Errorf("failed to query price table: %w", err)
	}
	defer rows.Close()

	prices := []model.Price{}
	for rows.Next() {
		p, err := scanPrice(rows)
		if err != nil {
			return nil, err
		}
		prices = append(prices, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating price table: %w", err)
	}

	return prices, nil
}

// GetLatestPrice retrieves the most recent price row for a symbol.
// Returns sql.ErrNoRows wrapped when the symbol has no prices.
func (r *PriceRepository) GetLatestPrice(symbol string) (model.Price, error) {
	query := `
		SELECT ` + priceColumns + `
		FROM price
		WHERE symbol = ?
		ORDER BY date DESC
		LIMIT 1
	`

	rows, err := r.db.Query(query, symbol)
	if err != nil {
		return model.Price{}, fmt.Errorf("failed to query price table: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return model.Price{}, fmt.Errorf("error iterating price table: %w", err)
		}
		return model.Price{}, sql.ErrNoRows
	}

	return scanPrice(rows)
}

// GetLatestPrices retrieves the most recent price per symbol in one query,
// keyed by symbol. Symbols with no price rows are absent from the map.
func (r *PriceRepository) GetLatestPrices() (map[string]model.Price, error) {
	query := `
		SELECT ` + priceColumns + `
		FROM price p
		WHERE date = (SELECT MAX(date) FROM price WHERE symbol = p.symbol)
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query price table: %w", err)
	}
	defer rows.Close()

	latest := make(map[string]model.Price)
	for rows.Next() {
		p, err := scanPrice(rows)
		if err != nil {
			return nil, err
		}
		latest[p.Symbol] = p
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating price table: %w", err)
	}

	return latest, nil
}

// UpsertPrices writes a batch of price rows with merge-by-date semantics: a
// newer record for the same (symbol, date) replaces the old one, the rest of
// history is untouched.
func (r *PriceRepository) UpsertPrices(ctx context.Context, prices []model.Price) error {
	if len(prices) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO price (`+priceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (symbol, date) DO UPDATE SET
			close = excluded.close,
			open = excluded.open,
			high = excluded.high,
			low = excluded.low,
			volume = excluded.volume,
			adjusted_close = excluded.adjusted_close,
			unadjusted_close = excluded.unadjusted_close,
			source = excluded.source,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, p := range prices {
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		updatedAt := p.UpdatedAt
		if updatedAt.IsZero() {
			updatedAt = now
		}

		_, err = stmt.ExecContext(ctx,
			p.ID,
			p.Symbol,
			dateKey(p.Date),
			p.Close,
			nullable(p.Open),
			nullable(p.High),
			nullable(p.Low),
			nullable(p.Volume),
			nullable(p.AdjustedClose),
			nullable(p.UnadjustedClose),
			p.Source,
			timestamp(updatedAt),
		)
		if err != nil {
			return fmt.Errorf("failed to upsert price: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit prices: %w", err)
	}

	return nil
}

// nullable converts an optional float into its database representation.
func nullable(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
