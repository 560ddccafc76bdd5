package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/model"
)

// FxRateRepository provides data access methods for the exchange_rate table.
// Rates are keyed by (from_currency, to_currency, date) with merge-by-date
// upsert semantics, matching the price table.
type FxRateRepository struct {
	db *sql.DB
}

// NewFxRateRepository creates a new FxRateRepository with the provided database connection.
func NewFxRateRepository(db *sql.DB) *FxRateRepository {
	return &FxRateRepository{db: db}
}

const fxRateColumns = "id, from_currency, to_currency, date, rate, source, updated_at"

func scanFxRate(rows *sql.Rows) (model.ExchangeRate, error) {
	var er model.ExchangeRate
	var dateStr, updatedAtStr string

	err := rows.Scan(
		&er.ID,
		&er.FromCurrency,
		&er.ToCurrency,
		&dateStr,
		&er.Rate,
		&er.Source,
		&updatedAtStr,
	)
	if err != nil {
		return model.ExchangeRate{}, fmt.Errorf("failed to scan exchange_rate results: %w", err)
	}

	er.Date, err = ParseTime(dateStr)
	if err != nil || er.Date.IsZero() {
		return model.ExchangeRate{}, fmt.Errorf("failed to parse date: %w", err)
	}
	er.UpdatedAt, err = ParseTime(updatedAtStr)
	if err != nil {
		return model.ExchangeRate{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return er, nil
}

// GetAllRates retrieves every stored exchange rate, sorted by date ascending.
// The fx.Converter keeps only the latest rate per pair itself.
func (r *FxRateRepository) GetAllRates() ([]model.ExchangeRate, error) {
	query := `
		SELECT ` + fxRateColumns + `
		FROM exchange_rate
		ORDER BY date ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query exchange_rate table: %w", err)
	}
	defer rows.Close()

	rates := []model.ExchangeRate{}
	for rows.Next() {
		er, err := scanFxRate(rows)
		if err != nil {
			return nil, err
		}
		rates = append(rates, er)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating exchange_rate table: %w", err)
	}

	return rates, nil
}

// GetLatestRate retrieves the most recent stored rate for a directed pair.
// Returns apperrors.ErrExchangeRateNotFound when the pair has never been
// stored in this direction; callers needing the inverse go through
// fx.Converter instead of flipping the pair here.
func (r *FxRateRepository) GetLatestRate(fromCurrency, toCurrency string) (model.ExchangeRate, error) {
	query := `
		SELECT ` + fxRateColumns + `
		FROM exchange_rate
		WHERE from_currency = ?
		AND to_currency = ?
		ORDER BY date DESC
		LIMIT 1
	`

	rows, err := r.db.Query(query, fromCurrency, toCurrency)
	if err != nil {
		return model.ExchangeRate{}, fmt.Errorf("failed to query exchange_rate table: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return model.ExchangeRate{}, fmt.Errorf("error iterating exchange_rate table: %w", err)
		}
		return model.ExchangeRate{}, apperrors.ErrExchangeRateNotFound
	}

	return scanFxRate(rows)
}

// UpsertRates writes a batch of exchange rates; a newer record for the same
// (from, to, date) replaces the old one.
func (r *FxRateRepository) UpsertRates(ctx context.Context, rates []model.ExchangeRate) error {
	if len(rates) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO exchange_rate (`+fxRateColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (from_currency, to_currency, date) DO UPDATE SET
			rate = excluded.rate,
			source = excluded.source,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, er := range rates {
		if er.ID == "" {
			er.ID = uuid.New().String()
		}
		updatedAt := er.UpdatedAt
		if updatedAt.IsZero() {
			updatedAt = now
		}

		_, err = stmt.ExecContext(ctx,
			er.ID,
			er.FromCurrency,
			er.ToCurrency,
			dateKey(er.Date),
			er.Rate,
			er.Source,
			timestamp(updatedAt),
		)
		if err != nil {
			return fmt.Errorf("failed to upsert exchange rate: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit exchange rates: %w", err)
	}

	return nil
}
