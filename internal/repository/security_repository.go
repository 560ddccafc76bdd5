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

// SecurityRepository provides data access methods for the security table.
type SecurityRepository struct {
	db *sql.DB
}

// NewSecurityRepository creates a new SecurityRepository with the provided database connection.
func NewSecurityRepository(db *sql.DB) *SecurityRepository {
	return &SecurityRepository{db: db}
}

const securityColumns = "id, ticker, name, exchange, currency, type, sector, data_source, api_symbol, last_updated"

func scanSecurity(rows *sql.Rows) (model.Security, error) {
	var s model.Security
	var name, exchange, secType, sector, dataSource, apiSymbol, lastUpdated sql.NullString

	err := rows.Scan(
		&s.ID,
		&s.Ticker,
		&name,
		&exchange,
		&s.Currency,
		&secType,
		&sector,
		&dataSource,
		&apiSymbol,
		&lastUpdated,
	)
	if err != nil {
		return model.Security{}, fmt.Errorf("failed to scan security results: %w", err)
	}

	s.Name = name.String
	s.Exchange = exchange.String
	s.Type = secType.String
	s.Sector = sector.String
	s.DataSource = dataSource.String
	s.ApiSymbol = apiSymbol.String
	if lastUpdated.Valid {
		if s.LastUpdated, err = ParseTime(lastUpdated.String); err != nil {
			return model.Security{}, fmt.Errorf("failed to parse last_updated: %w", err)
		}
	}

	return s, nil
}

// GetSecurities retrieves every tracked security sorted by ticker.
func (r *SecurityRepository) GetSecurities() ([]model.Security, error) {
	query := `
		SELECT ` + securityColumns + `
		FROM security
		ORDER BY ticker ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query security table: %w", err)
	}
	defer rows.Close()

	securities := []model.Security{}
	for rows.Next() {
		s, err := scanSecurity(rows)
		if err != nil {
			return nil, err
		}
		securities = append(securities, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating security table: %w", err)
	}

	return securities, nil
}

// GetSecurityByTicker retrieves a single security by ticker.
// Returns apperrors.ErrSecurityNotFound when no row matches.
func (r *SecurityRepository) GetSecurityByTicker(ticker string) (model.Security, error) {
	query := `
		SELECT ` + securityColumns + `
		FROM security
		WHERE ticker = ?
	`

	rows, err := r.db.Query(query, ticker)
	if err != nil {
		return model.Security{}, fmt.Errorf("failed to query security table: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return model.Security{}, fmt.Errorf("error iterating security table: %w", err)
		}
		return model.Security{}, apperrors.ErrSecurityNotFound
	}

	return scanSecurity(rows)
}

// UpsertSecurity inserts a security or updates the existing row with the
// same ticker.
func (r *SecurityRepository) UpsertSecurity(ctx context.Context, s model.Security) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.LastUpdated.IsZero() {
		s.LastUpdated = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO security (`+securityColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (ticker) DO UPDATE SET
			name = excluded.name,
			exchange = excluded.exchange,
			currency = excluded.currency,
			type = excluded.type,
			sector = excluded.sector,
			data_source = excluded.data_source,
			api_symbol = excluded.api_symbol,
			last_updated = excluded.last_updated
	`,
		s.ID,
		s.Ticker,
		s.Name,
		s.Exchange,
		s.Currency,
		s.Type,
		s.Sector,
		s.DataSource,
		s.ApiSymbol,
		timestamp(s.LastUpdated),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert security: %w", err)
	}

	return nil
}
