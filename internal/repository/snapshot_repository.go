package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/model"
)

// SnapshotRepository provides data access methods for the nav_snapshot
// table: pre-calculated daily portfolio valuations. The table is rebuilt
// wholesale from the transaction log rather than mutated row by row, so
// readers can trust that whatever rows exist are internally consistent.
type SnapshotRepository struct {
	db *sql.DB
}

// NewSnapshotRepository creates a new SnapshotRepository with the provided database connection.
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

const snapshotColumns = "id, date, base_currency, total_value, total_cost, unrealized_gain, realized_gain, total_dividends, total_gain_loss, calculated_at"

func scanSnapshot(rows *sql.Rows) (model.NavSnapshot, error) {
	var s model.NavSnapshot
	var dateStr, calculatedAtStr string

	err := rows.Scan(
		&s.ID,
		&dateStr,
		&s.BaseCurrency,
		&s.TotalValue,
		&s.TotalCost,
		&s.UnrealizedGain,
		&s.RealizedGain,
		&s.TotalDividends,
		&s.TotalGainLoss,
		&calculatedAtStr,
	)
	if err != nil {
		return model.NavSnapshot{}, fmt.Errorf("failed to scan nav_snapshot results: %w", err)
	}

	s.Date, err = ParseTime(dateStr)
	if err != nil || s.Date.IsZero() {
		return model.NavSnapshot{}, fmt.Errorf("failed to parse date: %w", err)
	}
	s.CalculatedAt, err = ParseTime(calculatedAtStr)
	if err != nil {
		return model.NavSnapshot{}, fmt.Errorf("failed to parse calculated_at: %w", err)
	}

	return s, nil
}

// GetSnapshots retrieves snapshots for a base currency between startDate and
// endDate inclusive, sorted by date ascending.
func (r *SnapshotRepository) GetSnapshots(baseCurrency string, startDate, endDate time.Time) ([]model.NavSnapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM nav_snapshot
		WHERE base_currency = ?
		AND date >= ?
		AND date <= ?
		ORDER BY date ASC
	`

	rows, err := r.db.Query(query, baseCurrency, dateKey(startDate), dateKey(endDate))
	if err != nil {
		return nil, fmt.Errorf("failed to query nav_snapshot table: %w", err)
	}
	defer rows.Close()

	snapshots := []model.NavSnapshot{}
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating nav_snapshot table: %w", err)
	}

	return snapshots, nil
}

// ReplaceSnapshots atomically swaps all snapshots for a base currency with
// the given set. An empty set just clears the table for that base.
func (r *SnapshotRepository) ReplaceSnapshots(ctx context.Context, baseCurrency string, snapshots []model.NavSnapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM nav_snapshot WHERE base_currency = ?`, baseCurrency); err != nil {
		return fmt.Errorf("failed to clear nav_snapshot table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO nav_snapshot (`+snapshotColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, s := range snapshots {
		if s.ID == "" {
			s.ID = uuid.New().String()
		}
		calculatedAt := s.CalculatedAt
		if calculatedAt.IsZero() {
			calculatedAt = now
		}

		_, err = stmt.ExecContext(ctx,
			s.ID,
			dateKey(s.Date),
			baseCurrency,
			s.TotalValue,
			s.TotalCost,
			s.UnrealizedGain,
			s.RealizedGain,
			s.TotalDividends,
			s.TotalGainLoss,
			timestamp(calculatedAt),
		)
		if err != nil {
			return fmt.Errorf("failed to insert snapshot: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshots: %w", err)
	}

	return nil
}
