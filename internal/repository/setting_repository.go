package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/apperrors"
)

// SettingRepository provides data access methods for the setting key/value
// table. Values flagged encrypted are fernet tokens; encryption and
// decryption happen in the settings service, not here.
type SettingRepository struct {
	db *sql.DB
}

// NewSettingRepository creates a new SettingRepository with the provided database connection.
func NewSettingRepository(db *sql.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// GetSetting retrieves a stored value and its encrypted flag.
// Returns apperrors.ErrSettingNotFound when the key has never been set.
func (r *SettingRepository) GetSetting(key string) (value string, encrypted bool, err error) {
	err = r.db.QueryRow(`SELECT value, encrypted FROM setting WHERE key = ?`, key).
		Scan(&value, &encrypted)
	if err == sql.ErrNoRows {
		return "", false, apperrors.ErrSettingNotFound
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query setting table: %w", err)
	}
	return value, encrypted, nil
}

// SetSetting stores a value for a key, replacing any previous value.
func (r *SettingRepository) SetSetting(ctx context.Context, key, value string, encrypted bool) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO setting (key, value, encrypted, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET
			value = excluded.value,
			encrypted = excluded.encrypted,
			updated_at = excluded.updated_at
	`, key, value, encrypted, timestamp(time.Now().UTC()))
	if err != nil {
		return fmt.Errorf("failed to upsert setting: %w", err)
	}
	return nil
}
