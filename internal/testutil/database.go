package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite" // Test Package
)

// SetupTestDB creates an in-memory SQLite database for testing.
// The database is automatically cleaned up when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// In-memory database (destroyed when connection closes)
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	// Configure SQLite for testing
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = MEMORY", // Faster for tests
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			t.Fatalf("Failed to set pragma: %v", err)
		}
	}

	// Create schema
	if err := createTestSchema(db); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	// Cleanup when test ends
	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// createTestSchema creates all database tables for testing.
// Schema is synchronized with the goose migration in internal/database.
func createTestSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE security (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			ticker VARCHAR(20) NOT NULL UNIQUE,
			name VARCHAR(100),
			exchange VARCHAR(20),
			currency VARCHAR(3) NOT NULL,
			type VARCHAR(20),
			sector VARCHAR(50),
			data_source VARCHAR(20),
			api_symbol VARCHAR(20),
			last_updated DATETIME
		);

		CREATE TABLE stock_transaction (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			date DATE NOT NULL,
			symbol VARCHAR(20) NOT NULL,
			type VARCHAR(20) NOT NULL,
			quantity REAL NOT NULL DEFAULT 0,
			price REAL NOT NULL DEFAULT 0,
			fees REAL NOT NULL DEFAULT 0,
			split_ratio REAL NOT NULL DEFAULT 0,
			currency VARCHAR(3) NOT NULL,
			created_at DATETIME NOT NULL
		);

		CREATE INDEX ix_stock_transaction_date ON stock_transaction(date);
		CREATE INDEX ix_stock_transaction_symbol ON stock_transaction(symbol);

		CREATE TABLE price (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			symbol VARCHAR(20) NOT NULL,
			date DATE NOT NULL,
			close REAL NOT NULL,
			open REAL,
			high REAL,
			low REAL,
			volume REAL,
			adjusted_close REAL,
			unadjusted_close REAL,
			source VARCHAR(20) NOT NULL DEFAULT 'manual',
			updated_at DATETIME NOT NULL,
			CONSTRAINT unique_price UNIQUE (symbol, date)
		);

		CREATE INDEX ix_price_symbol_date ON price(symbol, date);

		CREATE TABLE exchange_rate (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			from_currency VARCHAR(3) NOT NULL,
			to_currency VARCHAR(3) NOT NULL,
			date DATE NOT NULL,
			rate REAL NOT NULL,
			source VARCHAR(20) NOT NULL DEFAULT 'manual',
			updated_at DATETIME NOT NULL,
			CONSTRAINT unique_exchange_rate UNIQUE (from_currency, to_currency, date)
		);

		CREATE INDEX ix_exchange_rate_date ON exchange_rate(date);

		CREATE TABLE nav_snapshot (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			date DATE NOT NULL,
			base_currency VARCHAR(3) NOT NULL,
			total_value REAL NOT NULL DEFAULT 0,
			total_cost REAL NOT NULL DEFAULT 0,
			unrealized_gain REAL NOT NULL DEFAULT 0,
			realized_gain REAL NOT NULL DEFAULT 0,
			total_dividends REAL NOT NULL DEFAULT 0,
			total_gain_loss REAL NOT NULL DEFAULT 0,
			calculated_at DATETIME NOT NULL,
			CONSTRAINT unique_nav_snapshot UNIQUE (date, base_currency)
		);

		CREATE INDEX ix_nav_snapshot_date ON nav_snapshot(date);

		CREATE TABLE setting (
			key VARCHAR(100) NOT NULL PRIMARY KEY,
			value TEXT,
			encrypted BOOLEAN NOT NULL DEFAULT FALSE,
			updated_at DATETIME NOT NULL
		);
	`

	_, err := db.Exec(schema)
	return err
}

// CleanDatabase truncates all tables.
// Useful for reusing the same database across multiple tests.
func CleanDatabase(t *testing.T, db *sql.DB) {
	t.Helper()

	tables := []string{
		"nav_snapshot",
		"stock_transaction",
		"price",
		"exchange_rate",
		"security",
		"setting",
	}

	for _, table := range tables {
		query := "DELETE FROM " + table
		if _, err := db.Exec(query); err != nil {
			t.Fatalf("Failed to clean table %s: %v", table, err)
		}
	}
}

// CountRows returns the number of rows in a table.
// Useful for assertions in tests.
func CountRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()

	var count int
	query := "SELECT COUNT(*) FROM " + table
	err := db.QueryRow(query).Scan(&count)
	if err != nil {
		t.Fatalf("Failed to count rows in %s: %v", table, err)
	}

	return count
}

// AssertRowCount asserts that a table has the expected number of rows.
func AssertRowCount(t *testing.T, db *sql.DB, table string, expected int) {
	t.Helper()

	actual := CountRows(t, db, table)
	if actual != expected {
		t.Errorf("Expected %d rows in %s, got %d", expected, table, actual)
	}
}
