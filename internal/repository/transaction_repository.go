package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/model"
)

// TransactionRepository provides data access methods for the
// stock_transaction table. Rows are always returned sorted by date ascending
// with insertion order (rowid) breaking same-date ties, which is the stable
// ordering the calculation engine depends on.
type TransactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository creates a new TransactionRepository with the provided database connection.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionColumns = "id, date, symbol, type, quantity, price, fees, split_ratio, currency, created_at"

func scanTransaction(rows *sql.Rows) (model.Transaction, error) {
	var t model.Transaction
	var dateStr, createdAtStr string

	err := rows.Scan(
		&t.ID,
		&dateStr,
		&t.Symbol,
		&t.Type,
		&t.Quantity,
		&t.Price,
		&t.Fees,
		&t.SplitRatio,
		&t.Currency,
		&createdAtStr,
	)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("failed to scan stock_transaction results: %w", err)
	}

	t.Date, err = ParseTime(dateStr)
	if err != nil || t.Date.IsZero() {
		return model.Transaction{}, fmt.Errorf("failed to parse date: %w", err)
	}
	t.CreatedAt, err = ParseTime(createdAtStr)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("failed to parse created_at: %w", err)
	}

	return t, nil
}

// GetTransactions retrieves all transactions, sorted by date ascending with
// rowid breaking ties so that same-date rows keep their insertion order.
func (r *TransactionRepository) GetTransactions() ([]model.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM stock_transaction
		ORDER BY date ASC, rowid ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock_transaction table: %w", err)
	}
	defer rows.Close()

	transactions := []model.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stock_transaction table: %w", err)
	}

	return transactions, nil
}

// GetTransactionsBySymbol retrieves all transactions for one symbol in the
// same stable order as GetTransactions.
func (r *TransactionRepository) GetTransactionsBySymbol(symbol string) ([]model.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM stock_transaction
		WHERE symbol = ?
		ORDER BY date ASC, rowid ASC
	`

	rows, err := r.db.Query(query, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock_transaction table: %w", err)
	}
	defer rows.Close()

	transactions := []model.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stock_transaction table: %w", err)
	}

	return transactions, nil
}

// GetOldestTransactionDate finds the date of the earliest transaction.
// This is the starting point for historical NAV calculations.
//
// Returns time.Time{} (zero value) if no transactions are found or the
// query fails.
func (r *TransactionRepository) GetOldestTransactionDate() time.Time {
	var oldestDateStr sql.NullString

	err := r.db.QueryRow(`SELECT MIN(date) FROM stock_transaction`).Scan(&oldestDateStr)
	if err != nil || !oldestDateStr.Valid {
		return time.Time{}
	}

	oldestDate, err := ParseTime(oldestDateStr.String)
	if err != nil {
		return time.Time{}
	}

	return oldestDate
}

// GetDistinctSymbols returns every symbol that appears in the transaction log.
func (r *TransactionRepository) GetDistinctSymbols() ([]string, error) {
	rows, err := r.db.Query(`SELECT DISTINCT symbol FROM stock_transaction ORDER BY symbol ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query distinct symbols: %w", err)
	}
	defer rows.Close()

	symbols := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan symbol: %w", err)
		}
		symbols = append(symbols, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating distinct symbols: %w", err)
	}

	return symbols, nil
}

// GetDistinctCurrencies returns every currency that appears in the transaction log.
func (r *TransactionRepository) GetDistinctCurrencies() ([]string, error) {
	rows, err := r.db.Query(`SELECT DISTINCT currency FROM stock_transaction ORDER BY currency ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query distinct currencies: %w", err)
	}
	defer rows.Close()

	currencies := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan currency: %w", err)
		}
		currencies = append(currencies, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating distinct currencies: %w", err)
	}

	return currencies, nil
}

// InsertTransactions inserts a batch of transactions inside one database
// transaction. IDs and created_at timestamps are filled in when absent.
// Insertion order is preserved, which keeps same-date rows in file order.
func (r *TransactionRepository) InsertTransactions(ctx context.Context, transactions []model.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO stock_transaction (`+transactionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, t := range transactions {
		if t.ID == "" {
			t.ID = uuid.New().String()
		}
		createdAt := t.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}

		_, err = stmt.ExecContext(ctx,
			t.ID,
			dateKey(t.Date),
			t.Symbol,
			t.Type,
			t.Quantity,
			t.Price,
			t.Fees,
			t.SplitRatio,
			t.Currency,
			timestamp(createdAt),
		)
		if err != nil {
			return fmt.Errorf("failed to insert transaction: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transactions: %w", err)
	}

	return nil
}

// DeleteAll removes every transaction. Used when re-importing the full log.
func (r *TransactionRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM stock_transaction`); err != nil {
		return fmt.Errorf("failed to delete transactions: %w", err)
	}
	return nil
}
