package service

import (
	"context"
	"fmt"
	"io"

	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/engine"
	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/importer"
	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/model"
	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/repository"
)

// TransactionService handles transaction-related business logic operations.
type TransactionService struct {
	transactionRepo *repository.TransactionRepository
}

// NewTransactionService creates a new TransactionService with the provided repository dependencies.
func NewTransactionService(transactionRepo *repository.TransactionRepository) *TransactionService {
	return &TransactionService{transactionRepo: transactionRepo}
}

// GetTransactions retrieves the full transaction log in the stable date
// order the calculation engine depends on.
func (s *TransactionService) GetTransactions() ([]model.Transaction, error) {
	transactions, err := s.transactionRepo.GetTransactions()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrFailedToRetrieveTransactions, err)
	}
	return transactions, nil
}

// GetTransactionsBySymbol retrieves all transactions for one symbol.
func (s *TransactionService) GetTransactionsBySymbol(symbol string) ([]model.Transaction, error) {
	if symbol == "" {
		return nil, apperrors.ErrInvalidSymbol
	}
	transactions, err := s.transactionRepo.GetTransactionsBySymbol(symbol)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrFailedToRetrieveTransactions, err)
	}
	return transactions, nil
}

// GetStats aggregates transaction counts by type and currency.
func (s *TransactionService) GetStats() (model.TransactionStats, error) {
	transactions, err := s.transactionRepo.GetTransactions()
	if err != nil {
		return model.TransactionStats{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToRetrieveTransactions, err)
	}
	return engine.ComputeStats(transactions, nil), nil
}

// ImportCSV appends transactions parsed from one market's CSV stream to the
// stored log. The currency applies to every row; malformed rows are skipped
// and counted, never aborting the batch.
func (s *TransactionService) ImportCSV(ctx context.Context, r io.Reader, currency string) (importer.Result, error) {
	if currency == "" {
		return importer.Result{}, apperrors.ErrInvalidCurrency
	}

	transactions, result, err := importer.Parse(r, currency)
	if err != nil {
		return result, fmt.Errorf("%w: %v", apperrors.ErrFailedToImportTransactions, err)
	}

	if err := s.transactionRepo.InsertTransactions(ctx, transactions); err != nil {
		return result, fmt.Errorf("%w: %v", apperrors.ErrFailedToImportTransactions, err)
	}

	return result, nil
}

// ImportFromDir replaces the stored transaction log with the contents of the
// per-market CSV files found in dir. The replace is wholesale: partial
// re-imports of a single market would silently desynchronize cost basis
// across currencies.
func (s *TransactionService) ImportFromDir(ctx context.Context, dir string) (importer.Result, error) {
	transactions, result, err := importer.ReadDir(dir, nil)
	if err != nil {
		return result, fmt.Errorf("%w: %v", apperrors.ErrFailedToImportTransactions, err)
	}

	if err := s.transactionRepo.DeleteAll(ctx); err != nil {
		return result, fmt.Errorf("%w: %v", apperrors.ErrFailedToImportTransactions, err)
	}
	if err := s.transactionRepo.InsertTransactions(ctx, transactions); err != nil {
		return result, fmt.Errorf("%w: %v", apperrors.ErrFailedToImportTransactions, err)
	}

	return result, nil
}
