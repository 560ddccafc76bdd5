package service

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/engine"
	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/model"
	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/repository"
)

// StockService produces the per-symbol detail views: metrics, chart data,
// dividend summary and the transaction event timeline.
type StockService struct {
	transactionRepo *repository.TransactionRepository
	priceRepo       *repository.PriceRepository
}

// NewStockService creates a new StockService with the provided repository dependencies.
func NewStockService(
	transactionRepo *repository.TransactionRepository,
	priceRepo *repository.PriceRepository,
) *StockService {
	return &StockService{
		transactionRepo: transactionRepo,
		priceRepo:       priceRepo,
	}
}

// loadSymbol fetches a symbol's transactions, returning
// apperrors.ErrSymbolNotFound when the symbol never appears in the log.
func (s *StockService) loadSymbol(symbol string) ([]model.Transaction, error) {
	if symbol == "" {
		return nil, apperrors.ErrInvalidSymbol
	}

	transactions, err := s.transactionRepo.GetTransactionsBySymbol(symbol)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrFailedToRetrieveTransactions, err)
	}
	if len(transactions) == 0 {
		return nil, apperrors.ErrSymbolNotFound
	}

	return transactions, nil
}

// GetMetrics assembles the per-symbol risk and return metrics from the
// symbol's full price history and transactions.
func (s *StockService) GetMetrics(symbol string) (engine.StockMetrics, error) {
	transactions, err := s.loadSymbol(symbol)
	if err != nil {
		return engine.StockMetrics{}, err
	}

	prices, err := s.priceRepo.GetPrices(symbol)
	if err != nil {
		return engine.StockMetrics{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToRetrievePrices, err)
	}

	return engine.ComputeStockMetrics(symbol, prices, transactions, time.Now().UTC()), nil
}

// GetChart merges a symbol's price history with its transactions into chart
// points carrying running shares and cost basis. Zero start and end dates
// mean the full stored history.
func (s *StockService) GetChart(symbol string, startDate, endDate time.Time) ([]model.ChartDataPoint, error) {
	transactions, err := s.loadSymbol(symbol)
	if err != nil {
		return nil, err
	}

	var prices []model.Price
	if startDate.IsZero() && endDate.IsZero() {
		prices, err = s.priceRepo.GetPrices(symbol)
	} else {
		if endDate.IsZero() {
			endDate = time.Now().UTC()
		}
		if endDate.Before(startDate) {
			return nil, apperrors.ErrInvalidDateRange
		}
		prices, err = s.priceRepo.GetPricesInRange(symbol, startDate, endDate)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrFailedToRetrievePrices, err)
	}

	return engine.BuildChartData(prices, transactions), nil
}

// GetDividends summarizes a symbol's dividend payouts. The trailing yield is
// computed against the position's current market value when a latest price
// is stored; without one the yield stays nil.
func (s *StockService) GetDividends(symbol string) (engine.DividendSummary, error) {
	transactions, err := s.loadSymbol(symbol)
	if err != nil {
		return engine.DividendSummary{}, err
	}

	var currentValue *float64
	latest, err := s.priceRepo.GetLatestPrice(symbol)
	switch {
	case err == nil:
		positions := engine.BuildPositions(transactions, engine.DefaultOptions)
		var shares float64
		for _, pos := range positions {
			if pos.Symbol == symbol {
				shares += pos.Shares
			}
		}
		if shares > 0 {
			value := shares * latest.Close
			currentValue = &value
		}
	case errors.Is(err, sql.ErrNoRows):
		// no stored prices, yield stays nil
	default:
		return engine.DividendSummary{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToRetrievePrices, err)
	}

	return engine.SummarizeDividends(transactions, currentValue, time.Now().UTC()), nil
}

// GetEvents returns the symbol's classified transaction timeline with
// running share counts.
func (s *StockService) GetEvents(symbol string) ([]engine.TransactionEvent, error) {
	transactions, err := s.loadSymbol(symbol)
	if err != nil {
		return nil, err
	}

	return engine.ExtractEvents(transactions), nil
}
