package service

import (
	"fmt"
	"time"

	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/engine"
	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/model"
	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/repository"
)

// PortfolioService produces the portfolio-level views: open positions,
// position history and the multi-currency summary. All calculations are
// delegated to the engine package; this service only loads data and marks
// positions to market with the latest stored prices.
type PortfolioService struct {
	transactionRepo *repository.TransactionRepository
	priceRepo       *repository.PriceRepository
	fxService       *FxService
}

// NewPortfolioService creates a new PortfolioService with the provided dependencies.
func NewPortfolioService(
	transactionRepo *repository.TransactionRepository,
	priceRepo *repository.PriceRepository,
	fxService *FxService,
) *PortfolioService {
	return &PortfolioService{
		transactionRepo: transactionRepo,
		priceRepo:       priceRepo,
		fxService:       fxService,
	}
}

// GetPositions folds the transaction log into current open positions and
// marks each to market with the latest stored price for its symbol.
// Positions without a stored price are returned unenriched: shares and cost
// basis populated, market fields nil.
func (s *PortfolioService) GetPositions() ([]model.Position, error) {
	transactions, err := s.transactionRepo.GetTransactions()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrFailedToRetrieveTransactions, err)
	}

	positions := engine.BuildPositions(transactions, engine.DefaultOptions)

	latest, err := s.priceRepo.GetLatestPrices()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrFailedToRetrievePrices, err)
	}

	now := time.Now().UTC()
	for i, pos := range positions {
		if price, ok := latest[pos.Symbol]; ok {
			positions[i] = engine.Enrich(pos, price.Close, now)
		}
	}

	return positions, nil
}

// GetPositionHistory folds the transaction log into per-position lifetime
// entries, retaining closed positions, sorted by last activity descending.
func (s *PortfolioService) GetPositionHistory() ([]model.PositionHistoryEntry, error) {
	transactions, err := s.transactionRepo.GetTransactions()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrFailedToRetrieveTransactions, err)
	}

	return engine.BuildPositionHistory(transactions), nil
}

// GetSummary aggregates the enriched positions into the portfolio summary:
// native per-currency buckets plus grand totals converted into base. An
// empty base means the configured reporting currency; any other currency is
// resolved through the stored rates, pivoting via the configured base where
// no direct rate exists. A currency with no resolvable rate contributes zero
// to the converted totals but keeps its native bucket.
func (s *PortfolioService) GetSummary(base string) (model.PortfolioSummary, error) {
	if base == "" {
		base = s.fxService.BaseCurrency()
	}

	positions, err := s.GetPositions()
	if err != nil {
		return model.PortfolioSummary{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToGetSummary, err)
	}

	converter, err := s.fxService.Converter()
	if err != nil {
		return model.PortfolioSummary{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToGetSummary, err)
	}

	convert := func(amount float64, from string) (float64, bool) {
		return converter.Convert(amount, from, base)
	}
	return engine.Summarize(positions, base, convert), nil
}
