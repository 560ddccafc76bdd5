package service

import (
	"context"
	"fmt"
	"time"

	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/engine"
	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/fx"
	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/model"
	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/repository"
)

// NavService maintains the nav_snapshot table: one pre-calculated portfolio
// valuation per day in the base currency, rebuilt wholesale from the
// transaction log. Reads fall back to on-demand calculation when the table
// has not been built yet, so the snapshots are an optimization, never the
// source of truth.
type NavService struct {
	snapshotRepo    *repository.SnapshotRepository
	transactionRepo *repository.TransactionRepository
	priceRepo       *repository.PriceRepository
	fxService       *FxService
}

// NewNavService creates a new NavService with the provided dependencies.
func NewNavService(
	snapshotRepo *repository.SnapshotRepository,
	transactionRepo *repository.TransactionRepository,
	priceRepo *repository.PriceRepository,
	fxService *FxService,
) *NavService {
	return &NavService{
		snapshotRepo:    snapshotRepo,
		transactionRepo: transactionRepo,
		priceRepo:       priceRepo,
		fxService:       fxService,
	}
}

// GetHistory retrieves daily NAV snapshots for the date range. When the
// snapshot table is empty for the base currency the history is computed on
// demand from the transaction log without being persisted; use Rebuild to
// materialize it.
func (s *NavService) GetHistory(startDate, endDate time.Time) ([]model.NavSnapshot, error) {
	base := s.fxService.BaseCurrency()

	snapshots, err := s.snapshotRepo.GetSnapshots(base, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrFailedToGetNavHistory, err)
	}
	if len(snapshots) > 0 {
		return snapshots, nil
	}

	computed, err := s.compute()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrFailedToGetNavHistory, err)
	}

	inRange := []model.NavSnapshot{}
	for _, snap := range computed {
		if snap.Date.Before(startDate) || snap.Date.After(endDate) {
			continue
		}
		inRange = append(inRange, snap)
	}
	return inRange, nil
}

// Rebuild recomputes the full daily NAV history from the transaction log
// and atomically replaces the stored snapshots for the base currency.
// Returns the number of snapshot days written.
func (s *NavService) Rebuild(ctx context.Context) (int, error) {
	snapshots, err := s.compute()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", apperrors.ErrFailedToGetNavHistory, err)
	}

	if err := s.snapshotRepo.ReplaceSnapshots(ctx, s.fxService.BaseCurrency(), snapshots); err != nil {
		return 0, fmt.Errorf("%w: %v", apperrors.ErrFailedToGetNavHistory, err)
	}

	return len(snapshots), nil
}

// priceCursor walks a symbol's ascending price history day by day, carrying
// the last known close forward across non-trading days.
type priceCursor struct {
	prices []model.Price
	index  int
	close  float64
	known  bool
}

func (c *priceCursor) advanceTo(day time.Time) {
	for c.index < len(c.prices) && !c.prices[c.index].Date.After(day) {
		c.close = c.prices[c.index].Close
		c.known = true
		c.index++
	}
}

// compute replays the transaction log one calendar day at a time, valuing
// the open positions at each day's last known close and converting into the
// base currency. Days with no transactions reuse the previous day's
// positions; only the marks move. Positions in a currency with no
// resolvable rate contribute zero to the converted totals, mirroring the
// summary view.
func (s *NavService) compute() ([]model.NavSnapshot, error) {
	oldest := s.transactionRepo.GetOldestTransactionDate()
	if oldest.IsZero() {
		return []model.NavSnapshot{}, nil
	}

	transactions, err := s.transactionRepo.GetTransactions()
	if err != nil {
		return nil, err
	}

	converter, err := s.fxService.Converter()
	if err != nil {
		return nil, err
	}

	cursors := make(map[string]*priceCursor)
	for _, tx := range transactions {
		if _, ok := cursors[tx.Symbol]; ok {
			continue
		}
		prices, err := s.priceRepo.GetPrices(tx.Symbol)
		if err != nil {
			return nil, err
		}
		cursors[tx.Symbol] = &priceCursor{prices: prices}
	}

	base := s.fxService.BaseCurrency()
	start := oldest.UTC().Truncate(24 * time.Hour)
	now := time.Now().UTC()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	snapshots := []model.NavSnapshot{}
	var positions []model.Position
	var history []model.PositionHistoryEntry
	txCursor := 0

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		dayChanged := false
		for txCursor < len(transactions) && !transactions[txCursor].Date.After(day) {
			txCursor++
			dayChanged = true
		}
		if dayChanged {
			prefix := transactions[:txCursor]
			positions = engine.BuildPositions(prefix, engine.DefaultOptions)
			history = engine.BuildPositionHistory(prefix)
		}

		for _, cursor := range cursors {
			cursor.advanceTo(day)
		}

		snapshots = append(snapshots, s.valueDay(day, base, positions, history, cursors, converter))
	}

	return snapshots, nil
}

// valueDay marks one day's positions to market and aggregates into a
// snapshot. A position whose symbol has no known price yet is valued at its
// cost basis, matching the summary's fallback.
func (s *NavService) valueDay(
	day time.Time,
	base string,
	positions []model.Position,
	history []model.PositionHistoryEntry,
	cursors map[string]*priceCursor,
	converter *fx.Converter,
) model.NavSnapshot {
	snapshot := model.NavSnapshot{
		Date:         day,
		BaseCurrency: base,
	}

	for _, pos := range positions {
		value := pos.TotalCost
		if cursor, ok := cursors[pos.Symbol]; ok && cursor.known {
			value = pos.Shares * cursor.close
		}
		if converted, ok := converter.ToBase(value, pos.Currency); ok {
			snapshot.TotalValue += converted
		}
		if converted, ok := converter.ToBase(pos.TotalCost, pos.Currency); ok {
			snapshot.TotalCost += converted
		}
	}

	for _, entry := range history {
		realized := entry.RealizedPnl - entry.Dividends
		if converted, ok := converter.ToBase(realized, entry.Currency); ok {
			snapshot.RealizedGain += converted
		}
		if converted, ok := converter.ToBase(entry.Dividends, entry.Currency); ok {
			snapshot.TotalDividends += converted
		}
	}

	snapshot.UnrealizedGain = snapshot.TotalValue - snapshot.TotalCost
	snapshot.TotalGainLoss = snapshot.UnrealizedGain + snapshot.RealizedGain + snapshot.TotalDividends

	return snapshot
}
