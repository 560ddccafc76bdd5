package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/model"
	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/repository"
	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/yahoo"
)

// maxConcurrentUpdates bounds the symbol fan-out of a bulk refresh. The
// Yahoo client's own rate limiter spaces the requests; this just keeps the
// number of in-flight goroutines small.
const maxConcurrentUpdates = 4

// PriceService fetches and stores market prices. Current-price updates pull
// the last five days and store yesterday's close (the most recent complete
// data point); backfills walk from the symbol's earliest transaction.
type PriceService struct {
	priceRepo       *repository.PriceRepository
	transactionRepo *repository.TransactionRepository
	securityRepo    *repository.SecurityRepository
	yahooClient     *yahoo.FinanceClient
}

// NewPriceService creates a new PriceService with the provided dependencies.
func NewPriceService(
	priceRepo *repository.PriceRepository,
	transactionRepo *repository.TransactionRepository,
	securityRepo *repository.SecurityRepository,
	yahooClient *yahoo.FinanceClient,
) *PriceService {
	return &PriceService{
		priceRepo:       priceRepo,
		transactionRepo: transactionRepo,
		securityRepo:    securityRepo,
		yahooClient:     yahooClient,
	}
}

// GetPrices retrieves the stored price history for a symbol.
func (s *PriceService) GetPrices(symbol string) ([]model.Price, error) {
	if symbol == "" {
		return nil, apperrors.ErrInvalidSymbol
	}
	prices, err := s.priceRepo.GetPrices(symbol)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrFailedToRetrievePrices, err)
	}
	return prices, nil
}

// apiSymbol resolves the provider-side identifier for a local ticker. A
// tracked security may carry an explicit ApiSymbol (e.g. 2330 vs 2330.TW);
// untracked symbols query under their own name.
func (s *PriceService) apiSymbol(symbol string) string {
	security, err := s.securityRepo.GetSecurityByTicker(symbol)
	if err == nil && security.ApiSymbol != "" {
		return security.ApiSymbol
	}
	return symbol
}

// UpdateCurrent fetches and stores the latest available price for a symbol.
//
// The method follows this workflow:
//  1. Checks if yesterday's price already exists in the database (early return if found)
//  2. Fetches the last 5 days of price data from Yahoo Finance
//  3. Attempts to extract yesterday's price from the data
//  4. Falls back to the most recent available price if yesterday is not found
//  5. Upserts the price, skipping the write when the fallback date already exists
//
// Returns the stored price and true when a new row was written, false when
// the price already existed.
func (s *PriceService) UpdateCurrent(ctx context.Context, symbol string) (model.Price, bool, error) {
	if symbol == "" {
		return model.Price{}, false, apperrors.ErrInvalidSymbol
	}

	now := time.Now().UTC()
	yesterday := time.Date(now.Year(), now.Month(), now.Day()-1, 0, 0, 0, 0, time.UTC)

	existing, err := s.priceRepo.GetPricesInRange(symbol, yesterday, yesterday)
	if err != nil {
		return model.Price{}, false, fmt.Errorf("%w: %v", apperrors.ErrFailedToRetrievePrices, err)
	}
	if len(existing) > 0 {
		return existing[0], false, nil
	}

	raw, err := s.yahooClient.QueryFiveDay(ctx, s.apiSymbol(symbol))
	if err != nil {
		return model.Price{}, false, fmt.Errorf("%w: %v", apperrors.ErrFailedToUpdatePrices, err)
	}
	chart, err := s.yahooClient.ParseChart(raw)
	if err != nil {
		return model.Price{}, false, fmt.Errorf("%w: %v", apperrors.ErrFailedToUpdatePrices, err)
	}

	indicator, ok := chart.GetIndicatorForDate(yesterday)
	var price model.Price
	if ok {
		price = priceFromIndicator(symbol, yesterday, indicator)
	} else {
		if len(chart.Indicators) == 0 {
			return model.Price{}, false, fmt.Errorf("no price indicators available for %s", symbol)
		}
		last := chart.Indicators[len(chart.Indicators)-1]
		fallbackDate := last.Date.Truncate(24 * time.Hour)

		fallbackExisting, err := s.priceRepo.GetPricesInRange(symbol, fallbackDate, fallbackDate)
		if err != nil {
			return model.Price{}, false, fmt.Errorf("%w: %v", apperrors.ErrFailedToRetrievePrices, err)
		}
		if len(fallbackExisting) > 0 {
			return fallbackExisting[0], false, nil
		}
		price = priceFromIndicator(symbol, fallbackDate, last)
	}

	if err := s.priceRepo.UpsertPrices(ctx, []model.Price{price}); err != nil {
		return model.Price{}, false, fmt.Errorf("%w: %v", apperrors.ErrFailedToUpdatePrices, err)
	}

	return price, true, nil
}

// buildMissingDatesMap creates a map of date strings that are missing from
// the existing prices between startDate and endDate inclusive.
func buildMissingDatesMap(existingPrices []model.Price, startDate, endDate time.Time) map[string]bool {
	existingDates := make(map[string]bool)
	for _, p := range existingPrices {
		existingDates[p.Date.UTC().Truncate(24*time.Hour).Format("2006-01-02")] = true
	}

	missingDates := make(map[string]bool)
	for d := startDate; !d.After(endDate); d = d.AddDate(0, 0, 1) {
		key := d.UTC().Truncate(24 * time.Hour).Format("2006-01-02")
		if !existingDates[key] {
			missingDates[key] = true
		}
	}

	return missingDates
}

// filterMissingPrices keeps only the indicators whose dates are missing
// from the database.
func filterMissingPrices(symbol string, indicators []yahoo.Indicators, missingDates map[string]bool) []model.Price {
	missing := make([]model.Price, 0, len(missingDates))
	for _, v := range indicators {
		date := v.Date.Truncate(24 * time.Hour)
		if missingDates[date.Format("2006-01-02")] {
			missing = append(missing, priceFromIndicator(symbol, date, v))
		}
	}
	return missing
}

// BackfillHistory fills in missing historical prices for a symbol, from its
// earliest transaction through yesterday. Missing dates are identified by
// map lookup against the stored history, fetched from Yahoo Finance in one
// range query, and written in a single batch. Returns the number of new
// price rows added.
func (s *PriceService) BackfillHistory(ctx context.Context, symbol string) (int, error) {
	if symbol == "" {
		return 0, apperrors.ErrInvalidSymbol
	}

	transactions, err := s.transactionRepo.GetTransactionsBySymbol(symbol)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", apperrors.ErrFailedToRetrieveTransactions, err)
	}
	if len(transactions) == 0 {
		return 0, apperrors.ErrSymbolNotFound
	}

	oldest := transactions[0].Date
	for _, t := range transactions {
		if t.Date.Before(oldest) {
			oldest = t.Date
		}
	}

	now := time.Now().UTC()
	yesterday := time.Date(now.Year(), now.Month(), now.Day()-1, 0, 0, 0, 0, time.UTC)
	if oldest.After(yesterday) {
		return 0, nil
	}

	existingPrices, err := s.priceRepo.GetPricesInRange(symbol, oldest, yesterday)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", apperrors.ErrFailedToRetrievePrices, err)
	}

	missingDates := buildMissingDatesMap(existingPrices, oldest, yesterday)
	if len(missingDates) == 0 {
		return 0, nil // nothing to do
	}

	raw, err := s.yahooClient.QueryRange(ctx, s.apiSymbol(symbol), oldest, yesterday)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", apperrors.ErrFailedToUpdatePrices, err)
	}
	chart, err := s.yahooClient.ParseChart(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", apperrors.ErrFailedToUpdatePrices, err)
	}

	missingPrices := filterMissingPrices(symbol, chart.Indicators, missingDates)
	if len(missingPrices) == 0 {
		return 0, nil
	}

	if err := s.priceRepo.UpsertPrices(ctx, missingPrices); err != nil {
		return 0, fmt.Errorf("%w: %v", apperrors.ErrFailedToUpdatePrices, err)
	}

	return len(missingPrices), nil
}

// UpdateAll refreshes the current price of every symbol in the transaction
// log concurrently. Individual symbol failures are collected per symbol
// rather than failing the batch; Success is true when at least one symbol
// was refreshed without error.
func (s *PriceService) UpdateAll(ctx context.Context) (model.BulkPriceUpdateResponse, error) {
	symbols, err := s.transactionRepo.GetDistinctSymbols()
	if err != nil {
		return model.BulkPriceUpdateResponse{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToUpdatePrices, err)
	}

	response := model.BulkPriceUpdateResponse{
		UpdatedSymbols: []model.UpdatedSymbol{},
		Errors:         []model.UpdatedSymbolError{},
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentUpdates)

	for _, symbol := range symbols {
		g.Go(func() error {
			_, added, err := s.UpdateCurrent(gctx, symbol)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				response.Errors = append(response.Errors, model.UpdatedSymbolError{
					Symbol: symbol,
					Error:  err.Error(),
				})
				return nil // per-symbol failures do not cancel the group
			}
			if added {
				response.UpdatedSymbols = append(response.UpdatedSymbols, model.UpdatedSymbol{
					Symbol:      symbol,
					PricesAdded: 1,
				})
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return response, fmt.Errorf("%w: %v", apperrors.ErrFailedToUpdatePrices, err)
	}

	response.TotalUpdated = len(response.UpdatedSymbols)
	response.TotalErrors = len(response.Errors)
	response.Success = response.TotalUpdated > 0

	return response, nil
}

func priceFromIndicator(symbol string, date time.Time, ind yahoo.Indicators) model.Price {
	price := model.Price{
		Symbol: symbol,
		Date:   date,
		Close:  ind.PriceClose,
		Source: model.PriceSourceYahoo,
	}
	if ind.PriceOpen != 0 {
		open := ind.PriceOpen
		price.Open = &open
	}
	if ind.PriceHigh != 0 {
		high := ind.PriceHigh
		price.High = &high
	}
	if ind.PriceLow != 0 {
		low := ind.PriceLow
		price.Low = &low
	}
	if ind.Volume != 0 {
		volume := float64(ind.Volume)
		price.Volume = &volume
	}
	if ind.AdjustedClose != 0 {
		adj := ind.AdjustedClose
		price.AdjustedClose = &adj
	}
	return price
}
