package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/fx"
	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/model"
	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/repository"
	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/yahoo"
)

// FxService maintains the stored exchange rates and builds converters over
// them. All rates are stored in the direction "1 unit of foreign currency =
// rate units of base"; direction normalization for consumers lives in
// fx.Converter, never here.
type FxService struct {
	fxRepo          *repository.FxRateRepository
	transactionRepo *repository.TransactionRepository
	yahooClient     *yahoo.FinanceClient
	baseCurrency    string
}

// NewFxService creates a new FxService with the provided dependencies.
func NewFxService(
	fxRepo *repository.FxRateRepository,
	transactionRepo *repository.TransactionRepository,
	yahooClient *yahoo.FinanceClient,
	baseCurrency string,
) *FxService {
	return &FxService{
		fxRepo:          fxRepo,
		transactionRepo: transactionRepo,
		yahooClient:     yahooClient,
		baseCurrency:    baseCurrency,
	}
}

// BaseCurrency returns the configured reporting currency.
func (s *FxService) BaseCurrency() string {
	return s.baseCurrency
}

// GetRates retrieves every stored exchange rate.
func (s *FxService) GetRates() ([]model.ExchangeRate, error) {
	rates, err := s.fxRepo.GetAllRates()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrFailedToRetrieveExchangeRate, err)
	}
	return rates, nil
}

// GetLatestRate retrieves the most recent stored rate for a directed pair.
// Returns apperrors.ErrExchangeRateNotFound when the pair has never been
// stored in this direction.
func (s *FxService) GetLatestRate(from, to string) (model.ExchangeRate, error) {
	if from == "" || to == "" {
		return model.ExchangeRate{}, apperrors.ErrInvalidCurrency
	}
	return s.fxRepo.GetLatestRate(from, to)
}

// Converter builds a point-in-time converter over the stored rates, pivoting
// cross conversions through the base currency.
func (s *FxService) Converter() (*fx.Converter, error) {
	rates, err := s.fxRepo.GetAllRates()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrFailedToRetrieveExchangeRate, err)
	}
	return fx.NewConverter(s.baseCurrency, rates), nil
}

// UpdateRates fetches the current rate for every currency appearing in the
// transaction log (other than the base) and stores it dated today. A failed
// pair is logged and skipped so one provider hiccup cannot block the rest.
func (s *FxService) UpdateRates(ctx context.Context) (int, error) {
	currencies, err := s.transactionRepo.GetDistinctCurrencies()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", apperrors.ErrFailedToUpdateExchangeRate, err)
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	rates := []model.ExchangeRate{}

	for _, currency := range currencies {
		if currency == "" || currency == s.baseCurrency {
			continue
		}

		rate, err := s.yahooClient.QueryFxRate(ctx, currency, s.baseCurrency)
		if err != nil {
			log.Printf("failed to fetch fx rate %s/%s: %v", currency, s.baseCurrency, err)
			continue
		}

		rates = append(rates, model.ExchangeRate{
			FromCurrency: currency,
			ToCurrency:   s.baseCurrency,
			Date:         today,
			Rate:         rate,
			Source:       model.PriceSourceYahoo,
		})
	}

	if err := s.fxRepo.UpsertRates(ctx, rates); err != nil {
		return 0, fmt.Errorf("%w: %v", apperrors.ErrFailedToUpdateExchangeRate, err)
	}

	return len(rates), nil
}
