// Package yahoo is a small client for the Yahoo Finance chart API, used for
// both equity price history and currency exchange rates.
package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/time/rate"
)

// Yahoo throttles unauthenticated chart requests aggressively; two requests
// per second with a small burst stays well under the observed limit.
const (
	requestsPerSecond = 2
	requestBurst      = 4
	maxRetries        = 3
	initialBackoff    = 2 * time.Second
)

// FinanceClient provides methods for fetching financial data from Yahoo
// Finance. It wraps an HTTP client with a shared rate limiter so that bulk
// refreshes spanning many symbols space their requests out, and retries
// transient failures with backoff.
type FinanceClient struct {
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewFinanceClient creates a new Yahoo Finance client with default HTTP
// settings and request pacing.
func NewFinanceClient() *FinanceClient {
	return &FinanceClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), requestBurst),
	}
}

// ParseChart converts a raw Yahoo Finance API response into a structured
// price chart. This method extracts price data (open, close, high, low,
// volume, adjusted close) and metadata (symbol, currency, exchange) from the
// Yahoo response format.
//
// The method performs validation to ensure:
//   - Timestamp data is present
//   - Close price data is present
//   - Data arrays have matching lengths
func (c *FinanceClient) ParseChart(yahooResult Response) (PriceChart, error) {

	result := yahooResult.Chart.Result[0]

	if len(result.Timestamp) == 0 {
		return PriceChart{}, fmt.Errorf("no price data returned")
	}
	if len(result.Indicators.Quote) == 0 || len(result.Indicators.Quote[0].Close) == 0 {
		return PriceChart{}, fmt.Errorf("no close prices returned")
	}

	if len(result.Indicators.Quote[0].Close) != len(result.Timestamp) {
		return PriceChart{}, fmt.Errorf("mismatched data lengths")
	}

	var adjclose []float64
	if len(result.Indicators.Adjclose) > 0 && len(result.Indicators.Adjclose[0].Adjclose) == len(result.Timestamp) {
		adjclose = result.Indicators.Adjclose[0].Adjclose
	}

	indicators := make([]Indicators, len(result.Timestamp))
	for i, v := range result.Timestamp {
		indicators[i].Date = time.Unix(v, 0).UTC()
		indicators[i].PriceOpen = result.Indicators.Quote[0].Open[i]
		indicators[i].PriceClose = result.Indicators.Quote[0].Close[i]
		indicators[i].Volume = result.Indicators.Quote[0].Volume[i]
		indicators[i].PriceHigh = result.Indicators.Quote[0].High[i]
		indicators[i].PriceLow = result.Indicators.Quote[0].Low[i]
		if adjclose != nil {
			indicators[i].AdjustedClose = adjclose[i]
		}
	}

	return PriceChart{
		Symbol:           result.Meta.Symbol,
		Currency:         result.Meta.Currency,
		ExchangeName:     result.Meta.ExchangeName,
		FullExchangeName: result.Meta.FullExchangeName,
		LongName:         result.Meta.LongName,
		Shortname:        result.Meta.Shortname,
		Indicators:       indicators,
	}, nil
}

// GetIndicatorForDate searches for price data matching a specific date.
// The method performs date-only comparison by truncating both the target and
// indicator dates to midnight UTC, ignoring time components.
func (c PriceChart) GetIndicatorForDate(target time.Time) (Indicators, bool) {
	targetDay := target.UTC().Truncate(24 * time.Hour)
	for _, ind := range c.Indicators {
		if ind.Date.UTC().Truncate(24 * time.Hour).Equal(targetDay) {
			return ind, true
		}
	}
	return Indicators{}, false
}

// QueryFiveDay fetches the last 5 days of daily price data for a symbol.
// This is typically used to get the latest available closing price without
// pulling full history.
func (c *FinanceClient) QueryFiveDay(ctx context.Context, symbol string) (Response, error) {
	url := fmt.Sprintf("https://query1.finance.yahoo.com/v8/finance/chart/%s?interval=1d&range=5d", symbol)
	result, err := c.queryYahoo(ctx, url)
	if err != nil {
		return Response{}, err
	}
	if len(result.Chart.Result) == 0 {
		return Response{}, fmt.Errorf("no results returned for symbol %s", symbol)
	}

	return result, nil
}

// QueryRange fetches daily price data for a symbol within a specific date
// range, used for historical backfilling. Yahoo's period parameters are Unix
// timestamps and the range is inclusive.
func (c *FinanceClient) QueryRange(ctx context.Context, symbol string, startDate, endDate time.Time) (Response, error) {
	url := fmt.Sprintf(
		"https://query1.finance.yahoo.com/v8/finance/chart/%s?interval=1d&period1=%d&period2=%d",
		symbol,
		startDate.Unix(),
		endDate.Unix(),
	)
	result, err := c.queryYahoo(ctx, url)
	if err != nil {
		return Response{}, err
	}
	if len(result.Chart.Result) == 0 {
		return Response{}, fmt.Errorf("no results returned for symbol %s", symbol)
	}

	return result, nil
}

// QueryFxRate fetches the current exchange rate for a currency pair. Yahoo
// exposes currency pairs as chart symbols of the form "USDTWD=X", with the
// current rate in the chart metadata's regularMarketPrice.
func (c *FinanceClient) QueryFxRate(ctx context.Context, fromCurrency, toCurrency string) (float64, error) {
	pair := fmt.Sprintf("%s%s=X", fromCurrency, toCurrency)
	url := fmt.Sprintf("https://query1.finance.yahoo.com/v8/finance/chart/%s?interval=1d&range=1d", pair)

	result, err := c.queryYahoo(ctx, url)
	if err != nil {
		return 0, err
	}
	if len(result.Chart.Result) == 0 {
		return 0, fmt.Errorf("no results returned for pair %s", pair)
	}

	price := result.Chart.Result[0].Meta.RegularMarketPrice
	if price <= 0 {
		return 0, fmt.Errorf("no market price returned for pair %s", pair)
	}

	return price, nil
}

// rateLimitedError marks an HTTP 429 so the retry loop can honor the
// server's Retry-After hint instead of its own backoff schedule.
type rateLimitedError struct {
	retryAfter time.Duration
}

func (e *rateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", e.retryAfter)
}

// queryYahoo is an internal helper that executes HTTP requests to the Yahoo
// Finance API. It waits on the shared rate limiter before each attempt and
// retries transient failures (network errors, 429s, 5xx) with exponential
// backoff, honoring a Retry-After header when one is present.
func (c *FinanceClient) queryYahoo(ctx context.Context, url string) (Response, error) {
	var response Response

	backoff := retry.WithMaxRetries(maxRetries, retry.NewExponential(initialBackoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		resp, err := c.doRequest(ctx, url)
		if err != nil {
			return retry.RetryableError(err)
		}

		var limited *rateLimitedError
		switch {
		case resp.err == nil:
			response = resp.response
			return nil
		case errors.As(resp.err, &limited):
			if limited.retryAfter > 0 {
				select {
				case <-time.After(limited.retryAfter):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return retry.RetryableError(resp.err)
		case resp.retryable:
			return retry.RetryableError(resp.err)
		default:
			return resp.err
		}
	})
	if err != nil {
		return Response{}, err
	}

	return response, nil
}

type queryResult struct {
	response  Response
	err       error
	retryable bool
}

func (c *FinanceClient) doRequest(ctx context.Context, url string) (queryResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return queryResult{}, err
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return queryResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return queryResult{
			err:       &rateLimitedError{retryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))},
			retryable: true,
		}, nil
	}
	if resp.StatusCode >= 500 {
		return queryResult{
			err:       fmt.Errorf("yahoo returned status %d", resp.StatusCode),
			retryable: true,
		}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return queryResult{err: fmt.Errorf("yahoo returned status %d", resp.StatusCode)}, nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return queryResult{err: err, retryable: true}, nil
	}

	var response Response
	if err := json.Unmarshal(data, &response); err != nil {
		return queryResult{err: err}, nil
	}

	if response.Chart.Error != nil {
		return queryResult{err: fmt.Errorf("yahoo error: %s", *response.Chart.Error)}, nil
	}

	return queryResult{response: response}, nil
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(header); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return 0
}
