// Package importer reads the desktop app's per-market transaction CSV files
// into normalized transactions. The files are user-edited, so parsing is
// deliberately forgiving: numeric cells tolerate currency symbols, thousands
// separators and blanks, and a malformed row is skipped rather than aborting
// the whole file.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/model"
	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/numeric"
)

// MarketFile pairs a transaction file with the currency its rows trade in.
// The files themselves carry no currency column; it is implied by market.
type MarketFile struct {
	Filename string
	Currency string
}

// DefaultMarketFiles lists the transaction files the desktop app maintains.
var DefaultMarketFiles = []MarketFile{
	{Filename: "US_Trx.csv", Currency: "USD"},
	{Filename: "TW_Trx.csv", Currency: "TWD"},
	{Filename: "JP_Trx.csv", Currency: "JPY"},
	{Filename: "HK_Trx.csv", Currency: "HKD"},
}

// Expected column order of a transaction file. A header row is detected by
// an unparseable date in the first column and skipped.
const (
	colDate = iota
	colSymbol
	colType
	colQuantity
	colPrice
	colFees
	colSplitRatio
	minColumns = colSplitRatio + 1
)

// Result summarizes one parse run.
type Result struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// ReadFile parses one market's transaction file. A missing file surfaces as
// an error satisfying errors.Is(err, fs.ErrNotExist) so callers aggregating
// several markets can distinguish it from a corrupt file.
func ReadFile(path, currency string) ([]model.Transaction, Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Result{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return Parse(f, currency)
}

// Parse reads transaction rows from r, stamping each with the given
// currency. Rows with fewer than the expected columns, a blank first cell or
// an unparseable date are counted as skipped.
func Parse(r io.Reader, currency string) ([]model.Transaction, Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // tolerate ragged rows; validated per row below
	reader.TrimLeadingSpace = true

	var result Result
	transactions := []model.Transaction{}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, result, fmt.Errorf("failed to parse CSV record: %w", err)
		}

		if len(record) < minColumns || strings.TrimSpace(record[colDate]) == "" {
			result.Skipped++
			continue
		}

		date, err := parseDate(record[colDate])
		if err != nil {
			// Header row or a corrupted date cell.
			result.Skipped++
			continue
		}

		transactions = append(transactions, model.Transaction{
			Date:       date,
			Symbol:     strings.TrimSpace(record[colSymbol]),
			Type:       strings.TrimSpace(record[colType]),
			Quantity:   numeric.ParseAmount(record[colQuantity]),
			Price:      numeric.ParseAmount(record[colPrice]),
			Fees:       numeric.ParseAmount(record[colFees]),
			SplitRatio: numeric.ParseAmount(record[colSplitRatio]),
			Currency:   currency,
		})
		result.Imported++
	}

	return transactions, result, nil
}

// ReadDir reads every market file present in dir, merging the rows. Missing
// files are silently skipped; the desktop app only creates files for markets
// the user trades in.
func ReadDir(dir string, files []MarketFile) ([]model.Transaction, Result, error) {
	if len(files) == 0 {
		files = DefaultMarketFiles
	}

	var total Result
	all := []model.Transaction{}

	for _, mf := range files {
		txs, result, err := ReadFile(filepath.Join(dir, mf.Filename), mf.Currency)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, total, err
		}
		all = append(all, txs...)
		total.Imported += result.Imported
		total.Skipped += result.Skipped
	}

	return all, total, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse date: %w", err)
		}
	}
	return t.UTC(), nil
}
