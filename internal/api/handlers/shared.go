package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/portfoliodesk/Portfolio-Tracker-Backend/internal/apperrors"
)

// respondJSON sends a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("Failed to encode JSON: %v", err)
		}
	}
}

// respondServiceError maps service-layer sentinel errors onto HTTP status
// codes: not-found sentinels become 404, validation sentinels 400,
// everything else 500.
func respondServiceError(w http.ResponseWriter, err error, message string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperrors.ErrSymbolNotFound),
		errors.Is(err, apperrors.ErrSecurityNotFound),
		errors.Is(err, apperrors.ErrTransactionNotFound),
		errors.Is(err, apperrors.ErrPriceNotFound),
		errors.Is(err, apperrors.ErrExchangeRateNotFound),
		errors.Is(err, apperrors.ErrSettingNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperrors.ErrInvalidSymbol),
		errors.Is(err, apperrors.ErrInvalidCurrency),
		errors.Is(err, apperrors.ErrInvalidDate),
		errors.Is(err, apperrors.ErrInvalidDateRange),
		errors.Is(err, apperrors.ErrMissingRequiredField),
		errors.Is(err, apperrors.ErrInvalidCSVHeaders):
		status = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrEncryptionKeyMissing):
		status = http.StatusConflict
	}

	respondJSON(w, status, map[string]string{
		"error":  message,
		"detail": err.Error(),
	})
}

// parseDateParam parses an optional query parameter in "2006-01-02" or
// RFC3339 format. An absent parameter yields the zero time with ok true.
func parseDateParam(r *http.Request, name string) (time.Time, bool) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return time.Time{}, true
	}

	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		t, err = time.Parse(time.RFC3339, value)
		if err != nil {
			return time.Time{}, false
		}
	}
	return t.UTC(), true
}
