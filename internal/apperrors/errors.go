package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrSecurityNotFound indicates that a security with the given ticker does not exist.
	ErrSecurityNotFound = errors.New("security not found")

	// ErrTransactionNotFound indicates that a transaction with the given ID does not exist.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrPriceNotFound indicates no price record for a specific symbol and date combination.
	ErrPriceNotFound = errors.New("price not found")

	// ErrExchangeRateNotFound indicates no record for a specific currency pair and date combination.
	ErrExchangeRateNotFound = errors.New("exchange rate for currency/date not found")

	// ErrSymbolNotFound indicates that a symbol lookup returned no results.
	ErrSymbolNotFound = errors.New("symbol not found")

	// ErrSettingNotFound indicates that a settings key has no stored value.
	ErrSettingNotFound = errors.New("setting not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInvalidDateRange indicates that the provided date range is invalid
	// (e.g., start date is after end date).
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrInvalidSymbol indicates that a required symbol parameter is empty or unusable.
	ErrInvalidSymbol = errors.New("symbol is required")

	// ErrInvalidCurrency indicates that a currency parameter is missing or not a known code.
	ErrInvalidCurrency = errors.New("currency parameter is required")

	// ErrInvalidDate indicates that a required date parameter is missing or unparseable.
	ErrInvalidDate = errors.New("date parameter is required")

	// ErrEmptyID indicates that a required ID parameter is empty or missing.
	ErrEmptyID = errors.New("ID cannot be empty")

	// ErrDuplicateEntry indicates that an entity with the same unique constraint already exists.
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrInvalidCSVHeaders indicates an imported file whose header row does not
	// match the expected transaction layout.
	ErrInvalidCSVHeaders = errors.New("invalid CSV headers")

	// ErrEncryptionKeyMissing indicates that an encrypted setting was requested
	// but no fernet key is configured.
	ErrEncryptionKeyMissing = errors.New("encryption key not configured")
)

// Operation failure errors represent system-level failures when retrieving or
// processing data. These indicate that an operation failed, but not due to
// missing entities or validation issues.
var (
	ErrFailedToRetrieveTransactions = errors.New("failed to retrieve transactions")
	ErrFailedToRetrievePrices       = errors.New("failed to retrieve prices")
	ErrFailedToRetrieveExchangeRate = errors.New("failed to retrieve exchange rate")
	ErrFailedToRetrieveSecurities   = errors.New("failed to retrieve securities")
	ErrFailedToGetSummary           = errors.New("failed to get portfolio summary")
	ErrFailedToGetNavHistory        = errors.New("failed to get NAV history")
	ErrFailedToUpdatePrices         = errors.New("failed to update prices")
	ErrFailedToUpdateExchangeRate   = errors.New("failed to update exchange rate")
	ErrFailedToImportTransactions   = errors.New("failed to import transactions")
)

// Data integrity errors represent inconsistencies or corruption in the data.
var (
	// ErrDataInconsistency indicates that the data is in an inconsistent state
	// (e.g., a price row references a symbol with no transactions or security).
	ErrDataInconsistency = errors.New("data inconsistency detected")

	// ErrMissingRequiredField indicates that a required field is missing or empty.
	ErrMissingRequiredField = errors.New("missing required field")
)
