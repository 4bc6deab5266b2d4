package apperrors

import "errors"

// External service errors. Provider errors are recovered locally by price
// fallback; backend errors fail the refresh cycle or the proxied request.
var (
	// ErrProviderUnavailable indicates the quote provider could not produce a usable answer
	// (network error, non-success status, malformed body, missing price).
	ErrProviderUnavailable = errors.New("quote provider unavailable")

	// ErrProviderNotConfigured indicates no API token was configured for the quote provider.
	ErrProviderNotConfigured = errors.New("quote provider credentials not configured")

	// ErrBackendFetch indicates the holdings list could not be retrieved from the backend.
	ErrBackendFetch = errors.New("failed to fetch holdings from backend")

	// ErrAllLookupsFailed indicates every live quote lookup of a refresh cycle failed.
	ErrAllLookupsFailed = errors.New("all live price lookups failed")

	// ErrBackendRequest indicates a mutation request to the backend failed.
	ErrBackendRequest = errors.New("backend request failed")

	// ErrSymbolNotFound indicates the quote provider knows nothing about a symbol.
	ErrSymbolNotFound = errors.New("symbol not found")

	// ErrHoldingNotFound indicates the backend has no holding with the given ID.
	ErrHoldingNotFound = errors.New("holding not found")

	// ErrRecommendationsDisabled indicates no AI provider key was configured.
	ErrRecommendationsDisabled = errors.New("recommendations are not configured")
)

// Business logic errors represent validation failures before any external call.
var (
	// ErrInvalidSymbol indicates an empty or malformed ticker symbol.
	ErrInvalidSymbol = errors.New("symbol is required")

	// ErrInvalidDateRange indicates that the provided date range is invalid
	// (e.g., start date is after end date).
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrEmptyID indicates that a required ID parameter is empty or missing.
	ErrEmptyID = errors.New("ID cannot be empty")

	// ErrNoValuation indicates no refresh cycle has completed successfully yet.
	ErrNoValuation = errors.New("no valuation available yet")

	// ErrSnapshotNotFound indicates no journal entry exists with the given ID.
	ErrSnapshotNotFound = errors.New("snapshot not found")

	// ErrNoChartData indicates there is nothing positive to plot.
	ErrNoChartData = errors.New("no chart data")
)

// Operation failure errors used as user-facing messages in HTTP responses.
var (
	ErrFailedToRefresh            = errors.New("failed to refresh dashboard")
	ErrFailedToCreateHolding      = errors.New("failed to create holding")
	ErrFailedToDeleteHolding      = errors.New("failed to delete holding")
	ErrFailedToCreateGoal         = errors.New("failed to create goal")
	ErrFailedToRetrieveNews       = errors.New("failed to retrieve news")
	ErrFailedToRetrieveSymbol     = errors.New("failed to retrieve symbol")
	ErrFailedToRetrieveHistory    = errors.New("failed to retrieve snapshot history")
	ErrFailedToRenderChart        = errors.New("failed to render chart")
	ErrFailedToRecommend          = errors.New("failed to generate recommendation")
	ErrFailedToGetVersionInfo     = errors.New("failed to get version information")
	ErrFailedToStoreSnapshot      = errors.New("failed to store snapshot")
	ErrFailedToPruneSnapshotStore = errors.New("failed to prune snapshot history")
)
