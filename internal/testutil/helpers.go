package testutil

import (
	"database/sql"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/repository"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/service"
)

// TestPortfolioID is the portfolio used by test services.
const TestPortfolioID = "1"

// NewTestPriceResolutionService creates a live-only resolver with a short lookup timeout.
func NewTestPriceResolutionService(t *testing.T, quotes *MockQuoteClient) *service.PriceResolutionService {
	t.Helper()

	return service.NewPriceResolutionService(
		quotes,
		service.PricePolicy{},
		500*time.Millisecond,
		4,
		zerolog.Nop(),
	)
}

// NewTestRefreshService creates a RefreshService on the fake backend and mock quotes.
// The interval is irrelevant unless the service is started.
func NewTestRefreshService(t *testing.T, backendClient *FakeBackend, quotes *MockQuoteClient) *service.RefreshService {
	t.Helper()

	return service.NewRefreshService(
		backendClient,
		NewTestPriceResolutionService(t, quotes),
		service.NewValuationEngine(nil),
		service.RefreshOptions{
			PortfolioID:  TestPortfolioID,
			Interval:     time.Hour,
			CycleTimeout: 5 * time.Second,
		},
		zerolog.Nop(),
	)
}

// NewTestHoldingService creates a HoldingService sharing backendClient with refresher.
func NewTestHoldingService(t *testing.T, backendClient *FakeBackend, refresher *service.RefreshService) *service.HoldingService {
	t.Helper()

	return service.NewHoldingService(backendClient, refresher, TestPortfolioID, zerolog.Nop())
}

// NewTestHistoryService creates a HistoryService on db keeping entries for retention.
func NewTestHistoryService(t *testing.T, db *sql.DB, retention time.Duration) *service.HistoryService {
	t.Helper()

	return service.NewHistoryService(repository.NewSnapshotRepository(db), retention, zerolog.Nop())
}

// NewTestSystemService creates a SystemService without a refresh loop.
func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db, nil, map[string]bool{"history": true})
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeSymbol generates a stock ticker symbol for testing.
//
// Example usage:
//
//	symbol := testutil.MakeSymbol("AAPL")
//	// Returns: "AAPL1A2B"
func MakeSymbol(base string) string {
	if base == "" {
		base = "TEST"
	}
	return base + randomAlphanumeric(4)
}

// MakeSymbolName generates a unique holding name for testing.
//
// Example usage:
//
//	name := testutil.MakeSymbolName("Tech Symbol")
//	// Returns: "Tech Symbol XYZ789"
func MakeSymbolName(base string) string {
	if base == "" {
		base = "Symbol"
	}
	return base + " " + randomAlphanumeric(6)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
