package testutil

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/finnhub"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/model"
)

// MockQuoteClient is a mock implementation of finnhub.Client for testing.
// It returns predefined prices instead of making actual API calls.
// Symbols without a configured price fail like an unknown symbol would.
type MockQuoteClient struct {
	mu sync.Mutex

	// Prices maps upper-case symbol to the quote price to return
	Prices map[string]float64
	// SymbolErrors maps upper-case symbol to the error to return for it
	SymbolErrors map[string]error
	// MockError is returned for every call when set
	MockError error
	// Delay is applied before answering; a cancelled context ends it early
	Delay time.Duration
	// Profiles maps upper-case symbol to the profile to return
	Profiles map[string]model.Profile
	// News is returned from GetNews
	News []model.NewsArticle

	calls map[string]int
}

// NewMockQuoteClient creates a new mock quote client with no prices configured.
func NewMockQuoteClient() *MockQuoteClient {
	return &MockQuoteClient{
		Prices:       map[string]float64{},
		SymbolErrors: map[string]error{},
		Profiles:     map[string]model.Profile{},
		calls:        map[string]int{},
	}
}

// WithPrice configures the live price returned for symbol.
func (m *MockQuoteClient) WithPrice(symbol string, price float64) *MockQuoteClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Prices[strings.ToUpper(symbol)] = price
	return m
}

// WithSymbolError configures the mock to fail lookups of symbol with err.
func (m *MockQuoteClient) WithSymbolError(symbol string, err error) *MockQuoteClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SymbolErrors[strings.ToUpper(symbol)] = err
	return m
}

// WithError configures the mock to return the specified error for every call.
func (m *MockQuoteClient) WithError(err error) *MockQuoteClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MockError = err
	return m
}

// WithDelay configures the mock to wait before answering.
func (m *MockQuoteClient) WithDelay(d time.Duration) *MockQuoteClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Delay = d
	return m
}

// WithProfile configures the profile returned for symbol.
func (m *MockQuoteClient) WithProfile(symbol string, p model.Profile) *MockQuoteClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Profiles[strings.ToUpper(symbol)] = p
	return m
}

// WithNews configures the articles returned from GetNews.
func (m *MockQuoteClient) WithNews(news ...model.NewsArticle) *MockQuoteClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.News = news
	return m
}

// GetQuote returns the configured price for symbol.
func (m *MockQuoteClient) GetQuote(ctx context.Context, symbol string) (model.Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if err := m.begin(ctx, "quote:"+symbol); err != nil {
		return model.Quote{}, &finnhub.ProviderError{Symbol: symbol, Endpoint: "/quote", Err: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.MockError != nil {
		return model.Quote{}, &finnhub.ProviderError{Symbol: symbol, Endpoint: "/quote", Err: m.MockError}
	}
	if err, ok := m.SymbolErrors[symbol]; ok {
		return model.Quote{}, &finnhub.ProviderError{Symbol: symbol, Endpoint: "/quote", Err: err}
	}
	price, ok := m.Prices[symbol]
	if !ok || price <= 0 {
		return model.Quote{}, &finnhub.ProviderError{Symbol: symbol, Endpoint: "/quote", Err: apperrors.ErrSymbolNotFound}
	}
	return model.Quote{Symbol: symbol, Current: price, Timestamp: time.Now().UTC()}, nil
}

// GetProfile returns the configured profile for symbol.
func (m *MockQuoteClient) GetProfile(ctx context.Context, symbol string) (model.Profile, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if err := m.begin(ctx, "profile:"+symbol); err != nil {
		return model.Profile{}, &finnhub.ProviderError{Symbol: symbol, Endpoint: "/stock/profile2", Err: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.MockError != nil {
		return model.Profile{}, &finnhub.ProviderError{Symbol: symbol, Endpoint: "/stock/profile2", Err: m.MockError}
	}
	p, ok := m.Profiles[symbol]
	if !ok {
		return model.Profile{}, &finnhub.ProviderError{Symbol: symbol, Endpoint: "/stock/profile2", Err: apperrors.ErrSymbolNotFound}
	}
	return p, nil
}

// GetNews returns the configured articles.
func (m *MockQuoteClient) GetNews(ctx context.Context, _ string) ([]model.NewsArticle, error) {
	if err := m.begin(ctx, "news"); err != nil {
		return nil, &finnhub.ProviderError{Endpoint: "/news", Err: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.MockError != nil {
		return nil, &finnhub.ProviderError{Endpoint: "/news", Err: m.MockError}
	}
	return append([]model.NewsArticle(nil), m.News...), nil
}

// QueryCount returns how many calls were made for key, e.g. "quote:AAPL" or "news".
func (m *MockQuoteClient) QueryCount(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[key]
}

// TotalQuoteCount returns the number of GetQuote calls across all symbols.
func (m *MockQuoteClient) TotalQuoteCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k, v := range m.calls {
		if strings.HasPrefix(k, "quote:") {
			n += v
		}
	}
	return n
}

func (m *MockQuoteClient) begin(ctx context.Context, key string) error {
	m.mu.Lock()
	m.calls[key]++
	delay := m.Delay
	m.mu.Unlock()

	if delay <= 0 {
		return ctx.Err()
	}
	select {
	case <-time.After(delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
