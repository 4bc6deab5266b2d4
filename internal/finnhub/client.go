// Package finnhub is the quote provider adapter. It talks to a
// Finnhub-compatible market data API for quotes, company profiles and news.
package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/model"
)

const (
	DefaultBaseURL   = "https://finnhub.io/api/v1"
	DefaultTimeout   = 5 * time.Second
	DefaultRateLimit = 25 // requests per second
)

// Client is the quote provider contract used by the services.
// Every method fails explicitly; no zero price is ever returned as a success.
type Client interface {
	GetQuote(ctx context.Context, symbol string) (model.Quote, error)
	GetProfile(ctx context.Context, symbol string) (model.Profile, error)
	GetNews(ctx context.Context, category string) ([]model.NewsArticle, error)
}

// MarketClient is the HTTP implementation of Client.
type MarketClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	group      singleflight.Group
	logger     zerolog.Logger
}

// ClientOption configures the client
type ClientOption func(*MarketClient)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *MarketClient) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *MarketClient) {
		c.logger = logger.With().Str("component", "finnhub").Logger()
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *MarketClient) {
		if requestsPerSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
		}
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *MarketClient) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *MarketClient) {
		c.httpClient = httpClient
	}
}

// NewMarketClient creates a new quote provider client.
// An empty token is accepted; every call then fails with
// apperrors.ErrProviderNotConfigured so callers can fall back.
func NewMarketClient(token string, opts ...ClientOption) *MarketClient {
	c := &MarketClient{
		baseURL: DefaultBaseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// GetQuote fetches the current price of symbol.
//
// Concurrent lookups of the same symbol share one outbound request.
//
// Returns:
//   - model.Quote: The quote, Current is always > 0
//   - error: *ProviderError on empty symbol, missing token, transport failure,
//     non-2xx status, malformed body, or a missing/non-positive price
func (c *MarketClient) GetQuote(ctx context.Context, symbol string) (model.Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return model.Quote{}, &ProviderError{Endpoint: "/quote", Err: apperrors.ErrInvalidSymbol}
	}

	// The shared fetch is detached from ctx so one caller giving up does not
	// fail the others; each caller still stops waiting on its own ctx.
	ch := c.group.DoChan("quote:"+symbol, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fetchTimeout())
		defer cancel()

		var raw QuoteResponse
		if err := c.get(fetchCtx, "/quote", symbol, url.Values{"symbol": {symbol}}, &raw); err != nil {
			return model.Quote{}, err
		}
		if raw.Current <= 0 {
			return model.Quote{}, &ProviderError{
				Symbol:   symbol,
				Endpoint: "/quote",
				Err:      fmt.Errorf("%w: no price in response", apperrors.ErrSymbolNotFound),
			}
		}
		q := model.Quote{
			Symbol:        symbol,
			Current:       float64(raw.Current),
			PreviousClose: float64(raw.PreviousClose),
			High:          float64(raw.High),
			Low:           float64(raw.Low),
			Open:          float64(raw.Open),
		}
		if raw.Timestamp > 0 {
			q.Timestamp = time.Unix(raw.Timestamp, 0).UTC()
		}
		return q, nil
	})

	select {
	case res := <-ch:
		if res.Shared {
			c.logger.Debug().Str("symbol", symbol).Msg("quote lookup shared with concurrent caller")
		}
		if res.Err != nil {
			return model.Quote{}, res.Err
		}
		return res.Val.(model.Quote), nil
	case <-ctx.Done():
		return model.Quote{}, &ProviderError{
			Symbol:   symbol,
			Endpoint: "/quote",
			Err:      fmt.Errorf("request abandoned: %w", ctx.Err()),
		}
	}
}

// fetchTimeout bounds a shared lookup that no single caller owns.
func (c *MarketClient) fetchTimeout() time.Duration {
	if c.httpClient.Timeout > 0 {
		return c.httpClient.Timeout
	}
	return DefaultTimeout
}

// GetProfile fetches the company profile of symbol.
// Unknown symbols fail with an error matching apperrors.ErrSymbolNotFound.
func (c *MarketClient) GetProfile(ctx context.Context, symbol string) (model.Profile, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return model.Profile{}, &ProviderError{Endpoint: "/stock/profile2", Err: apperrors.ErrInvalidSymbol}
	}

	var raw ProfileResponse
	if err := c.get(ctx, "/stock/profile2", symbol, url.Values{"symbol": {symbol}}, &raw); err != nil {
		return model.Profile{}, err
	}
	if raw.Name == "" && raw.Ticker == "" {
		return model.Profile{}, &ProviderError{Symbol: symbol, Endpoint: "/stock/profile2", Err: apperrors.ErrSymbolNotFound}
	}

	return model.Profile{
		Name:     raw.Name,
		Ticker:   raw.Ticker,
		Exchange: raw.Exchange,
		Currency: raw.Currency,
	}, nil
}

// GetNews fetches the market news feed for category ("general" when empty).
// Articles keep the provider's order; Age is left for the caller.
func (c *MarketClient) GetNews(ctx context.Context, category string) ([]model.NewsArticle, error) {
	if category == "" {
		category = "general"
	}

	var raw []NewsItem
	if err := c.get(ctx, "/news", "", url.Values{"category": {category}}, &raw); err != nil {
		return nil, err
	}

	articles := make([]model.NewsArticle, 0, len(raw))
	for _, item := range raw {
		if item.Headline == "" {
			continue
		}
		articles = append(articles, model.NewsArticle{
			Headline: item.Headline,
			Summary:  item.Summary,
			Source:   item.Source,
			URL:      item.URL,
			Datetime: time.Unix(item.Datetime, 0).UTC(),
		})
	}
	return articles, nil
}

// get performs a rate-limited GET request and decodes the JSON body into result.
// Every failure is returned as a *ProviderError.
func (c *MarketClient) get(ctx context.Context, path, symbol string, params url.Values, result any) error {
	fail := func(status int, err error) error {
		return &ProviderError{Symbol: symbol, Endpoint: path, StatusCode: status, Err: err}
	}

	if c.token == "" {
		return fail(0, apperrors.ErrProviderNotConfigured)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fail(0, fmt.Errorf("rate limit wait: %w", err))
	}

	params.Set("token", c.token)
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fail(0, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fail(0, fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("endpoint", path).
		Str("symbol", symbol).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("provider request")

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fail(resp.StatusCode, fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(body))
		if len(msg) > 200 {
			msg = msg[:200]
		}
		return fail(resp.StatusCode, fmt.Errorf("unexpected status: %s", msg))
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fail(resp.StatusCode, fmt.Errorf("failed to decode response: %w", err))
	}

	return nil
}
