// Package backend is the client for the portfolio REST API that owns goal
// and holding persistence.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/model"
)

const DefaultTimeout = 10 * time.Second

// Client is the backend contract used by the services.
type Client interface {
	ListHoldings(ctx context.Context, portfolioID string) ([]model.Holding, error)
	CreateHolding(ctx context.Context, portfolioID string, h model.NewHolding) (model.Holding, error)
	DeleteHolding(ctx context.Context, id model.HoldingID) error
	CreateGoal(ctx context.Context, g model.NewGoal) (model.Goal, error)
}

// APIError represents a non-success answer from the backend.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// RESTClient is the HTTP implementation of Client.
type RESTClient struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// ClientOption configures the client
type ClientOption func(*RESTClient)

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *RESTClient) {
		c.httpClient.Timeout = timeout
	}
}

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *RESTClient) {
		c.logger = logger.With().Str("component", "backend").Logger()
	}
}

// NewRESTClient creates a backend client rooted at baseURL (e.g. http://localhost:5400/api).
func NewRESTClient(baseURL string, opts ...ClientOption) *RESTClient {
	c := &RESTClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListHoldings fetches the ordered holdings of a portfolio.
//
// Endpoint: GET /holdings/{portfolioId}
//
// Returns:
//   - []model.Holding: Holdings in backend order, never nil on success
//   - error: Wraps apperrors.ErrBackendFetch on any failure
func (c *RESTClient) ListHoldings(ctx context.Context, portfolioID string) ([]model.Holding, error) {
	var holdings []model.Holding
	if err := c.do(ctx, http.MethodGet, "/holdings/"+url.PathEscape(portfolioID), nil, &holdings); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrBackendFetch, err)
	}
	if holdings == nil {
		holdings = []model.Holding{}
	}
	return holdings, nil
}

// CreateHolding adds a holding to a portfolio.
//
// Endpoint: POST /holdings/{portfolioId}
func (c *RESTClient) CreateHolding(ctx context.Context, portfolioID string, h model.NewHolding) (model.Holding, error) {
	var created model.Holding
	if err := c.do(ctx, http.MethodPost, "/holdings/"+url.PathEscape(portfolioID), h, &created); err != nil {
		return model.Holding{}, fmt.Errorf("%w: %w", apperrors.ErrBackendRequest, err)
	}
	return created, nil
}

// DeleteHolding removes a holding.
//
// Endpoint: DELETE /holdings/{id}
//
// A 404 answer maps to apperrors.ErrHoldingNotFound.
func (c *RESTClient) DeleteHolding(ctx context.Context, id model.HoldingID) error {
	if id == "" {
		return apperrors.ErrEmptyID
	}
	err := c.do(ctx, http.MethodDelete, "/holdings/"+url.PathEscape(string(id)), nil, nil)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %w", apperrors.ErrHoldingNotFound, err)
		}
		return fmt.Errorf("%w: %w", apperrors.ErrBackendRequest, err)
	}
	return nil
}

// CreateGoal submits a goal. The backend derives the allocation plan.
//
// Endpoint: POST /goals
func (c *RESTClient) CreateGoal(ctx context.Context, g model.NewGoal) (model.Goal, error) {
	var created model.Goal
	if err := c.do(ctx, http.MethodPost, "/goals", g, &created); err != nil {
		return model.Goal{}, fmt.Errorf("%w: %w", apperrors.ErrBackendRequest, err)
	}
	return created, nil
}

func (c *RESTClient) do(ctx context.Context, method, path string, body, result any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("backend request")

	data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(data, resp.Status), Endpoint: method + " " + path}
	}

	if result == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// errorMessage extracts {"error": "..."} or {"message": "..."} from an
// error body, falling back to the status text.
func errorMessage(data []byte, status string) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	if msg := strings.TrimSpace(string(data)); msg != "" && len(msg) <= 200 {
		return msg
	}
	return status
}
