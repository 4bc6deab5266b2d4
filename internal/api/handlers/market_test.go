package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/model"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/service"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/testutil"
)

func setupMarketHandler(t *testing.T, quotes *testutil.MockQuoteClient) *MarketHandler {
	t.Helper()
	return NewMarketHandler(service.NewMarketService(quotes, zerolog.Nop()))
}

func TestMarketHandler_News(t *testing.T) {
	articles := make([]model.NewsArticle, 15)
	for i := range articles {
		articles[i] = model.NewsArticle{
			Headline: "Headline " + testutil.MakeSymbol(""),
			Source:   "Reuters",
			Datetime: time.Now().Add(-time.Duration(i) * time.Hour),
		}
	}

	t.Run("returns ten articles by default", func(t *testing.T) {
		handler := setupMarketHandler(t, testutil.NewMockQuoteClient().WithNews(articles...))

		req := httptest.NewRequest(http.MethodGet, "/api/market/news", nil)
		w := httptest.NewRecorder()

		handler.News(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		var got []model.NewsArticle
		if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(got) != defaultNewsLimit {
			t.Errorf("Expected %d articles, got %d", defaultNewsLimit, len(got))
		}
		if got[0].Age == "" {
			t.Error("Expected age label on articles")
		}
	})

	t.Run("honours the limit parameter", func(t *testing.T) {
		handler := setupMarketHandler(t, testutil.NewMockQuoteClient().WithNews(articles...))

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/market/news", map[string]string{"limit": "3"})
		w := httptest.NewRecorder()

		handler.News(w, req)

		var got []model.NewsArticle
		if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(got) != 3 {
			t.Errorf("Expected 3 articles, got %d", len(got))
		}
	})

	t.Run("returns 400 for invalid limit", func(t *testing.T) {
		handler := setupMarketHandler(t, testutil.NewMockQuoteClient())

		for _, limit := range []string{"abc", "0", "51"} {
			req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/market/news", map[string]string{"limit": limit})
			w := httptest.NewRecorder()

			handler.News(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("limit=%s: expected 400, got %d", limit, w.Code)
			}
		}
	})

	t.Run("returns 502 when the provider fails", func(t *testing.T) {
		handler := setupMarketHandler(t, testutil.NewMockQuoteClient().WithError(errors.New("status 500")))

		req := httptest.NewRequest(http.MethodGet, "/api/market/news", nil)
		w := httptest.NewRecorder()

		handler.News(w, req)

		if w.Code != http.StatusBadGateway {
			t.Errorf("Expected 502, got %d", w.Code)
		}
	})
}

func TestMarketHandler_Symbol(t *testing.T) {
	t.Run("returns profile and quote", func(t *testing.T) {
		quotes := testutil.NewMockQuoteClient().
			WithProfile("AAPL", model.Profile{Name: "Apple Inc", Ticker: "AAPL", Exchange: "NASDAQ"}).
			WithPrice("AAPL", 190.5)
		handler := setupMarketHandler(t, quotes)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/market/symbol/aapl", map[string]string{"symbol": "aapl"})
		w := httptest.NewRecorder()

		handler.Symbol(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		var got model.SymbolLookup
		if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if got.Profile.Name != "Apple Inc" {
			t.Errorf("Expected Apple Inc, got %s", got.Profile.Name)
		}
		if got.Quote == nil || got.Quote.Current != 190.5 {
			t.Errorf("Expected quote 190.5, got %+v", got.Quote)
		}
	})

	t.Run("returns 404 for unknown symbol", func(t *testing.T) {
		handler := setupMarketHandler(t, testutil.NewMockQuoteClient())

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/market/symbol/NOPE", map[string]string{"symbol": "NOPE"})
		w := httptest.NewRecorder()

		handler.Symbol(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})

	t.Run("returns 400 for blank symbol", func(t *testing.T) {
		handler := setupMarketHandler(t, testutil.NewMockQuoteClient())

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/market/symbol/", map[string]string{"symbol": "  "})
		w := httptest.NewRecorder()

		handler.Symbol(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("returns 502 when the provider is down", func(t *testing.T) {
		handler := setupMarketHandler(t, testutil.NewMockQuoteClient().WithError(errors.New("connection refused")))

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/market/symbol/AAPL", map[string]string{"symbol": "AAPL"})
		w := httptest.NewRecorder()

		handler.Symbol(w, req)

		if w.Code != http.StatusBadGateway {
			t.Errorf("Expected 502, got %d", w.Code)
		}
	})
}
