package api_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/api"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/config"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/presentation"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/service"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/testutil"
)

func newTestRouter(t *testing.T, apiKey string) http.Handler {
	t.Helper()
	db := testutil.SetupTestDB(t)
	fb := testutil.NewFakeBackend(testutil.CreateHolding("AAPL", 10, 100))
	quotes := testutil.NewMockQuoteClient().WithPrice("AAPL", 120)
	refresher := testutil.NewTestRefreshService(t, fb, quotes)

	cfg := &config.Config{
		Server: config.ServerConfig{APIKey: apiKey},
		CORS:   config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}
	svc := api.Services{
		System:         service.NewSystemService(db, refresher, nil),
		Refresh:        refresher,
		History:        testutil.NewTestHistoryService(t, db, time.Hour),
		Holdings:       testutil.NewTestHoldingService(t, fb, refresher),
		Goals:          service.NewGoalService(fb),
		Market:         service.NewMarketService(quotes, zerolog.Nop()),
		Recommendation: service.NewRecommendationService(nil, refresher),
		Presenter:      presentation.NewPresenter("USD", nil),
	}
	return api.NewRouter(svc, cfg, zerolog.Nop())
}

func TestNewRouter(t *testing.T) {
	router := newTestRouter(t, "")

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"health", http.MethodGet, "/api/system/health", "", http.StatusOK},
		{"version", http.MethodGet, "/api/system/version", "", http.StatusOK},
		{"dashboard view", http.MethodGet, "/api/dashboard", "", http.StatusOK},
		{"snapshot", http.MethodGet, "/api/dashboard/snapshot", "", http.StatusOK},
		{"manual refresh", http.MethodPost, "/api/dashboard/refresh", "", http.StatusOK},
		{"history", http.MethodGet, "/api/dashboard/history", "", http.StatusOK},
		{"history entry with invalid uuid", http.MethodGet, "/api/dashboard/history/not-a-uuid", "", http.StatusBadRequest},
		{"history entry unknown", http.MethodGet, "/api/dashboard/history/550e8400-e29b-41d4-a716-446655440000", "", http.StatusNotFound},
		{"recommendation disabled", http.MethodGet, "/api/recommendation", "", http.StatusServiceUnavailable},
		{"symbol unknown", http.MethodGet, "/api/market/symbol/NOPE", "", http.StatusNotFound},
		{"invalid holding", http.MethodPost, "/api/holdings", `{"symbol":""}`, http.StatusBadRequest},
		{"unknown route", http.MethodGet, "/api/unknown", "", http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code, w.Body.String())
		})
	}
}

func TestNewRouter_APIKey(t *testing.T) {
	router := newTestRouter(t, "secret")

	t.Run("mutations require the key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/dashboard/refresh", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("mutations pass with the key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/dashboard/refresh", nil)
		req.Header.Set("X-API-Key", "secret")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	t.Run("reads stay open", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
