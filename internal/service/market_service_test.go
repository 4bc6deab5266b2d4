package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/model"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/service"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/testutil"
)

// TestMarketService_GetNews tests headline limiting and age labels.
//
// WHY: The news panel shows a fixed number of items with a relative age.
// Missing sources must not render as empty strings.
func TestMarketService_GetNews(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	quotes := testutil.NewMockQuoteClient().WithNews(
		model.NewsArticle{Headline: "Fresh", Source: "Reuters", Datetime: now.Add(-10 * time.Minute)},
		model.NewsArticle{Headline: "Morning", Source: "", Datetime: now.Add(-5 * time.Hour)},
		model.NewsArticle{Headline: "Old", Source: "CNBC", Datetime: now.Add(-72 * time.Hour)},
		model.NewsArticle{Headline: "Older", Source: "CNBC", Datetime: now.Add(-96 * time.Hour)},
	)
	svc := service.NewMarketService(quotes, zerolog.Nop()).WithClock(func() time.Time { return now })

	t.Run("limits and labels articles", func(t *testing.T) {
		news, err := svc.GetNews(context.Background(), 3)
		require.NoError(t, err)

		require.Len(t, news, 3)
		assert.Equal(t, "Just now", news[0].Age)
		assert.Equal(t, "5h ago", news[1].Age)
		assert.Equal(t, "Unknown Source", news[1].Source)
		assert.Equal(t, "3d ago", news[2].Age)
	})

	t.Run("zero limit returns all", func(t *testing.T) {
		news, err := svc.GetNews(context.Background(), 0)
		require.NoError(t, err)
		assert.Len(t, news, 4)
	})

	t.Run("provider failure", func(t *testing.T) {
		failing := service.NewMarketService(testutil.NewMockQuoteClient().WithError(errors.New("HTTP 429")), zerolog.Nop())

		_, err := failing.GetNews(context.Background(), 5)
		assert.ErrorIs(t, err, apperrors.ErrProviderUnavailable)
	})
}

// TestMarketService_LookupSymbol tests the add-asset symbol lookup.
//
// WHY: The add-asset form prefills name and price from this lookup. A
// missing quote should not hide a valid profile.
func TestMarketService_LookupSymbol(t *testing.T) {
	t.Run("returns profile and quote", func(t *testing.T) {
		quotes := testutil.NewMockQuoteClient().
			WithProfile("AAPL", model.Profile{Name: "Apple Inc", Ticker: "AAPL", Exchange: "NASDAQ"}).
			WithPrice("AAPL", 190)
		svc := service.NewMarketService(quotes, zerolog.Nop())

		res, err := svc.LookupSymbol(context.Background(), " aapl ")
		require.NoError(t, err)

		assert.Equal(t, "Apple Inc", res.Profile.Name)
		require.NotNil(t, res.Quote)
		assert.Equal(t, 190.0, res.Quote.Current)
		assert.Equal(t, 1, quotes.QueryCount("profile:AAPL"))
		assert.Equal(t, 1, quotes.QueryCount("quote:AAPL"))
	})

	t.Run("missing quote keeps the profile", func(t *testing.T) {
		quotes := testutil.NewMockQuoteClient().
			WithProfile("ACME", model.Profile{Name: "Acme", Ticker: "ACME"})
		svc := service.NewMarketService(quotes, zerolog.Nop())

		res, err := svc.LookupSymbol(context.Background(), "ACME")
		require.NoError(t, err)

		assert.Equal(t, "Acme", res.Profile.Name)
		assert.Nil(t, res.Quote)
	})

	t.Run("unknown symbol", func(t *testing.T) {
		svc := service.NewMarketService(testutil.NewMockQuoteClient(), zerolog.Nop())

		_, err := svc.LookupSymbol(context.Background(), "NOPE")
		assert.ErrorIs(t, err, apperrors.ErrSymbolNotFound)
	})

	t.Run("empty symbol", func(t *testing.T) {
		svc := service.NewMarketService(testutil.NewMockQuoteClient(), zerolog.Nop())

		_, err := svc.LookupSymbol(context.Background(), "  ")
		assert.ErrorIs(t, err, apperrors.ErrInvalidSymbol)
	})
}
