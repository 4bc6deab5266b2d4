package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/finnhub"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/model"
)

const unknownNewsSource = "Unknown Source"

// MarketService serves direct market data lookups: trending news and
// symbol details for the add-asset form.
type MarketService struct {
	quotes finnhub.Client
	now    func() time.Time
	logger zerolog.Logger
}

// NewMarketService creates a new MarketService.
func NewMarketService(quotes finnhub.Client, logger zerolog.Logger) *MarketService {
	return &MarketService{
		quotes: quotes,
		now:    time.Now,
		logger: logger.With().Str("component", "market").Logger(),
	}
}

// WithClock replaces the clock used for news age labels.
func (s *MarketService) WithClock(now func() time.Time) *MarketService {
	s.now = now
	return s
}

// GetNews returns at most limit general market headlines (all when limit <= 0),
// newest first as delivered by the provider, each labelled with its age.
func (s *MarketService) GetNews(ctx context.Context, limit int) ([]model.NewsArticle, error) {
	articles, err := s.quotes.GetNews(ctx, "general")
	if err != nil {
		return nil, fmt.Errorf("failed to get news: %w", err)
	}

	if limit > 0 && len(articles) > limit {
		articles = articles[:limit]
	}

	now := s.now()
	for i := range articles {
		if !articles[i].Datetime.IsZero() && articles[i].Datetime.Unix() > 0 {
			articles[i].Age = relativeAge(articles[i].Datetime, now)
		}
		if articles[i].Source == "" {
			articles[i].Source = unknownNewsSource
		}
	}
	return articles, nil
}

// LookupSymbol returns the profile of symbol and, when available, its live quote.
// The profile and quote are fetched concurrently. A failed quote only drops
// the quote; a failed profile fails the lookup.
func (s *MarketService) LookupSymbol(ctx context.Context, symbol string) (model.SymbolLookup, error) {
	symbol = normalizeSymbol(symbol)
	if symbol == "" {
		return model.SymbolLookup{}, apperrors.ErrInvalidSymbol
	}

	var (
		profile model.Profile
		quote   *model.Quote
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.quotes.GetProfile(gctx, symbol)
		if err != nil {
			return err
		}
		profile = p
		return nil
	})
	g.Go(func() error {
		q, err := s.quotes.GetQuote(gctx, symbol)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				s.logger.Debug().Err(err).Str("symbol", symbol).Msg("symbol lookup without quote")
			}
			return nil
		}
		quote = &q
		return nil
	})

	if err := g.Wait(); err != nil {
		return model.SymbolLookup{}, fmt.Errorf("failed to look up %s: %w", symbol, err)
	}
	return model.SymbolLookup{Profile: profile, Quote: quote}, nil
}
