package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/finnhub"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/model"
)

// PricePolicy decides how each asset type obtains its current price.
type PricePolicy struct {
	Strategies   map[model.AssetType]model.PriceStrategy // missing types use live
	StaticPrices map[string]float64                      // keyed by upper-case symbol
}

// StrategyFor returns the strategy configured for assetType, live by default.
func (p PricePolicy) StrategyFor(assetType model.AssetType) model.PriceStrategy {
	if s, ok := p.Strategies[assetType]; ok {
		return s
	}
	return model.StrategyLive
}

// PriceResolutionService attaches a current price to each holding.
type PriceResolutionService struct {
	quotes      finnhub.Client
	policy      PricePolicy
	timeout     time.Duration
	concurrency int
	logger      zerolog.Logger
}

// NewPriceResolutionService creates a PriceResolutionService.
// timeout bounds every single lookup; concurrency bounds parallel lookups.
func NewPriceResolutionService(
	quotes finnhub.Client,
	policy PricePolicy,
	timeout time.Duration,
	concurrency int,
	logger zerolog.Logger,
) *PriceResolutionService {
	if timeout <= 0 {
		timeout = finnhub.DefaultTimeout
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	return &PriceResolutionService{
		quotes:      quotes,
		policy:      policy,
		timeout:     timeout,
		concurrency: concurrency,
		logger:      logger.With().Str("component", "price_resolution").Logger(),
	}
}

// ResolvePrices returns copies of holdings with CurrentPrice attached, in input order.
//
// Per holding the policy strategy applies:
//   - live: quote provider; on any failure the purchase price is used
//   - static: static price table; a missing entry uses the purchase price
//   - purchase: purchase price, no lookup
//
// Live lookups run concurrently, each bounded by the lookup timeout. Results
// are stored by index, so order never depends on response arrival. Lookup
// failures are logged and reported in the Resolution report; resolution as
// a whole never fails. The input slice is not modified.
func (s *PriceResolutionService) ResolvePrices(ctx context.Context, holdings []model.Holding) model.Resolution {
	out := model.Resolution{
		Holdings: make([]model.Holding, len(holdings)),
		Sources:  make([]model.PriceSource, len(holdings)),
	}
	failures := make([]error, len(holdings))

	var g errgroup.Group
	g.SetLimit(s.concurrency)

	for i, h := range holdings {
		switch s.policy.StrategyFor(h.AssetType) {
		case model.StrategyPurchase:
			out.Holdings[i] = h.WithCurrentPrice(h.PurchasePrice)
			out.Sources[i] = model.PriceSourcePurchase
		case model.StrategyStatic:
			if price, ok := s.policy.StaticPrices[normalizeSymbol(h.Symbol)]; ok && price > 0 {
				out.Holdings[i] = h.WithCurrentPrice(price)
				out.Sources[i] = model.PriceSourceStatic
			} else {
				out.Holdings[i] = h.WithCurrentPrice(h.PurchasePrice)
				out.Sources[i] = model.PriceSourcePurchase
			}
		default:
			out.Report.Attempted++
			g.Go(func() error {
				lookupCtx, cancel := context.WithTimeout(ctx, s.timeout)
				defer cancel()

				quote, err := s.quotes.GetQuote(lookupCtx, h.Symbol)
				if err != nil {
					failures[i] = err
					out.Holdings[i] = h.WithCurrentPrice(h.PurchasePrice)
					out.Sources[i] = model.PriceSourceFallback
					return nil
				}
				out.Holdings[i] = h.WithCurrentPrice(quote.Current)
				out.Sources[i] = model.PriceSourceLive
				return nil
			})
		}
	}
	_ = g.Wait()

	for i, src := range out.Sources {
		switch src {
		case model.PriceSourceLive:
			out.Report.Live++
		case model.PriceSourceStatic:
			out.Report.Static++
		case model.PriceSourcePurchase:
			out.Report.Purchase++
		case model.PriceSourceFallback:
			out.Report.Fallback++
			out.Report.Failures = append(out.Report.Failures, model.LookupDiagnostic{
				Symbol: holdings[i].Symbol,
				Error:  failures[i].Error(),
			})
			s.logger.Warn().
				Err(failures[i]).
				Str("symbol", holdings[i].Symbol).
				Float64("fallback_price", holdings[i].PurchasePrice).
				Msg("quote lookup failed, using purchase price")
		}
	}

	if out.Report.AllLookupsFailed() {
		s.logger.Error().Int("attempted", out.Report.Attempted).Msg("all quote lookups failed")
	}

	return out
}
