package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/model"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/service"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/testutil"
)

// TestPriceResolutionService_ResolvePrices tests live lookups and fallbacks.
//
// WHY: A failing quote provider must never blank the dashboard. Each failed
// lookup has to degrade to the purchase price while the others keep their
// live price, and results must stay aligned with the input.
func TestPriceResolutionService_ResolvePrices(t *testing.T) {
	t.Run("attaches live prices in input order", func(t *testing.T) {
		quotes := testutil.NewMockQuoteClient().
			WithPrice("AAPL", 190).
			WithPrice("MSFT", 410).
			WithPrice("NVDA", 880)
		svc := testutil.NewTestPriceResolutionService(t, quotes)

		holdings := []model.Holding{
			testutil.CreateHolding("NVDA", 1, 500),
			testutil.CreateHolding("AAPL", 1, 150),
			testutil.CreateHolding("MSFT", 1, 300),
		}

		res := svc.ResolvePrices(context.Background(), holdings)

		require.Len(t, res.Holdings, 3)
		assert.Equal(t, "NVDA", res.Holdings[0].Symbol)
		assert.Equal(t, 880.0, *res.Holdings[0].CurrentPrice)
		assert.Equal(t, 190.0, *res.Holdings[1].CurrentPrice)
		assert.Equal(t, 410.0, *res.Holdings[2].CurrentPrice)
		assert.Equal(t, []model.PriceSource{model.PriceSourceLive, model.PriceSourceLive, model.PriceSourceLive}, res.Sources)
		assert.Equal(t, 3, res.Report.Live)
		assert.Equal(t, 3, res.Report.Attempted)
		assert.Empty(t, res.Report.Failures)

		for _, h := range holdings {
			assert.Nil(t, h.CurrentPrice, "input must not be modified")
		}
	})

	t.Run("falls back to purchase price when a lookup fails", func(t *testing.T) {
		quotes := testutil.NewMockQuoteClient().
			WithPrice("AAPL", 120).
			WithSymbolError("TSLA", errors.New("HTTP 500"))
		svc := testutil.NewTestPriceResolutionService(t, quotes)

		holdings := []model.Holding{
			testutil.CreateHolding("AAPL", 10, 100),
			testutil.CreateHolding("TSLA", 2, 250),
		}

		res := svc.ResolvePrices(context.Background(), holdings)

		assert.Equal(t, 120.0, *res.Holdings[0].CurrentPrice)
		assert.Equal(t, 250.0, *res.Holdings[1].CurrentPrice)
		assert.Equal(t, model.PriceSourceFallback, res.Sources[1])
		assert.Equal(t, 1, res.Report.Fallback)
		require.Len(t, res.Report.Failures, 1)
		assert.Equal(t, "TSLA", res.Report.Failures[0].Symbol)
		assert.False(t, res.Report.AllLookupsFailed())
	})

	t.Run("unknown symbol falls back", func(t *testing.T) {
		svc := testutil.NewTestPriceResolutionService(t, testutil.NewMockQuoteClient())

		res := svc.ResolvePrices(context.Background(), []model.Holding{testutil.CreateHolding("NOPE", 1, 42)})

		assert.Equal(t, 42.0, *res.Holdings[0].CurrentPrice)
		assert.True(t, res.Report.AllLookupsFailed())
	})

	t.Run("slow lookup times out and falls back", func(t *testing.T) {
		quotes := testutil.NewMockQuoteClient().WithPrice("AAPL", 120).WithDelay(2 * time.Second)
		svc := service.NewPriceResolutionService(quotes, service.PricePolicy{}, 20*time.Millisecond, 2, zerolog.Nop())

		start := time.Now()
		res := svc.ResolvePrices(context.Background(), []model.Holding{testutil.CreateHolding("AAPL", 1, 100)})

		assert.Less(t, time.Since(start), time.Second)
		assert.Equal(t, 100.0, *res.Holdings[0].CurrentPrice)
		assert.Equal(t, model.PriceSourceFallback, res.Sources[0])
	})

	t.Run("applies static and purchase strategies without lookups", func(t *testing.T) {
		quotes := testutil.NewMockQuoteClient().WithPrice("AAPL", 120)
		policy := service.PricePolicy{
			Strategies: map[model.AssetType]model.PriceStrategy{
				model.AssetTypeGold:       model.StrategyStatic,
				model.AssetTypeMutualFund: model.StrategyPurchase,
			},
			StaticPrices: map[string]float64{"GOLDBEES": 61.5},
		}
		svc := service.NewPriceResolutionService(quotes, policy, time.Second, 2, zerolog.Nop())

		holdings := []model.Holding{
			testutil.CreateHolding("AAPL", 1, 100),
			testutil.NewHolding().WithSymbol("goldbees").WithAssetType(model.AssetTypeGold).WithPurchasePrice(50).Build(),
			testutil.NewHolding().WithSymbol("SGB").WithAssetType(model.AssetTypeGold).WithPurchasePrice(48).Build(),
			testutil.NewHolding().WithSymbol("HDFCMF").WithAssetType(model.AssetTypeMutualFund).WithPurchasePrice(30).Build(),
		}

		res := svc.ResolvePrices(context.Background(), holdings)

		assert.Equal(t, []model.PriceSource{
			model.PriceSourceLive,
			model.PriceSourceStatic,
			model.PriceSourcePurchase,
			model.PriceSourcePurchase,
		}, res.Sources)
		assert.Equal(t, 61.5, *res.Holdings[1].CurrentPrice)
		assert.Equal(t, 48.0, *res.Holdings[2].CurrentPrice)
		assert.Equal(t, 30.0, *res.Holdings[3].CurrentPrice)
		assert.Equal(t, 1, res.Report.Attempted)
		assert.Equal(t, 1, quotes.TotalQuoteCount())
		assert.Zero(t, quotes.QueryCount("quote:HDFCMF"))
	})

	t.Run("no live holdings is not a total failure", func(t *testing.T) {
		policy := service.PricePolicy{
			Strategies: map[model.AssetType]model.PriceStrategy{model.AssetTypeStock: model.StrategyPurchase},
		}
		svc := service.NewPriceResolutionService(testutil.NewMockQuoteClient(), policy, time.Second, 1, zerolog.Nop())

		res := svc.ResolvePrices(context.Background(), []model.Holding{testutil.CreateHolding("AAPL", 1, 100)})

		assert.False(t, res.Report.AllLookupsFailed())
		assert.Equal(t, 1, res.Report.Purchase)
	})
}
