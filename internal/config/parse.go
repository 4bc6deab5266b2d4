package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/model"
)

// parsePolicy parses PRICE_POLICY, a comma separated list of
// ASSET_TYPE=strategy pairs, e.g. "GOLD=static,MUTUAL_FUND=purchase".
// Asset types that are not listed use the live strategy.
func parsePolicy(value string) (map[model.AssetType]model.PriceStrategy, error) {
	policy := make(map[model.AssetType]model.PriceStrategy)
	pairs, err := parsePairs("PRICE_POLICY", value)
	if err != nil {
		return nil, err
	}
	for key, raw := range pairs {
		assetType, ok := model.ParseAssetType(key)
		if !ok {
			return nil, fmt.Errorf("invalid PRICE_POLICY: unknown asset type %q", key)
		}
		strategy := model.PriceStrategy(strings.ToLower(raw))
		switch strategy {
		case model.StrategyLive, model.StrategyStatic, model.StrategyPurchase:
			policy[assetType] = strategy
		default:
			return nil, fmt.Errorf("invalid PRICE_POLICY: unknown strategy %q for %s", raw, assetType)
		}
	}
	return policy, nil
}

// parseStaticPrices parses STATIC_PRICES, a comma separated list of
// SYMBOL=price pairs, e.g. "GOLDBEES=61.25,SBI-MF=102.4".
func parseStaticPrices(value string) (map[string]float64, error) {
	prices := make(map[string]float64)
	pairs, err := parsePairs("STATIC_PRICES", value)
	if err != nil {
		return nil, err
	}
	for symbol, raw := range pairs {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil || price <= 0 {
			return nil, fmt.Errorf("invalid STATIC_PRICES: price for %s must be a positive number, got %q", symbol, raw)
		}
		prices[strings.ToUpper(symbol)] = price
	}
	return prices, nil
}

// parseAssetTypes parses a comma separated list of asset types, preserving order.
func parseAssetTypes(value string) ([]model.AssetType, error) {
	var out []model.AssetType
	seen := make(map[model.AssetType]bool)
	for _, item := range splitList(value) {
		assetType, ok := model.ParseAssetType(item)
		if !ok {
			return nil, fmt.Errorf("invalid ALLOCATION_CLASSES: unknown asset type %q", item)
		}
		if !seen[assetType] {
			seen[assetType] = true
			out = append(out, assetType)
		}
	}
	return out, nil
}

func parsePairs(key, value string) (map[string]string, error) {
	pairs := make(map[string]string)
	for _, item := range splitList(value) {
		k, v, ok := strings.Cut(item, "=")
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if !ok || k == "" || v == "" {
			return nil, fmt.Errorf("invalid %s entry %q: expected KEY=VALUE", key, item)
		}
		pairs[k] = v
	}
	return pairs, nil
}
