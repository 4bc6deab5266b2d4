package service

import (
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/model"
)

// DefaultAllocationClasses are the named allocation buckets used when none are configured.
var DefaultAllocationClasses = []model.AssetType{
	model.AssetTypeStock,
	model.AssetTypeMutualFund,
	model.AssetTypeGold,
}

// ValuationEngine derives per-holding valuations and the portfolio summary.
// It holds no state besides the configured allocation classes and is safe
// for concurrent use.
type ValuationEngine struct {
	classes map[model.AssetType]bool
}

// NewValuationEngine creates an engine bucketing allocation by classes.
// An empty list selects DefaultAllocationClasses.
func NewValuationEngine(classes []model.AssetType) *ValuationEngine {
	if len(classes) == 0 {
		classes = DefaultAllocationClasses
	}
	set := make(map[model.AssetType]bool, len(classes))
	for _, c := range classes {
		set[c] = true
	}
	return &ValuationEngine{classes: set}
}

// ComputeValuation values holdings with the default allocation classes.
func ComputeValuation(holdings []model.Holding) ([]model.ValuationResult, model.PortfolioSummary) {
	return NewValuationEngine(nil).Compute(holdings)
}

// Compute values each holding and aggregates the portfolio summary.
//
// The computation is pure: holdings are not modified and sums are taken in
// input order, so equal inputs yield bit-identical outputs.
//
// Per holding:
//   - effectivePrice = CurrentPrice if present and > 0, else PurchasePrice
//   - marketValue = quantity * effectivePrice
//   - costBasis = quantity * purchasePrice
//   - pnl = marketValue - costBasis
//   - pnlPercent = pnl / costBasis * 100, or 0 when costBasis is 0
//
// Market value of asset types outside the allocation classes counts towards
// TotalValue and UnclassifiedValue but no named bucket.
//
// Returns:
//   - []model.ValuationResult: One result per holding, positionally aligned
//   - model.PortfolioSummary: Aggregates over all results
func (e *ValuationEngine) Compute(holdings []model.Holding) ([]model.ValuationResult, model.PortfolioSummary) {
	results := make([]model.ValuationResult, len(holdings))
	summary := model.PortfolioSummary{
		Allocation:        make(map[model.AssetType]float64),
		AllocationPercent: make(map[model.AssetType]float64),
		HoldingCount:      len(holdings),
	}

	for i, h := range holdings {
		r := valueHolding(h)
		results[i] = r

		summary.TotalValue += r.MarketValue
		summary.TotalCost += r.CostBasis

		if e.classes[h.AssetType] {
			summary.Allocation[h.AssetType] += r.MarketValue
		} else {
			summary.UnclassifiedValue += r.MarketValue
		}
	}

	summary.TotalPnL = summary.TotalValue - summary.TotalCost
	if summary.TotalCost > 0 {
		summary.TotalReturnPercent = (summary.TotalValue - summary.TotalCost) / summary.TotalCost * 100
	}
	if summary.TotalValue > 0 {
		for assetType, value := range summary.Allocation {
			summary.AllocationPercent[assetType] = value / summary.TotalValue * 100
		}
	}

	return results, summary
}

func valueHolding(h model.Holding) model.ValuationResult {
	price := h.EffectivePrice()
	marketValue := h.Quantity * price
	costBasis := h.Quantity * h.PurchasePrice
	pnl := marketValue - costBasis

	var pnlPercent float64
	if costBasis > 0 {
		pnlPercent = pnl / costBasis * 100
	}

	return model.ValuationResult{
		HoldingID:      h.ID,
		Symbol:         h.Symbol,
		Name:           h.Name,
		AssetType:      h.AssetType,
		Quantity:       h.Quantity,
		PurchasePrice:  h.PurchasePrice,
		EffectivePrice: price,
		MarketValue:    marketValue,
		CostBasis:      costBasis,
		PnL:            pnl,
		PnLPercent:     pnlPercent,
	}
}
