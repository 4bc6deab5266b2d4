package model

import "time"

// PriceSource records where a holding's current price came from in a cycle.
type PriceSource string

const (
	PriceSourceLive     PriceSource = "live"     // quote provider
	PriceSourceStatic   PriceSource = "static"   // static price table
	PriceSourcePurchase PriceSource = "purchase" // policy says no lookup
	PriceSourceFallback PriceSource = "fallback" // live lookup failed
)

// PriceStrategy is how price resolution obtains a current price for an asset type.
type PriceStrategy string

const (
	StrategyLive     PriceStrategy = "live"     // ask the quote provider
	StrategyStatic   PriceStrategy = "static"   // use the static price table
	StrategyPurchase PriceStrategy = "purchase" // value at purchase price
)

// ValuationResult is the derived valuation of a single holding.
// Results are positionally aligned with the holdings they were computed from.
type ValuationResult struct {
	HoldingID      HoldingID   `json:"holdingId"`
	Symbol         string      `json:"symbol"`
	Name           string      `json:"name"`
	AssetType      AssetType   `json:"assetType"`
	Quantity       float64     `json:"quantity"`
	PurchasePrice  float64     `json:"purchasePrice"`
	EffectivePrice float64     `json:"effectivePrice"`
	MarketValue    float64     `json:"marketValue"`
	CostBasis      float64     `json:"costBasis"`
	PnL            float64     `json:"pnl"`
	PnLPercent     float64     `json:"pnlPercent"`
	PriceSource    PriceSource `json:"priceSource,omitempty"`
}

// PortfolioSummary aggregates the valuation results of one cycle.
//
// Allocation only holds the configured allocation classes. Market value of
// holdings outside those classes is counted in TotalValue and reported
// separately as UnclassifiedValue.
type PortfolioSummary struct {
	TotalValue         float64               `json:"totalValue"`
	TotalCost          float64               `json:"totalCost"`
	TotalPnL           float64               `json:"totalPnl"`
	TotalReturnPercent float64               `json:"totalReturnPercent"`
	Allocation         map[AssetType]float64 `json:"allocation"`
	AllocationPercent  map[AssetType]float64 `json:"allocationPercent"`
	UnclassifiedValue  float64               `json:"unclassifiedValue"`
	HoldingCount       int                   `json:"holdingCount"`
}

// LookupDiagnostic describes one failed live price lookup.
type LookupDiagnostic struct {
	Symbol string `json:"symbol"`
	Error  string `json:"error"`
}

// ResolutionReport summarizes how prices were resolved in one cycle.
type ResolutionReport struct {
	Live      int                `json:"live"`
	Static    int                `json:"static"`
	Purchase  int                `json:"purchase"`
	Fallback  int                `json:"fallback"`
	Attempted int                `json:"attempted"` // live lookups dispatched
	Failures  []LookupDiagnostic `json:"failures,omitempty"`
}

// AllLookupsFailed reports whether at least one live lookup was attempted
// and none of them succeeded.
func (r ResolutionReport) AllLookupsFailed() bool {
	return r.Attempted > 0 && r.Fallback == r.Attempted
}

// Resolution is the output of price resolution: the holdings, in input
// order, with CurrentPrice attached.
type Resolution struct {
	Holdings []Holding        `json:"holdings"`
	Sources  []PriceSource    `json:"sources"`
	Report   ResolutionReport `json:"report"`
}

// RefreshStatus is the state of the refresh scheduler.
type RefreshStatus string

const (
	StatusIdle    RefreshStatus = "idle"
	StatusLoading RefreshStatus = "loading"
	StatusActive  RefreshStatus = "active"
	StatusError   RefreshStatus = "error"
)

// RefreshTrigger names what started a refresh cycle.
type RefreshTrigger string

const (
	TriggerInitial  RefreshTrigger = "initial"
	TriggerInterval RefreshTrigger = "interval"
	TriggerManual   RefreshTrigger = "manual"
	TriggerMutation RefreshTrigger = "mutation"
)

// Snapshot is the last published result of the refresh scheduler. It is
// replaced as a whole at cycle completion and never mutated afterwards.
type Snapshot struct {
	Sequence    uint64            `json:"sequence"`
	Status      RefreshStatus     `json:"status"`
	Trigger     RefreshTrigger    `json:"trigger,omitempty"`
	Holdings    []ValuationResult `json:"perHolding"`
	Summary     PortfolioSummary  `json:"summary"`
	Report      ResolutionReport  `json:"report"`
	LastUpdated time.Time         `json:"lastUpdated"`
	LastError   string            `json:"lastError,omitempty"`
}

// HasData reports whether the snapshot carries a successfully computed valuation.
func (s Snapshot) HasData() bool {
	return !s.LastUpdated.IsZero()
}
