// Package presentation turns a published valuation snapshot into the view
// the dashboard renders. Rendering is a pure transform; no valuation
// arithmetic happens here besides rounding for display.
package presentation

import (
	"time"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/model"
)

// assetLabels are the display names of the asset types.
var assetLabels = map[model.AssetType]string{
	model.AssetTypeStock:      "Stocks",
	model.AssetTypeMutualFund: "Mutual Funds",
	model.AssetTypeGold:       "Gold",
	model.AssetTypeEquity:     "Equity",
	model.AssetTypeDebt:       "Debt",
	model.AssetTypeBonds:      "Bonds",
}

// AssetLabel returns the display name of t, or t itself when unknown.
func AssetLabel(t model.AssetType) string {
	if l, ok := assetLabels[t]; ok {
		return l
	}
	return string(t)
}

// Row is one line of the holdings table.
type Row struct {
	HoldingID     model.HoldingID   `json:"holdingId"`
	Symbol        string            `json:"symbol"`
	Name          string            `json:"name"`
	AssetType     model.AssetType   `json:"assetType"`
	AssetLabel    string            `json:"assetLabel"`
	Quantity      string            `json:"quantity"`
	PurchasePrice string            `json:"purchasePrice"`
	CurrentPrice  string            `json:"currentPrice"`
	MarketValue   string            `json:"marketValue"`
	PnL           string            `json:"pnl"`
	PnLPercent    string            `json:"pnlPercent"`
	Positive      bool              `json:"positive"`
	PriceSource   model.PriceSource `json:"priceSource,omitempty"`
}

// Summary is the totals card.
type Summary struct {
	TotalValue  string `json:"totalValue"`
	TotalCost   string `json:"totalCost"`
	TotalPnL    string `json:"totalPnl"`
	TotalReturn string `json:"totalReturn"`
	Positive    bool   `json:"positive"`
}

// AllocationSlice is one allocation card and pie slice.
type AllocationSlice struct {
	AssetType model.AssetType `json:"assetType"`
	Label     string          `json:"label"`
	Value     string          `json:"value"`
	Percent   string          `json:"percent"`
	Amount    float64         `json:"amount"` // rounded, for chart libraries
}

// View is everything the dashboard renders for one snapshot.
type View struct {
	Status       model.RefreshStatus `json:"status"`
	Stale        bool                `json:"stale"` // error status with previous data shown
	Currency     string              `json:"currency"`
	Rows         []Row               `json:"rows"`
	Summary      Summary             `json:"summary"`
	Allocation   []AllocationSlice   `json:"allocation"`
	Unclassified string              `json:"unclassified,omitempty"`
	LastUpdated  *time.Time          `json:"lastUpdated"`
	LastError    string              `json:"lastError,omitempty"`
	Fallbacks    int                 `json:"fallbacks"`
}

// Presenter builds views in one currency with a fixed set of allocation cards.
type Presenter struct {
	format  Formatter
	classes []model.AssetType
}

// NewPresenter creates a Presenter. classes are shown as allocation cards in
// order, also when empty; nil selects Stocks, Mutual Funds and Gold.
func NewPresenter(currency string, classes []model.AssetType) *Presenter {
	if len(classes) == 0 {
		classes = []model.AssetType{model.AssetTypeStock, model.AssetTypeMutualFund, model.AssetTypeGold}
	}
	return &Presenter{format: NewFormatter(currency), classes: classes}
}

// Formatter returns the formatter used for views.
func (p *Presenter) Formatter() Formatter {
	return p.format
}

// Render builds the view of snap. Rows keep the snapshot order.
func (p *Presenter) Render(snap model.Snapshot) View {
	f := p.format
	v := View{
		Status:     snap.Status,
		Stale:      snap.Status == model.StatusError && snap.HasData(),
		Currency:   f.Currency(),
		Rows:       make([]Row, 0, len(snap.Holdings)),
		Allocation: make([]AllocationSlice, 0, len(p.classes)),
		LastError:  snap.LastError,
		Fallbacks:  snap.Report.Fallback,
	}
	if snap.HasData() {
		t := snap.LastUpdated
		v.LastUpdated = &t
	}

	for _, r := range snap.Holdings {
		v.Rows = append(v.Rows, Row{
			HoldingID:     r.HoldingID,
			Symbol:        r.Symbol,
			Name:          r.Name,
			AssetType:     r.AssetType,
			AssetLabel:    AssetLabel(r.AssetType),
			Quantity:      f.Quantity(r.Quantity),
			PurchasePrice: f.Money(r.PurchasePrice),
			CurrentPrice:  f.Money(r.EffectivePrice),
			MarketValue:   f.Money(r.MarketValue),
			PnL:           f.SignedMoney(r.PnL),
			PnLPercent:    f.SignedPercent(r.PnLPercent),
			Positive:      r.PnL >= 0,
			PriceSource:   r.PriceSource,
		})
	}

	s := snap.Summary
	v.Summary = Summary{
		TotalValue:  f.Money(s.TotalValue),
		TotalCost:   f.Money(s.TotalCost),
		TotalPnL:    f.SignedMoney(s.TotalPnL),
		TotalReturn: f.SignedPercent(s.TotalReturnPercent),
		Positive:    s.TotalPnL >= 0,
	}

	for _, c := range p.classes {
		amount := s.Allocation[c]
		v.Allocation = append(v.Allocation, AllocationSlice{
			AssetType: c,
			Label:     AssetLabel(c),
			Value:     f.Money(amount),
			Percent:   f.Percent(s.AllocationPercent[c]),
			Amount:    f.Round(amount),
		})
	}
	if s.UnclassifiedValue != 0 {
		v.Unclassified = f.Money(s.UnclassifiedValue)
	}

	return v
}
