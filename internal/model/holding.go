package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// AssetType classifies a holding for allocation bucketing.
type AssetType string

// Known asset types. Which of these form named allocation buckets is a
// deployment setting (see config.PricingConfig.AllocationClasses).
const (
	AssetTypeStock      AssetType = "STOCK"
	AssetTypeMutualFund AssetType = "MUTUAL_FUND"
	AssetTypeGold       AssetType = "GOLD"
	AssetTypeEquity     AssetType = "EQUITY"
	AssetTypeDebt       AssetType = "DEBT"
	AssetTypeBonds      AssetType = "BONDS"
)

// AllAssetTypes lists every asset type accepted on holding creation.
var AllAssetTypes = []AssetType{
	AssetTypeStock,
	AssetTypeMutualFund,
	AssetTypeGold,
	AssetTypeEquity,
	AssetTypeDebt,
	AssetTypeBonds,
}

// ParseAssetType normalizes s and reports whether it is a known asset type.
func ParseAssetType(s string) (AssetType, bool) {
	at := AssetType(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range AllAssetTypes {
		if at == known {
			return at, true
		}
	}
	return at, false
}

// HoldingID is the backend-assigned identifier of a holding.
// The backend may emit it as a JSON number or a JSON string; it is kept
// opaque and never interpreted.
type HoldingID string

// UnmarshalJSON accepts both numeric and string identifiers.
func (id *HoldingID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = HoldingID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*id = HoldingID(n.String())
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into holding id", string(data))
}

// MarshalJSON emits numeric identifiers as numbers so the backend gets back
// what it sent.
func (id HoldingID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// Holding is one owned position as returned by the backend.
// CurrentPrice is transient: it is attached by price resolution for the
// duration of one refresh cycle and is never sent back to the backend.
type Holding struct {
	ID            HoldingID `json:"id"`
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	Quantity      float64   `json:"quantity"`
	PurchasePrice float64   `json:"purchasePrice"`
	AssetType     AssetType `json:"assetType"`
	PurchaseDate  string    `json:"purchaseDate,omitempty"`
	CurrentPrice  *float64  `json:"currentPrice,omitempty"`
}

// WithCurrentPrice returns a copy of h with CurrentPrice set to price.
func (h Holding) WithCurrentPrice(price float64) Holding {
	p := price
	h.CurrentPrice = &p
	return h
}

// EffectivePrice is the live price when present and positive, otherwise the purchase price.
func (h Holding) EffectivePrice() float64 {
	if h.CurrentPrice != nil && *h.CurrentPrice > 0 {
		return *h.CurrentPrice
	}
	return h.PurchasePrice
}

// NewHolding is the payload sent to the backend to create a holding.
type NewHolding struct {
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	Quantity      float64   `json:"quantity"`
	PurchasePrice float64   `json:"purchasePrice"`
	AssetType     AssetType `json:"assetType"`
	PurchaseDate  string    `json:"purchaseDate,omitempty"`
}

// HoldingMutation is the outcome of adding or deleting a holding: the
// affected holding (nil on delete) and the snapshot published by the
// mutation refresh.
type HoldingMutation struct {
	Holding  *Holding `json:"holding,omitempty"`
	Snapshot Snapshot `json:"snapshot"`
}
