package request

// CreateHoldingRequest represents the request body for adding a holding
type CreateHoldingRequest struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Quantity      float64 `json:"quantity"`
	PurchasePrice float64 `json:"purchasePrice"`
	AssetType     string  `json:"assetType"`
	PurchaseDate  string  `json:"purchaseDate,omitempty"`
}
