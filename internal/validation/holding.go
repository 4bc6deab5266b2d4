package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/api/request"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/model"
)

// ValidateCreateHolding validates a holding creation request.
//
// Required fields:
//   - symbol: Non-empty, at most 20 characters
//   - name: Non-empty, at most 100 characters
//   - quantity: Must be positive
//   - purchasePrice: Must be positive
//   - assetType: One of model.AllAssetTypes (case-insensitive)
//
// Optional fields:
//   - purchaseDate: YYYY-MM-DD, not in the future
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateHolding(req request.CreateHoldingRequest) error {
	errors := make(map[string]string)

	symbol := strings.TrimSpace(req.Symbol)
	if symbol == "" {
		errors["symbol"] = "symbol is required"
	} else if len(symbol) > 20 {
		errors["symbol"] = "symbol must be 20 characters or less"
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		errors["name"] = "name is required"
	} else if len(name) > 100 {
		errors["name"] = "name must be 100 characters or less"
	}

	if req.Quantity <= 0 {
		errors["quantity"] = "quantity must be positive"
	}

	if req.PurchasePrice <= 0 {
		errors["purchasePrice"] = "purchasePrice must be positive"
	}

	if strings.TrimSpace(req.AssetType) == "" {
		errors["assetType"] = "assetType is required"
	} else if _, ok := model.ParseAssetType(req.AssetType); !ok {
		errors["assetType"] = fmt.Sprintf("invalid assetType: %s", req.AssetType)
	}

	if req.PurchaseDate != "" {
		date, err := time.Parse("2006-01-02", req.PurchaseDate)
		if err != nil {
			errors["purchaseDate"] = "purchaseDate must be in YYYY-MM-DD format"
		} else if date.After(time.Now().UTC()) {
			errors["purchaseDate"] = "purchaseDate cannot be in the future"
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
