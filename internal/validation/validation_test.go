package validation

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/api/request"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/apperrors"
)

func validHolding() request.CreateHoldingRequest {
	return request.CreateHoldingRequest{
		Symbol:        "AAPL",
		Name:          "Apple Inc",
		Quantity:      10,
		PurchasePrice: 150,
		AssetType:     "STOCK",
	}
}

// WHY: invalid holdings must be rejected before any backend call and must
// never reach the valuation engine.
func TestValidateCreateHolding(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*request.CreateHoldingRequest)
		wantField string
	}{
		{"valid", func(*request.CreateHoldingRequest) {}, ""},
		{"lower-case asset type is accepted", func(r *request.CreateHoldingRequest) { r.AssetType = "gold" }, ""},
		{"valid purchase date", func(r *request.CreateHoldingRequest) { r.PurchaseDate = "2024-03-01" }, ""},
		{"missing symbol", func(r *request.CreateHoldingRequest) { r.Symbol = "  " }, "symbol"},
		{"long symbol", func(r *request.CreateHoldingRequest) { r.Symbol = "ABCDEFGHIJKLMNOPQRSTUV" }, "symbol"},
		{"missing name", func(r *request.CreateHoldingRequest) { r.Name = "" }, "name"},
		{"zero quantity", func(r *request.CreateHoldingRequest) { r.Quantity = 0 }, "quantity"},
		{"negative quantity", func(r *request.CreateHoldingRequest) { r.Quantity = -1 }, "quantity"},
		{"zero price", func(r *request.CreateHoldingRequest) { r.PurchasePrice = 0 }, "purchasePrice"},
		{"missing asset type", func(r *request.CreateHoldingRequest) { r.AssetType = "" }, "assetType"},
		{"unknown asset type", func(r *request.CreateHoldingRequest) { r.AssetType = "CRYPTO" }, "assetType"},
		{"bad date", func(r *request.CreateHoldingRequest) { r.PurchaseDate = "01/03/2024" }, "purchaseDate"},
		{"future date", func(r *request.CreateHoldingRequest) {
			r.PurchaseDate = time.Now().UTC().AddDate(0, 0, 2).Format("2006-01-02")
		}, "purchaseDate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validHolding()
			tt.mutate(&req)

			err := ValidateCreateHolding(req)

			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var verr *Error
			require.True(t, errors.As(err, &verr), "expected *Error, got %v", err)
			assert.Contains(t, verr.Fields, tt.wantField)
		})
	}

	t.Run("reports every invalid field at once", func(t *testing.T) {
		err := ValidateCreateHolding(request.CreateHoldingRequest{})

		var verr *Error
		require.True(t, errors.As(err, &verr))
		assert.Len(t, verr.Fields, 5)
	})
}

func TestValidateCreateGoal(t *testing.T) {
	monthly := 250.0
	negative := -5.0
	valid := func() request.CreateGoalRequest {
		return request.CreateGoalRequest{
			GoalName:          "Retirement",
			TargetAmount:      100000,
			TimeHorizon:       20,
			RiskLevel:         "medium",
			MonthlyInvestment: &monthly,
		}
	}

	tests := []struct {
		name      string
		mutate    func(*request.CreateGoalRequest)
		wantField string
	}{
		{"valid", func(*request.CreateGoalRequest) {}, ""},
		{"monthly investment optional", func(r *request.CreateGoalRequest) { r.MonthlyInvestment = nil }, ""},
		{"missing name", func(r *request.CreateGoalRequest) { r.GoalName = "" }, "goalName"},
		{"zero target", func(r *request.CreateGoalRequest) { r.TargetAmount = 0 }, "targetAmount"},
		{"zero horizon", func(r *request.CreateGoalRequest) { r.TimeHorizon = 0 }, "timeHorizon"},
		{"unknown risk", func(r *request.CreateGoalRequest) { r.RiskLevel = "YOLO" }, "riskLevel"},
		{"missing risk", func(r *request.CreateGoalRequest) { r.RiskLevel = "" }, "riskLevel"},
		{"negative monthly", func(r *request.CreateGoalRequest) { r.MonthlyInvestment = &negative }, "monthlyInvestment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(&req)

			err := ValidateCreateGoal(req)

			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var verr *Error
			require.True(t, errors.As(err, &verr))
			assert.Contains(t, verr.Fields, tt.wantField)
		})
	}
}

func TestValidateUUID(t *testing.T) {
	assert.NoError(t, ValidateUUID("550e8400-e29b-41d4-a716-446655440000"))
	assert.ErrorIs(t, ValidateUUID("nope"), apperrors.ErrInvalidUUID)
	assert.ErrorIs(t, ValidateUUID(""), apperrors.ErrEmptyID)
}

func TestValidateDateRange(t *testing.T) {
	jan := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	assert.NoError(t, ValidateDateRange(jan, feb))
	assert.NoError(t, ValidateDateRange(jan, jan))
	assert.NoError(t, ValidateDateRange(time.Time{}, feb))
	assert.ErrorIs(t, ValidateDateRange(feb, jan), apperrors.ErrInvalidDateRange)
}

func TestParseTime(t *testing.T) {
	d, err := ParseTime("2024-05-06")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseTime("2024-05-06T10:00:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 6, 8, 0, 0, 0, time.UTC), d)

	_, err = ParseTime("yesterday")
	assert.Error(t, err)
}

func TestError_Message(t *testing.T) {
	err := &Error{Fields: map[string]string{"b": "second", "a": "first"}}
	assert.Equal(t, "a: first; b: second", err.Error())
}
