package validation

import (
	"fmt"
	"strings"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/api/request"
)

// ValidRiskLevel contains the allowed risk level values.
var ValidRiskLevel = map[string]bool{
	"LOW": true, "MEDIUM": true, "HIGH": true,
}

// ValidateCreateGoal validates a goal creation request.
// riskLevel is compared case-insensitively; monthlyInvestment is optional.
func ValidateCreateGoal(req request.CreateGoalRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.GoalName) == "" {
		errors["goalName"] = "goalName is required"
	} else if len(req.GoalName) > 100 {
		errors["goalName"] = "goalName must be 100 characters or less"
	}

	if req.TargetAmount <= 0 {
		errors["targetAmount"] = "targetAmount must be positive"
	}

	if req.TimeHorizon <= 0 {
		errors["timeHorizon"] = "timeHorizon must be a positive number of years"
	} else if req.TimeHorizon > 100 {
		errors["timeHorizon"] = "timeHorizon must be 100 years or less"
	}

	if strings.TrimSpace(req.RiskLevel) == "" {
		errors["riskLevel"] = "riskLevel is required"
	} else if !ValidRiskLevel[strings.ToUpper(strings.TrimSpace(req.RiskLevel))] {
		errors["riskLevel"] = fmt.Sprintf("invalid riskLevel: %s", req.RiskLevel)
	}

	if req.MonthlyInvestment != nil && *req.MonthlyInvestment < 0 {
		errors["monthlyInvestment"] = "monthlyInvestment cannot be negative"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
