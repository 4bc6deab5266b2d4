package request

// CreateGoalRequest represents the request body for creating an investment goal
type CreateGoalRequest struct {
	GoalName          string   `json:"goalName"`
	TargetAmount      float64  `json:"targetAmount"`
	TimeHorizon       int      `json:"timeHorizon"`
	RiskLevel         string   `json:"riskLevel"`
	MonthlyInvestment *float64 `json:"monthlyInvestment,omitempty"`
}
