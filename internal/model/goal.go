package model

// NewGoal is the payload sent to the backend to create an investment goal.
type NewGoal struct {
	GoalName          string   `json:"goalName"`
	TargetAmount      float64  `json:"targetAmount"`
	TimeHorizon       int      `json:"timeHorizon"` // years
	RiskLevel         string   `json:"riskLevel"`   // LOW, MEDIUM, HIGH
	MonthlyInvestment *float64 `json:"monthlyInvestment"`
}

// GoalAllocation is one asset class share of a goal plan, derived by the backend.
type GoalAllocation struct {
	AssetType  AssetType `json:"assetType"`
	Percentage float64   `json:"percentage"`
	SIPAmount  float64   `json:"sipAmount"`
}

// Goal is an investment goal as stored by the backend.
type Goal struct {
	ID                HoldingID        `json:"id"`
	GoalName          string           `json:"goalName"`
	TargetAmount      float64          `json:"targetAmount"`
	TimeHorizon       int              `json:"timeHorizon"`
	RiskLevel         string           `json:"riskLevel"`
	MonthlyInvestment *float64         `json:"monthlyInvestment,omitempty"`
	Allocations       []GoalAllocation `json:"allocations,omitempty"`
}
