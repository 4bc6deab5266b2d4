package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/api/request"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/backend"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/model"
)

// GoalService forwards investment goals to the backend, which owns the
// allocation planning.
type GoalService struct {
	backend backend.Client
}

// NewGoalService creates a new GoalService.
func NewGoalService(backendClient backend.Client) *GoalService {
	return &GoalService{backend: backendClient}
}

// CreateGoal submits a validated goal and returns it with the backend's allocation plan.
func (s *GoalService) CreateGoal(ctx context.Context, req request.CreateGoalRequest) (model.Goal, error) {
	goal, err := s.backend.CreateGoal(ctx, model.NewGoal{
		GoalName:          strings.TrimSpace(req.GoalName),
		TargetAmount:      req.TargetAmount,
		TimeHorizon:       req.TimeHorizon,
		RiskLevel:         strings.ToUpper(strings.TrimSpace(req.RiskLevel)),
		MonthlyInvestment: req.MonthlyInvestment,
	})
	if err != nil {
		return model.Goal{}, fmt.Errorf("failed to create goal: %w", err)
	}
	return goal, nil
}
