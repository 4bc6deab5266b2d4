package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/api/request"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/service"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/testutil"
)

func TestGoalService_CreateGoal(t *testing.T) {
	t.Run("normalizes and forwards the goal", func(t *testing.T) {
		fb := testutil.NewFakeBackend()
		svc := service.NewGoalService(fb)

		goal, err := svc.CreateGoal(context.Background(), request.CreateGoalRequest{
			GoalName:          " Retirement ",
			TargetAmount:      1_000_000,
			TimeHorizon:       20,
			RiskLevel:         "medium",
			MonthlyInvestment: testutil.Ptr(1000.0),
		})
		require.NoError(t, err)

		assert.Equal(t, "Retirement", goal.GoalName)
		assert.Equal(t, "MEDIUM", goal.RiskLevel)
		assert.Len(t, goal.Allocations, 2)
		require.Len(t, fb.Goals(), 1)
	})

	t.Run("backend failure", func(t *testing.T) {
		fb := testutil.NewFakeBackend()
		fb.SetMutationError(errors.New("HTTP 500"))
		svc := service.NewGoalService(fb)

		_, err := svc.CreateGoal(context.Background(), request.CreateGoalRequest{GoalName: "x", TargetAmount: 1, TimeHorizon: 1, RiskLevel: "LOW"})
		assert.ErrorIs(t, err, apperrors.ErrBackendRequest)
	})
}
