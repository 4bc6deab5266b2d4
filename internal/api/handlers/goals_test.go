package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/model"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/service"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/testutil"
)

func TestGoalHandler_CreateGoal(t *testing.T) {
	setupHandler := func(t *testing.T) (*GoalHandler, *testutil.FakeBackend) {
		t.Helper()
		fb := testutil.NewFakeBackend()
		return NewGoalHandler(service.NewGoalService(fb)), fb
	}

	t.Run("creates goal and returns the allocation plan", func(t *testing.T) {
		handler, fb := setupHandler(t)

		body := `{"goalName":"Retirement","targetAmount":1000000,"timeHorizon":20,"riskLevel":"medium","monthlyInvestment":1000}`
		req := httptest.NewRequest(http.MethodPost, "/api/goals", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.CreateGoal(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var goal model.Goal
		if err := json.NewDecoder(w.Body).Decode(&goal); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if goal.RiskLevel != "MEDIUM" {
			t.Errorf("Expected risk level MEDIUM, got %s", goal.RiskLevel)
		}
		if len(goal.Allocations) == 0 {
			t.Error("Expected allocations from the backend")
		}
		if len(fb.Goals()) != 1 {
			t.Errorf("Expected 1 goal at the backend, got %d", len(fb.Goals()))
		}
	})

	t.Run("returns 400 on validation failure", func(t *testing.T) {
		handler, fb := setupHandler(t)

		body := `{"goalName":"","targetAmount":-1,"timeHorizon":0,"riskLevel":"EXTREME"}`
		req := httptest.NewRequest(http.MethodPost, "/api/goals", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.CreateGoal(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
		if len(fb.Goals()) != 0 {
			t.Error("Expected nothing to be sent to the backend")
		}
	})

	t.Run("returns 400 for unknown fields", func(t *testing.T) {
		handler, _ := setupHandler(t)

		body := `{"goalName":"Retirement","targetAmount":1000,"timeHorizon":5,"riskLevel":"LOW","surprise":true}`
		req := httptest.NewRequest(http.MethodPost, "/api/goals", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.CreateGoal(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("returns 502 when the backend fails", func(t *testing.T) {
		handler, fb := setupHandler(t)
		fb.SetMutationError(errors.New("backend down"))

		body := `{"goalName":"Retirement","targetAmount":1000,"timeHorizon":5,"riskLevel":"LOW"}`
		req := httptest.NewRequest(http.MethodPost, "/api/goals", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.CreateGoal(w, req)

		if w.Code != http.StatusBadGateway {
			t.Errorf("Expected 502, got %d", w.Code)
		}
	})
}
