package handlers

import (
	"net/http"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/api/request"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/api/response"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/service"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/validation"
)

// GoalHandler handles investment goal requests
type GoalHandler struct {
	goalService *service.GoalService
}

// NewGoalHandler creates a new GoalHandler
func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
	}
}

// CreateGoal handles POST requests to create an investment goal.
// The backend derives the allocation plan and returns it with the goal.
//
// Endpoint: POST /api/goals
// Request body: request.CreateGoalRequest
// Response: 201 Created with model.Goal
// Error: 400 Bad Request for invalid JSON or validation failures
// Error: 502 Bad Gateway if the backend rejects the goal
func (h *GoalHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateGoalRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateGoal(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", validationDetails(err))
		return
	}

	goal, err := h.goalService.CreateGoal(r.Context(), req)
	if err != nil {
		response.RespondError(w, http.StatusBadGateway, apperrors.ErrFailedToCreateGoal.Error(), err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, goal)
}
