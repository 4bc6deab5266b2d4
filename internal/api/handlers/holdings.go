package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/api/request"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/api/response"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/service"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/validation"
)

// HoldingHandler handles holding mutations. Each mutation is forwarded to
// the backend and followed by a refresh whose snapshot is returned.
type HoldingHandler struct {
	holdingService *service.HoldingService
}

// NewHoldingHandler creates a new HoldingHandler
func NewHoldingHandler(holdingService *service.HoldingService) *HoldingHandler {
	return &HoldingHandler{
		holdingService: holdingService,
	}
}

// CreateHolding handles POST requests to add a holding.
// The request is validated before anything is sent to the backend.
//
// Endpoint: POST /api/holdings
// Request body: request.CreateHoldingRequest
// Response: 201 Created with model.HoldingMutation
// Error: 400 Bad Request for invalid JSON or validation failures
// Error: 502 Bad Gateway if the backend rejects the holding
func (h *HoldingHandler) CreateHolding(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateHoldingRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateHolding(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", validationDetails(err))
		return
	}

	mutation, err := h.holdingService.CreateHolding(r.Context(), req)
	if err != nil {
		response.RespondError(w, http.StatusBadGateway, apperrors.ErrFailedToCreateHolding.Error(), err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, mutation)
}

// DeleteHolding handles DELETE requests to remove a holding.
// Holding IDs are backend-assigned and opaque, so they are not UUID-validated.
//
// Endpoint: DELETE /api/holdings/{id}
// Response: 200 OK with model.HoldingMutation
// Error: 400 Bad Request if the ID is empty
// Error: 404 Not Found if the backend has no such holding
// Error: 502 Bad Gateway if the backend fails
func (h *HoldingHandler) DeleteHolding(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	mutation, err := h.holdingService.DeleteHolding(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrEmptyID):
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrEmptyID.Error(), "")
		case errors.Is(err, apperrors.ErrHoldingNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrHoldingNotFound.Error(), err.Error())
		default:
			response.RespondError(w, http.StatusBadGateway, apperrors.ErrFailedToDeleteHolding.Error(), err.Error())
		}
		return
	}

	respondJSON(w, http.StatusOK, mutation)
}

// validationDetails exposes field errors as a map, anything else as its message.
func validationDetails(err error) any {
	var verr *validation.Error
	if errors.As(err, &verr) {
		return verr.Fields
	}
	return err.Error()
}
