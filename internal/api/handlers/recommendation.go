package handlers

import (
	"errors"
	"net/http"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/api/response"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/service"
)

// RecommendationHandler serves AI diversification advice
type RecommendationHandler struct {
	recommendationService *service.RecommendationService
}

// NewRecommendationHandler creates a new RecommendationHandler
func NewRecommendationHandler(recommendationService *service.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{
		recommendationService: recommendationService,
	}
}

// Recommend handles GET requests for advice on the current valuation.
//
// Endpoint: GET /api/recommendation
// Response: 200 OK with model.Recommendation
// Error: 409 Conflict before the first successful refresh
// Error: 502 Bad Gateway if the AI provider fails
// Error: 503 Service Unavailable if no AI provider is configured
func (h *RecommendationHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	rec, err := h.recommendationService.Recommend(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrRecommendationsDisabled):
			response.RespondError(w, http.StatusServiceUnavailable, apperrors.ErrRecommendationsDisabled.Error(), "")
		case errors.Is(err, apperrors.ErrNoValuation):
			response.RespondError(w, http.StatusConflict, apperrors.ErrNoValuation.Error(), "")
		default:
			response.RespondError(w, http.StatusBadGateway, apperrors.ErrFailedToRecommend.Error(), err.Error())
		}
		return
	}

	respondJSON(w, http.StatusOK, rec)
}
