package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/api/request"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/backend"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/model"
)

// HoldingService forwards holding mutations to the backend and triggers a
// mutation refresh afterwards.
type HoldingService struct {
	backend     backend.Client
	refresher   *RefreshService
	portfolioID string
	logger      zerolog.Logger
}

// NewHoldingService creates a new HoldingService.
func NewHoldingService(
	backendClient backend.Client,
	refresher *RefreshService,
	portfolioID string,
	logger zerolog.Logger,
) *HoldingService {
	return &HoldingService{
		backend:     backendClient,
		refresher:   refresher,
		portfolioID: portfolioID,
		logger:      logger.With().Str("component", "holdings").Logger(),
	}
}

// CreateHolding creates a holding at the backend and refreshes the valuation.
// The request must already be validated; symbol is upper-cased and the
// asset type normalized here.
//
// Returns:
//   - model.HoldingMutation: The created holding and the refreshed snapshot
//   - error: Wraps apperrors.ErrBackendRequest when the backend rejects the holding
func (s *HoldingService) CreateHolding(ctx context.Context, req request.CreateHoldingRequest) (model.HoldingMutation, error) {
	assetType, _ := model.ParseAssetType(req.AssetType)
	h := model.NewHolding{
		Symbol:        normalizeSymbol(req.Symbol),
		Name:          strings.TrimSpace(req.Name),
		Quantity:      req.Quantity,
		PurchasePrice: req.PurchasePrice,
		AssetType:     assetType,
		PurchaseDate:  req.PurchaseDate,
	}

	created, err := s.backend.CreateHolding(ctx, s.portfolioID, h)
	if err != nil {
		return model.HoldingMutation{}, fmt.Errorf("failed to create holding %s: %w", h.Symbol, err)
	}

	s.logger.Info().
		Str("holding_id", string(created.ID)).
		Str("symbol", created.Symbol).
		Msg("holding created")

	return model.HoldingMutation{
		Holding:  &created,
		Snapshot: s.refreshAfterMutation(ctx),
	}, nil
}

// DeleteHolding deletes a holding at the backend and refreshes the valuation.
func (s *HoldingService) DeleteHolding(ctx context.Context, id string) (model.HoldingMutation, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return model.HoldingMutation{}, apperrors.ErrEmptyID
	}

	if err := s.backend.DeleteHolding(ctx, model.HoldingID(id)); err != nil {
		return model.HoldingMutation{}, fmt.Errorf("failed to delete holding %s: %w", id, err)
	}

	s.logger.Info().Str("holding_id", id).Msg("holding deleted")

	return model.HoldingMutation{Snapshot: s.refreshAfterMutation(ctx)}, nil
}

// refreshAfterMutation waits for the mutation refresh. If the caller stops
// waiting, the cycle still completes and the current snapshot is returned.
func (s *HoldingService) refreshAfterMutation(ctx context.Context) model.Snapshot {
	snap, err := s.refresher.Refresh(ctx, model.TriggerMutation)
	if err != nil {
		s.logger.Warn().Err(err).Msg("stopped waiting for mutation refresh")
		return s.refresher.Snapshot()
	}
	return snap
}
