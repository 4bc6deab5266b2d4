package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/model"
)

// ContentGenerator produces text from a prompt. Implemented by gemini.Client.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}

// SnapshotSource provides the current valuation snapshot.
type SnapshotSource interface {
	Snapshot() model.Snapshot
}

// RecommendationService asks an AI model for diversification advice on the
// last published valuation.
type RecommendationService struct {
	generator ContentGenerator // nil when no API key is configured
	snapshots SnapshotSource
}

// NewRecommendationService creates a new RecommendationService.
// A nil generator disables recommendations.
func NewRecommendationService(generator ContentGenerator, snapshots SnapshotSource) *RecommendationService {
	return &RecommendationService{generator: generator, snapshots: snapshots}
}

// Enabled reports whether an AI provider is configured.
func (s *RecommendationService) Enabled() bool {
	return s.generator != nil
}

// Recommend builds a prompt from the current snapshot and returns the advice.
//
// Returns:
//   - model.Recommendation: Advice text with the model and snapshot time used
//   - error: apperrors.ErrRecommendationsDisabled without a provider,
//     apperrors.ErrNoValuation before the first successful refresh
func (s *RecommendationService) Recommend(ctx context.Context) (model.Recommendation, error) {
	if s.generator == nil {
		return model.Recommendation{}, apperrors.ErrRecommendationsDisabled
	}

	snap := s.snapshots.Snapshot()
	if !snap.HasData() {
		return model.Recommendation{}, apperrors.ErrNoValuation
	}

	text, err := s.generator.GenerateContent(ctx, BuildRecommendationPrompt(snap.Holdings))
	if err != nil {
		return model.Recommendation{}, fmt.Errorf("failed to generate recommendation: %w", err)
	}

	return model.Recommendation{
		Recommendation: text,
		Model:          s.generator.Model(),
		GeneratedAt:    time.Now().UTC(),
		BasedOn:        snap.LastUpdated,
	}, nil
}

// BuildRecommendationPrompt renders holdings into the advisor prompt, one line per holding.
func BuildRecommendationPrompt(holdings []model.ValuationResult) string {
	var lines strings.Builder
	for _, h := range holdings {
		fmt.Fprintf(&lines, "%s (%s) Qty: %s Purchase Price: %s Current Price: %s\n",
			h.Symbol,
			h.AssetType,
			formatPromptNumber(h.Quantity),
			formatPromptNumber(h.PurchasePrice),
			formatPromptNumber(h.EffectivePrice),
		)
	}
	if len(holdings) == 0 {
		lines.WriteString("(no holdings)\n")
	}

	return `You are a financial portfolio advisor AI.

Analyze the user's current portfolio and provide diversification advice.

USER PORTFOLIO:
` + lines.String() + `
Give recommendations on:

1. Stocks or assets the user should ADD to diversify
2. Overweight sectors or asset types
3. Underweight / missing sectors
4. Rebalancing suggestions
5. Risk observations

Keep the answer concise, structured, and practical.
`
}

func formatPromptNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
