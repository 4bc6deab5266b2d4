package testutil

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/model"
)

// FakeBackend is an in-memory implementation of backend.Client for testing.
// ListHoldings can be blocked to hold a refresh cycle in flight.
type FakeBackend struct {
	mu sync.Mutex

	holdings      []model.Holding
	goals         []model.Goal
	nextID        int
	listErr       error
	mutationErr   error
	listCalls     int
	gate          chan struct{}
	entered       chan struct{}
	lastPortfolio string
}

// NewFakeBackend creates a fake backend holding the given holdings.
func NewFakeBackend(holdings ...model.Holding) *FakeBackend {
	return &FakeBackend{
		holdings: append([]model.Holding(nil), holdings...),
		nextID:   1000,
		entered:  make(chan struct{}, 64),
	}
}

// SetHoldings replaces the stored holdings.
func (f *FakeBackend) SetHoldings(holdings ...model.Holding) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.holdings = append([]model.Holding(nil), holdings...)
}

// SetListError makes ListHoldings fail with err (nil to clear).
func (f *FakeBackend) SetListError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listErr = err
}

// SetMutationError makes create/delete calls fail with err (nil to clear).
func (f *FakeBackend) SetMutationError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mutationErr = err
}

// Block makes subsequent ListHoldings calls wait until release is called.
// Each blocked call signals on Entered once it is waiting.
func (f *FakeBackend) Block() (release func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	gate := make(chan struct{})
	f.gate = gate
	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			if f.gate == gate {
				f.gate = nil
			}
			f.mu.Unlock()
			close(gate)
		})
	}
}

// Entered receives one value per ListHoldings call.
func (f *FakeBackend) Entered() <-chan struct{} {
	return f.entered
}

// ListCalls returns how many times ListHoldings was called.
func (f *FakeBackend) ListCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

// Holdings returns a copy of the stored holdings.
func (f *FakeBackend) Holdings() []model.Holding {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Holding(nil), f.holdings...)
}

// Goals returns a copy of the created goals.
func (f *FakeBackend) Goals() []model.Goal {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Goal(nil), f.goals...)
}

// LastPortfolioID returns the portfolio ID of the last list or create call.
func (f *FakeBackend) LastPortfolioID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastPortfolio
}

// ListHoldings returns a snapshot of the stored holdings taken when the call is released.
func (f *FakeBackend) ListHoldings(ctx context.Context, portfolioID string) ([]model.Holding, error) {
	f.mu.Lock()
	f.listCalls++
	f.lastPortfolio = portfolioID
	gate := f.gate
	f.mu.Unlock()

	select {
	case f.entered <- struct{}{}:
	default:
	}

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", apperrors.ErrBackendFetch, ctx.Err())
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrBackendFetch, f.listErr)
	}
	return append([]model.Holding{}, f.holdings...), nil
}

// CreateHolding appends a holding with a generated numeric ID.
func (f *FakeBackend) CreateHolding(_ context.Context, portfolioID string, h model.NewHolding) (model.Holding, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastPortfolio = portfolioID
	if f.mutationErr != nil {
		return model.Holding{}, fmt.Errorf("%w: %w", apperrors.ErrBackendRequest, f.mutationErr)
	}
	f.nextID++
	created := model.Holding{
		ID:            model.HoldingID(strconv.Itoa(f.nextID)),
		Symbol:        h.Symbol,
		Name:          h.Name,
		Quantity:      h.Quantity,
		PurchasePrice: h.PurchasePrice,
		AssetType:     h.AssetType,
		PurchaseDate:  h.PurchaseDate,
	}
	f.holdings = append(f.holdings, created)
	return created, nil
}

// DeleteHolding removes the holding with id.
func (f *FakeBackend) DeleteHolding(_ context.Context, id model.HoldingID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mutationErr != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrBackendRequest, f.mutationErr)
	}
	for i, h := range f.holdings {
		if h.ID == id {
			f.holdings = append(f.holdings[:i:i], f.holdings[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrHoldingNotFound
}

// CreateGoal stores the goal with a fixed two-class allocation plan.
func (f *FakeBackend) CreateGoal(_ context.Context, g model.NewGoal) (model.Goal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mutationErr != nil {
		return model.Goal{}, fmt.Errorf("%w: %w", apperrors.ErrBackendRequest, f.mutationErr)
	}
	f.nextID++
	var monthly float64
	if g.MonthlyInvestment != nil {
		monthly = *g.MonthlyInvestment
	}
	goal := model.Goal{
		ID:                model.HoldingID(strconv.Itoa(f.nextID)),
		GoalName:          g.GoalName,
		TargetAmount:      g.TargetAmount,
		TimeHorizon:       g.TimeHorizon,
		RiskLevel:         g.RiskLevel,
		MonthlyInvestment: g.MonthlyInvestment,
		Allocations: []model.GoalAllocation{
			{AssetType: model.AssetTypeEquity, Percentage: 60, SIPAmount: monthly * 0.6},
			{AssetType: model.AssetTypeDebt, Percentage: 40, SIPAmount: monthly * 0.4},
		},
	}
	f.goals = append(f.goals, goal)
	return goal, nil
}
