package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/backend"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/model"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/scheduler"
)

// SnapshotListener is notified after every published snapshot.
// Listeners run outside the service lock, one snapshot at a time and in
// sequence order. They must not trigger a refresh themselves.
type SnapshotListener func(model.Snapshot)

// RefreshOptions configures the refresh scheduler.
type RefreshOptions struct {
	PortfolioID  string
	Interval     time.Duration
	CycleTimeout time.Duration
}

// cycle is one in-flight refresh. Callers that join it wait on done.
type cycle struct {
	seq     uint64
	trigger model.RefreshTrigger
	done    chan struct{}
	result  model.Snapshot
}

// RefreshService owns the last published valuation snapshot and the refresh status.
//
// At most one cycle is in flight. A trigger arriving while a cycle is loading
// joins it instead of starting another. A mutation trigger arriving while
// loading also marks the in-flight result stale: it is discarded and one fresh
// cycle runs right after, so only data read after the mutation is published.
type RefreshService struct {
	backend  backend.Client
	resolver *PriceResolutionService
	engine   *ValuationEngine
	opts     RefreshOptions
	logger   zerolog.Logger

	mu        sync.Mutex
	baseCtx   context.Context
	seq       uint64
	inflight  *cycle
	rerun     bool
	status    model.RefreshStatus
	snapshot  model.Snapshot
	listeners []SnapshotListener

	// notifyMu serializes listener delivery; delivered is the highest
	// sequence handed to listeners so far.
	notifyMu  sync.Mutex
	delivered uint64
}

// NewRefreshService creates a RefreshService in the Idle state.
func NewRefreshService(
	backendClient backend.Client,
	resolver *PriceResolutionService,
	engine *ValuationEngine,
	opts RefreshOptions,
	logger zerolog.Logger,
) *RefreshService {
	if opts.Interval <= 0 {
		opts.Interval = 60 * time.Second
	}
	if opts.CycleTimeout <= 0 {
		opts.CycleTimeout = 30 * time.Second
	}
	return &RefreshService{
		backend:  backendClient,
		resolver: resolver,
		engine:   engine,
		opts:     opts,
		logger:   logger.With().Str("component", "refresh").Logger(),
		baseCtx:  context.Background(),
		status:   model.StatusIdle,
		snapshot: model.Snapshot{
			Status:   model.StatusIdle,
			Holdings: []model.ValuationResult{},
		},
	}
}

// OnPublish registers a listener for published snapshots.
func (s *RefreshService) OnPublish(fn SnapshotListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Start runs the initial refresh in the background and registers the
// interval tick on sched. Cycles started afterwards derive from ctx, so
// cancelling it aborts in-flight lookups on shutdown.
func (s *RefreshService) Start(ctx context.Context, sched *scheduler.Scheduler) error {
	s.mu.Lock()
	s.baseCtx = ctx
	s.mu.Unlock()

	schedule := fmt.Sprintf("@every %s", s.opts.Interval)
	if err := sched.AddJob(schedule, scheduler.FuncJob{
		JobName: "dashboard_refresh",
		Fn: func() error {
			snap, err := s.Refresh(ctx, model.TriggerInterval)
			if err != nil {
				return err
			}
			if snap.Status == model.StatusError {
				return fmt.Errorf("%w: %s", apperrors.ErrFailedToRefresh, snap.LastError)
			}
			return nil
		},
	}); err != nil {
		return err
	}

	go func() {
		if _, err := s.Refresh(ctx, model.TriggerInitial); err != nil {
			s.logger.Warn().Err(err).Msg("initial refresh abandoned")
		}
	}()
	return nil
}

// Refresh triggers a refresh cycle and waits for it to publish.
//
// If a cycle is already loading the call joins it (coalesced). A mutation
// trigger additionally supersedes the in-flight cycle. The cycle itself runs
// on the service context, not ctx: a caller giving up stops waiting but does
// not abort the cycle.
//
// Returns:
//   - model.Snapshot: The snapshot published by the joined cycle. A failed
//     cycle is reported through Status and LastError, with the previous
//     valuation retained.
//   - error: Only ctx.Err() when the caller stopped waiting
func (s *RefreshService) Refresh(ctx context.Context, trigger model.RefreshTrigger) (model.Snapshot, error) {
	s.mu.Lock()
	c := s.inflight
	if c != nil {
		if trigger == model.TriggerMutation {
			s.rerun = true
		}
		joined := c.seq
		s.mu.Unlock()
		s.logger.Debug().
			Str("trigger", string(trigger)).
			Uint64("joined_seq", joined).
			Msg("refresh coalesced into in-flight cycle")
	} else {
		s.seq++
		c = &cycle{seq: s.seq, trigger: trigger, done: make(chan struct{})}
		s.inflight = c
		s.status = model.StatusLoading
		s.mu.Unlock()
		go s.run(c)
	}

	select {
	case <-c.done:
		return c.result, nil
	case <-ctx.Done():
		return model.Snapshot{}, ctx.Err()
	}
}

// Snapshot returns the last published snapshot with the current status.
func (s *RefreshService) Snapshot() model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.snapshot
	snap.Status = s.status
	return snap
}

// Status returns the current refresh status.
func (s *RefreshService) Status() model.RefreshStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *RefreshService) run(c *cycle) {
	for {
		s.mu.Lock()
		ctx := s.baseCtx
		s.mu.Unlock()

		start := time.Now()
		outcome := s.execute(ctx)

		s.mu.Lock()
		if s.rerun {
			s.rerun = false
			stale := c.seq
			s.seq++
			c.seq = s.seq
			c.trigger = model.TriggerMutation
			s.mu.Unlock()
			s.logger.Debug().Uint64("stale_seq", stale).Uint64("seq", c.seq).Msg("cycle superseded by mutation, rerunning")
			continue
		}

		published := c.seq == s.seq
		if published {
			s.publish(c, outcome, time.Now())
		}
		c.result = s.snapshot
		c.result.Status = s.status
		s.inflight = nil
		listeners := append([]SnapshotListener(nil), s.listeners...)
		s.mu.Unlock()

		if !published {
			s.logger.Warn().Uint64("seq", c.seq).Msg("discarding stale cycle result")
			close(c.done)
			return
		}

		level := zerolog.InfoLevel
		if outcome.err != nil {
			level = zerolog.ErrorLevel
		}
		s.logger.WithLevel(level).
			Err(outcome.err).
			Uint64("seq", c.seq).
			Str("trigger", string(c.trigger)).
			Str("status", string(c.result.Status)).
			Int("holdings", len(c.result.Holdings)).
			Int("fallback", outcome.report.Fallback).
			Dur("duration", time.Since(start)).
			Msg("refresh cycle completed")

		close(c.done)
		s.deliver(c.result, listeners)
		return
	}
}

// deliver hands snap to the listeners unless a newer snapshot already went out.
func (s *RefreshService) deliver(snap model.Snapshot, listeners []SnapshotListener) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	if snap.Sequence <= s.delivered {
		s.logger.Debug().
			Uint64("seq", snap.Sequence).
			Uint64("delivered", s.delivered).
			Msg("skipping notification for older snapshot")
		return
	}
	s.delivered = snap.Sequence

	for _, fn := range listeners {
		fn(snap)
	}
}

type cycleOutcome struct {
	results []model.ValuationResult
	summary model.PortfolioSummary
	report  model.ResolutionReport
	err     error
}

// execute performs one fetch, resolve, compute pass. It touches no shared state.
func (s *RefreshService) execute(parent context.Context) cycleOutcome {
	ctx, cancel := context.WithTimeout(parent, s.opts.CycleTimeout)
	defer cancel()

	holdings, err := s.backend.ListHoldings(ctx, s.opts.PortfolioID)
	if err != nil {
		return cycleOutcome{err: err}
	}

	resolution := s.resolver.ResolvePrices(ctx, holdings)
	if resolution.Report.AllLookupsFailed() {
		return cycleOutcome{
			report: resolution.Report,
			err: fmt.Errorf("%w: %d of %d", apperrors.ErrAllLookupsFailed,
				resolution.Report.Fallback, resolution.Report.Attempted),
		}
	}

	results, summary := s.engine.Compute(resolution.Holdings)
	for i := range results {
		results[i].PriceSource = resolution.Sources[i]
	}
	return cycleOutcome{results: results, summary: summary, report: resolution.Report}
}

// publish replaces the snapshot. Must be called with s.mu held.
// A failed cycle keeps the previous holdings, summary and LastUpdated.
func (s *RefreshService) publish(c *cycle, outcome cycleOutcome, now time.Time) {
	if outcome.err != nil {
		next := s.snapshot
		next.Sequence = c.seq
		next.Status = model.StatusError
		next.Trigger = c.trigger
		next.LastError = outcome.err.Error()
		next.Report = outcome.report
		s.snapshot = next
		s.status = model.StatusError
		return
	}

	s.snapshot = model.Snapshot{
		Sequence:    c.seq,
		Status:      model.StatusActive,
		Trigger:     c.trigger,
		Holdings:    outcome.results,
		Summary:     outcome.summary,
		Report:      outcome.report,
		LastUpdated: now,
	}
	s.status = model.StatusActive
}
