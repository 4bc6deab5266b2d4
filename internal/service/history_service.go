package service

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/model"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/repository"
)

// HistoryService journals successful valuations and serves them back for
// the performance history chart.
type HistoryService struct {
	repo      *repository.SnapshotRepository
	retention time.Duration
	now       func() time.Time
	logger    zerolog.Logger
}

// NewHistoryService creates a new HistoryService. Entries older than
// retention are removed by Prune.
func NewHistoryService(repo *repository.SnapshotRepository, retention time.Duration, logger zerolog.Logger) *HistoryService {
	return &HistoryService{
		repo:      repo,
		retention: retention,
		now:       time.Now,
		logger:    logger.With().Str("component", "history").Logger(),
	}
}

// Record journals snap. Only successful snapshots (status active) are
// stored; anything else is ignored. Suitable as a RefreshService listener.
func (s *HistoryService) Record(snap model.Snapshot) {
	if snap.Status != model.StatusActive || !snap.HasData() {
		return
	}

	rec, err := s.repo.InsertSnapshot(model.SnapshotRecord{
		Sequence:           snap.Sequence,
		TakenAt:            snap.LastUpdated,
		TotalValue:         snap.Summary.TotalValue,
		TotalCost:          snap.Summary.TotalCost,
		TotalPnL:           snap.Summary.TotalPnL,
		TotalReturnPercent: snap.Summary.TotalReturnPercent,
		Allocation:         snap.Summary.Allocation,
		Holdings:           snap.Holdings,
	})
	if err != nil {
		s.logger.Error().Err(err).Uint64("seq", snap.Sequence).Msg(apperrors.ErrFailedToStoreSnapshot.Error())
		return
	}
	s.logger.Debug().Str("id", rec.ID).Uint64("seq", snap.Sequence).Msg("snapshot journaled")
}

// GetHistory returns journal entries between start and end (inclusive),
// oldest first. Zero bounds are open.
func (s *HistoryService) GetHistory(start, end time.Time, includeHoldings bool) ([]model.SnapshotRecord, error) {
	if !start.IsZero() && !end.IsZero() && start.After(end) {
		return nil, apperrors.ErrInvalidDateRange
	}
	records, err := s.repo.GetSnapshots(model.HistoryFilter{
		Start:           start,
		End:             end,
		IncludeHoldings: includeHoldings,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot history: %w", err)
	}
	return records, nil
}

// GetSnapshotRecord returns one journal entry with its per-holding results.
func (s *HistoryService) GetSnapshotRecord(id string) (model.SnapshotRecord, error) {
	rec, err := s.repo.GetSnapshot(id)
	if err != nil {
		return model.SnapshotRecord{}, err
	}
	return rec, nil
}

// Prune removes journal entries older than the retention period.
// Returns the number of removed entries.
func (s *HistoryService) Prune() (int64, error) {
	cutoff := s.now().Add(-s.retention)
	n, err := s.repo.DeleteSnapshotsBefore(cutoff)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", apperrors.ErrFailedToPruneSnapshotStore, err)
	}
	if n > 0 {
		s.logger.Info().Int64("removed", n).Time("cutoff", cutoff).Msg("snapshot history pruned")
	}
	return n, nil
}
