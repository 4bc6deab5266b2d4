package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/model"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/testutil"
)

// TestHistoryService_Record tests journaling of published snapshots.
//
// WHY: The history chart must only show successful valuations. Journaling
// an error snapshot would repeat the previous figures as a new data point.
func TestHistoryService_Record(t *testing.T) {
	t.Run("journals active snapshots", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestHistoryService(t, db, 24*time.Hour)

		svc.Record(model.Snapshot{
			Sequence:    4,
			Status:      model.StatusActive,
			LastUpdated: time.Now().UTC(),
			Holdings: []model.ValuationResult{
				{HoldingID: "1", Symbol: "AAPL", AssetType: model.AssetTypeStock, MarketValue: 1200, CostBasis: 1000, PnL: 200},
			},
			Summary: model.PortfolioSummary{
				TotalValue: 1200, TotalCost: 1000, TotalPnL: 200, TotalReturnPercent: 20,
				Allocation: map[model.AssetType]float64{model.AssetTypeStock: 1200},
			},
		})

		records, err := svc.GetHistory(time.Time{}, time.Time{}, true)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, uint64(4), records[0].Sequence)
		assert.Equal(t, 1200.0, records[0].TotalValue)
		assert.Equal(t, 1200.0, records[0].Allocation[model.AssetTypeStock])
		require.Len(t, records[0].Holdings, 1)
		assert.Equal(t, "AAPL", records[0].Holdings[0].Symbol)

		one, err := svc.GetSnapshotRecord(records[0].ID)
		require.NoError(t, err)
		assert.Equal(t, records[0].ID, one.ID)
	})

	t.Run("ignores error and empty snapshots", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestHistoryService(t, db, 24*time.Hour)

		svc.Record(model.Snapshot{Status: model.StatusError, LastUpdated: time.Now(), LastError: "boom"})
		svc.Record(model.Snapshot{Status: model.StatusActive})

		records, err := svc.GetHistory(time.Time{}, time.Time{}, false)
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}

func TestHistoryService_GetHistory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestHistoryService(t, db, 24*time.Hour)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		testutil.NewSnapshotRecord().
			WithSequence(uint64(i + 1)).
			WithTakenAt(base.AddDate(0, 0, i)).
			Build(t, db)
	}

	t.Run("filters by range", func(t *testing.T) {
		records, err := svc.GetHistory(base.AddDate(0, 0, 1), base.AddDate(0, 0, 3), false)
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, uint64(2), records[0].Sequence)
		assert.Equal(t, uint64(4), records[2].Sequence)
		assert.Nil(t, records[0].Holdings)
	})

	t.Run("rejects inverted range", func(t *testing.T) {
		_, err := svc.GetHistory(base.AddDate(0, 0, 3), base, false)
		assert.ErrorIs(t, err, apperrors.ErrInvalidDateRange)
	})

	t.Run("unknown record", func(t *testing.T) {
		_, err := svc.GetSnapshotRecord(testutil.MakeID())
		assert.ErrorIs(t, err, apperrors.ErrSnapshotNotFound)
	})
}

func TestHistoryService_Prune(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestHistoryService(t, db, 24*time.Hour)

	testutil.NewSnapshotRecord().WithTakenAt(time.Now().Add(-72 * time.Hour)).Build(t, db)
	testutil.NewSnapshotRecord().WithTakenAt(time.Now().Add(-30 * time.Hour)).Build(t, db)
	recent := testutil.NewSnapshotRecord().WithTakenAt(time.Now().Add(-time.Hour)).Build(t, db)

	n, err := svc.Prune()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	records, err := svc.GetHistory(time.Time{}, time.Time{}, false)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, recent.ID, records[0].ID)
}
