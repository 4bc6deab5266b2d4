package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/model"
)

// SnapshotRepository provides data access methods for the valuation_snapshot table.
// Each row journals the summary of one successful refresh cycle; the
// allocation map and per-holding results are stored as msgpack blobs.
type SnapshotRepository struct {
	db *sql.DB
}

// NewSnapshotRepository creates a new SnapshotRepository with the provided database connection.
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// InsertSnapshot stores rec. An empty ID is replaced with a new UUID.
// Returns the stored record.
func (r *SnapshotRepository) InsertSnapshot(rec model.SnapshotRecord) (model.SnapshotRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.Allocation == nil {
		rec.Allocation = map[model.AssetType]float64{}
	}

	allocation, err := msgpack.Marshal(rec.Allocation)
	if err != nil {
		return model.SnapshotRecord{}, fmt.Errorf("failed to encode allocation: %w", err)
	}
	var holdings []byte
	if len(rec.Holdings) > 0 {
		if holdings, err = msgpack.Marshal(rec.Holdings); err != nil {
			return model.SnapshotRecord{}, fmt.Errorf("failed to encode holdings: %w", err)
		}
	}

	query := `
          INSERT INTO valuation_snapshot (
              id, sequence, taken_at, total_value, total_cost, total_pnl,
              total_return_percent, holding_count, allocation, holdings
          ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
      `
	_, err = r.db.Exec(query,
		rec.ID,
		rec.Sequence,
		rec.TakenAt.UTC().UnixMilli(),
		rec.TotalValue,
		rec.TotalCost,
		rec.TotalPnL,
		rec.TotalReturnPercent,
		len(rec.Holdings),
		allocation,
		holdings,
	)
	if err != nil {
		return model.SnapshotRecord{}, fmt.Errorf("failed to insert valuation_snapshot: %w", err)
	}

	return rec, nil
}

// GetSnapshots retrieves journal entries with TakenAt in [filter.Start, filter.End],
// oldest first. A zero Start or End leaves that side open. Per-holding
// results are only decoded when filter.IncludeHoldings is set.
// Returns an empty slice if no entries match.
func (r *SnapshotRepository) GetSnapshots(filter model.HistoryFilter) ([]model.SnapshotRecord, error) {
	query := `
          SELECT id, sequence, taken_at, total_value, total_cost, total_pnl,
                 total_return_percent, allocation, holdings
          FROM valuation_snapshot
          WHERE 1=1
      `
	var args []any

	if !filter.Start.IsZero() {
		query += " AND taken_at >= ?"
		args = append(args, filter.Start.UTC().UnixMilli())
	}
	if !filter.End.IsZero() {
		query += " AND taken_at <= ?"
		args = append(args, filter.End.UTC().UnixMilli())
	}
	query += " ORDER BY taken_at ASC, sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query valuation_snapshot table: %w", err)
	}
	defer rows.Close()

	records := []model.SnapshotRecord{}

	for rows.Next() {
		rec, err := scanSnapshot(rows, filter.IncludeHoldings)
		if err != nil {
			return nil, fmt.Errorf("failed to scan valuation_snapshot table results: %w", err)
		}

		records = append(records, rec)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating valuation_snapshot table: %w", err)
	}

	return records, nil
}

// GetSnapshot retrieves one journal entry, including per-holding results.
// Returns apperrors.ErrSnapshotNotFound if no entry has the given ID.
func (r *SnapshotRepository) GetSnapshot(id string) (model.SnapshotRecord, error) {
	query := `
          SELECT id, sequence, taken_at, total_value, total_cost, total_pnl,
                 total_return_percent, allocation, holdings
          FROM valuation_snapshot
          WHERE id = ?
      `
	rec, err := scanSnapshot(r.db.QueryRow(query, id), true)
	if errors.Is(err, sql.ErrNoRows) {
		return model.SnapshotRecord{}, apperrors.ErrSnapshotNotFound
	}
	if err != nil {
		return model.SnapshotRecord{}, fmt.Errorf("failed to get snapshot %s: %w", id, err)
	}
	return rec, nil
}

// DeleteSnapshotsBefore removes journal entries taken strictly before cutoff.
// Returns the number of deleted rows.
func (r *SnapshotRepository) DeleteSnapshotsBefore(cutoff time.Time) (int64, error) {
	res, err := r.db.Exec(`DELETE FROM valuation_snapshot WHERE taken_at < ?`, cutoff.UTC().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to prune valuation_snapshot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned snapshots: %w", err)
	}
	return n, nil
}

// CountSnapshots returns the number of journal entries.
func (r *SnapshotRepository) CountSnapshots() (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM valuation_snapshot`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count valuation_snapshot: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner, includeHoldings bool) (model.SnapshotRecord, error) {
	var (
		rec        model.SnapshotRecord
		takenAt    int64
		allocation []byte
		holdings   []byte
	)

	err := row.Scan(
		&rec.ID,
		&rec.Sequence,
		&takenAt,
		&rec.TotalValue,
		&rec.TotalCost,
		&rec.TotalPnL,
		&rec.TotalReturnPercent,
		&allocation,
		&holdings,
	)
	if err != nil {
		return model.SnapshotRecord{}, err
	}

	rec.TakenAt = time.UnixMilli(takenAt).UTC()
	rec.Allocation = map[model.AssetType]float64{}
	if len(allocation) > 0 {
		if err := msgpack.Unmarshal(allocation, &rec.Allocation); err != nil {
			return model.SnapshotRecord{}, fmt.Errorf("failed to decode allocation of snapshot %s: %w", rec.ID, err)
		}
	}
	if includeHoldings && len(holdings) > 0 {
		if err := msgpack.Unmarshal(holdings, &rec.Holdings); err != nil {
			return model.SnapshotRecord{}, fmt.Errorf("failed to decode holdings of snapshot %s: %w", rec.ID, err)
		}
	}
	return rec, nil
}
