package model

import "time"

// SnapshotRecord is a journaled summary of one successful refresh cycle.
// It backs the portfolio performance history chart.
type SnapshotRecord struct {
	ID                 string                `json:"id"`
	Sequence           uint64                `json:"sequence"`
	TakenAt            time.Time             `json:"takenAt"`
	TotalValue         float64               `json:"totalValue"`
	TotalCost          float64               `json:"totalCost"`
	TotalPnL           float64               `json:"totalPnl"`
	TotalReturnPercent float64               `json:"totalReturnPercent"`
	Allocation         map[AssetType]float64 `json:"allocation"`
	Holdings           []ValuationResult     `json:"perHolding,omitempty"`
}

// HistoryFilter selects journal entries by time range.
type HistoryFilter struct {
	Start           time.Time
	End             time.Time
	IncludeHoldings bool
}
