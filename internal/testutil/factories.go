package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/model"
)

// HoldingBuilder provides a fluent interface for creating test holdings.
//
// Example usage:
//
//	// Simple creation with defaults
//	h := testutil.NewHolding().Build()
//
//	// Customized holding
//	h := testutil.NewHolding().
//	    WithSymbol("AAPL").
//	    WithQuantity(10).
//	    WithPurchasePrice(100).
//	    Build()
type HoldingBuilder struct {
	ID            model.HoldingID
	Symbol        string
	Name          string
	Quantity      float64
	PurchasePrice float64
	AssetType     model.AssetType
	PurchaseDate  string
	CurrentPrice  *float64
}

// NewHolding creates a HoldingBuilder with sensible defaults.
func NewHolding() *HoldingBuilder {
	return &HoldingBuilder{
		ID:            model.HoldingID(MakeID()),
		Symbol:        MakeSymbol("TEST"),
		Name:          MakeSymbolName("Test Holding"),
		Quantity:      10,
		PurchasePrice: 100,
		AssetType:     model.AssetTypeStock,
		PurchaseDate:  "2024-01-15",
	}
}

// WithID sets a custom ID.
func (b *HoldingBuilder) WithID(id string) *HoldingBuilder {
	b.ID = model.HoldingID(id)
	return b
}

// WithSymbol sets a custom symbol.
func (b *HoldingBuilder) WithSymbol(symbol string) *HoldingBuilder {
	b.Symbol = symbol
	return b
}

// WithName sets a custom name.
func (b *HoldingBuilder) WithName(name string) *HoldingBuilder {
	b.Name = name
	return b
}

// WithQuantity sets the quantity.
func (b *HoldingBuilder) WithQuantity(quantity float64) *HoldingBuilder {
	b.Quantity = quantity
	return b
}

// WithPurchasePrice sets the purchase price.
func (b *HoldingBuilder) WithPurchasePrice(price float64) *HoldingBuilder {
	b.PurchasePrice = price
	return b
}

// WithAssetType sets the asset type.
func (b *HoldingBuilder) WithAssetType(assetType model.AssetType) *HoldingBuilder {
	b.AssetType = assetType
	return b
}

// WithCurrentPrice attaches a resolved price.
func (b *HoldingBuilder) WithCurrentPrice(price float64) *HoldingBuilder {
	b.CurrentPrice = &price
	return b
}

// Build returns the holding.
func (b *HoldingBuilder) Build() model.Holding {
	h := model.Holding{
		ID:            b.ID,
		Symbol:        b.Symbol,
		Name:          b.Name,
		Quantity:      b.Quantity,
		PurchasePrice: b.PurchasePrice,
		AssetType:     b.AssetType,
		PurchaseDate:  b.PurchaseDate,
	}
	if b.CurrentPrice != nil {
		h = h.WithCurrentPrice(*b.CurrentPrice)
	}
	return h
}

// CreateHolding creates a holding with the given symbol, quantity and
// purchase price and default values otherwise.
//
// Example usage:
//
//	h := testutil.CreateHolding("AAPL", 10, 100)
func CreateHolding(symbol string, quantity, purchasePrice float64) model.Holding {
	return NewHolding().
		WithSymbol(symbol).
		WithQuantity(quantity).
		WithPurchasePrice(purchasePrice).
		Build()
}

// SnapshotRecordBuilder provides a fluent interface for creating journal entries.
//
// Example usage:
//
//	rec := testutil.NewSnapshotRecord().
//	    WithTakenAt(time.Now().Add(-48 * time.Hour)).
//	    WithTotals(1200, 1000).
//	    Build(t, db)
type SnapshotRecordBuilder struct {
	ID         string
	Sequence   uint64
	TakenAt    time.Time
	TotalValue float64
	TotalCost  float64
	Allocation map[model.AssetType]float64
	Holdings   []model.ValuationResult
}

// NewSnapshotRecord creates a SnapshotRecordBuilder with sensible defaults.
func NewSnapshotRecord() *SnapshotRecordBuilder {
	return &SnapshotRecordBuilder{
		ID:         MakeID(),
		Sequence:   1,
		TakenAt:    time.Now().UTC().Truncate(time.Millisecond),
		TotalValue: 1200,
		TotalCost:  1000,
		Allocation: map[model.AssetType]float64{model.AssetTypeStock: 1200},
	}
}

// WithSequence sets the cycle sequence number.
func (b *SnapshotRecordBuilder) WithSequence(seq uint64) *SnapshotRecordBuilder {
	b.Sequence = seq
	return b
}

// WithTakenAt sets the snapshot time.
func (b *SnapshotRecordBuilder) WithTakenAt(t time.Time) *SnapshotRecordBuilder {
	b.TakenAt = t.UTC().Truncate(time.Millisecond)
	return b
}

// WithTotals sets the total value and total cost.
func (b *SnapshotRecordBuilder) WithTotals(value, cost float64) *SnapshotRecordBuilder {
	b.TotalValue = value
	b.TotalCost = cost
	return b
}

// WithHoldings sets the per-holding results.
func (b *SnapshotRecordBuilder) WithHoldings(results ...model.ValuationResult) *SnapshotRecordBuilder {
	b.Holdings = results
	return b
}

// Build creates the journal entry in the database and returns it.
func (b *SnapshotRecordBuilder) Build(t *testing.T, db *sql.DB) model.SnapshotRecord {
	t.Helper()

	rec := model.SnapshotRecord{
		ID:         b.ID,
		Sequence:   b.Sequence,
		TakenAt:    b.TakenAt,
		TotalValue: b.TotalValue,
		TotalCost:  b.TotalCost,
		TotalPnL:   b.TotalValue - b.TotalCost,
		Allocation: b.Allocation,
		Holdings:   b.Holdings,
	}
	if b.TotalCost > 0 {
		rec.TotalReturnPercent = rec.TotalPnL / b.TotalCost * 100
	}

	allocation, err := msgpack.Marshal(rec.Allocation)
	if err != nil {
		t.Fatalf("Failed to encode allocation: %v", err)
	}
	var holdings []byte
	if len(rec.Holdings) > 0 {
		if holdings, err = msgpack.Marshal(rec.Holdings); err != nil {
			t.Fatalf("Failed to encode holdings: %v", err)
		}
	}

	query := `
		INSERT INTO valuation_snapshot (
			id, sequence, taken_at, total_value, total_cost, total_pnl,
			total_return_percent, holding_count, allocation, holdings
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = db.Exec(query,
		rec.ID, rec.Sequence, rec.TakenAt.UnixMilli(), rec.TotalValue, rec.TotalCost,
		rec.TotalPnL, rec.TotalReturnPercent, len(rec.Holdings), allocation, holdings,
	)
	if err != nil {
		t.Fatalf("Failed to create test snapshot record: %v", err)
	}

	return rec
}
