/*
ledger.go - Validated operations over an inventory Store

PURPOSE:
  The Ledger is the only component the rest of the engine talks to when
  it reads or changes stock. It validates amounts, shapes deductions and
  restocks into signed deltas for the Store, and reports the low-stock
  state of the item after every change so callers can raise warnings
  without a second read.

CRITICAL INVARIANTS:
  1. Quantities never go negative. An over-deduction is rejected and the
     item is left exactly as it was.
  2. Every successful mutation appends exactly one history entry.
  3. History is append-only. Corrections are new restock entries, never
     edits.

WHAT THE LEDGER DOES NOT DO:
  - No deduplication. Applying the same order twice deducts twice; the
    caller must guarantee at-most-once invocation per order.
  - No retries. A rejected deduction is final for that call.

SEE ALSO:
  - store.go: the atomicity contract ApplyDelta relies on
  - deduction/engine.go: the main consumer
*/
package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// LEDGER
// =============================================================================

// LedgerUpdate is the outcome of a single deduction or restock.
type LedgerUpdate struct {
	Item  InventoryItem
	Entry HistoryEntry
	// LowStock is computed from the post-change quantity, so callers can
	// warn without re-reading the item.
	LowStock bool
}

type Ledger struct {
	store Store
}

func NewLedger(store Store) *Ledger {
	return &Ledger{store: store}
}

// Get returns the current state of one ingredient.
func (l *Ledger) Get(ctx context.Context, name IngredientName) (InventoryItem, error) {
	return l.store.Get(ctx, name)
}

// List returns all stocked ingredients.
func (l *Ledger) List(ctx context.Context) ([]InventoryItem, error) {
	return l.store.List(ctx)
}

// History returns an ingredient's audit trail, oldest first.
func (l *Ledger) History(ctx context.Context, name IngredientName) ([]HistoryEntry, error) {
	return l.store.History(ctx, name)
}

// Seed creates an item with its starting quantity. Provisioning only;
// it writes no history entry.
func (l *Ledger) Seed(ctx context.Context, item InventoryItem) error {
	return l.store.Put(ctx, item)
}

// Deduct removes amount (base units, must be positive) from an ingredient.
// Returns ErrInvalidDelta for non-positive amounts, ErrItemNotFound for
// unknown ingredients, and *InsufficientStockError when amount exceeds the
// available quantity. On success exactly one history entry has been
// appended with ChangeAmount = -amount.
func (l *Ledger) Deduct(ctx context.Context, name IngredientName, amount decimal.Decimal, note, performedBy string) (LedgerUpdate, error) {
	if !amount.IsPositive() {
		return LedgerUpdate{}, ErrInvalidDelta
	}
	return l.apply(ctx, name, amount.Neg(), note, performedBy)
}

// Restock adds amount (base units, must be positive) to an ingredient.
func (l *Ledger) Restock(ctx context.Context, name IngredientName, amount decimal.Decimal, note, performedBy string) (LedgerUpdate, error) {
	if !amount.IsPositive() {
		return LedgerUpdate{}, ErrInvalidDelta
	}
	return l.apply(ctx, name, amount, note, performedBy)
}

func (l *Ledger) apply(ctx context.Context, name IngredientName, delta decimal.Decimal, note, performedBy string) (LedgerUpdate, error) {
	item, entry, err := l.store.ApplyDelta(ctx, name, delta, note, performedBy)
	if err != nil {
		return LedgerUpdate{}, err
	}
	return LedgerUpdate{Item: item, Entry: entry, LowStock: item.LowStock()}, nil
}

// =============================================================================
// USAGE ANALYSIS
// =============================================================================

// Usage aggregates an ingredient's history entries at or after since.
// A zero since covers the full history. The summary is derived entirely
// from the audit trail.
func (l *Ledger) Usage(ctx context.Context, name IngredientName, since time.Time) (UsageSummary, error) {
	item, err := l.store.Get(ctx, name)
	if err != nil {
		return UsageSummary{}, err
	}
	entries, err := l.store.History(ctx, name)
	if err != nil {
		return UsageSummary{}, err
	}

	summary := UsageSummary{
		Ingredient:     name,
		Unit:           item.Unit,
		TotalDeducted:  decimal.Zero,
		TotalRestocked: decimal.Zero,
		Since:          since,
	}
	for _, e := range entries {
		if e.At.Before(since) {
			continue
		}
		switch e.Action {
		case ActionDeduct:
			summary.TotalDeducted = summary.TotalDeducted.Add(e.ChangeAmount.Neg())
			summary.Deductions++
		case ActionRestock:
			summary.TotalRestocked = summary.TotalRestocked.Add(e.ChangeAmount)
			summary.Restocks++
		}
	}
	return summary, nil
}
