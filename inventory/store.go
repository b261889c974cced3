/*
store.go - Persistence interface for inventory items and their history

PURPOSE:
  Defines the interface between the ledger and the database. Different
  implementations can use SQLite or in-memory storage.

APPEND-ONLY CONTRACT:
  History entries are written exactly once, by ApplyDelta, and never
  updated or deleted. There are no methods to edit history.

ATOMICITY CONTRACT:
  ApplyDelta must serialize concurrent calls against the same ingredient:
  the read-modify-write of the quantity, the non-negative check, and the
  history append happen as one atomic step. Two orders racing for the
  last of an ingredient must never both succeed.

IMPLEMENTATIONS:
  - store/sqlite: production store, SQL transaction under a write lock
  - store/memory: in-memory store for tests and dev
*/
package inventory

import (
	"context"

	"github.com/shopspring/decimal"
)

// Store persists inventory items and their append-only history.
type Store interface {
	// Get returns the current state of one ingredient.
	// Returns ErrItemNotFound if the name has no record.
	Get(ctx context.Context, name IngredientName) (InventoryItem, error)

	// List returns all items, ordered by name.
	List(ctx context.Context) ([]InventoryItem, error)

	// Put creates an item. Provisioning only - it writes no history and
	// fails with ErrItemExists if the name is already stocked. Quantity
	// changes after creation go through ApplyDelta exclusively.
	Put(ctx context.Context, item InventoryItem) error

	// ApplyDelta atomically adjusts an item's quantity and appends one
	// history entry capturing before/after/change/note. The action is
	// derived from the delta's sign.
	//
	// Returns ErrItemNotFound if the item does not exist, and
	// *InsufficientStockError (leaving the item unchanged) if a negative
	// delta exceeds the available quantity.
	ApplyDelta(ctx context.Context, name IngredientName, delta decimal.Decimal, note, performedBy string) (InventoryItem, HistoryEntry, error)

	// History returns an ingredient's entries in chronological order.
	// Read-only.
	History(ctx context.Context, name IngredientName) ([]HistoryEntry, error)
}
