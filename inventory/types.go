/*
Package inventory provides the ingredient ledger at the heart of the
bakery engine.

PURPOSE:
  Tracks how much of each ingredient the bakery holds, in a fixed base
  unit per ingredient (kg, L, or count). Every change to a quantity goes
  through the ledger and produces exactly one immutable history entry.
  There is no other write path - callers never set quantities directly.

KEY CONCEPTS IN THIS FILE (types.go):
  - IngredientName: type-safe key into the ledger
  - Unit: measurement units, both base units and recipe units
  - InventoryItem: current state of one ingredient
  - HistoryEntry: one immutable record of a quantity change

DESIGN PRINCIPLES:
  1. Precision: quantities use decimal.Decimal, never float64
  2. Type safety: IngredientName keeps ledger keys from mixing with
     arbitrary strings
  3. Auditability: every mutation captures before/after/change and who
     asked for it

SEE ALSO:
  - store.go: persistence interface with the atomicity contract
  - ledger.go: validated operations on top of a Store
*/
package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS AND UNITS
// =============================================================================

// IngredientName keys the ledger. Matching is exact and case-sensitive:
// "All-purpose flour" and "All-Purpose Flour" are different ingredients.
type IngredientName string

type Unit string

const (
	// Base units - every InventoryItem quantity is expressed in one of these.
	UnitKilogram Unit = "kg"
	UnitLiter    Unit = "L"
	UnitCount    Unit = "count"

	// Recipe units - human-facing units that recipes are written in.
	// Converted to base units via a conversion factor before touching
	// the ledger.
	UnitCup        Unit = "cup"
	UnitTablespoon Unit = "tbsp"
	UnitTeaspoon   Unit = "tsp"
	UnitOunce      Unit = "oz"
	UnitGram       Unit = "g"
	UnitMilliliter Unit = "ml"
	UnitPiece      Unit = "piece"
)

// =============================================================================
// INVENTORY ITEM - Current state of one ingredient
// =============================================================================

// InventoryItem is the current state of one ingredient. Quantity is in the
// item's base unit and is never negative; it changes only through
// Store.ApplyDelta.
type InventoryItem struct {
	Name      IngredientName
	Quantity  decimal.Decimal
	Unit      Unit
	Threshold decimal.Decimal
	UpdatedAt time.Time
}

// LowStock reports whether the item is at or below its reorder threshold.
func (it InventoryItem) LowStock() bool {
	return it.Quantity.LessThanOrEqual(it.Threshold)
}

// =============================================================================
// HISTORY - Append-only audit trail
// =============================================================================

type HistoryAction string

const (
	ActionDeduct  HistoryAction = "deduct"
	ActionRestock HistoryAction = "restock"
)

// HistoryEntry records one quantity change. Entries are append-only: they
// are never edited or removed, and they are the only source for usage
// analysis.
type HistoryEntry struct {
	ID               string
	Ingredient       IngredientName
	Action           HistoryAction
	PreviousQuantity decimal.Decimal
	NewQuantity      decimal.Decimal
	// ChangeAmount is signed: negative for deductions, positive for restocks.
	ChangeAmount decimal.Decimal
	Note         string
	PerformedBy  string
	At           time.Time
}

// =============================================================================
// USAGE SUMMARY - Derived from history, never stored
// =============================================================================

// UsageSummary aggregates an ingredient's history entries over a window.
// It is computed on demand; the history log is the single source of truth.
type UsageSummary struct {
	Ingredient     IngredientName
	Unit           Unit
	TotalDeducted  decimal.Decimal
	TotalRestocked decimal.Decimal
	Deductions     int
	Restocks       int
	Since          time.Time
}
