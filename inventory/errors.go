/*
errors.go - Centralized error types for the inventory ledger

ERROR CATEGORIES:
  1. Not-found errors - the ledger has no record for a name
  2. Rejection errors - a delta would violate a ledger invariant
  3. Store errors - database-level failures, wrapped with %w at the
     store boundary

Callers distinguish recoverable rejections (reported per ingredient and
processing continues) from infrastructure faults (the whole call fails)
with errors.Is / errors.As against the sentinels below. Anything that
does not unwrap to a sentinel is an infrastructure fault.
*/
package inventory

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrItemNotFound is returned when the ledger has no record for an
	// ingredient name. Name matching is exact; a casing mismatch between
	// recipe data and stock data surfaces as this error.
	ErrItemNotFound = errors.New("inventory item not found")

	// ErrInsufficientStock is returned when a deduction would drive an
	// item's quantity below zero. The item is left unchanged.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidDelta is returned for zero or wrongly-signed amounts
	// passed to the ledger's deduct/restock operations.
	ErrInvalidDelta = errors.New("invalid delta")

	// ErrItemExists is returned when seeding an ingredient that is
	// already stocked.
	ErrItemExists = errors.New("inventory item already exists")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InsufficientStockError reports the exact shortfall of a rejected deduction.
type InsufficientStockError struct {
	Ingredient IngredientName
	Required   decimal.Decimal
	Available  decimal.Decimal
	Unit       Unit
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock of %s: required %s %s, available %s %s",
		e.Ingredient, e.Required, e.Unit, e.Available, e.Unit)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound reports whether err indicates a missing ledger record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrItemNotFound)
}

// IsRejection reports whether err is a recoverable per-ingredient rejection
// rather than an infrastructure fault.
func IsRejection(err error) bool {
	return errors.Is(err, ErrItemNotFound) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrInvalidDelta)
}
