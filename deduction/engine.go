/*
Package deduction turns a completed order into ingredient deductions.

PURPOSE:
  When an order is marked complete, each sold product is resolved to its
  recipe, ingredient requirements are computed in base units, and the
  ledger is debited - one atomic deduction per ingredient, each with its
  own audit entry. The engine is the only coupling point between the
  catalog and the ledger; both are injected, never reached for globally.

FAILURE MODEL:
  Per-product and per-ingredient problems never abort the run. They are
  collected on the result:
    - missing recipe        -> warning, product skipped
    - missing ingredient    -> error, ingredient skipped
    - insufficient stock    -> error with exact shortfall, ingredient
                               skipped (all-or-nothing per ingredient,
                               never a partial deduction)
    - low stock after apply -> warning
  Only an infrastructure fault (store unreachable) fails the whole call,
  as a non-nil Go error alongside a result carrying that single error.

  There is no cross-ingredient rollback: ingredients deducted before a
  later failure stay deducted, and Success simply reports whether every
  ingredient went through. Callers that need order-level atomicity must
  run a dry-run CheckAvailability first and accept the remaining race,
  or reverse with restocks.

NOT IDEMPOTENT:
  Calling Deduct twice for the same order deducts twice. The engine has
  no deduplication; callers must guarantee at-most-once invocation per
  order.
*/
package deduction

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/hearthside/bakery-engine/inventory"
	"github.com/hearthside/bakery-engine/recipe"
)

// OrderLineItem is one line of a completed order. Read-only input; the
// engine does not own order lifecycle.
type OrderLineItem struct {
	Product  recipe.ProductName
	Quantity int
}

// Engine orchestrates recipe lookup, requirement computation and ledger
// deduction. Safe for concurrent use; each call is one-shot with no
// state carried across invocations.
type Engine struct {
	catalog recipe.Catalog
	ledger  *inventory.Ledger
}

func NewEngine(catalog recipe.Catalog, ledger *inventory.Ledger) *Engine {
	return &Engine{catalog: catalog, ledger: ledger}
}

// =============================================================================
// AVAILABILITY CHECK (dry run)
// =============================================================================

// Availability is the outcome of a dry-run stock check.
type Availability struct {
	Available         bool
	InsufficientItems []string
}

// CheckAvailability verifies, without mutating anything, that current
// stock covers every ingredient of every order item. It aggregates one
// message per problem (missing recipe, unstocked ingredient, shortfall)
// and reports Available only when no messages were collected.
//
// This is advisory: between a check and a later Deduct, a concurrent
// order may consume the same stock.
func (e *Engine) CheckAvailability(ctx context.Context, items []OrderLineItem) (Availability, error) {
	var problems []string

	for _, item := range items {
		if item.Quantity <= 0 {
			problems = append(problems, fmt.Sprintf("invalid quantity %d for product %q", item.Quantity, item.Product))
			continue
		}

		r, err := e.catalog.Lookup(item.Product)
		if errors.Is(err, recipe.ErrRecipeNotFound) {
			problems = append(problems, fmt.Sprintf("no recipe found for product %q", item.Product))
			continue
		}
		if err != nil {
			return Availability{}, fmt.Errorf("catalog lookup for %q: %w", item.Product, err)
		}

		for _, ri := range r.Ingredients {
			required := ri.Required(item.Quantity)

			stocked, err := e.ledger.Get(ctx, ri.Ingredient)
			if inventory.IsNotFound(err) {
				problems = append(problems, fmt.Sprintf("ingredient %q is not stocked", ri.Ingredient))
				continue
			}
			if err != nil {
				return Availability{}, fmt.Errorf("inventory read for %q: %w", ri.Ingredient, err)
			}

			if required.GreaterThan(stocked.Quantity) {
				problems = append(problems, fmt.Sprintf(
					"insufficient %s: required %s %s, available %s %s",
					ri.Ingredient, required, stocked.Unit, stocked.Quantity, stocked.Unit))
			}
		}
	}

	return Availability{Available: len(problems) == 0, InsufficientItems: problems}, nil
}

// =============================================================================
// DEDUCTION
// =============================================================================

// DeductionRecord is one successful per-ingredient deduction.
type DeductionRecord struct {
	Ingredient       inventory.IngredientName
	Amount           decimal.Decimal
	Unit             inventory.Unit
	PreviousQuantity decimal.Decimal
	NewQuantity      decimal.Decimal
	// Which order line this deduction served.
	Product         recipe.ProductName
	ProductQuantity int
}

// Summary totals one Deduct run.
type Summary struct {
	TotalIngredients int
	TotalErrors      int
	TotalWarnings    int
}

// DeductionResult aggregates a full Deduct run. Success means every
// ingredient of every item was deducted; it does not imply rollback of
// earlier deductions when false.
type DeductionResult struct {
	Success    bool
	Deductions []DeductionRecord
	Errors     []string
	Warnings   []string
	Summary    Summary
}

// Deduct debits the ledger for every ingredient of every order item,
// in input order per item and recipe-declared order per ingredient, so
// history entries are reproducible. orderRef identifies the order in
// each audit note; performedBy is recorded on every history entry.
//
// NOT idempotent: a second call with the same orderRef deducts again.
func (e *Engine) Deduct(ctx context.Context, items []OrderLineItem, orderRef, performedBy string) (DeductionResult, error) {
	var result DeductionResult

	for _, item := range items {
		if item.Quantity <= 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("invalid quantity %d for product %q", item.Quantity, item.Product))
			continue
		}

		r, err := e.catalog.Lookup(item.Product)
		if errors.Is(err, recipe.ErrRecipeNotFound) {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"no recipe found for product %q - inventory not adjusted", item.Product))
			continue
		}
		if err != nil {
			return fatal(result, fmt.Errorf("catalog lookup for %q: %w", item.Product, err))
		}

		for _, ri := range r.Ingredients {
			required := ri.Required(item.Quantity)
			note := fmt.Sprintf("Order completion - %dx %s (Order: %s)", item.Quantity, item.Product, orderRef)

			upd, err := e.ledger.Deduct(ctx, ri.Ingredient, required, note, performedBy)
			switch {
			case err == nil:
				result.Deductions = append(result.Deductions, DeductionRecord{
					Ingredient:       ri.Ingredient,
					Amount:           required,
					Unit:             upd.Item.Unit,
					PreviousQuantity: upd.Entry.PreviousQuantity,
					NewQuantity:      upd.Entry.NewQuantity,
					Product:          item.Product,
					ProductQuantity:  item.Quantity,
				})
				if upd.LowStock {
					result.Warnings = append(result.Warnings, fmt.Sprintf(
						"low stock: %s at %s %s (threshold %s %s)",
						ri.Ingredient, upd.Item.Quantity, upd.Item.Unit, upd.Item.Threshold, upd.Item.Unit))
				}

			case inventory.IsNotFound(err):
				result.Errors = append(result.Errors, fmt.Sprintf("ingredient %q is not stocked", ri.Ingredient))

			case inventory.IsRejection(err):
				// Exact shortfall comes from the ledger's atomic check, so a
				// concurrent order that got there first is reported correctly.
				result.Errors = append(result.Errors, err.Error())

			default:
				return fatal(result, fmt.Errorf("deduct %q: %w", ri.Ingredient, err))
			}
		}
	}

	result.Success = len(result.Errors) == 0
	result.Summary = Summary{
		TotalIngredients: len(result.Deductions),
		TotalErrors:      len(result.Errors),
		TotalWarnings:    len(result.Warnings),
	}
	return result, nil
}

// fatal finalizes a result for an infrastructure fault: the run is
// untrusted, so it carries the single fault instead of partial tallies.
func fatal(result DeductionResult, err error) (DeductionResult, error) {
	result.Success = false
	result.Errors = append(result.Errors, err.Error())
	result.Summary = Summary{
		TotalIngredients: len(result.Deductions),
		TotalErrors:      len(result.Errors),
		TotalWarnings:    len(result.Warnings),
	}
	return result, err
}
