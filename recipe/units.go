/*
units.go - Recipe-unit to base-unit conversion

PURPOSE:
  Recipes are written in kitchen units (cups, tbsp, oz, pieces) while
  the ledger accounts in base units (kg, L, count). A ConversionTable
  holds the factor that turns one recipe unit of an ingredient into that
  ingredient's base unit, keyed by (ingredient, recipe unit) so each
  factor is declared once and reviewable in one place instead of being
  repeated inline on every recipe line.

  Volume-to-mass factors are ingredient-specific (a cup of flour and a
  cup of sugar weigh differently), which is why the table is keyed by
  ingredient and not by unit pair alone.

INVARIANT:
  Every factor is strictly positive.
*/
package recipe

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/hearthside/bakery-engine/inventory"
)

// ConversionTable maps (ingredient, recipe unit) to the factor that
// converts one recipe unit into the ingredient's base unit.
type ConversionTable struct {
	factors map[inventory.IngredientName]map[inventory.Unit]decimal.Decimal
}

func NewConversionTable() *ConversionTable {
	return &ConversionTable{
		factors: make(map[inventory.IngredientName]map[inventory.Unit]decimal.Decimal),
	}
}

// Set registers the factor converting one from-unit of the ingredient
// into its base unit. Returns an error for non-positive factors.
func (t *ConversionTable) Set(name inventory.IngredientName, from inventory.Unit, factor decimal.Decimal) error {
	if !factor.IsPositive() {
		return fmt.Errorf("conversion factor for %s (%s) must be positive, got %s", name, from, factor)
	}
	if t.factors[name] == nil {
		t.factors[name] = make(map[inventory.Unit]decimal.Decimal)
	}
	t.factors[name][from] = factor
	return nil
}

// Factor looks up the conversion factor for one recipe unit of the
// ingredient.
func (t *ConversionTable) Factor(name inventory.IngredientName, from inventory.Unit) (decimal.Decimal, bool) {
	factors, ok := t.factors[name]
	if !ok {
		return decimal.Decimal{}, false
	}
	factor, ok := factors[from]
	return factor, ok
}
