/*
Package recipe provides the product catalog: the static mapping from
sellable products to the ingredients they consume.

PURPOSE:
  A Recipe lists, in declared order, the ingredients needed to produce
  one unit of a product, each with a quantity in a kitchen unit and the
  factor that converts it to the ledger's base unit. The catalog is
  read-only configuration loaded at startup; nothing here mutates state.

KEY CONCEPTS:
  - ProductName: type-safe join key to order line items. Matching is
    exact and byte-for-byte - no case folding, no slug normalization.
  - RecipeIngredient.Required(n): the base-unit amount consumed by
    selling n units, quantity * n * factor.

SEE ALSO:
  - units.go: where conversion factors are declared
  - catalog.go: lookup contract and the static implementation
*/
package recipe

import (
	"github.com/shopspring/decimal"

	"github.com/hearthside/bakery-engine/inventory"
)

// ProductName keys the catalog and joins order line items to recipes.
// Matching is exact: "Chocolate Cake" and "chocolate cake" are different
// products.
type ProductName string

// RecipeIngredient is one ingredient requirement for one unit of product.
type RecipeIngredient struct {
	Ingredient inventory.IngredientName
	// Quantity in the recipe's kitchen unit (cups, tbsp, pieces...).
	Quantity decimal.Decimal
	Unit     inventory.Unit
	// Factor converts one Unit of Quantity into the ingredient's base
	// unit. Always positive.
	Factor decimal.Decimal
}

// Required returns the base-unit amount consumed by selling n units of
// the product: Quantity * n * Factor. Linear in n.
func (ri RecipeIngredient) Required(n int) decimal.Decimal {
	return ri.Quantity.Mul(decimal.NewFromInt(int64(n))).Mul(ri.Factor)
}

// Recipe is the ordered ingredient list for one sellable product.
// Ingredient order is meaningful: deductions and their history entries
// follow it.
type Recipe struct {
	Product     ProductName
	Ingredients []RecipeIngredient
}
