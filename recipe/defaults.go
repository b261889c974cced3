/*
defaults.go - Built-in bakery catalog and matching seed stock

PURPOSE:
  Compiled-in demo data: the standard product catalog, its conversion
  table, and a starting stock level for every ingredient the catalog
  references. Used by the seed endpoint and by the server's -seed flag.

  Ingredient names here are the canonical spellings. Seed stock and
  recipes are built from the same constants so the exact-match join
  between them cannot drift.
*/
package recipe

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/hearthside/bakery-engine/inventory"
)

// Canonical ingredient names. Lookups are case-sensitive, so every
// reference goes through these constants.
const (
	Flour        inventory.IngredientName = "All-purpose flour"
	Sugar        inventory.IngredientName = "Granulated sugar"
	BrownSugar   inventory.IngredientName = "Brown sugar"
	Butter       inventory.IngredientName = "Unsalted butter"
	Eggs         inventory.IngredientName = "Eggs"
	Milk         inventory.IngredientName = "Whole milk"
	Cocoa        inventory.IngredientName = "Cocoa powder"
	Yeast        inventory.IngredientName = "Active dry yeast"
	Salt         inventory.IngredientName = "Salt"
	Vanilla      inventory.IngredientName = "Vanilla extract"
	BakingPowder inventory.IngredientName = "Baking powder"
	Cinnamon     inventory.IngredientName = "Ground cinnamon"
)

// DefaultConversions returns the factor table for the built-in catalog.
// Each factor converts one recipe unit of the ingredient into its base
// unit (kg, L, or count); mass factors depend on the ingredient's
// density, which is why they are declared per ingredient.
func DefaultConversions() *ConversionTable {
	t := NewConversionTable()
	for _, f := range []struct {
		name   inventory.IngredientName
		unit   inventory.Unit
		factor string
	}{
		{Flour, inventory.UnitCup, "0.125"},
		{Flour, inventory.UnitTablespoon, "0.008"},
		{Flour, inventory.UnitGram, "0.001"},
		{Sugar, inventory.UnitCup, "0.2"},
		{Sugar, inventory.UnitTablespoon, "0.0125"},
		{BrownSugar, inventory.UnitCup, "0.22"},
		{BrownSugar, inventory.UnitTablespoon, "0.014"},
		{Butter, inventory.UnitCup, "0.227"},
		{Butter, inventory.UnitTablespoon, "0.014"},
		{Eggs, inventory.UnitPiece, "1"},
		{Milk, inventory.UnitCup, "0.2365"},
		{Milk, inventory.UnitMilliliter, "0.001"},
		{Cocoa, inventory.UnitCup, "0.1"},
		{Cocoa, inventory.UnitTablespoon, "0.0063"},
		{Yeast, inventory.UnitTeaspoon, "0.0031"},
		{Yeast, inventory.UnitTablespoon, "0.0094"},
		{Salt, inventory.UnitTeaspoon, "0.006"},
		{Vanilla, inventory.UnitTeaspoon, "0.0049"},
		{BakingPowder, inventory.UnitTeaspoon, "0.0048"},
		{Cinnamon, inventory.UnitTeaspoon, "0.0026"},
	} {
		if err := t.Set(f.name, f.unit, dec(f.factor)); err != nil {
			panic(err)
		}
	}
	return t
}

// DefaultCatalog returns the built-in product catalog.
func DefaultCatalog() *StaticCatalog {
	t := DefaultConversions()

	catalog, err := NewStaticCatalog([]Recipe{
		{
			Product: "Chocolate Cake",
			Ingredients: []RecipeIngredient{
				line(t, Flour, "2", inventory.UnitCup),
				line(t, Sugar, "1.5", inventory.UnitCup),
				line(t, Cocoa, "0.75", inventory.UnitCup),
				line(t, Butter, "0.5", inventory.UnitCup),
				line(t, Eggs, "3", inventory.UnitPiece),
				line(t, Milk, "1", inventory.UnitCup),
				line(t, BakingPowder, "1.5", inventory.UnitTeaspoon),
				line(t, Vanilla, "2", inventory.UnitTeaspoon),
				line(t, Salt, "0.5", inventory.UnitTeaspoon),
			},
		},
		{
			Product: "Butter Croissant",
			Ingredients: []RecipeIngredient{
				line(t, Flour, "0.5", inventory.UnitCup),
				line(t, Butter, "0.25", inventory.UnitCup),
				line(t, Milk, "0.25", inventory.UnitCup),
				line(t, Sugar, "1", inventory.UnitTablespoon),
				line(t, Yeast, "0.5", inventory.UnitTeaspoon),
				line(t, Salt, "0.25", inventory.UnitTeaspoon),
			},
		},
		{
			Product: "Sourdough Loaf",
			Ingredients: []RecipeIngredient{
				line(t, Flour, "4", inventory.UnitCup),
				line(t, Salt, "2", inventory.UnitTeaspoon),
			},
		},
		{
			Product: "Cinnamon Roll",
			Ingredients: []RecipeIngredient{
				line(t, Flour, "0.75", inventory.UnitCup),
				line(t, BrownSugar, "2", inventory.UnitTablespoon),
				line(t, Butter, "2", inventory.UnitTablespoon),
				line(t, Milk, "0.25", inventory.UnitCup),
				line(t, Cinnamon, "1", inventory.UnitTeaspoon),
				line(t, Yeast, "0.5", inventory.UnitTeaspoon),
			},
		},
		{
			Product: "Vanilla Cupcake",
			Ingredients: []RecipeIngredient{
				line(t, Flour, "0.25", inventory.UnitCup),
				line(t, Sugar, "0.25", inventory.UnitCup),
				line(t, Butter, "2", inventory.UnitTablespoon),
				line(t, Eggs, "0.5", inventory.UnitPiece),
				line(t, Vanilla, "0.5", inventory.UnitTeaspoon),
				line(t, BakingPowder, "0.5", inventory.UnitTeaspoon),
			},
		},
		{
			Product: "Baguette",
			Ingredients: []RecipeIngredient{
				line(t, Flour, "3", inventory.UnitCup),
				line(t, Yeast, "1", inventory.UnitTeaspoon),
				line(t, Salt, "1.5", inventory.UnitTeaspoon),
			},
		},
	})
	if err != nil {
		panic(err)
	}
	return catalog
}

// DefaultStock returns starting inventory covering every ingredient the
// default catalog references.
func DefaultStock() []inventory.InventoryItem {
	return []inventory.InventoryItem{
		stock(Flour, "25", inventory.UnitKilogram, "5"),
		stock(Sugar, "10", inventory.UnitKilogram, "2"),
		stock(BrownSugar, "4", inventory.UnitKilogram, "1"),
		stock(Butter, "8", inventory.UnitKilogram, "2"),
		stock(Eggs, "180", inventory.UnitCount, "36"),
		stock(Milk, "12", inventory.UnitLiter, "3"),
		stock(Cocoa, "3", inventory.UnitKilogram, "0.5"),
		stock(Yeast, "0.8", inventory.UnitKilogram, "0.2"),
		stock(Salt, "2.5", inventory.UnitKilogram, "0.5"),
		stock(Vanilla, "0.9", inventory.UnitLiter, "0.2"),
		stock(BakingPowder, "0.6", inventory.UnitKilogram, "0.15"),
		stock(Cinnamon, "0.5", inventory.UnitKilogram, "0.1"),
	}
}

// line builds one recipe line with its factor resolved from the table.
// The defaults are compiled-in data, so a missing factor is a programmer
// error and panics at init time rather than surfacing at order time.
func line(t *ConversionTable, name inventory.IngredientName, quantity string, unit inventory.Unit) RecipeIngredient {
	factor, ok := t.Factor(name, unit)
	if !ok {
		panic(fmt.Sprintf("no conversion factor for %s (%s)", name, unit))
	}
	return RecipeIngredient{
		Ingredient: name,
		Quantity:   dec(quantity),
		Unit:       unit,
		Factor:     factor,
	}
}

func stock(name inventory.IngredientName, quantity string, unit inventory.Unit, threshold string) inventory.InventoryItem {
	return inventory.InventoryItem{
		Name:      name,
		Quantity:  dec(quantity),
		Unit:      unit,
		Threshold: dec(threshold),
	}
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}
