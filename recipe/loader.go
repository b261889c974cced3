/*
loader.go - JSON to Go recipe catalog conversion

PURPOSE:
  Converts JSON catalog definitions into Recipe values and a validated
  StaticCatalog. This enables recipe configuration without code changes -
  bakery staff can define products in JSON, and the loader builds the
  proper Go structs.

WHY JSON?
  - Non-developers can modify recipes
  - Easy integration with an admin UI
  - Version control for recipe definitions
  - Seasonal catalogs swapped by pointing at a different file

JSON SCHEMA:
  {
    "conversions": [
      {"ingredient": "All-purpose flour", "unit": "cup", "factor": 0.125}
    ],
    "recipes": [
      {
        "product_name": "Chocolate Cake",
        "ingredients": [
          {"ingredient_name": "All-purpose flour", "quantity": 2, "unit": "cup"},
          {"ingredient_name": "Eggs", "quantity": 3, "unit": "piece", "conversion_factor": 1}
        ]
      }
    ]
  }

CONVERSION RESOLUTION:
  Each ingredient line needs a factor from its recipe unit to the
  ingredient's stock base unit. An explicit "conversion_factor" on the
  line wins; otherwise the factor is looked up in the file's conversions
  table, falling back to the built-in defaults. A line with no factor
  from any source is a load error - silently guessing a conversion would
  corrupt every deduction that recipe makes.

USAGE:
  loader := recipe.NewCatalogLoader()
  catalog, err := loader.LoadFile("./recipes.json")

SEE ALSO:
  - catalog.go: StaticCatalog and validation rules
  - defaults.go: built-in catalog and conversion defaults
*/
package recipe

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/hearthside/bakery-engine/inventory"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// CatalogJSON is the JSON representation of a full catalog file.
type CatalogJSON struct {
	Conversions []ConversionJSON `json:"conversions,omitempty"`
	Recipes     []RecipeJSON     `json:"recipes"`
}

// ConversionJSON maps one (ingredient, recipe unit) pair to a factor
// into the ingredient's base unit.
type ConversionJSON struct {
	Ingredient string  `json:"ingredient"`
	Unit       string  `json:"unit"`
	Factor     float64 `json:"factor"`
}

// RecipeJSON is the JSON representation of one product's recipe.
type RecipeJSON struct {
	ProductName string           `json:"product_name"`
	Ingredients []IngredientJSON `json:"ingredients"`
}

// IngredientJSON is one recipe line. ConversionFactor is optional; when
// absent the loader resolves it from the conversions table.
type IngredientJSON struct {
	IngredientName   string   `json:"ingredient_name"`
	Quantity         float64  `json:"quantity"`
	Unit             string   `json:"unit"`
	ConversionFactor *float64 `json:"conversion_factor,omitempty"`
}

// =============================================================================
// CATALOG LOADER
// =============================================================================

// CatalogLoader converts JSON catalog definitions to Go structs.
type CatalogLoader struct {
	// Fallback factors for lines the file does not cover.
	defaults *ConversionTable
}

// NewCatalogLoader creates a loader backed by the built-in conversion
// defaults.
func NewCatalogLoader() *CatalogLoader {
	return &CatalogLoader{defaults: DefaultConversions()}
}

// LoadFile reads and parses a catalog file.
func (l *CatalogLoader) LoadFile(path string) (*StaticCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return l.ParseCatalog(data)
}

// ParseCatalog parses JSON into a validated StaticCatalog.
func (l *CatalogLoader) ParseCatalog(data []byte) (*StaticCatalog, error) {
	var cj CatalogJSON
	if err := json.Unmarshal(data, &cj); err != nil {
		return nil, fmt.Errorf("failed to parse catalog JSON: %w", err)
	}
	return l.FromJSON(cj)
}

// FromJSON converts CatalogJSON to a StaticCatalog.
func (l *CatalogLoader) FromJSON(cj CatalogJSON) (*StaticCatalog, error) {
	conversions, err := l.buildConversions(cj.Conversions)
	if err != nil {
		return nil, err
	}

	recipes := make([]Recipe, 0, len(cj.Recipes))
	for _, rj := range cj.Recipes {
		r := Recipe{Product: ProductName(rj.ProductName)}
		for _, ij := range rj.Ingredients {
			line, err := l.buildLine(rj.ProductName, ij, conversions)
			if err != nil {
				return nil, err
			}
			r.Ingredients = append(r.Ingredients, line)
		}
		recipes = append(recipes, r)
	}

	// StaticCatalog validation catches duplicates, empty recipes and
	// non-positive quantities.
	return NewStaticCatalog(recipes)
}

// ToJSON converts recipes back to the file representation, with every
// factor explicit. Useful for exporting the built-in catalog as a
// starting point.
func (l *CatalogLoader) ToJSON(recipes []Recipe) CatalogJSON {
	var cj CatalogJSON
	for _, r := range recipes {
		rj := RecipeJSON{ProductName: string(r.Product)}
		for _, ri := range r.Ingredients {
			factor := ri.Factor.InexactFloat64()
			rj.Ingredients = append(rj.Ingredients, IngredientJSON{
				IngredientName:   string(ri.Ingredient),
				Quantity:         ri.Quantity.InexactFloat64(),
				Unit:             string(ri.Unit),
				ConversionFactor: &factor,
			})
		}
		cj.Recipes = append(cj.Recipes, rj)
	}
	return cj
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func (l *CatalogLoader) buildConversions(entries []ConversionJSON) (*ConversionTable, error) {
	table := NewConversionTable()
	for _, e := range entries {
		factor := decimal.NewFromFloat(e.Factor)
		err := table.Set(inventory.IngredientName(e.Ingredient), inventory.Unit(e.Unit), factor)
		if err != nil {
			return nil, fmt.Errorf("conversion for %q per %s: %w", e.Ingredient, e.Unit, err)
		}
	}
	return table, nil
}

func (l *CatalogLoader) buildLine(product string, ij IngredientJSON, conversions *ConversionTable) (RecipeIngredient, error) {
	name := inventory.IngredientName(ij.IngredientName)
	unit := inventory.Unit(ij.Unit)

	factor, err := l.resolveFactor(name, unit, ij.ConversionFactor, conversions)
	if err != nil {
		return RecipeIngredient{}, fmt.Errorf("recipe %q, ingredient %q: %w", product, ij.IngredientName, err)
	}

	return RecipeIngredient{
		Ingredient: name,
		Quantity:   decimal.NewFromFloat(ij.Quantity),
		Unit:       unit,
		Factor:     factor,
	}, nil
}

// resolveFactor picks the conversion factor for one line: explicit value
// first, then the file's table, then the built-in defaults.
func (l *CatalogLoader) resolveFactor(name inventory.IngredientName, unit inventory.Unit, explicit *float64, conversions *ConversionTable) (decimal.Decimal, error) {
	if explicit != nil {
		factor := decimal.NewFromFloat(*explicit)
		if !factor.IsPositive() {
			return decimal.Decimal{}, fmt.Errorf("conversion factor must be positive, got %s", factor)
		}
		return factor, nil
	}

	if factor, ok := conversions.Factor(name, unit); ok {
		return factor, nil
	}
	if factor, ok := l.defaults.Factor(name, unit); ok {
		return factor, nil
	}

	return decimal.Decimal{}, fmt.Errorf("no conversion factor for unit %q", unit)
}
