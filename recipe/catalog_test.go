package recipe_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthside/bakery-engine/inventory"
	"github.com/hearthside/bakery-engine/recipe"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func flourHalfCup() recipe.RecipeIngredient {
	return recipe.RecipeIngredient{
		Ingredient: "flour",
		Quantity:   dec("0.5"),
		Unit:       inventory.UnitCup,
		Factor:     dec("0.125"),
	}
}

// =============================================================================
// REQUIRED AMOUNT
// =============================================================================

func TestRequired_Formula(t *testing.T) {
	// GIVEN: 0.5 cup of flour per unit, 0.125 kg per cup
	// WHEN: 3 units are sold
	// THEN: required = 0.5 * 3 * 0.125 = 0.1875 kg

	ri := flourHalfCup()
	assert.Equal(t, "0.1875", ri.Required(3).String())
}

func TestRequired_LinearInQuantity(t *testing.T) {
	ri := flourHalfCup()

	for _, n := range []int{1, 2, 5, 40} {
		double := ri.Required(2 * n)
		single := ri.Required(n)
		assert.True(t, double.Equal(single.Mul(dec("2"))),
			"Required(2*%d)=%s should be twice Required(%d)=%s", n, double, n, single)
	}
}

// =============================================================================
// LOOKUP SEMANTICS
// =============================================================================

func TestStaticCatalog_Lookup_ExactMatch(t *testing.T) {
	catalog, err := recipe.NewStaticCatalog([]recipe.Recipe{
		{Product: "Chocolate Cake", Ingredients: []recipe.RecipeIngredient{flourHalfCup()}},
	})
	require.NoError(t, err)

	r, err := catalog.Lookup("Chocolate Cake")
	require.NoError(t, err)
	assert.Equal(t, recipe.ProductName("Chocolate Cake"), r.Product)
}

func TestStaticCatalog_Lookup_CaseSensitive(t *testing.T) {
	// Product matching is byte-for-byte. Inconsistent casing in upstream
	// data must surface as not-found, never as a silent fuzzy match.
	catalog, err := recipe.NewStaticCatalog([]recipe.Recipe{
		{Product: "Chocolate Cake", Ingredients: []recipe.RecipeIngredient{flourHalfCup()}},
	})
	require.NoError(t, err)

	_, err = catalog.Lookup("chocolate cake")
	assert.ErrorIs(t, err, recipe.ErrRecipeNotFound)
}

func TestStaticCatalog_Lookup_NotFound(t *testing.T) {
	catalog, err := recipe.NewStaticCatalog([]recipe.Recipe{
		{Product: "Baguette", Ingredients: []recipe.RecipeIngredient{flourHalfCup()}},
	})
	require.NoError(t, err)

	_, err = catalog.Lookup("Wedding Cake")
	assert.ErrorIs(t, err, recipe.ErrRecipeNotFound)
}

func TestStaticCatalog_List_Ordered(t *testing.T) {
	catalog, err := recipe.NewStaticCatalog([]recipe.Recipe{
		{Product: "Sourdough Loaf", Ingredients: []recipe.RecipeIngredient{flourHalfCup()}},
		{Product: "Baguette", Ingredients: []recipe.RecipeIngredient{flourHalfCup()}},
	})
	require.NoError(t, err)

	recipes := catalog.List()
	require.Len(t, recipes, 2)
	assert.Equal(t, recipe.ProductName("Baguette"), recipes[0].Product)
	assert.Equal(t, recipe.ProductName("Sourdough Loaf"), recipes[1].Product)
}

// =============================================================================
// VALIDATION
// =============================================================================

func TestStaticCatalog_RejectsDuplicateProduct(t *testing.T) {
	_, err := recipe.NewStaticCatalog([]recipe.Recipe{
		{Product: "Baguette", Ingredients: []recipe.RecipeIngredient{flourHalfCup()}},
		{Product: "Baguette", Ingredients: []recipe.RecipeIngredient{flourHalfCup()}},
	})
	assert.Error(t, err)
}

func TestStaticCatalog_RejectsNonPositiveFactor(t *testing.T) {
	bad := flourHalfCup()
	bad.Factor = decimal.Zero

	_, err := recipe.NewStaticCatalog([]recipe.Recipe{
		{Product: "Baguette", Ingredients: []recipe.RecipeIngredient{bad}},
	})
	assert.Error(t, err)
}

func TestStaticCatalog_RejectsEmptyRecipe(t *testing.T) {
	_, err := recipe.NewStaticCatalog([]recipe.Recipe{{Product: "Baguette"}})
	assert.Error(t, err)
}

// =============================================================================
// CONVERSION TABLE
// =============================================================================

func TestConversionTable_SetAndLookup(t *testing.T) {
	table := recipe.NewConversionTable()
	require.NoError(t, table.Set("flour", inventory.UnitCup, dec("0.125")))

	factor, ok := table.Factor("flour", inventory.UnitCup)
	require.True(t, ok)
	assert.Equal(t, "0.125", factor.String())

	_, ok = table.Factor("flour", inventory.UnitTablespoon)
	assert.False(t, ok, "unregistered unit should not resolve")
	_, ok = table.Factor("sugar", inventory.UnitCup)
	assert.False(t, ok, "unregistered ingredient should not resolve")
}

func TestConversionTable_RejectsNonPositiveFactor(t *testing.T) {
	table := recipe.NewConversionTable()
	assert.Error(t, table.Set("flour", inventory.UnitCup, decimal.Zero))
	assert.Error(t, table.Set("flour", inventory.UnitCup, dec("-1")))
}

// =============================================================================
// DEFAULTS
// =============================================================================

func TestDefaultCatalog_StockCoversEveryIngredient(t *testing.T) {
	// Every ingredient referenced by the default catalog must have a
	// seed stock entry under the exact same name, or seeded deployments
	// would hit not-stocked errors on their first order.
	stocked := make(map[inventory.IngredientName]bool)
	for _, item := range recipe.DefaultStock() {
		stocked[item.Name] = true
	}

	for _, r := range recipe.DefaultCatalog().List() {
		for _, ri := range r.Ingredients {
			assert.True(t, stocked[ri.Ingredient],
				"recipe %q references unstocked ingredient %q", r.Product, ri.Ingredient)
		}
	}
}
