package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthside/bakery-engine/inventory"
	"github.com/hearthside/bakery-engine/store/memory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newTestLedger(t *testing.T) *inventory.Ledger {
	t.Helper()
	ledger := inventory.NewLedger(memory.New())

	err := ledger.Seed(context.Background(), inventory.InventoryItem{
		Name:      "All-purpose flour",
		Quantity:  dec("1.0"),
		Unit:      inventory.UnitKilogram,
		Threshold: dec("0.25"),
	})
	require.NoError(t, err)
	return ledger
}

// =============================================================================
// NEVER-NEGATIVE INVARIANT
// =============================================================================

func TestLedger_Deduct_RejectsOverdraw(t *testing.T) {
	// GIVEN: 1.0 kg of flour in stock
	// WHEN: deducting 1.5 kg
	// THEN: the deduction is rejected with the exact shortfall and the
	//       item is left unchanged, with no history written

	ledger := newTestLedger(t)
	ctx := context.Background()

	_, err := ledger.Deduct(ctx, "All-purpose flour", dec("1.5"), "over-deduction", "tester")
	require.Error(t, err)

	var insufficient *inventory.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "1.5", insufficient.Required.String())
	assert.Equal(t, "1", insufficient.Available.String())
	assert.Equal(t, inventory.UnitKilogram, insufficient.Unit)

	item, err := ledger.Get(ctx, "All-purpose flour")
	require.NoError(t, err)
	assert.Equal(t, "1", item.Quantity.String(), "rejected deduction must not change quantity")

	entries, err := ledger.History(ctx, "All-purpose flour")
	require.NoError(t, err)
	assert.Empty(t, entries, "rejected deduction must not write history")
}

func TestLedger_Deduct_ExactlyToZero_Allowed(t *testing.T) {
	ledger := newTestLedger(t)
	ctx := context.Background()

	upd, err := ledger.Deduct(ctx, "All-purpose flour", dec("1.0"), "use it all", "tester")
	require.NoError(t, err)
	assert.True(t, upd.Item.Quantity.IsZero())
	assert.True(t, upd.LowStock, "zero quantity is at or below any non-negative threshold")
}

// =============================================================================
// HISTORY
// =============================================================================

func TestLedger_Deduct_AppendsExactlyOneEntry(t *testing.T) {
	ledger := newTestLedger(t)
	ctx := context.Background()

	upd, err := ledger.Deduct(ctx, "All-purpose flour", dec("0.1875"), "Order completion - 3x Chocolate Cake (Order: ord-1)", "baker-1")
	require.NoError(t, err)

	entries, err := ledger.History(ctx, "All-purpose flour")
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, inventory.ActionDeduct, e.Action)
	assert.True(t, e.ChangeAmount.Equal(dec("-0.1875")), "change amount must be the negated deduction")
	assert.True(t, e.PreviousQuantity.Sub(e.NewQuantity).Equal(dec("0.1875")),
		"previous - new must equal the deducted amount exactly")
	assert.Equal(t, "Order completion - 3x Chocolate Cake (Order: ord-1)", e.Note)
	assert.Equal(t, "baker-1", e.PerformedBy)
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, e.NewQuantity.String(), upd.Item.Quantity.String())
}

func TestLedger_Restock_AppendsPositiveEntry(t *testing.T) {
	ledger := newTestLedger(t)
	ctx := context.Background()

	upd, err := ledger.Restock(ctx, "All-purpose flour", dec("5"), "weekly delivery", "manager")
	require.NoError(t, err)
	assert.Equal(t, "6", upd.Item.Quantity.String())

	entries, err := ledger.History(ctx, "All-purpose flour")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, inventory.ActionRestock, entries[0].Action)
	assert.Equal(t, "5", entries[0].ChangeAmount.String())
}

// =============================================================================
// LOW STOCK SIGNALING
// =============================================================================

func TestLedger_Deduct_LowStockFlag(t *testing.T) {
	// Threshold is 0.25. Deducting to 0.8 is fine; deducting to 0.25
	// (exactly at threshold) must flag low stock.
	ledger := newTestLedger(t)
	ctx := context.Background()

	upd, err := ledger.Deduct(ctx, "All-purpose flour", dec("0.2"), "", "")
	require.NoError(t, err)
	assert.False(t, upd.LowStock)

	upd, err = ledger.Deduct(ctx, "All-purpose flour", dec("0.55"), "", "")
	require.NoError(t, err)
	assert.Equal(t, "0.25", upd.Item.Quantity.String())
	assert.True(t, upd.LowStock, "quantity at threshold counts as low stock")
}

// =============================================================================
// VALIDATION AND NOT-FOUND
// =============================================================================

func TestLedger_RejectsNonPositiveAmounts(t *testing.T) {
	ledger := newTestLedger(t)
	ctx := context.Background()

	_, err := ledger.Deduct(ctx, "All-purpose flour", decimal.Zero, "", "")
	assert.ErrorIs(t, err, inventory.ErrInvalidDelta)

	_, err = ledger.Deduct(ctx, "All-purpose flour", dec("-1"), "", "")
	assert.ErrorIs(t, err, inventory.ErrInvalidDelta)

	_, err = ledger.Restock(ctx, "All-purpose flour", dec("-1"), "", "")
	assert.ErrorIs(t, err, inventory.ErrInvalidDelta)
}

func TestLedger_UnknownIngredient(t *testing.T) {
	ledger := newTestLedger(t)
	ctx := context.Background()

	_, err := ledger.Deduct(ctx, "Saffron", dec("0.01"), "", "")
	assert.ErrorIs(t, err, inventory.ErrItemNotFound)

	_, err = ledger.Get(ctx, "Saffron")
	assert.True(t, inventory.IsNotFound(err))
}

func TestLedger_Seed_RejectsDuplicate(t *testing.T) {
	ledger := newTestLedger(t)

	err := ledger.Seed(context.Background(), inventory.InventoryItem{
		Name:     "All-purpose flour",
		Quantity: dec("9"),
		Unit:     inventory.UnitKilogram,
	})
	assert.ErrorIs(t, err, inventory.ErrItemExists)
}

// =============================================================================
// USAGE SUMMARY
// =============================================================================

func TestLedger_Usage_DerivedFromHistory(t *testing.T) {
	ledger := newTestLedger(t)
	ctx := context.Background()

	_, err := ledger.Deduct(ctx, "All-purpose flour", dec("0.25"), "", "")
	require.NoError(t, err)
	_, err = ledger.Deduct(ctx, "All-purpose flour", dec("0.1"), "", "")
	require.NoError(t, err)
	_, err = ledger.Restock(ctx, "All-purpose flour", dec("2"), "", "")
	require.NoError(t, err)

	summary, err := ledger.Usage(ctx, "All-purpose flour", time.Time{})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Deductions)
	assert.Equal(t, 1, summary.Restocks)
	assert.True(t, summary.TotalDeducted.Equal(dec("0.35")), "got %s", summary.TotalDeducted)
	assert.True(t, summary.TotalRestocked.Equal(dec("2")))
	assert.Equal(t, inventory.UnitKilogram, summary.Unit)
}

func TestLedger_Usage_WindowFiltersOldEntries(t *testing.T) {
	store := memory.New()
	ledger := inventory.NewLedger(store)
	ctx := context.Background()

	require.NoError(t, ledger.Seed(ctx, inventory.InventoryItem{
		Name: "Eggs", Quantity: dec("100"), Unit: inventory.UnitCount, Threshold: dec("10"),
	}))

	old := time.Date(2026, time.January, 5, 8, 0, 0, 0, time.UTC)
	recent := time.Date(2026, time.August, 20, 8, 0, 0, 0, time.UTC)

	store.SetClock(func() time.Time { return old })
	_, err := ledger.Deduct(ctx, "Eggs", dec("12"), "", "")
	require.NoError(t, err)

	store.SetClock(func() time.Time { return recent })
	_, err = ledger.Deduct(ctx, "Eggs", dec("6"), "", "")
	require.NoError(t, err)

	summary, err := ledger.Usage(ctx, "Eggs", time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Deductions)
	assert.True(t, summary.TotalDeducted.Equal(dec("6")))
}
