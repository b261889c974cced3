package sqlite_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthside/bakery-engine/inventory"
	"github.com/hearthside/bakery-engine/store/sqlite"
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

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func seedFlour(t *testing.T, store *sqlite.Store, quantity string) {
	t.Helper()

	require.NoError(t, store.Put(context.Background(), inventory.InventoryItem{
		Name:      "All-purpose flour",
		Quantity:  dec(quantity),
		Unit:      inventory.UnitKilogram,
		Threshold: dec("0.25"),
	}))
}

// =============================================================================
// ITEMS
// =============================================================================

func TestSQLite_PutGet_PreservesDecimals(t *testing.T) {
	// Quantities are stored as decimal strings, never floats, so values
	// like 0.1875 survive a roundtrip exactly.
	store := newTestStore(t)
	ctx := context.Background()
	seedFlour(t, store, "0.1875")

	item, err := store.Get(ctx, "All-purpose flour")
	require.NoError(t, err)

	assert.Equal(t, inventory.IngredientName("All-purpose flour"), item.Name)
	assert.Equal(t, "0.1875", item.Quantity.String())
	assert.Equal(t, inventory.UnitKilogram, item.Unit)
	assert.Equal(t, "0.25", item.Threshold.String())
	assert.False(t, item.UpdatedAt.IsZero())
}

func TestSQLite_Get_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), "Saffron")
	assert.ErrorIs(t, err, inventory.ErrItemNotFound)
}

func TestSQLite_Put_RejectsDuplicate(t *testing.T) {
	store := newTestStore(t)
	seedFlour(t, store, "1")

	err := store.Put(context.Background(), inventory.InventoryItem{
		Name: "All-purpose flour", Quantity: dec("2"), Unit: inventory.UnitKilogram, Threshold: dec("1"),
	})
	assert.ErrorIs(t, err, inventory.ErrItemExists)
}

func TestSQLite_List_OrderedByName(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	for _, name := range []inventory.IngredientName{"Eggs", "All-purpose flour", "Whole milk"} {
		require.NoError(t, store.Put(ctx, inventory.InventoryItem{
			Name: name, Quantity: dec("1"), Unit: inventory.UnitCount, Threshold: dec("0"),
		}))
	}

	items, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, inventory.IngredientName("All-purpose flour"), items[0].Name)
	assert.Equal(t, inventory.IngredientName("Eggs"), items[1].Name)
	assert.Equal(t, inventory.IngredientName("Whole milk"), items[2].Name)
}

// =============================================================================
// DELTAS AND HISTORY
// =============================================================================

func TestSQLite_ApplyDelta_PersistsItemAndOneHistoryRow(t *testing.T) {
	// GIVEN: 1 kg of flour
	// WHEN: applying a -0.1875 delta
	// THEN: the row reads back at 0.8125 and exactly one history row exists

	store := newTestStore(t)
	ctx := context.Background()
	seedFlour(t, store, "1")

	item, entry, err := store.ApplyDelta(ctx, "All-purpose flour", dec("-0.1875"), "Order completion - 3x Chocolate Cake (Order: ord-1)", "baker")
	require.NoError(t, err)

	assert.Equal(t, "0.8125", item.Quantity.String())
	assert.Equal(t, inventory.ActionDeduct, entry.Action)
	assert.NotEmpty(t, entry.ID)

	reread, err := store.Get(ctx, "All-purpose flour")
	require.NoError(t, err)
	assert.Equal(t, "0.8125", reread.Quantity.String())

	entries, err := store.History(ctx, "All-purpose flour")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entry.ID, entries[0].ID)
	assert.Equal(t, "1", entries[0].PreviousQuantity.String())
	assert.Equal(t, "0.8125", entries[0].NewQuantity.String())
	assert.Equal(t, "-0.1875", entries[0].ChangeAmount.String())
	assert.Equal(t, "Order completion - 3x Chocolate Cake (Order: ord-1)", entries[0].Note)
	assert.Equal(t, "baker", entries[0].PerformedBy)
}

func TestSQLite_ApplyDelta_RejectionLeavesRowUntouched(t *testing.T) {
	// The negative check, the update and the history insert share one
	// transaction; a rejection must leave both tables exactly as before.
	store := newTestStore(t)
	ctx := context.Background()
	seedFlour(t, store, "0.1")

	_, _, err := store.ApplyDelta(ctx, "All-purpose flour", dec("-0.1875"), "overdraw", "")
	require.Error(t, err)

	var insufficient *inventory.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "0.1875", insufficient.Required.String())
	assert.Equal(t, "0.1", insufficient.Available.String())

	item, err := store.Get(ctx, "All-purpose flour")
	require.NoError(t, err)
	assert.Equal(t, "0.1", item.Quantity.String())

	entries, err := store.History(ctx, "All-purpose flour")
	require.NoError(t, err)
	assert.Empty(t, entries, "rejected deltas must not leave audit rows")
}

func TestSQLite_ApplyDelta_ExactlyToZero(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedFlour(t, store, "0.5")

	item, _, err := store.ApplyDelta(ctx, "All-purpose flour", dec("-0.5"), "", "")
	require.NoError(t, err)
	assert.True(t, item.Quantity.IsZero())
}

func TestSQLite_ApplyDelta_UnknownItem(t *testing.T) {
	store := newTestStore(t)

	_, _, err := store.ApplyDelta(context.Background(), "Saffron", dec("-1"), "", "")
	assert.ErrorIs(t, err, inventory.ErrItemNotFound)
}

func TestSQLite_History_Chronological(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedFlour(t, store, "1")

	for _, delta := range []string{"-0.2", "0.5", "-0.1"} {
		_, _, err := store.ApplyDelta(ctx, "All-purpose flour", dec(delta), "", "")
		require.NoError(t, err)
	}

	entries, err := store.History(ctx, "All-purpose flour")
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Oldest first, and each entry chains off the previous quantity.
	assert.Equal(t, "-0.2", entries[0].ChangeAmount.String())
	assert.Equal(t, "0.5", entries[1].ChangeAmount.String())
	assert.Equal(t, "-0.1", entries[2].ChangeAmount.String())
	for i := 1; i < len(entries); i++ {
		assert.True(t, entries[i].PreviousQuantity.Equal(entries[i-1].NewQuantity))
		assert.False(t, entries[i].At.Before(entries[i-1].At))
	}
}

func TestSQLite_History_UnknownItem(t *testing.T) {
	store := newTestStore(t)

	_, err := store.History(context.Background(), "Saffron")
	assert.ErrorIs(t, err, inventory.ErrItemNotFound)
}

// =============================================================================
// RESET
// =============================================================================

func TestSQLite_Reset_ClearsItemsAndHistory(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedFlour(t, store, "1")
	_, _, err := store.ApplyDelta(ctx, "All-purpose flour", dec("-0.5"), "", "")
	require.NoError(t, err)

	require.NoError(t, store.Reset(ctx))

	items, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = store.Get(ctx, "All-purpose flour")
	assert.ErrorIs(t, err, inventory.ErrItemNotFound)
}
