// Package memory provides an in-memory inventory.Store for tests and dev.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hearthside/bakery-engine/inventory"
)

// =============================================================================
// MEMORY STORE
// =============================================================================

// Memory holds items and history in maps behind a single RWMutex. The
// write lock makes ApplyDelta's read-modify-write atomic across all
// ingredients, which satisfies the per-ingredient serialization contract.
type Memory struct {
	mu      sync.RWMutex
	items   map[inventory.IngredientName]inventory.InventoryItem
	history map[inventory.IngredientName][]inventory.HistoryEntry

	// now is swappable so tests can pin timestamps.
	now func() time.Time
}

func New() *Memory {
	return &Memory{
		items:   make(map[inventory.IngredientName]inventory.InventoryItem),
		history: make(map[inventory.IngredientName][]inventory.HistoryEntry),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// SetClock replaces the timestamp source. Test use only.
func (m *Memory) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

func (m *Memory) Get(_ context.Context, name inventory.IngredientName) (inventory.InventoryItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	item, ok := m.items[name]
	if !ok {
		return inventory.InventoryItem{}, inventory.ErrItemNotFound
	}
	return item, nil
}

func (m *Memory) List(_ context.Context) ([]inventory.InventoryItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := make([]inventory.InventoryItem, 0, len(m.items))
	for _, item := range m.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func (m *Memory) Put(_ context.Context, item inventory.InventoryItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[item.Name]; ok {
		return inventory.ErrItemExists
	}
	if item.UpdatedAt.IsZero() {
		item.UpdatedAt = m.now()
	}
	m.items[item.Name] = item
	return nil
}

// ApplyDelta adjusts one item and appends one history entry under the
// write lock, so concurrent deductions cannot interleave and overdraw.
func (m *Memory) ApplyDelta(_ context.Context, name inventory.IngredientName, delta decimal.Decimal, note, performedBy string) (inventory.InventoryItem, inventory.HistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[name]
	if !ok {
		return inventory.InventoryItem{}, inventory.HistoryEntry{}, inventory.ErrItemNotFound
	}

	next := item.Quantity.Add(delta)
	if next.IsNegative() {
		return inventory.InventoryItem{}, inventory.HistoryEntry{}, &inventory.InsufficientStockError{
			Ingredient: name,
			Required:   delta.Neg(),
			Available:  item.Quantity,
			Unit:       item.Unit,
		}
	}

	action := inventory.ActionRestock
	if delta.IsNegative() {
		action = inventory.ActionDeduct
	}

	entry := inventory.HistoryEntry{
		ID:               uuid.NewString(),
		Ingredient:       name,
		Action:           action,
		PreviousQuantity: item.Quantity,
		NewQuantity:      next,
		ChangeAmount:     delta,
		Note:             note,
		PerformedBy:      performedBy,
		At:               m.now(),
	}

	item.Quantity = next
	item.UpdatedAt = entry.At
	m.items[name] = item
	m.history[name] = append(m.history[name], entry)

	return item, entry, nil
}

func (m *Memory) History(_ context.Context, name inventory.IngredientName) ([]inventory.HistoryEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.items[name]; !ok {
		return nil, inventory.ErrItemNotFound
	}
	entries := make([]inventory.HistoryEntry, len(m.history[name]))
	copy(entries, m.history[name])
	return entries, nil
}
