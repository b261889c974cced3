/*
Package sqlite provides a SQLite-backed inventory.Store.

PURPOSE:
  Production persistence for inventory items and their audit history.
  The same patterns apply to PostgreSQL - only minor SQL dialect
  differences.

APPEND-ONLY ENFORCEMENT:
  The inventory_history table is write-once:
  - No UPDATE statements on inventory_history
  - No DELETE statements on inventory_history
  Corrections are new restock entries.

KEY TABLES:
  inventory_items:   current quantity per ingredient (base units)
  inventory_history: immutable log of every quantity change

CONCURRENCY:
  ApplyDelta takes the store's write mutex and runs the read-check-write
  plus history insert inside one SQL transaction. Two concurrent
  deductions against the same ingredient serialize; the loser of a race
  for the last stock gets InsufficientStockError, never a negative row.

WAL MODE:
  SQLite is opened with WAL so readers don't block behind the writer.

USAGE:
  store, err := sqlite.New("./data/bakery.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  ledger := inventory.NewLedger(store)

SEE ALSO:
  - inventory/store.go: interface and atomicity contract
  - store/memory: in-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/hearthside/bakery-engine/inventory"
)

// Store implements inventory.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a SQLite store at dbPath. Use ":memory:" for tests.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Single connection: SQLite allows one writer anyway, and ":memory:"
	// databases exist per connection.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS inventory_items (
		name TEXT PRIMARY KEY,
		quantity TEXT NOT NULL,
		unit TEXT NOT NULL,
		threshold TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Append-only audit trail. Never updated, never deleted.
	CREATE TABLE IF NOT EXISTS inventory_history (
		id TEXT PRIMARY KEY,
		item_name TEXT NOT NULL REFERENCES inventory_items(name),
		action TEXT NOT NULL,
		previous_quantity TEXT NOT NULL,
		new_quantity TEXT NOT NULL,
		change_amount TEXT NOT NULL,
		note TEXT,
		performed_by TEXT,
		created_at TEXT NOT NULL
	);

	-- Hot path: per-ingredient history in chronological order.
	CREATE INDEX IF NOT EXISTS idx_history_item_created
		ON inventory_history(item_name, created_at);
	CREATE INDEX IF NOT EXISTS idx_history_action
		ON inventory_history(action);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// INVENTORY STORE (inventory.Store interface)
// =============================================================================

// Get returns one item's current state.
func (s *Store) Get(ctx context.Context, name inventory.IngredientName) (inventory.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.getItem(ctx, s.db, name)
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) getItem(ctx context.Context, db queryer, name inventory.IngredientName) (inventory.InventoryItem, error) {
	var (
		item      inventory.InventoryItem
		quantity  string
		threshold string
		updatedAt string
	)

	err := db.QueryRowContext(ctx,
		"SELECT name, quantity, unit, threshold, updated_at FROM inventory_items WHERE name = ?",
		string(name),
	).Scan(&item.Name, &quantity, &item.Unit, &threshold, &updatedAt)

	if err == sql.ErrNoRows {
		return inventory.InventoryItem{}, inventory.ErrItemNotFound
	}
	if err != nil {
		return inventory.InventoryItem{}, fmt.Errorf("failed to get item: %w", err)
	}

	item.Quantity = mustDecimal(quantity)
	item.Threshold = mustDecimal(threshold)
	item.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return item, nil
}

// List returns all items ordered by name.
func (s *Store) List(ctx context.Context) ([]inventory.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT name, quantity, unit, threshold, updated_at FROM inventory_items ORDER BY name",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []inventory.InventoryItem
	for rows.Next() {
		var (
			item      inventory.InventoryItem
			quantity  string
			threshold string
			updatedAt string
		)
		if err := rows.Scan(&item.Name, &quantity, &item.Unit, &threshold, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		item.Quantity = mustDecimal(quantity)
		item.Threshold = mustDecimal(threshold)
		item.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
		items = append(items, item)
	}
	return items, rows.Err()
}

// Put creates an item. Provisioning only; no history entry is written.
func (s *Store) Put(ctx context.Context, item inventory.InventoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	updatedAt := item.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO inventory_items (name, quantity, unit, threshold, updated_at) VALUES (?, ?, ?, ?, ?)",
		string(item.Name),
		item.Quantity.String(),
		string(item.Unit),
		item.Threshold.String(),
		updatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return inventory.ErrItemExists
		}
		return fmt.Errorf("failed to create item: %w", err)
	}
	return nil
}

// ApplyDelta adjusts an item and appends one history row in a single SQL
// transaction under the write mutex.
func (s *Store) ApplyDelta(ctx context.Context, name inventory.IngredientName, delta decimal.Decimal, note, performedBy string) (inventory.InventoryItem, inventory.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return inventory.InventoryItem{}, inventory.HistoryEntry{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	item, err := s.getItem(ctx, sqlTx, name)
	if err != nil {
		return inventory.InventoryItem{}, inventory.HistoryEntry{}, err
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
		At:               time.Now().UTC(),
	}

	_, err = sqlTx.ExecContext(ctx,
		"UPDATE inventory_items SET quantity = ?, updated_at = ? WHERE name = ?",
		next.String(),
		entry.At.Format(time.RFC3339Nano),
		string(name),
	)
	if err != nil {
		return inventory.InventoryItem{}, inventory.HistoryEntry{}, fmt.Errorf("failed to update item: %w", err)
	}

	_, err = sqlTx.ExecContext(ctx,
		`INSERT INTO inventory_history
		 (id, item_name, action, previous_quantity, new_quantity, change_amount, note, performed_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		string(name),
		string(entry.Action),
		entry.PreviousQuantity.String(),
		entry.NewQuantity.String(),
		entry.ChangeAmount.String(),
		entry.Note,
		nullString(entry.PerformedBy),
		entry.At.Format(time.RFC3339Nano),
	)
	if err != nil {
		return inventory.InventoryItem{}, inventory.HistoryEntry{}, fmt.Errorf("failed to append history: %w", err)
	}

	if err := sqlTx.Commit(); err != nil {
		return inventory.InventoryItem{}, inventory.HistoryEntry{}, fmt.Errorf("failed to commit: %w", err)
	}

	item.Quantity = next
	item.UpdatedAt = entry.At
	return item, entry, nil
}

// History returns an ingredient's entries in chronological order.
func (s *Store) History(ctx context.Context, name inventory.IngredientName) ([]inventory.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := s.getItem(ctx, s.db, name); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, item_name, action, previous_quantity, new_quantity, change_amount, note, performed_by, created_at
		 FROM inventory_history
		 WHERE item_name = ?
		 ORDER BY created_at ASC, id ASC`,
		string(name),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []inventory.HistoryEntry
	for rows.Next() {
		var (
			e           inventory.HistoryEntry
			previous    string
			next        string
			change      string
			note        sql.NullString
			performedBy sql.NullString
			createdAt   string
		)
		if err := rows.Scan(&e.ID, &e.Ingredient, &e.Action, &previous, &next, &change, &note, &performedBy, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		e.PreviousQuantity = mustDecimal(previous)
		e.NewQuantity = mustDecimal(next)
		e.ChangeAmount = mustDecimal(change)
		e.Note = note.String
		e.PerformedBy = performedBy.String
		e.At, _ = time.Parse(time.RFC3339Nano, createdAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"inventory_history", "inventory_items"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
