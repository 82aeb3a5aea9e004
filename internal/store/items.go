package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Item is a tradeable good. IDs are unique per tenant, not globally.
type Item struct {
	ID     int64   `json:"id"`
	Tenant string  `json:"-"`
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
}

// ItemPatch describes a partial update. Nil fields are left untouched.
type ItemPatch struct {
	Name  *string
	Value *float64
}

// ListItems returns all items for the tenant, ordered by id.
func (s *Store) ListItems(tenant string) ([]*Item, error) {
	rows, err := s.reader.Query(
		"SELECT id, tenant, name, value FROM items WHERE tenant = ? ORDER BY id", tenant)
	if err != nil {
		return nil, fmt.Errorf("store: list items: %w", err)
	}
	defer rows.Close()

	var results []*Item
	for rows.Next() {
		it := &Item{}
		if err := rows.Scan(&it.ID, &it.Tenant, &it.Name, &it.Value); err != nil {
			return nil, fmt.Errorf("store: scan item row: %w", err)
		}
		results = append(results, it)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list items iteration: %w", err)
	}
	return results, nil
}

// GetItem retrieves a single item by (id, tenant).
// Returns ErrNotFound if no such row exists.
func (s *Store) GetItem(tenant string, id int64) (*Item, error) {
	it := &Item{}
	err := s.reader.QueryRow(
		"SELECT id, tenant, name, value FROM items WHERE id = ? AND tenant = ?",
		id, tenant,
	).Scan(&it.ID, &it.Tenant, &it.Name, &it.Value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get item %d: %w", id, err)
	}
	return it, nil
}

// UpsertItem creates or replaces an item keyed by (id, tenant). If id is
// zero or negative the store assigns the next free id within the tenant.
// Issuing the same upsert twice yields one row with the second call's
// values. The returned item is re-read from storage so it reflects the
// persisted state rather than echoing the input.
func (s *Store) UpsertItem(tenant string, id int64, name string, value float64) (*Item, error) {
	if id <= 0 {
		// Assign and insert in one statement so concurrent creates for
		// the same tenant cannot read the same MAX(id) and collide.
		err := s.writer.QueryRow(`
			INSERT INTO items (id, tenant, name, value)
			SELECT COALESCE(MAX(id), 0) + 1, ?, ?, ? FROM items WHERE tenant = ?
			RETURNING id`,
			tenant, name, value, tenant,
		).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("store: create item: %w", err)
		}
		return s.GetItem(tenant, id)
	}

	_, err := s.writer.Exec(`
		INSERT INTO items (id, tenant, name, value) VALUES (?, ?, ?, ?)
		ON CONFLICT (id, tenant) DO UPDATE SET name = excluded.name, value = excluded.value`,
		id, tenant, name, value,
	)
	if err != nil {
		return nil, fmt.Errorf("store: upsert item: %w", err)
	}

	return s.GetItem(tenant, id)
}

// UpdateItem rewrites only the fields supplied in patch. Returns ErrNoFields
// if the patch is empty and ErrNotFound if no row matches (id, tenant).
func (s *Store) UpdateItem(tenant string, id int64, patch ItemPatch) (*Item, error) {
	var sets []string
	var args []interface{}
	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.Value != nil {
		sets = append(sets, "value = ?")
		args = append(args, *patch.Value)
	}
	if len(sets) == 0 {
		return nil, ErrNoFields
	}
	args = append(args, id, tenant)

	result, err := s.writer.Exec(
		"UPDATE items SET "+strings.Join(sets, ", ")+" WHERE id = ? AND tenant = ?",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("store: update item %d: %w", id, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("store: update item rows affected: %w", err)
	}
	if n == 0 {
		return nil, ErrNotFound
	}

	return s.GetItem(tenant, id)
}

// DeleteItem removes the item scoped to (id, tenant). Demand rows that
// reference the item within the same tenant are removed by the cascade.
// Deleting a missing row is a no-op success.
func (s *Store) DeleteItem(tenant string, id int64) error {
	_, err := s.writer.Exec(
		"DELETE FROM items WHERE id = ? AND tenant = ?", id, tenant)
	if err != nil {
		return fmt.Errorf("store: delete item %d: %w", id, err)
	}
	return nil
}
