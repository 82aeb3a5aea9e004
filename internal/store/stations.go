package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// Station is a trading location. IDs are unique per tenant.
type Station struct {
	ID     int64  `json:"id"`
	Tenant string `json:"-"`
	Name   string `json:"name"`
}

// StationPatch describes a partial update. A nil Name leaves it untouched.
type StationPatch struct {
	Name *string
}

// ListStations returns all stations for the tenant, ordered by id.
func (s *Store) ListStations(tenant string) ([]*Station, error) {
	rows, err := s.reader.Query(
		"SELECT id, tenant, name FROM stations WHERE tenant = ? ORDER BY id", tenant)
	if err != nil {
		return nil, fmt.Errorf("store: list stations: %w", err)
	}
	defer rows.Close()

	var results []*Station
	for rows.Next() {
		st := &Station{}
		if err := rows.Scan(&st.ID, &st.Tenant, &st.Name); err != nil {
			return nil, fmt.Errorf("store: scan station row: %w", err)
		}
		results = append(results, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list stations iteration: %w", err)
	}
	return results, nil
}

// GetStation retrieves a single station by (id, tenant).
// Returns ErrNotFound if no such row exists.
func (s *Store) GetStation(tenant string, id int64) (*Station, error) {
	st := &Station{}
	err := s.reader.QueryRow(
		"SELECT id, tenant, name FROM stations WHERE id = ? AND tenant = ?",
		id, tenant,
	).Scan(&st.ID, &st.Tenant, &st.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get station %d: %w", id, err)
	}
	return st, nil
}

// UpsertStation creates or replaces a station keyed by (id, tenant). If id
// is zero or negative the store assigns the next free id within the tenant.
// The returned station is re-read from storage.
func (s *Store) UpsertStation(tenant string, id int64, name string) (*Station, error) {
	if id <= 0 {
		// Assign and insert in one statement so concurrent creates for
		// the same tenant cannot read the same MAX(id) and collide.
		err := s.writer.QueryRow(`
			INSERT INTO stations (id, tenant, name)
			SELECT COALESCE(MAX(id), 0) + 1, ?, ? FROM stations WHERE tenant = ?
			RETURNING id`,
			tenant, name, tenant,
		).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("store: create station: %w", err)
		}
		return s.GetStation(tenant, id)
	}

	_, err := s.writer.Exec(`
		INSERT INTO stations (id, tenant, name) VALUES (?, ?, ?)
		ON CONFLICT (id, tenant) DO UPDATE SET name = excluded.name`,
		id, tenant, name,
	)
	if err != nil {
		return nil, fmt.Errorf("store: upsert station: %w", err)
	}

	return s.GetStation(tenant, id)
}

// UpdateStation rewrites only the fields supplied in patch. Returns
// ErrNoFields if the patch is empty and ErrNotFound if no row matches.
func (s *Store) UpdateStation(tenant string, id int64, patch StationPatch) (*Station, error) {
	if patch.Name == nil {
		return nil, ErrNoFields
	}

	result, err := s.writer.Exec(
		"UPDATE stations SET name = ? WHERE id = ? AND tenant = ?",
		*patch.Name, id, tenant,
	)
	if err != nil {
		return nil, fmt.Errorf("store: update station %d: %w", id, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("store: update station rows affected: %w", err)
	}
	if n == 0 {
		return nil, ErrNotFound
	}

	return s.GetStation(tenant, id)
}

// DeleteStation removes the station scoped to (id, tenant). Demand rows
// that reference the station within the same tenant are removed by the
// cascade. Deleting a missing row is a no-op success.
func (s *Store) DeleteStation(tenant string, id int64) error {
	_, err := s.writer.Exec(
		"DELETE FROM stations WHERE id = ? AND tenant = ?", id, tenant)
	if err != nil {
		return fmt.Errorf("store: delete station %d: %w", id, err)
	}
	return nil
}
