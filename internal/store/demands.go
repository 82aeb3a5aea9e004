package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// Demand is the station-item relation: how strongly a station wants an
// item. A demand row cannot outlive the station or item it references
// within the same tenant; the schema cascades both deletions.
type Demand struct {
	StationID   int64   `json:"stationId"`
	ItemID      int64   `json:"itemId"`
	Tenant      string  `json:"-"`
	DemandLevel float64 `json:"demandLevel"`
}

// ListDemands returns all demand rows for the tenant, ordered by station then item.
func (s *Store) ListDemands(tenant string) ([]*Demand, error) {
	rows, err := s.reader.Query(
		"SELECT station_id, item_id, tenant, demand_level FROM demands WHERE tenant = ? ORDER BY station_id, item_id", tenant)
	if err != nil {
		return nil, fmt.Errorf("store: list demands: %w", err)
	}
	defer rows.Close()

	var results []*Demand
	for rows.Next() {
		d := &Demand{}
		if err := rows.Scan(&d.StationID, &d.ItemID, &d.Tenant, &d.DemandLevel); err != nil {
			return nil, fmt.Errorf("store: scan demand row: %w", err)
		}
		results = append(results, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list demands iteration: %w", err)
	}
	return results, nil
}

// GetDemand retrieves a single demand row by (stationID, itemID, tenant).
// Returns ErrNotFound if no such row exists.
func (s *Store) GetDemand(tenant string, stationID, itemID int64) (*Demand, error) {
	d := &Demand{}
	err := s.reader.QueryRow(`
		SELECT station_id, item_id, tenant, demand_level
		FROM demands WHERE station_id = ? AND item_id = ? AND tenant = ?`,
		stationID, itemID, tenant,
	).Scan(&d.StationID, &d.ItemID, &d.Tenant, &d.DemandLevel)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get demand %d/%d: %w", stationID, itemID, err)
	}
	return d, nil
}

// UpsertDemand creates or replaces a demand row keyed by
// (stationID, itemID, tenant). Referencing a station or item that does
// not exist for the tenant fails with the engine's foreign-key error;
// use IsReferentialViolation to classify it. The returned demand is
// re-read from storage.
func (s *Store) UpsertDemand(tenant string, stationID, itemID int64, demandLevel float64) (*Demand, error) {
	_, err := s.writer.Exec(`
		INSERT INTO demands (station_id, item_id, tenant, demand_level) VALUES (?, ?, ?, ?)
		ON CONFLICT (station_id, item_id, tenant) DO UPDATE SET demand_level = excluded.demand_level`,
		stationID, itemID, tenant, demandLevel,
	)
	if err != nil {
		return nil, fmt.Errorf("store: upsert demand %d/%d: %w", stationID, itemID, err)
	}

	return s.GetDemand(tenant, stationID, itemID)
}

// UpdateDemand rewrites the demand level of an existing row. Unlike the
// item and station updates there is only one mutable field, so the keys
// are mandatory and there is no patch shape. Returns ErrNotFound if no
// row matches.
func (s *Store) UpdateDemand(tenant string, stationID, itemID int64, demandLevel float64) (*Demand, error) {
	result, err := s.writer.Exec(
		"UPDATE demands SET demand_level = ? WHERE station_id = ? AND item_id = ? AND tenant = ?",
		demandLevel, stationID, itemID, tenant,
	)
	if err != nil {
		return nil, fmt.Errorf("store: update demand %d/%d: %w", stationID, itemID, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("store: update demand rows affected: %w", err)
	}
	if n == 0 {
		return nil, ErrNotFound
	}

	return s.GetDemand(tenant, stationID, itemID)
}

// DeleteDemand removes the demand row scoped to (stationID, itemID, tenant).
// Deleting a missing pair is a no-op success.
func (s *Store) DeleteDemand(tenant string, stationID, itemID int64) error {
	_, err := s.writer.Exec(
		"DELETE FROM demands WHERE station_id = ? AND item_id = ? AND tenant = ?",
		stationID, itemID, tenant,
	)
	if err != nil {
		return fmt.Errorf("store: delete demand %d/%d: %w", stationID, itemID, err)
	}
	return nil
}
