package store

import "fmt"

// Snapshot is the legacy bulk-migration payload: whole item and station
// collections, with per-station demand entries nested under each station.
type Snapshot struct {
	Items    []SnapshotItem    `json:"items"`
	Stations []SnapshotStation `json:"stations"`
}

// SnapshotItem is an item row in a bulk import. IDs are caller-supplied.
type SnapshotItem struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// SnapshotStation is a station row in a bulk import, with its demand entries.
type SnapshotStation struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Items []SnapshotEntry `json:"items"`
}

// SnapshotEntry is one station-item demand pair in a bulk import.
type SnapshotEntry struct {
	Item   SnapshotRef `json:"item"`
	Demand float64     `json:"demand"`
}

// SnapshotRef identifies an item by id.
type SnapshotRef struct {
	ID int64 `json:"id"`
}

// ImportSnapshot upserts every row of a snapshot into the tenant's
// partition: items first, then stations, then each station's demand
// entries, so the foreign keys resolve in order.
//
// The import is deliberately not transactional: each row is an
// independent upsert and the first failure aborts the remaining rows,
// leaving earlier rows in place. Re-running the full import converges
// because every write is an upsert.
func (s *Store) ImportSnapshot(tenant string, snap *Snapshot) error {
	for _, it := range snap.Items {
		if _, err := s.UpsertItem(tenant, it.ID, it.Name, it.Value); err != nil {
			return fmt.Errorf("store: import item %d: %w", it.ID, err)
		}
	}

	for _, st := range snap.Stations {
		if _, err := s.UpsertStation(tenant, st.ID, st.Name); err != nil {
			return fmt.Errorf("store: import station %d: %w", st.ID, err)
		}
		for _, entry := range st.Items {
			if _, err := s.UpsertDemand(tenant, st.ID, entry.Item.ID, entry.Demand); err != nil {
				return fmt.Errorf("store: import demand %d/%d: %w", st.ID, entry.Item.ID, err)
			}
		}
	}

	return nil
}
