package store

import (
	"errors"
	"testing"
)

// seedDemand creates a station, an item, and a demand row linking them.
func seedDemand(t *testing.T, st *Store, tenant string, stationID, itemID int64, level float64) {
	t.Helper()
	if _, err := st.UpsertStation(tenant, stationID, "Outpost"); err != nil {
		t.Fatalf("UpsertStation: %v", err)
	}
	if _, err := st.UpsertItem(tenant, itemID, "Carbon", 50); err != nil {
		t.Fatalf("UpsertItem: %v", err)
	}
	if _, err := st.UpsertDemand(tenant, stationID, itemID, level); err != nil {
		t.Fatalf("UpsertDemand: %v", err)
	}
}

func TestUpsertDemand_Idempotent(t *testing.T) {
	st := openTestStore(t)
	seedDemand(t, st, "u1", 1, 1, 3)

	d, err := st.UpsertDemand("u1", 1, 1, 5)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if d.DemandLevel != 5 {
		t.Errorf("DemandLevel: got %v, want 5", d.DemandLevel)
	}

	demands, err := st.ListDemands("u1")
	if err != nil {
		t.Fatalf("ListDemands: %v", err)
	}
	if len(demands) != 1 {
		t.Errorf("row count after double upsert: got %d, want 1", len(demands))
	}
}

func TestUpsertDemand_MissingReferences(t *testing.T) {
	st := openTestStore(t)

	_, err := st.UpsertDemand("u1", 1, 1, 3)
	if err == nil {
		t.Fatal("expected foreign-key error for missing station and item")
	}
	if !IsReferentialViolation(err) {
		t.Errorf("IsReferentialViolation: got false for %v", err)
	}
}

func TestUpsertDemand_CrossTenantReferences(t *testing.T) {
	st := openTestStore(t)

	// Station and item exist only under u1; u2 must not be able to
	// reference them.
	if _, err := st.UpsertStation("u1", 1, "Outpost"); err != nil {
		t.Fatalf("UpsertStation: %v", err)
	}
	if _, err := st.UpsertItem("u1", 1, "Carbon", 50); err != nil {
		t.Fatalf("UpsertItem: %v", err)
	}

	_, err := st.UpsertDemand("u2", 1, 1, 3)
	if !IsReferentialViolation(err) {
		t.Errorf("cross-tenant reference: got %v, want referential violation", err)
	}
}

func TestDeleteStation_CascadesDemands(t *testing.T) {
	st := openTestStore(t)
	seedDemand(t, st, "u1", 1, 1, 3)

	// A second station with its own demand row must survive.
	if _, err := st.UpsertStation("u1", 2, "Depot"); err != nil {
		t.Fatalf("UpsertStation: %v", err)
	}
	if _, err := st.UpsertDemand("u1", 2, 1, 7); err != nil {
		t.Fatalf("UpsertDemand: %v", err)
	}

	if err := st.DeleteStation("u1", 1); err != nil {
		t.Fatalf("DeleteStation: %v", err)
	}

	demands, err := st.ListDemands("u1")
	if err != nil {
		t.Fatalf("ListDemands: %v", err)
	}
	if len(demands) != 1 {
		t.Fatalf("after cascade: got %d demands, want 1", len(demands))
	}
	if demands[0].StationID != 2 {
		t.Errorf("surviving demand StationID: got %d, want 2", demands[0].StationID)
	}
}

func TestDeleteItem_CascadesDemands(t *testing.T) {
	st := openTestStore(t)
	seedDemand(t, st, "u1", 1, 1, 3)

	if err := st.DeleteItem("u1", 1); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}

	demands, err := st.ListDemands("u1")
	if err != nil {
		t.Fatalf("ListDemands: %v", err)
	}
	if len(demands) != 0 {
		t.Errorf("after cascade: got %d demands, want 0", len(demands))
	}
}

func TestCascade_TenantScoped(t *testing.T) {
	st := openTestStore(t)
	seedDemand(t, st, "u1", 1, 1, 3)
	seedDemand(t, st, "u2", 1, 1, 9)

	if err := st.DeleteStation("u1", 1); err != nil {
		t.Fatalf("DeleteStation u1: %v", err)
	}

	demands, err := st.ListDemands("u2")
	if err != nil {
		t.Fatalf("ListDemands u2: %v", err)
	}
	if len(demands) != 1 {
		t.Errorf("u2 demands after u1 cascade: got %d, want 1", len(demands))
	}
}

func TestUpdateDemand(t *testing.T) {
	st := openTestStore(t)
	seedDemand(t, st, "u1", 1, 1, 3)

	d, err := st.UpdateDemand("u1", 1, 1, 8)
	if err != nil {
		t.Fatalf("UpdateDemand: %v", err)
	}
	if d.DemandLevel != 8 {
		t.Errorf("DemandLevel: got %v, want 8", d.DemandLevel)
	}
}

func TestUpdateDemand_NotFound(t *testing.T) {
	st := openTestStore(t)

	_, err := st.UpdateDemand("u1", 1, 1, 8)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("missing row: got %v, want ErrNotFound", err)
	}
}

func TestDeleteDemand_Missing(t *testing.T) {
	st := openTestStore(t)

	if err := st.DeleteDemand("u1", 1, 1); err != nil {
		t.Errorf("deleting a missing demand should succeed: %v", err)
	}
}

func TestGetDemand_NotFound(t *testing.T) {
	st := openTestStore(t)

	_, err := st.GetDemand("u1", 1, 1)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetDemand: got %v, want ErrNotFound", err)
	}
}
