package store

import "testing"

func testSnapshot() *Snapshot {
	return &Snapshot{
		Items: []SnapshotItem{
			{ID: 1, Name: "Carbon", Value: 50},
			{ID: 2, Name: "Ferrite", Value: 14},
		},
		Stations: []SnapshotStation{
			{
				ID:   1,
				Name: "Outpost Alpha",
				Items: []SnapshotEntry{
					{Item: SnapshotRef{ID: 1}, Demand: 3},
					{Item: SnapshotRef{ID: 2}, Demand: 1},
				},
			},
			{ID: 2, Name: "Depot Beta"},
		},
	}
}

func TestImportSnapshot(t *testing.T) {
	st := openTestStore(t)

	if err := st.ImportSnapshot("u1", testSnapshot()); err != nil {
		t.Fatalf("ImportSnapshot: %v", err)
	}

	items, err := st.ListItems("u1")
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("items: got %d, want 2", len(items))
	}

	stations, err := st.ListStations("u1")
	if err != nil {
		t.Fatalf("ListStations: %v", err)
	}
	if len(stations) != 2 {
		t.Errorf("stations: got %d, want 2", len(stations))
	}

	demands, err := st.ListDemands("u1")
	if err != nil {
		t.Fatalf("ListDemands: %v", err)
	}
	if len(demands) != 2 {
		t.Errorf("demands: got %d, want 2", len(demands))
	}
}

func TestImportSnapshot_RerunConverges(t *testing.T) {
	st := openTestStore(t)

	if err := st.ImportSnapshot("u1", testSnapshot()); err != nil {
		t.Fatalf("first import: %v", err)
	}
	if err := st.ImportSnapshot("u1", testSnapshot()); err != nil {
		t.Fatalf("second import: %v", err)
	}

	items, err := st.ListItems("u1")
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("items after re-import: got %d, want 2", len(items))
	}
}

func TestImportSnapshot_PartialFailure(t *testing.T) {
	st := openTestStore(t)

	snap := testSnapshot()
	// A demand entry referencing a missing item aborts the import
	// mid-loop; earlier rows stay in place.
	snap.Stations[0].Items = append(snap.Stations[0].Items,
		SnapshotEntry{Item: SnapshotRef{ID: 99}, Demand: 4})

	err := st.ImportSnapshot("u1", snap)
	if err == nil {
		t.Fatal("expected import to fail on missing item reference")
	}
	if !IsReferentialViolation(err) {
		t.Errorf("IsReferentialViolation: got false for %v", err)
	}

	items, listErr := st.ListItems("u1")
	if listErr != nil {
		t.Fatalf("ListItems: %v", listErr)
	}
	if len(items) != 2 {
		t.Errorf("items imported before the failure: got %d, want 2", len(items))
	}

	// The second station never got its turn.
	stations, listErr := st.ListStations("u1")
	if listErr != nil {
		t.Fatalf("ListStations: %v", listErr)
	}
	if len(stations) != 1 {
		t.Errorf("stations imported before the failure: got %d, want 1", len(stations))
	}
}
