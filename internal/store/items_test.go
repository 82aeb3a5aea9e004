package store

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestUpsertItem_AssignsID(t *testing.T) {
	st := openTestStore(t)

	it, err := st.UpsertItem("u1", 0, "Carbon", 50)
	if err != nil {
		t.Fatalf("UpsertItem: %v", err)
	}
	if it.ID != 1 {
		t.Errorf("first assigned id: got %d, want 1", it.ID)
	}
	if it.Name != "Carbon" || it.Value != 50 {
		t.Errorf("persisted state: got %q/%v, want Carbon/50", it.Name, it.Value)
	}

	it2, err := st.UpsertItem("u1", 0, "Ferrite", 14)
	if err != nil {
		t.Fatalf("UpsertItem: %v", err)
	}
	if it2.ID != 2 {
		t.Errorf("second assigned id: got %d, want 2", it2.ID)
	}
}

func TestUpsertItem_ConcurrentCreates(t *testing.T) {
	st := openTestStore(t)

	// Store-assigned creates must each get a distinct id; a lost create
	// here would mean two callers read the same MAX(id).
	const n = 16
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := st.UpsertItem("u1", 0, fmt.Sprintf("item-%d", i), float64(i)); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent UpsertItem: %v", err)
	}

	items, err := st.ListItems("u1")
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != n {
		t.Fatalf("rows after %d concurrent creates: got %d", n, len(items))
	}
	seen := make(map[int64]bool, n)
	for _, it := range items {
		if seen[it.ID] {
			t.Errorf("duplicate id %d", it.ID)
		}
		seen[it.ID] = true
		if it.ID < 1 || it.ID > n {
			t.Errorf("id out of range: %d", it.ID)
		}
	}
}

func TestUpsertItem_IDsScopedPerTenant(t *testing.T) {
	st := openTestStore(t)

	a, err := st.UpsertItem("u1", 0, "Carbon", 50)
	if err != nil {
		t.Fatalf("UpsertItem u1: %v", err)
	}
	b, err := st.UpsertItem("u2", 0, "Carbon", 50)
	if err != nil {
		t.Fatalf("UpsertItem u2: %v", err)
	}
	if a.ID != 1 || b.ID != 1 {
		t.Errorf("tenant-scoped ids: got %d and %d, want 1 and 1", a.ID, b.ID)
	}
}

func TestUpsertItem_Idempotent(t *testing.T) {
	st := openTestStore(t)

	if _, err := st.UpsertItem("u1", 7, "Carbon", 50); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	it, err := st.UpsertItem("u1", 7, "Carbon", 62)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if it.Value != 62 {
		t.Errorf("second call's value should win: got %v, want 62", it.Value)
	}

	items, err := st.ListItems("u1")
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("row count after double upsert: got %d, want 1", len(items))
	}
}

func TestListItems_TenantIsolation(t *testing.T) {
	st := openTestStore(t)

	if _, err := st.UpsertItem("u1", 0, "Carbon", 50); err != nil {
		t.Fatalf("UpsertItem: %v", err)
	}

	other, err := st.ListItems("u2")
	if err != nil {
		t.Fatalf("ListItems u2: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("u2 sees %d items from u1, want 0", len(other))
	}
}

func TestUpdateItem_Partial(t *testing.T) {
	st := openTestStore(t)

	if _, err := st.UpsertItem("u1", 3, "Carbon", 50); err != nil {
		t.Fatalf("UpsertItem: %v", err)
	}

	it, err := st.UpdateItem("u1", 3, ItemPatch{Value: floatPtr(5)})
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if it.Value != 5 {
		t.Errorf("Value: got %v, want 5", it.Value)
	}
	if it.Name != "Carbon" {
		t.Errorf("untouched Name changed: got %q, want Carbon", it.Name)
	}

	it, err = st.UpdateItem("u1", 3, ItemPatch{Name: strPtr("Condensed Carbon")})
	if err != nil {
		t.Fatalf("UpdateItem name: %v", err)
	}
	if it.Name != "Condensed Carbon" || it.Value != 5 {
		t.Errorf("got %q/%v, want Condensed Carbon/5", it.Name, it.Value)
	}
}

func TestUpdateItem_NoFields(t *testing.T) {
	st := openTestStore(t)

	if _, err := st.UpsertItem("u1", 3, "Carbon", 50); err != nil {
		t.Fatalf("UpsertItem: %v", err)
	}

	_, err := st.UpdateItem("u1", 3, ItemPatch{})
	if !errors.Is(err, ErrNoFields) {
		t.Errorf("empty patch: got %v, want ErrNoFields", err)
	}
}

func TestUpdateItem_NotFound(t *testing.T) {
	st := openTestStore(t)

	_, err := st.UpdateItem("u1", 99, ItemPatch{Value: floatPtr(5)})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("missing row: got %v, want ErrNotFound", err)
	}

	// An id that exists under a different tenant is still not found.
	if _, err := st.UpsertItem("u2", 99, "Carbon", 50); err != nil {
		t.Fatalf("UpsertItem u2: %v", err)
	}
	_, err = st.UpdateItem("u1", 99, ItemPatch{Value: floatPtr(5)})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("cross-tenant row: got %v, want ErrNotFound", err)
	}
}

func TestDeleteItem_Missing(t *testing.T) {
	st := openTestStore(t)

	if err := st.DeleteItem("u1", 42); err != nil {
		t.Errorf("deleting a missing item should succeed: %v", err)
	}
}

func TestGetItem_NotFound(t *testing.T) {
	st := openTestStore(t)

	_, err := st.GetItem("u1", 1)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetItem: got %v, want ErrNotFound", err)
	}
}
