package notice

import (
	"context"
	"testing"
	"time"
)

func TestListActiveFiltersByWindow(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore([]Notice{
		{ID: "past", Title: "past", BeginDate: now.AddDate(0, -2, 0), EndDate: now.AddDate(0, -1, 0)},
		{ID: "active", Title: "active", BeginDate: now.AddDate(0, 0, -1), EndDate: now.AddDate(0, 0, 1)},
		{ID: "future", Title: "future", BeginDate: now.AddDate(0, 1, 0), EndDate: now.AddDate(0, 2, 0)},
	})

	active, err := store.ListActive(context.Background(), now)
	if err != nil {
		t.Fatalf("ListActive returned error: %v", err)
	}
	if len(active) != 1 || active[0].ID != "active" {
		t.Fatalf("unexpected notices: %#v", active)
	}
}

func TestListActiveBoundaryInclusive(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore([]Notice{
		{ID: "starts-now", BeginDate: now, EndDate: now.AddDate(0, 0, 1)},
		{ID: "ends-now", BeginDate: now.AddDate(0, 0, -1), EndDate: now},
	})

	active, err := store.ListActive(context.Background(), now)
	if err != nil {
		t.Fatalf("ListActive returned error: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("expected boundary dates to be inclusive, got %#v", active)
	}
}

func TestAdd(t *testing.T) {
	now := time.Now().UTC()
	store := NewMemoryStore(nil)
	store.Add(Notice{ID: "n1", BeginDate: now.AddDate(0, 0, -1), EndDate: now.AddDate(0, 0, 1)})

	active, err := store.ListActive(context.Background(), now)
	if err != nil {
		t.Fatalf("ListActive returned error: %v", err)
	}
	if len(active) != 1 || active[0].ID != "n1" {
		t.Fatalf("unexpected notices: %#v", active)
	}
}
