package customer

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStoreRoundtrip(t *testing.T) {
	store := NewMemoryStore()

	saved := &Customer{
		ID:           "id-1",
		Name:         "Happy",
		Email:        "happy@example.com",
		PasswordHash: "hash",
		Roles:        []string{"USER"},
		CreatedAt:    time.Now().UTC(),
	}
	if err := store.Save(context.Background(), saved); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	found, err := store.FindByEmail(context.Background(), "happy@example.com")
	if err != nil {
		t.Fatalf("FindByEmail returned error: %v", err)
	}
	if found == nil || found.ID != "id-1" || found.PasswordHash != "hash" {
		t.Fatalf("unexpected customer: %#v", found)
	}
}

func TestMemoryStoreFindUnknown(t *testing.T) {
	store := NewMemoryStore()

	found, err := store.FindByEmail(context.Background(), "missing@example.com")
	if err != nil {
		t.Fatalf("FindByEmail returned error: %v", err)
	}
	if found != nil {
		t.Fatalf("expected nil for unknown email, got %#v", found)
	}
}

func TestMemoryStoreEmailNormalization(t *testing.T) {
	store := NewMemoryStore()

	if err := store.Save(context.Background(), &Customer{ID: "id-1", Email: "Happy@Example.com"}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	found, err := store.FindByEmail(context.Background(), " happy@example.com ")
	if err != nil {
		t.Fatalf("FindByEmail returned error: %v", err)
	}
	if found == nil {
		t.Fatal("expected lookup to ignore case and whitespace")
	}
}

func TestMemoryStoreRejectsEmptyEmail(t *testing.T) {
	store := NewMemoryStore()

	if err := store.Save(context.Background(), &Customer{ID: "id-1"}); err == nil {
		t.Fatal("expected error for empty email")
	}
}
