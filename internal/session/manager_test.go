package session

import (
	"context"
	"testing"
	"time"

	"github.com/yourusername/easybank/internal/auth"
)

func TestEstablishResolve(t *testing.T) {
	manager := NewManager(NewMemoryStore(), 30*time.Minute)
	principal := &auth.Principal{Email: "user@example.com", Roles: []string{"USER"}}

	established, err := manager.Establish(context.Background(), principal)
	if err != nil {
		t.Fatalf("Establish returned error: %v", err)
	}
	if established.ID == "" || established.CSRFToken == "" {
		t.Fatalf("expected ID and CSRF token to be set: %#v", established)
	}
	if established.ID == established.CSRFToken {
		t.Fatal("session ID and CSRF token must be independent values")
	}

	resolved, err := manager.Resolve(context.Background(), established.ID)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if resolved == nil {
		t.Fatal("expected session to resolve")
	}
	if resolved.Principal == nil || resolved.Principal.Email != "user@example.com" {
		t.Fatalf("unexpected principal: %#v", resolved.Principal)
	}
	if resolved.CSRFToken != established.CSRFToken {
		t.Fatal("CSRF token changed across resolve")
	}
}

func TestEstablishGeneratesUniqueIDs(t *testing.T) {
	manager := NewManager(NewMemoryStore(), 30*time.Minute)

	first, err := manager.Establish(context.Background(), nil)
	if err != nil {
		t.Fatalf("Establish returned error: %v", err)
	}
	second, err := manager.Establish(context.Background(), nil)
	if err != nil {
		t.Fatalf("Establish returned error: %v", err)
	}
	if first.ID == second.ID {
		t.Fatal("expected unique session IDs")
	}
}

func TestResolveAfterInvalidate(t *testing.T) {
	manager := NewManager(NewMemoryStore(), 30*time.Minute)

	established, err := manager.Establish(context.Background(), nil)
	if err != nil {
		t.Fatalf("Establish returned error: %v", err)
	}
	if err := manager.Invalidate(context.Background(), established.ID); err != nil {
		t.Fatalf("Invalidate returned error: %v", err)
	}

	resolved, err := manager.Resolve(context.Background(), established.ID)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if resolved != nil {
		t.Fatalf("expected session to be gone, got %#v", resolved)
	}
}

func TestInvalidateIdempotent(t *testing.T) {
	manager := NewManager(NewMemoryStore(), 30*time.Minute)

	established, err := manager.Establish(context.Background(), nil)
	if err != nil {
		t.Fatalf("Establish returned error: %v", err)
	}

	if err := manager.Invalidate(context.Background(), established.ID); err != nil {
		t.Fatalf("first Invalidate returned error: %v", err)
	}
	if err := manager.Invalidate(context.Background(), established.ID); err != nil {
		t.Fatalf("second Invalidate returned error: %v", err)
	}

	resolved, err := manager.Resolve(context.Background(), established.ID)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if resolved != nil {
		t.Fatal("expected session to stay gone")
	}
}

func TestResolveExpired(t *testing.T) {
	store := NewMemoryStore()
	manager := NewManager(store, 30*time.Minute)

	expired := &Session{
		ID:        "expired-session",
		CSRFToken: "token",
		CreatedAt: time.Now().UTC().Add(-2 * time.Hour),
		ExpiresAt: time.Now().UTC().Add(-time.Hour),
	}
	if err := store.Save(context.Background(), expired); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	resolved, err := manager.Resolve(context.Background(), expired.ID)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if resolved != nil {
		t.Fatal("expected expired session not to resolve")
	}

	// 期限切れはストアからも消えている（復活しない）
	raw, err := store.Get(context.Background(), expired.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if raw != nil {
		t.Fatal("expected expired session to be deleted")
	}
}

func TestResolveDoesNotExtendExpiry(t *testing.T) {
	store := NewMemoryStore()
	manager := NewManager(store, 30*time.Minute)

	established, err := manager.Establish(context.Background(), nil)
	if err != nil {
		t.Fatalf("Establish returned error: %v", err)
	}

	if _, err := manager.Resolve(context.Background(), established.ID); err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	raw, err := store.Get(context.Background(), established.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if !raw.ExpiresAt.Equal(established.ExpiresAt) {
		t.Fatalf("expiry changed by read: %v -> %v", established.ExpiresAt, raw.ExpiresAt)
	}
}

func TestResolveEmptyID(t *testing.T) {
	manager := NewManager(NewMemoryStore(), 30*time.Minute)

	resolved, err := manager.Resolve(context.Background(), "")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if resolved != nil {
		t.Fatal("expected no session for empty ID")
	}
}
