package auth

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

type stubCredentialStore struct {
	creds map[string]*Credential
	err   error
}

func (s *stubCredentialStore) FindByEmail(ctx context.Context, email string) (*Credential, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.creds[email], nil
}

func newTestVerifier(t *testing.T, store CredentialStore) *Verifier {
	t.Helper()
	return NewVerifier(store, NewHasher(bcrypt.MinCost), log.New(io.Discard, "", 0))
}

func storedCredential(t *testing.T, email, password string, roles []string) *Credential {
	t.Helper()
	hashed, err := NewHasher(bcrypt.MinCost).Hash(password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return &Credential{
		Email:        email,
		PasswordHash: hashed,
		Roles:        roles,
	}
}

func TestAuthenticateUniformFailure(t *testing.T) {
	store := &stubCredentialStore{
		creds: map[string]*Credential{
			"known@example.com": storedCredential(t, "known@example.com", "correct-password", []string{"USER"}),
		},
	}
	verifier := newTestVerifier(t, store)

	// 未知の利用者とパスワード不一致は同じエラー種別でなければならない
	_, unknownErr := verifier.Authenticate(context.Background(), "unknown@example.com", "whatever")
	if !errors.Is(unknownErr, ErrInvalidCredentials) {
		t.Fatalf("unexpected error for unknown user: %v", unknownErr)
	}

	_, mismatchErr := verifier.Authenticate(context.Background(), "known@example.com", "wrong-password")
	if !errors.Is(mismatchErr, ErrInvalidCredentials) {
		t.Fatalf("unexpected error for wrong password: %v", mismatchErr)
	}

	if unknownErr.Error() != mismatchErr.Error() {
		t.Fatalf("error messages differ: %q vs %q", unknownErr, mismatchErr)
	}
}

func TestAuthenticateSuccess(t *testing.T) {
	store := &stubCredentialStore{
		creds: map[string]*Credential{
			"user@example.com": storedCredential(t, "user@example.com", "correct-password", []string{"USER", "ADMIN"}),
		},
	}
	verifier := newTestVerifier(t, store)

	principal, err := verifier.Authenticate(context.Background(), "user@example.com", "correct-password")
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if principal.Email != "user@example.com" {
		t.Fatalf("unexpected email: %q", principal.Email)
	}
	if len(principal.Roles) != 2 || principal.Roles[0] != "USER" || principal.Roles[1] != "ADMIN" {
		t.Fatalf("unexpected roles: %#v", principal.Roles)
	}
}

func TestAuthenticateStoreError(t *testing.T) {
	store := &stubCredentialStore{err: errors.New("connection refused")}
	verifier := newTestVerifier(t, store)

	_, err := verifier.Authenticate(context.Background(), "user@example.com", "whatever")
	if err == nil {
		t.Fatal("expected error for store failure")
	}
	// ストア障害は資格情報エラーと混同してはならない
	if errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("store failure reported as invalid credentials: %v", err)
	}
}

func TestHasAnyRole(t *testing.T) {
	principal := &Principal{Email: "user@example.com", Roles: []string{"USER"}}

	if !principal.HasAnyRole("USER", "ADMIN") {
		t.Fatal("expected USER to match")
	}
	if principal.HasAnyRole("ADMIN") {
		t.Fatal("expected ADMIN not to match")
	}

	var missing *Principal
	if missing.HasAnyRole("USER") {
		t.Fatal("expected nil principal to have no roles")
	}
}
