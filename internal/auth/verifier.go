// Package auth は資格情報の検証とPrincipalの生成を提供します。
package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
)

// ErrInvalidCredentials はメールアドレスまたはパスワードが正しくない場合のエラーです。
// 利用者が存在しない場合とパスワード不一致の場合で区別しません（識別子の列挙を防ぐため）。
var ErrInvalidCredentials = errors.New("invalid credentials")

// Credential は資格情報ストアに保存されたログイン情報です。
type Credential struct {
	Email        string
	PasswordHash string
	Roles        []string
}

// CredentialStore はメールアドレスから資格情報を引き当てます。
// 見つからない場合は (nil, nil) を返します。
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (*Credential, error)
}

// Principal は認証済みの利用者を表します。セッションの有効期間だけ生存し、永続化されません。
type Principal struct {
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

// HasAnyRole は指定されたロールのいずれかを保持しているかを返します。
func (p *Principal) HasAnyRole(roles ...string) bool {
	if p == nil {
		return false
	}
	for _, want := range roles {
		for _, have := range p.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Verifier は資格情報を検証してPrincipalを生成します。
type Verifier struct {
	store  CredentialStore
	hasher *Hasher
	logger *log.Logger
}

// NewVerifier はVerifierを作成します。
func NewVerifier(store CredentialStore, hasher *Hasher, logger *log.Logger) *Verifier {
	return &Verifier{
		store:  store,
		hasher: hasher,
		logger: logger,
	}
}

// Authenticate はメールアドレスとパスワードを検証し、成功時にPrincipalを返します。
// 利用者が存在しない場合もパスワード不一致の場合も同じ ErrInvalidCredentials を返します。
// 失敗理由の区別はサーバーログにのみ残し、呼び出し側には伝えません。
func (v *Verifier) Authenticate(ctx context.Context, email, password string) (*Principal, error) {
	cred, err := v.store.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("credential lookup failed: %w", err)
	}
	if cred == nil {
		v.logf("authentication failed email=%s reason=unknown-user", email)
		return nil, ErrInvalidCredentials
	}

	if !v.hasher.Verify(password, cred.PasswordHash) {
		v.logf("authentication failed email=%s reason=password-mismatch", email)
		return nil, ErrInvalidCredentials
	}

	roles := make([]string, len(cred.Roles))
	copy(roles, cred.Roles)
	return &Principal{
		Email: cred.Email,
		Roles: roles,
	}, nil
}

func (v *Verifier) logf(format string, args ...any) {
	if v.logger != nil {
		v.logger.Printf(format, args...)
	}
}
