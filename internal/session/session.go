// Package session はサーバー側で追跡するセッションの発行・照会・破棄を提供します。
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/yourusername/easybank/internal/auth"
)

// Session はログイン状態とCSRFトークンを保持するサーバー側セッションです。
// Principal が nil のセッションは匿名（ログイン前）を表します。
type Session struct {
	ID        string          `json:"id"`
	Principal *auth.Principal `json:"principal,omitempty"`
	CSRFToken string          `json:"csrfToken"`
	CreatedAt time.Time       `json:"createdAt"`
	ExpiresAt time.Time       `json:"expiresAt"`
}

// Authenticated は認証済みセッションかどうかを返します。
func (s *Session) Authenticated() bool {
	return s != nil && s.Principal != nil
}

// Store はセッションの保存先です。実装はキー単位で原子的である必要があります。
type Store interface {
	// Save はセッションを保存します（存在する場合は上書き）。
	Save(ctx context.Context, s *Session) error
	// Get はIDからセッションを取得します。見つからない場合は (nil, nil) を返します。
	Get(ctx context.Context, id string) (*Session, error)
	// Delete はセッションを削除します。存在しないIDに対しても成功します。
	Delete(ctx context.Context, id string) error
}

// Manager はセッションのライフサイクルを管理します。
type Manager struct {
	store Store
	ttl   time.Duration
}

// NewManager はManagerを作成します。
func NewManager(store Store, ttl time.Duration) *Manager {
	return &Manager{
		store: store,
		ttl:   ttl,
	}
}

// TTL はセッションの有効期間を返します。
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Establish は新しいセッションを発行して保存します。
// セッションIDとCSRFトークンは暗号論的乱数から生成します。
// ログイン前でもCSRFトークンの置き場が必要なため、principal は nil でも構いません。
func (m *Manager) Establish(ctx context.Context, principal *auth.Principal) (*Session, error) {
	id, err := generateToken()
	if err != nil {
		return nil, err
	}
	csrfToken, err := generateToken()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	s := &Session{
		ID:        id,
		Principal: principal,
		CSRFToken: csrfToken,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.store.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Resolve はIDからセッションを引き当てます。未知のIDや期限切れは (nil, nil) です。
// 読み取りによって有効期限を延長することはありません。
func (m *Manager) Resolve(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, nil
	}
	s, err := m.store.Get(ctx, id)
	if err != nil || s == nil {
		return nil, err
	}
	if time.Now().UTC().After(s.ExpiresAt) {
		// 期限切れは削除するだけ。復活はさせない。
		_ = m.store.Delete(ctx, id)
		return nil, nil
	}
	return s, nil
}

// Invalidate はセッションを破棄します。存在しないIDに対しては何もせず成功します。
func (m *Manager) Invalidate(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return m.store.Delete(ctx, id)
}

func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
