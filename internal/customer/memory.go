package customer

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MemoryStore はメモリ上の利用者ストアです。開発・テスト用途を想定しています。
type MemoryStore struct {
	mu        sync.RWMutex
	customers map[string]*Customer
}

// NewMemoryStore は空のMemoryStoreを作成します。
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		customers: make(map[string]*Customer),
	}
}

// FindByEmail はメールアドレスから利用者を引き当てます。見つからない場合は (nil, nil) です。
func (m *MemoryStore) FindByEmail(ctx context.Context, email string) (*Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.customers[normalizeEmail(email)]
	if !ok {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

// Save は利用者を保存します。
func (m *MemoryStore) Save(ctx context.Context, c *Customer) error {
	if c == nil || c.Email == "" {
		return fmt.Errorf("customer email is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *c
	m.customers[normalizeEmail(c.Email)] = &copied
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
