package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore はメモリ上のセッションストアです。開発・テスト用途を想定しています。
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	closeOnce sync.Once
	done      chan struct{}
}

// NewMemoryStore は空のMemoryStoreを作成します。
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
		done:     make(chan struct{}),
	}
}

// Save はセッションを保存します。
func (m *MemoryStore) Save(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *s
	m.sessions[s.ID] = &copied
	return nil
}

// Get はIDからセッションを取得します。見つからない場合は (nil, nil) です。
func (m *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	copied := *s
	return &copied, nil
}

// Delete はセッションを削除します。存在しないIDに対しても成功します。
func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// StartSweeper は期限切れセッションを定期的に削除するゴルーチンを起動します。
// 掃除は削除のみを行い、セッションを復活させることはありません。
func (m *MemoryStore) StartSweeper(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-m.done:
				return
			case <-ticker.C:
				m.sweep(time.Now().UTC())
			}
		}
	}()
}

// Close はスイーパーを停止します。
func (m *MemoryStore) Close() {
	m.closeOnce.Do(func() {
		close(m.done)
	})
}

func (m *MemoryStore) sweep(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		if now.After(s.ExpiresAt) {
			delete(m.sessions, id)
		}
	}
}
