package notice

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore はメモリ上のお知らせストアです。
type MemoryStore struct {
	mu      sync.RWMutex
	notices []Notice
}

// NewMemoryStore は渡されたお知らせを保持するMemoryStoreを作成します。
func NewMemoryStore(notices []Notice) *MemoryStore {
	copied := make([]Notice, len(notices))
	copy(copied, notices)
	return &MemoryStore{notices: copied}
}

// ListActive は掲載期間内のお知らせを返します。
func (m *MemoryStore) ListActive(ctx context.Context, now time.Time) ([]Notice, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var active []Notice
	for _, n := range m.notices {
		if !now.Before(n.BeginDate) && !now.After(n.EndDate) {
			active = append(active, n)
		}
	}
	return active, nil
}

// Add はお知らせを追加します。
func (m *MemoryStore) Add(n Notice) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notices = append(m.notices, n)
}

// DefaultNotices は起動時に投入するデモ用のお知らせを返します。
func DefaultNotices(now time.Time) []Notice {
	return []Notice{
		{
			ID:        uuid.NewString(),
			Title:     "定期メンテナンスのお知らせ",
			Detail:    "毎週日曜 2:00-4:00 の間、一部サービスが利用できません。",
			BeginDate: now.AddDate(0, 0, -7),
			EndDate:   now.AddDate(0, 1, 0),
			CreatedAt: now.AddDate(0, 0, -7),
		},
		{
			ID:        uuid.NewString(),
			Title:     "新しいカードサービスの開始",
			Detail:    "タッチ決済対応カードの申し込み受付を開始しました。",
			BeginDate: now.AddDate(0, 0, -1),
			EndDate:   now.AddDate(0, 2, 0),
			CreatedAt: now.AddDate(0, 0, -1),
		},
	}
}
