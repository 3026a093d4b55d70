// Package notice はお知らせの一覧取得を提供します。
package notice

import (
	"context"
	"time"
)

// Notice は利用者向けのお知らせです。掲載期間内のものだけが配信されます。
type Notice struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Detail    string    `json:"detail"`
	BeginDate time.Time `json:"beginDate"`
	EndDate   time.Time `json:"endDate"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store はお知らせの取得元です。
type Store interface {
	// ListActive は now が掲載期間 [BeginDate, EndDate] に含まれるお知らせを返します。
	ListActive(ctx context.Context, now time.Time) ([]Notice, error)
}
