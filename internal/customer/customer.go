// Package customer は利用者アカウントの保存と引き当てを提供します。
package customer

import (
	"context"
	"time"
)

// Customer は利用者のアカウント情報です。
// PasswordHash と Roles はレスポンスJSONに決して含めません。
type Customer struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	MobileNumber string    `json:"mobileNumber,omitempty"`
	PasswordHash string    `json:"-"`
	Roles        []string  `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Store は利用者レコードの保存先です。
type Store interface {
	// FindByEmail はメールアドレスから利用者を引き当てます。
	// 見つからない場合は (nil, nil) を返します。
	FindByEmail(ctx context.Context, email string) (*Customer, error)
	// Save は利用者を保存します（存在する場合は上書き）。
	Save(ctx context.Context, c *Customer) error
}
