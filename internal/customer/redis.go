package customer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const customerKeyPrefix = "customer:"

// customerRecord は保存用の表現です。レスポンス用のJSONタグとは独立に、
// パスワードハッシュとロールも含めて永続化します。
type customerRecord struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	MobileNumber string    `json:"mobileNumber,omitempty"`
	PasswordHash string    `json:"passwordHash"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"createdAt"`
}

// RedisStore は利用者レコードをRedisに保存します。
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore はRedisStoreを作成します。
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

// FindByEmail はメールアドレスから利用者を引き当てます。見つからない場合は (nil, nil) です。
func (s *RedisStore) FindByEmail(ctx context.Context, email string) (*Customer, error) {
	data, err := s.rdb.Get(ctx, customerKey(email)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var record customerRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return &Customer{
		ID:           record.ID,
		Name:         record.Name,
		Email:        record.Email,
		MobileNumber: record.MobileNumber,
		PasswordHash: record.PasswordHash,
		Roles:        record.Roles,
		CreatedAt:    record.CreatedAt,
	}, nil
}

// Save は利用者を保存します。有効期限は設けません。
func (s *RedisStore) Save(ctx context.Context, c *Customer) error {
	if c == nil || c.Email == "" {
		return fmt.Errorf("customer email is required")
	}
	payload, err := json.Marshal(customerRecord{
		ID:           c.ID,
		Name:         c.Name,
		Email:        c.Email,
		MobileNumber: c.MobileNumber,
		PasswordHash: c.PasswordHash,
		Roles:        c.Roles,
		CreatedAt:    c.CreatedAt,
	})
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, customerKey(c.Email), payload, 0).Err()
}

func customerKey(email string) string {
	return customerKeyPrefix + normalizeEmail(email)
}
