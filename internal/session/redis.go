package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// RedisStore はセッションをRedisに保存します。
// 有効期限はRedisのTTLに委ねるため、期限切れレコードの掃除は不要です。
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore はRedisStoreを作成します。
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		rdb: rdb,
		ttl: ttl,
	}
}

// Save はセッションを保存します。
func (s *RedisStore) Save(ctx context.Context, sess *Session) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		ttl = s.ttl
	}
	return s.rdb.Set(ctx, sessionKey(sess.ID), payload, ttl).Err()
}

// Get はIDからセッションを取得します。見つからない場合は (nil, nil) です。
func (s *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := s.rdb.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Delete はセッションを削除します。存在しないIDに対しても成功します。
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, sessionKey(id)).Err()
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}
