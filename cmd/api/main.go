// Package main はAPIサーバーのエントリーポイントです。
package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"

	"github.com/yourusername/easybank/internal/api"
	"github.com/yourusername/easybank/internal/auth"
	"github.com/yourusername/easybank/internal/config"
	"github.com/yourusername/easybank/internal/customer"
	"github.com/yourusername/easybank/internal/notice"
	"github.com/yourusername/easybank/internal/session"
)

func main() {
	// 設定の読み込み
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Ginのモードを設定
	gin.SetMode(cfg.GinMode)

	ttl := time.Duration(cfg.SessionTTLMinutes) * time.Minute

	// ストアの構築（Redisが設定されていればRedis、無ければメモリ）
	sessionStore, customerStore, err := setupStores(cfg, ttl)
	if err != nil {
		log.Fatalf("Failed to set up stores: %v", err)
	}

	// 初期利用者の投入（デモ・開発用）
	if err := seedCustomer(cfg, customerStore); err != nil {
		log.Fatalf("Failed to seed customer: %v", err)
	}

	noticeStore := notice.NewMemoryStore(notice.DefaultNotices(time.Now().UTC()))

	hasher := auth.NewHasher(cfg.BcryptCost)
	verifier := auth.NewVerifier(customer.NewCredentials(customerStore), hasher, log.Default())
	sessions := session.NewManager(sessionStore, ttl)

	server := api.NewServer(cfg, verifier, hasher, sessions, customerStore, noticeStore)
	router := server.NewRouter(api.DefaultRules())

	// サーバーの起動
	addr := ":" + cfg.Port
	log.Printf("Starting API server on %s (mode: %s)", addr, cfg.GinMode)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupStores はセッションストアと利用者ストアを構築します。
func setupStores(cfg *config.Config, ttl time.Duration) (session.Store, customer.Store, error) {
	if cfg.SessionRedisURL == "" {
		memory := session.NewMemoryStore()
		// メモリストアでは期限切れセッションの掃除を自前で行う
		memory.StartSweeper(time.Minute)
		return memory, customer.NewMemoryStore(), nil
	}

	opt, err := redis.ParseURL(cfg.SessionRedisURL)
	if err != nil {
		return nil, nil, err
	}
	client := redis.NewClient(opt)
	return session.NewRedisStore(client, ttl), customer.NewRedisStore(client), nil
}

// seedCustomer は設定に初期利用者があれば登録します。
func seedCustomer(cfg *config.Config, store customer.Store) error {
	if cfg.SeedUserEmail == "" || cfg.SeedUserPasswordHash == "" {
		return nil
	}

	ctx := context.Background()
	existing, err := store.FindByEmail(ctx, cfg.SeedUserEmail)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	name := cfg.SeedUserName
	if name == "" {
		name = cfg.SeedUserEmail
	}
	return store.Save(ctx, &customer.Customer{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        cfg.SeedUserEmail,
		PasswordHash: cfg.SeedUserPasswordHash,
		Roles:        cfg.SeedRoles(),
		CreatedAt:    time.Now().UTC(),
	})
}
