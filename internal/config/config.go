// Package config は環境変数から設定を読み込み、アプリケーション全体で使用する設定を提供します。
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config はアプリケーションの設定を保持する構造体です。
type Config struct {
	// サーバー設定
	Port    string // APIサーバーのポート番号
	GinMode string // Ginの実行モード (debug, release, test)

	// CORS設定
	CORSAllowedOrigin string // 資格情報付きリクエストを受け付ける単一のオリジン

	// セッション設定
	SessionRedisURL   string // セッションストア用Redis接続URL（空文字ならメモリストア）
	SessionTTLMinutes int    // セッションの有効期限（分）
	CookieSecure      bool   // Secure属性付きクッキーを発行するか

	// 認証設定
	BcryptCost int // bcryptのコストパラメータ

	// CSRF設定
	CSRFExemptPaths string // CSRF検証を免除するパス（カンマ区切り）

	// 初期データ設定（デモ・開発用）
	SeedUserName         string // 起動時に登録する利用者の名前
	SeedUserEmail        string // 起動時に登録する利用者のメールアドレス
	SeedUserPasswordHash string // bcryptでハッシュ化されたパスワード
	SeedUserRoles        string // 付与するロール（カンマ区切り）
}

// Load は環境変数から設定を読み込みます。
// .env.local ファイルが存在する場合はそこから読み込みます。
func Load() (*Config, error) {
	// .env.local ファイルを読み込む（存在しない場合はスキップ）
	loadEnvFile()

	config := &Config{
		// サーバー設定
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "debug"),

		// CORS設定
		CORSAllowedOrigin: getEnv("CORS_ALLOWED_ORIGIN", "http://localhost:4200"),

		// セッション設定
		SessionRedisURL:   getEnv("SESSION_REDIS_URL", ""),
		SessionTTLMinutes: getEnvAsInt("SESSION_TTL_MINUTES", 30),
		CookieSecure:      getEnvAsBool("COOKIE_SECURE", false),

		// 認証設定
		BcryptCost: getEnvAsInt("BCRYPT_COST", 10),

		// CSRF設定
		CSRFExemptPaths: getEnv("CSRF_EXEMPT_PATHS", "/contact,/register"),

		// 初期データ設定
		SeedUserName:         getEnv("SEED_USER_NAME", ""),
		SeedUserEmail:        getEnv("SEED_USER_EMAIL", ""),
		SeedUserPasswordHash: getEnv("SEED_USER_PASSWORD_HASH", ""),
		SeedUserRoles:        getEnv("SEED_USER_ROLES", "USER"),
	}

	// 必須設定のバリデーション
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func loadEnvFile() {
	if err := godotenv.Load(".env.local"); err == nil {
		return
	}

	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	parent := filepath.Dir(cwd)
	if parent == "" || parent == cwd {
		return
	}

	_ = godotenv.Load(filepath.Join(parent, ".env.local"))
}

// Validate は設定の妥当性を検証します。
func (c *Config) Validate() error {
	if c.SessionTTLMinutes <= 0 {
		return fmt.Errorf("SESSION_TTL_MINUTES must be positive")
	}

	// ローカル開発ではメモリストアを許容するが、本番環境では厳格にチェックする
	if c.GinMode == "release" {
		if c.CORSAllowedOrigin == "" {
			return fmt.Errorf("CORS_ALLOWED_ORIGIN is required in release mode")
		}
		if c.SessionRedisURL == "" {
			return fmt.Errorf("SESSION_REDIS_URL is required in release mode")
		}
		if !c.CookieSecure {
			return fmt.Errorf("COOKIE_SECURE must be true in release mode")
		}
	}

	return nil
}

// ExemptPaths はCSRF検証を免除するパスの一覧を返します。
func (c *Config) ExemptPaths() []string {
	return splitCSV(c.CSRFExemptPaths)
}

// SeedRoles は初期利用者に付与するロールの一覧を返します。
func (c *Config) SeedRoles() []string {
	return splitCSV(c.SeedUserRoles)
}

func splitCSV(value string) []string {
	var result []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}

// getEnv は環境変数を取得し、存在しない場合はデフォルト値を返します。
func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt は環境変数を整数として取得します。
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsBool は環境変数を真偽値として取得します。
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
