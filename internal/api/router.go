package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/easybank/internal/authz"
	"github.com/yourusername/easybank/internal/csrf"
)

// DefaultRules は起動時に固定するルート認可ルール表を返します。
// 宣言順に評価され、最初に一致したルールが結果を決めます。
func DefaultRules() []authz.Rule {
	return []authz.Rule{
		{Pattern: "/myAccount*", Requirement: authz.AnyRole, Roles: []string{"USER"}},
		{Pattern: "/myBalance*", Requirement: authz.AnyRole, Roles: []string{"USER", "ADMIN"}},
		{Pattern: "/myLoans*", Requirement: authz.AnyRole, Roles: []string{"USER"}},
		{Pattern: "/myCards*", Requirement: authz.AnyRole, Roles: []string{"USER"}},
		{Pattern: "/user", Requirement: authz.Authenticated},
		{Pattern: "/logout", Requirement: authz.Authenticated},
		{Pattern: "/notices", Requirement: authz.Any},
		{Pattern: "/contact", Requirement: authz.Any},
		{Pattern: "/register", Requirement: authz.Any},
		{Pattern: "/login", Requirement: authz.Any},
		{Pattern: "/health", Requirement: authz.Any},
	}
}

// NewRouter は固定順のミドルウェアチェーンとルーティングを構築します。
// チェーンの順序は正しさの要件です:
// CSRFクッキーの書き出しと検証はセッション確立・認証の後、
// 認可判定はハンドラーの直前でなければなりません。
func (s *Server) NewRouter(rules []authz.Rule) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	// CORS: 設定された単一オリジンからの資格情報付きリクエストのみ受け付ける。
	// プリフライト結果は1時間キャッシュさせる。
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{s.cfg.CORSAllowedOrigin},
		AllowMethods: []string{"GET", "HEAD", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"Authorization",
			csrf.HeaderName,
		},
		ExposeHeaders:    []string{csrf.HeaderName},
		AllowCredentials: true,
		MaxAge:           time.Hour,
	}))

	// 全リクエストにセッションを用意する（ログイン前でもCSRFトークンの置き場が要る）
	router.Use(s.sessions.Middleware(s.cfg.CookieSecure))
	router.Use(s.credentialsMiddleware())
	router.Use(csrf.CookieWriter(s.cfg.CookieSecure))
	router.Use(csrf.NewGuard(s.cfg.ExemptPaths()).Middleware())
	router.Use(authz.NewMatcher(rules).Middleware())

	router.GET("/health", s.Health)
	router.POST("/login", s.Login)
	router.POST("/logout", s.Logout)
	router.POST("/register", s.Register)
	router.POST("/contact", s.Contact)
	router.GET("/notices", s.Notices)
	router.GET("/user", s.User)
	router.GET("/myAccount", s.Account)
	router.GET("/myBalance", s.Balance)
	router.GET("/myLoans", s.Loans)
	router.GET("/myCards", s.Cards)

	return router
}
