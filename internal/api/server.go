// Package api はHTTPハンドラーとリクエストパイプラインの配線を提供します。
package api

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yourusername/easybank/internal/auth"
	"github.com/yourusername/easybank/internal/config"
	"github.com/yourusername/easybank/internal/csrf"
	"github.com/yourusername/easybank/internal/customer"
	"github.com/yourusername/easybank/internal/notice"
	"github.com/yourusername/easybank/internal/session"
)

// Server はAPIハンドラー一式と依存コンポーネントを保持します。
type Server struct {
	cfg       *config.Config
	verifier  *auth.Verifier
	hasher    *auth.Hasher
	sessions  *session.Manager
	customers customer.Store
	notices   notice.Store
}

// NewServer はServerを作成します。
func NewServer(cfg *config.Config, verifier *auth.Verifier, hasher *auth.Hasher, sessions *session.Manager, customers customer.Store, notices notice.Store) *Server {
	return &Server{
		cfg:       cfg,
		verifier:  verifier,
		hasher:    hasher,
		sessions:  sessions,
		customers: customers,
		notices:   notices,
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login は POST /login のハンドラーです。
// 認証に成功するとセッションを再発行し、新しいCSRFトークンをクッキーで配ります。
func (s *Server) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    "INVALID_INPUT",
			"message": "email と password を JSON で送ってください",
		})
		return
	}

	principal, err := s.verifier.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    "INVALID_CREDENTIALS",
				"message": "メールアドレスまたはパスワードが正しくありません",
			})
			return
		}
		log.Printf("login failed: %v", err)
		serverError(c)
		return
	}

	established, err := s.sessions.Bind(c, principal, s.cfg.CookieSecure)
	if err != nil {
		log.Printf("session bind failed: %v", err)
		serverError(c)
		return
	}
	csrf.WriteCookie(c, established, s.cfg.CookieSecure)

	c.JSON(http.StatusOK, gin.H{
		"email": principal.Email,
		"roles": principal.Roles,
	})
}

// Logout は POST /logout のハンドラーです。セッションを破棄してクッキーを失効させます。
func (s *Server) Logout(c *gin.Context) {
	if err := s.sessions.Clear(c); err != nil {
		log.Printf("logout failed: %v", err)
		serverError(c)
		return
	}
	csrf.ExpireCookie(c)
	c.Status(http.StatusNoContent)
}

type registerRequest struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	MobileNumber string `json:"mobileNumber"`
	Password     string `json:"password" binding:"required,min=8"`
}

// Register は POST /register のハンドラーです。
// ストア側の失敗は内容を漏らさず、一定のメッセージだけを返します。
func (s *Server) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    "INVALID_INPUT",
			"message": "name, email, password(8文字以上) を JSON で送ってください",
		})
		return
	}

	existing, err := s.customers.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		log.Printf("register lookup failed: %v", err)
		serverError(c)
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{
			"code":    "EMAIL_TAKEN",
			"message": "このメールアドレスは既に登録されています",
		})
		return
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		log.Printf("register hash failed: %v", err)
		serverError(c)
		return
	}

	saved := &customer.Customer{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		MobileNumber: req.MobileNumber,
		PasswordHash: hashed,
		Roles:        []string{"USER"},
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.customers.Save(c.Request.Context(), saved); err != nil {
		log.Printf("register save failed: %v", err)
		serverError(c)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "利用者情報を登録しました",
	})
}

// User は GET /user のハンドラーです。ログイン中の利用者情報を返します。
// パスワードハッシュはJSONに含まれません。
func (s *Server) User(c *gin.Context) {
	principal := currentPrincipal(c)
	if principal == nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"code":    "UNAUTHORIZED",
			"message": "ログインが必要です",
		})
		return
	}

	found, err := s.customers.FindByEmail(c.Request.Context(), principal.Email)
	if err != nil {
		log.Printf("user lookup failed: %v", err)
		serverError(c)
		return
	}
	if found == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"code":    "NOT_FOUND",
			"message": "利用者情報が見つかりません",
		})
		return
	}
	c.JSON(http.StatusOK, found)
}

// Notices は GET /notices のハンドラーです。掲載期間内のお知らせを返します。
// 結果は60秒間クライアント側でキャッシュできます。
func (s *Server) Notices(c *gin.Context) {
	active, err := s.notices.ListActive(c.Request.Context(), time.Now().UTC())
	if err != nil {
		log.Printf("notices lookup failed: %v", err)
		serverError(c)
		return
	}
	if active == nil {
		active = []notice.Notice{}
	}
	c.Header("Cache-Control", "max-age=60")
	c.JSON(http.StatusOK, active)
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message" binding:"required"`
}

// Contact は POST /contact のハンドラーです。問い合わせを受け付けて受付番号を返します。
func (s *Server) Contact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    "INVALID_INPUT",
			"message": "message を JSON で送ってください",
		})
		return
	}

	ticket := uuid.NewString()
	log.Printf("contact received ticket=%s subject=%q", ticket, req.Subject)
	c.JSON(http.StatusOK, gin.H{
		"ticketNumber": ticket,
		"message":      "お問い合わせを受け付けました",
	})
}

// Account は GET /myAccount のハンドラーです。
func (s *Server) Account(c *gin.Context) {
	principal := currentPrincipal(c)
	c.JSON(http.StatusOK, gin.H{
		"email":         principal.Email,
		"accountNumber": "186576453434",
		"accountType":   "Savings",
		"branchAddress": "123 Main Street, New York",
	})
}

// Balance は GET /myBalance のハンドラーです。
func (s *Server) Balance(c *gin.Context) {
	principal := currentPrincipal(c)
	c.JSON(http.StatusOK, gin.H{
		"email": principal.Email,
		"transactions": []gin.H{
			{"type": "Deposit", "amount": 1500, "balance": 34500, "summary": "Coffee Shop"},
			{"type": "Withdrawal", "amount": 500, "balance": 33000, "summary": "Self Deposit"},
		},
	})
}

// Loans は GET /myLoans のハンドラーです。
func (s *Server) Loans(c *gin.Context) {
	principal := currentPrincipal(c)
	c.JSON(http.StatusOK, gin.H{
		"email": principal.Email,
		"loans": []gin.H{
			{"type": "Home", "total": 200000, "amountPaid": 50000, "outstanding": 150000},
			{"type": "Vehicle", "total": 40000, "amountPaid": 10000, "outstanding": 30000},
		},
	})
}

// Cards は GET /myCards のハンドラーです。
func (s *Server) Cards(c *gin.Context) {
	principal := currentPrincipal(c)
	c.JSON(http.StatusOK, gin.H{
		"email": principal.Email,
		"cards": []gin.H{
			{"type": "Credit", "totalLimit": 10000, "amountUsed": 500, "availableAmount": 9500},
		},
	})
}

// Health は GET /health のハンドラーです。
func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "easybank-api",
		"version": "0.1.0",
	})
}

// currentPrincipal は現在のセッションに紐づくprincipalを返します。未認証なら nil です。
func currentPrincipal(c *gin.Context) *auth.Principal {
	if s := session.FromContext(c); s != nil {
		return s.Principal
	}
	return nil
}

func serverError(c *gin.Context) {
	// 内部エラーの詳細は決してレスポンスに載せない
	c.JSON(http.StatusInternalServerError, gin.H{
		"code":    "SERVER_ERROR",
		"message": "サーバー内部でエラーが発生しました",
	})
}
