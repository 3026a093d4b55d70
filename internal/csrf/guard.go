// Package csrf はダブルサブミットクッキー方式のCSRF防御を提供します。
//
// セッション作成時に発行されたトークンをスクリプトから読めるクッキーとして配り、
// 状態変更リクエストでは同じ値をヘッダーに載せ返すことを要求します。
// クロスサイトの攻撃者はクッキーを自動送信させることはできても読み取れないため、
// ヘッダーを偽造できません。
package csrf

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/easybank/internal/session"
)

const (
	// CookieName はCSRFトークンを配るクッキー名です。
	CookieName = "XSRF-TOKEN"
	// HeaderName は状態変更リクエストでトークンを載せ返すヘッダー名です。
	HeaderName = "X-CSRF-Token"
)

// WriteCookie はセッションに紐づくCSRFトークンをクッキーへ書き出します。
// クライアントのスクリプトが値を読んでヘッダーに載せ返す必要があるため、
// HttpOnly にはしません。これはダブルサブミット方式の前提です。
func WriteCookie(c *gin.Context, s *session.Session, secure bool) {
	maxAge := int(time.Until(s.ExpiresAt).Seconds())
	c.SetCookie(CookieName, s.CSRFToken, maxAge, "/", "", secure, false)
}

// ExpireCookie はCSRFクッキーを失効させます。
func ExpireCookie(c *gin.Context) {
	c.SetCookie(CookieName, "", -1, "/", "", false, false)
}

// CookieWriter はセッションのCSRFトークンをレスポンスに書き出すミドルウェアを返します。
// セッション確立後に実行される必要があります（トークンはセッションに束縛されるため）。
func CookieWriter(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if s := session.FromContext(c); s != nil {
			WriteCookie(c, s, secure)
		}
		c.Next()
	}
}

// Guard は状態変更リクエストのCSRFトークンを検証します。
type Guard struct {
	exempt map[string]struct{}
}

// NewGuard はGuardを作成します。exemptPaths に挙げたパスは検証を免除されます。
func NewGuard(exemptPaths []string) *Guard {
	exempt := make(map[string]struct{}, len(exemptPaths))
	for _, path := range exemptPaths {
		exempt[path] = struct{}{}
	}
	return &Guard{exempt: exempt}
}

// Middleware は検証ミドルウェアを返します。
// 読み取り専用メソッドと免除パスは検証せず通し、それ以外では
// クッキーとヘッダーの両方が現在のセッションのトークンと一致することを要求します。
// 別のセッションで発行されたトークンは値が正しくても一致しません。
func (g *Guard) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if isSafeMethod(c.Request.Method) {
			c.Next()
			return
		}
		if _, ok := g.exempt[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		current := session.FromContext(c)
		if current == nil || current.CSRFToken == "" {
			rejectMissing(c)
			return
		}

		cookieValue, err := c.Cookie(CookieName)
		headerValue := c.GetHeader(HeaderName)
		if err != nil || cookieValue == "" || headerValue == "" {
			rejectMissing(c)
			return
		}

		expected := []byte(current.CSRFToken)
		if subtle.ConstantTimeCompare([]byte(headerValue), expected) != 1 ||
			subtle.ConstantTimeCompare([]byte(cookieValue), expected) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"code":    "CSRF_INVALID",
				"message": "CSRFトークンが一致しません",
			})
			return
		}

		c.Next()
	}
}

func rejectMissing(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"code":    "CSRF_MISSING",
		"message": "CSRFトークンが設定されていません",
	})
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	default:
		return false
	}
}
