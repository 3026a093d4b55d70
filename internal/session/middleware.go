package session

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/easybank/internal/auth"
)

// CookieName はセッションIDを運ぶクッキー名です。
const CookieName = "EBSESSION"

// ContextKey はginコンテキストに現在のセッションを格納するキーです。
const ContextKey = "session.current"

// FromContext は現在のリクエストに紐づくセッションを返します。
// セッションミドルウェアを通過していない場合は nil です。
func FromContext(c *gin.Context) *Session {
	value, ok := c.Get(ContextKey)
	if !ok {
		return nil
	}
	s, ok := value.(*Session)
	if !ok {
		return nil
	}
	return s
}

// Middleware は全リクエストにセッションを用意するミドルウェアを返します。
// クッキーから解決できるセッションが無い場合は匿名セッションを新規発行します（always-create）。
// ログイン前のリクエストにもCSRFトークンの置き場を確保するための方針です。
func (m *Manager) Middleware(cookieSecure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var current *Session
		if id, err := c.Cookie(CookieName); err == nil && id != "" {
			resolved, err := m.Resolve(c.Request.Context(), id)
			if err != nil {
				log.Printf("session resolve failed: %v", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"code":    "SERVER_ERROR",
					"message": "サーバー内部でエラーが発生しました",
				})
				return
			}
			current = resolved
		}

		if current == nil {
			established, err := m.Establish(c.Request.Context(), nil)
			if err != nil {
				log.Printf("session establish failed: %v", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"code":    "SERVER_ERROR",
					"message": "サーバー内部でエラーが発生しました",
				})
				return
			}
			current = established
			writeCookie(c, current, cookieSecure)
		}

		c.Set(ContextKey, current)
		c.Next()
	}
}

// Bind は認証成功後にセッションを再発行してprincipalを紐づけます。
// 旧セッションは破棄し、IDとCSRFトークンを新しくします（セッション固定化への対策）。
func (m *Manager) Bind(c *gin.Context, principal *auth.Principal, cookieSecure bool) (*Session, error) {
	if old := FromContext(c); old != nil {
		if err := m.Invalidate(c.Request.Context(), old.ID); err != nil {
			return nil, err
		}
	}

	s, err := m.Establish(c.Request.Context(), principal)
	if err != nil {
		return nil, err
	}
	writeCookie(c, s, cookieSecure)
	c.Set(ContextKey, s)
	return s, nil
}

// Clear は現在のセッションを破棄してクッキーを失効させます。
func (m *Manager) Clear(c *gin.Context) error {
	if current := FromContext(c); current != nil {
		if err := m.Invalidate(c.Request.Context(), current.ID); err != nil {
			return err
		}
	}
	c.SetCookie(CookieName, "", -1, "/", "", false, true)
	c.Set(ContextKey, (*Session)(nil))
	return nil
}

func writeCookie(c *gin.Context, s *Session, secure bool) {
	maxAge := int(time.Until(s.ExpiresAt).Seconds())
	// セッションクッキーはスクリプトから読めてはならないので HttpOnly にする
	c.SetCookie(CookieName, s.ID, maxAge, "/", "", secure, true)
}
