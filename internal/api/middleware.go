package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/easybank/internal/auth"
	"github.com/yourusername/easybank/internal/session"
)

// credentialsMiddleware はリクエストにBasic認証の資格情報が付いていれば検証し、
// 成功時はセッションを再発行してprincipalを紐づけます。
// 資格情報が無いリクエストはそのまま通し、認可判定は後段のマッチャーに任せます。
func (s *Server) credentialsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		email, password, ok := c.Request.BasicAuth()
		if !ok {
			c.Next()
			return
		}

		// 既に同じ利用者で認証済みのセッションなら再発行しない
		if current := session.FromContext(c); current.Authenticated() && current.Principal.Email == email {
			c.Next()
			return
		}

		principal, err := s.verifier.Authenticate(c.Request.Context(), email, password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				c.Header("WWW-Authenticate", `Basic realm="easybank"`)
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"code":    "INVALID_CREDENTIALS",
					"message": "メールアドレスまたはパスワードが正しくありません",
				})
				return
			}
			log.Printf("basic authentication failed: %v", err)
			serverError(c)
			c.Abort()
			return
		}

		if _, err := s.sessions.Bind(c, principal, s.cfg.CookieSecure); err != nil {
			log.Printf("session bind failed: %v", err)
			serverError(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
