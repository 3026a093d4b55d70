// Package authz は宣言的なルート認可ルールの評価を提供します。
package authz

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/easybank/internal/auth"
	"github.com/yourusername/easybank/internal/session"
)

// Requirement はルートに要求される認可条件の種別です。
type Requirement int

const (
	// Any は誰でもアクセスできることを表します。
	Any Requirement = iota
	// Authenticated はログイン済みであればロールを問わないことを表します。
	Authenticated
	// AnyRole は指定ロールのいずれかを保持している必要があることを表します。
	AnyRole
)

// Rule は1つのルートパターンに対する認可条件です。
type Rule struct {
	Pattern     string
	Requirement Requirement
	Roles       []string
}

// Decision は認可評価の結果です。
type Decision int

const (
	// Allow はアクセスを許可します。
	Allow Decision = iota
	// DenyUnauthenticated はログインが必要なことを表します。
	DenyUnauthenticated
	// DenyForbidden は認証済みだが権限が足りないことを表します。
	DenyForbidden
)

// Matcher は起動時に固定されたルール表を宣言順に評価します。
// ルール表は構築後に変更されません。
type Matcher struct {
	rules []Rule
}

// NewMatcher はMatcherを作成します。渡されたルールはコピーして保持します。
func NewMatcher(rules []Rule) *Matcher {
	copied := make([]Rule, len(rules))
	copy(copied, rules)
	return &Matcher{rules: copied}
}

// Authorize はパスと現在のprincipalから認可判定を行います。
// ルールは宣言順に評価し、最初に構造一致したルールが結果を決めます。
// どのルールにも一致しないパスはデフォルトで拒否します（fail-closed）。
func (m *Matcher) Authorize(path string, principal *auth.Principal) Decision {
	for _, rule := range m.rules {
		if !matchPattern(rule.Pattern, path) {
			continue
		}
		switch rule.Requirement {
		case Any:
			return Allow
		case Authenticated:
			if principal != nil {
				return Allow
			}
			return DenyUnauthenticated
		case AnyRole:
			if principal == nil {
				return DenyUnauthenticated
			}
			if principal.HasAnyRole(rule.Roles...) {
				return Allow
			}
			return DenyForbidden
		}
	}

	if principal == nil {
		return DenyUnauthenticated
	}
	return DenyForbidden
}

// Middleware は判定結果をHTTPレスポンスへ対応付けるミドルウェアを返します。
func (m *Matcher) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var principal *auth.Principal
		if s := session.FromContext(c); s != nil {
			principal = s.Principal
		}

		switch m.Authorize(c.Request.URL.Path, principal) {
		case Allow:
			c.Next()
		case DenyUnauthenticated:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "UNAUTHORIZED",
				"message": "ログインが必要です",
			})
		default:
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"code":    "FORBIDDEN",
				"message": "この操作を行う権限がありません",
			})
		}
	}
}

// matchPattern はパターンとパスの構造一致を判定します。
// 末尾の '*' は前方一致、それ以外は完全一致です。
func matchPattern(pattern, path string) bool {
	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(path, strings.TrimSuffix(pattern, "*"))
	}
	return pattern == path
}
