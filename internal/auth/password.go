package auth

import "golang.org/x/crypto/bcrypt"

// Hasher はbcryptによるパスワードのハッシュ化と照合を提供します。
type Hasher struct {
	cost int
}

// NewHasher はHasherを作成します。コストが範囲外の場合はデフォルト値を使います。
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash は平文パスワードをハッシュ化します。ソルトは呼び出しごとに新しく生成されるため、
// 同じパスワードでも出力は毎回異なります。
func (h *Hasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify は平文パスワードとハッシュを照合します。
// 不正な形式のハッシュを渡されてもエラーにはせず false を返します。
func (h *Hasher) Verify(password, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}
