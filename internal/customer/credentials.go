package customer

import (
	"context"

	"github.com/yourusername/easybank/internal/auth"
)

// Credentials はStoreを認証用の資格情報ストアとして公開します。
type Credentials struct {
	store Store
}

// NewCredentials はCredentialsを作成します。
func NewCredentials(store Store) *Credentials {
	return &Credentials{store: store}
}

// FindByEmail はメールアドレスから資格情報を引き当てます。見つからない場合は (nil, nil) です。
func (c *Credentials) FindByEmail(ctx context.Context, email string) (*auth.Credential, error) {
	found, err := c.store.FindByEmail(ctx, email)
	if err != nil || found == nil {
		return nil, err
	}
	return &auth.Credential{
		Email:        found.Email,
		PasswordHash: found.PasswordHash,
		Roles:        found.Roles,
	}, nil
}
