package auth

import (
	"context"

	"github.com/ogurasousui/leave-clean-arch/internal/core/person"
)

// CredentialStore は資格情報の参照を提供します。
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (*Credential, error)
}

// PersonLookup はトークンの持ち主を解決するための人物参照です。
type PersonLookup interface {
	FindByID(ctx context.Context, id string) (*person.Person, error)
}
