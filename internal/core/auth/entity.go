package auth

import (
	"time"

	"github.com/ogurasousui/leave-clean-arch/internal/core/person"
)

// Credential はログイン用の資格情報です。人物エンティティとは別に保持します。
type Credential struct {
	PersonID     string
	Email        string
	PasswordHash string
}

// Session はログイン成功時に発行されるトークンと、その持ち主です。
type Session struct {
	Token     string
	ExpiresAt time.Time
	Person    *person.Person
}
