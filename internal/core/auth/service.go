package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ogurasousui/leave-clean-arch/internal/core/person"
)

// PasswordChecker はハッシュ済みパスワードとの照合を行います。
type PasswordChecker interface {
	CheckPassword(hash, password string) error
}

// TokenManager はアクセストークンの発行と検証を行います。subject は人物 ID です。
type TokenManager interface {
	Issue(subject string) (string, time.Time, error)
	Parse(token string) (string, error)
}

// Service はログインとトークンからの閲覧者解決を担います。
type Service struct {
	creds    CredentialStore
	people   PersonLookup
	password PasswordChecker
	tokens   TokenManager
}

// UseCase は認証ユースケースの公開インターフェースです。
type UseCase interface {
	Login(ctx context.Context, in LoginInput) (*Session, error)
	Authenticate(ctx context.Context, token string) (*person.Person, error)
}

// NewService は Service を生成します。
func NewService(creds CredentialStore, people PersonLookup, password PasswordChecker, tokens TokenManager) *Service {
	return &Service{creds: creds, people: people, password: password, tokens: tokens}
}

// LoginInput はログイン時の入力です。
type LoginInput struct {
	Email    string
	Password string
}

// Login は資格情報を検証し、トークンを発行します。
// 存在しないメールアドレスとパスワード不一致は区別しません。
func (s *Service) Login(ctx context.Context, in LoginInput) (*Session, error) {
	email := NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, ErrInvalidCredentials
	}

	cred, err := s.creds.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrCredentialNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := s.password.CheckPassword(cred.PasswordHash, in.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	p, err := s.people.FindByID(ctx, cred.PersonID)
	if err != nil {
		if errors.Is(err, person.ErrPersonNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	token, expiresAt, err := s.tokens.Issue(p.ID)
	if err != nil {
		return nil, fmt.Errorf("auth: issue token: %w", err)
	}

	return &Session{Token: token, ExpiresAt: expiresAt, Person: p}, nil
}

// Authenticate はトークンを検証し、閲覧者となる人物を返します。
func (s *Service) Authenticate(ctx context.Context, token string) (*person.Person, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}

	subject, err := s.tokens.Parse(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	p, err := s.people.FindByID(ctx, subject)
	if err != nil {
		if errors.Is(err, person.ErrPersonNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return p, nil
}

// NormalizeEmail は照合用にメールアドレスを正規化します。
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
