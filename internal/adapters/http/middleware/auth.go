package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ogurasousui/leave-clean-arch/internal/adapters/http/api"
	"github.com/ogurasousui/leave-clean-arch/internal/core/person"
)

// Authenticator はベアラートークンから閲覧者を解決します。
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*person.Person, error)
}

// Auth は Authorization ヘッダーのベアラートークンを検証し、閲覧者をコンテキストに設定します。
// トークンが無い、または不正な場合は閲覧者を設定せずに次へ渡します。
func Auth(authenticator Authenticator, log *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			viewer, err := authenticator.Authenticate(r.Context(), token)
			if err != nil {
				log.Debugw("bearer token rejected", "error", err, "request_id", GetRequestID(r.Context()))
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithViewer(r.Context(), viewer)))
		})
	}
}

// RequireViewer は閲覧者が設定されていないリクエストを 401 で拒否します。
func RequireViewer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetViewer(r.Context()); !ok {
			api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithViewer は ctx に閲覧者を設定します。
func WithViewer(ctx context.Context, viewer *person.Person) context.Context {
	return context.WithValue(ctx, viewerKey, viewer)
}

// GetViewer は ctx から閲覧者を取得します。
func GetViewer(ctx context.Context) (*person.Person, bool) {
	viewer, ok := ctx.Value(viewerKey).(*person.Person)
	return viewer, ok && viewer != nil
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}
