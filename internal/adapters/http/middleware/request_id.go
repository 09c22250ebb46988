// Package middleware は HTTP ハンドラ共通のミドルウェアを提供します。
package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type ctxKey string

const (
	requestIDKey ctxKey = "request_id"
	viewerKey    ctxKey = "viewer"
)

// RequestIDHeader はリクエスト ID を受け渡すヘッダー名です。
const RequestIDHeader = "X-Request-ID"

// RequestID はリクエスト ID を採番し、コンテキストとレスポンスヘッダーに設定します。
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, reqID)
		next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), reqID)))
	})
}

// WithRequestID は ctx にリクエスト ID を設定します。
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID は ctx からリクエスト ID を取得します。
func GetRequestID(ctx context.Context) string {
	if value, ok := ctx.Value(requestIDKey).(string); ok {
		return value
	}
	return ""
}
