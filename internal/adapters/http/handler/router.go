// Package handler は HTTP API のハンドラとルーティングを提供します。
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ogurasousui/leave-clean-arch/internal/adapters/http/middleware"
	"github.com/ogurasousui/leave-clean-arch/internal/core/auth"
	"github.com/ogurasousui/leave-clean-arch/internal/core/leave"
	"github.com/ogurasousui/leave-clean-arch/internal/core/person"
)

// Pinger はストレージの疎通確認を行います。
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps はルーターの構築に必要な依存関係です。
type Deps struct {
	Auth    auth.UseCase
	People  person.UseCase
	Leave   leave.UseCase
	Storage Pinger
	Log     *zap.SugaredLogger
	// Metrics は /metrics で公開するハンドラです。nil の場合はルートを登録しません。
	Metrics http.Handler
	// Instrument はルーティング後に適用する計測ミドルウェアです。
	Instrument func(http.Handler) http.Handler
	// Now はカレンダーの既定日付に利用します。nil の場合は time.Now です。
	Now func() time.Time
}

// NewRouter は API 全体のルーターを構築します。
func NewRouter(deps Deps) http.Handler {
	if deps.Log == nil {
		deps.Log = zap.NewNop().Sugar()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(deps.Log))
	router.Use(chimw.Recoverer)
	if deps.Instrument != nil {
		router.Use(deps.Instrument)
	}
	router.Use(middleware.Auth(deps.Auth, deps.Log))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if deps.Storage != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := deps.Storage.Ping(ctx); err != nil {
				deps.Log.Warnw("readiness check failed", "error", err)
				http.Error(w, "storage not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if deps.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	authHandler := NewAuthHandler(deps.Auth, deps.Log)
	peopleHandler := NewPeopleHandler(deps.People, deps.Log)
	leaveHandler := NewLeaveHandler(deps.Leave, deps.Log, deps.Now)

	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", authHandler.HandleLogin)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireViewer)
			peopleHandler.RegisterRoutes(r)
			leaveHandler.RegisterRoutes(r)
		})
	})

	return router
}
