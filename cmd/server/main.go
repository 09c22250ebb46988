package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/ogurasousui/leave-clean-arch/internal/adapters/http/handler"
	"github.com/ogurasousui/leave-clean-arch/internal/core/auth"
	"github.com/ogurasousui/leave-clean-arch/internal/core/leave"
	"github.com/ogurasousui/leave-clean-arch/internal/core/person"
	platformauth "github.com/ogurasousui/leave-clean-arch/internal/platform/auth"
	"github.com/ogurasousui/leave-clean-arch/internal/platform/config"
	"github.com/ogurasousui/leave-clean-arch/internal/platform/logger"
	"github.com/ogurasousui/leave-clean-arch/internal/platform/metrics"
	"github.com/ogurasousui/leave-clean-arch/internal/platform/seed"
	"github.com/ogurasousui/leave-clean-arch/internal/platform/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open %s storage: %w", cfg.Storage.Driver, err)
	}
	defer store.close()
	log.Infow("storage ready", "driver", cfg.Storage.Driver)

	if cfg.Storage.Seed {
		if err := seed.New(store.people, store.credentials, store.requests, store.tx, log).Run(ctx); err != nil {
			return err
		}
	}

	tokens, err := platformauth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}

	m := metrics.New()
	authSvc := auth.NewService(store.credentials, store.people, platformauth.BcryptChecker{}, tokens)
	personSvc := person.NewService(store.people)
	leaveSvc := leave.NewService(store.requests, store.people, nil, store.tx,
		leave.WithLogger(log.Named("leave")),
		leave.WithObserver(m),
	)

	router := handler.NewRouter(handler.Deps{
		Auth:       authSvc,
		People:     personSvc,
		Leave:      leaveSvc,
		Storage:    store.pinger,
		Log:        log.Named("http"),
		Metrics:    m.Handler(),
		Instrument: m.HTTPMiddleware,
	})

	httpServer := server.NewHTTP(cfg.HTTP.ListenAddr, router, server.HTTPOptions{
		ReadTimeout:     cfg.HTTP.ReadTimeout,
		WriteTimeout:    cfg.HTTP.WriteTimeout,
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
	})
	healthServer := server.New(cfg.Server.ListenAddr)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infow("HTTP server listening", "addr", cfg.HTTP.ListenAddr)
		return httpServer.Run(gctx)
	})
	g.Go(func() error {
		log.Infow("gRPC health server listening", "addr", cfg.Server.ListenAddr)
		return healthServer.Run(gctx)
	})
	healthServer.SetServing(true)

	if err := g.Wait(); err != nil {
		log.Errorw("server stopped with error", "error", err)
		return err
	}
	log.Infow("server stopped")
	return nil
}
