package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"workaccess/internal/audit"
	"workaccess/internal/auth"
	"workaccess/internal/billing"
	"workaccess/internal/company"
	"workaccess/internal/httpapi"
	"workaccess/internal/items"
	"workaccess/internal/outbox"
	"workaccess/internal/platform/config"
	"workaccess/internal/platform/httpserver"
	"workaccess/internal/platform/logger"
	"workaccess/internal/platform/metrics"
	"workaccess/internal/platform/redis"
	"workaccess/internal/storage"
	"workaccess/pkg/platform/middleware/ratelimit"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Production)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	store, err := storage.NewFileStore(cfg.DataDir)
	if err != nil {
		log.Error("failed to open tenant storage", "dir", cfg.DataDir, "error", err)
		os.Exit(1)
	}

	m := metrics.New()
	tokens := auth.NewTokenService(cfg.SigningKey(), cfg.TokenTTL)

	redisClient, err := redis.New(context.Background(), cfg.RedisAddr)
	if err != nil {
		log.Error("redis unreachable", "addr", cfg.RedisAddr, "error", err)
		os.Exit(1)
	}
	var lockouts auth.LockoutStore
	if redisClient != nil {
		lockouts = auth.NewRedisLockoutStore(redisClient.Client, cfg.LockoutWindow)
		log.Info("login lockouts backed by redis", "addr", cfg.RedisAddr)
	} else {
		lockouts = auth.NewInMemoryLockoutStore(cfg.LockoutWindow)
	}

	authSvc, err := auth.NewService(cfg, tokens, lockouts, log)
	if err != nil {
		log.Error("failed to initialize auth service", "error", err)
		os.Exit(1)
	}

	auditSvc := audit.NewService(store, log, m)
	outboxSvc := outbox.NewService(store, log)
	companies := company.NewService(store, log)
	itemsSvc := items.NewService(store, log)

	var limiter *ratelimit.Limiter
	if cfg.RateLimitEnabled {
		limiter = ratelimit.New(cfg.RateLimitRPS, cfg.RateLimitBurst, log, m.RateLimited)
	}

	router := httpapi.New(httpapi.Deps{
		Config:    cfg,
		Logger:    log,
		Metrics:   m,
		Tokens:    tokens,
		Auth:      auth.NewHandler(authSvc, log),
		Companies: companies,
		Company:   company.NewHandler(companies, auditSvc, log),
		Billing:   billing.NewHandler(companies, auditSvc, log),
		Audit:     audit.NewHandler(auditSvc, log),
		Outbox:    outbox.NewHandler(outboxSvc, log),
		Items:     items.NewHandler(itemsSvc, auditSvc, log),
		RateLimit: limiter,
	})

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("server listening", "addr", cfg.Addr, "env", cfg.Env, "mode", string(cfg.Mode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
