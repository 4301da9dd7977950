// Copyright (c) 2025-2026 Avamark Digital
// SPDX-License-Identifier: GPL-3.0-or-later

// Command portal runs the Avamark client portal API server.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/avamark/portal-go/internal/auth"
	"github.com/avamark/portal-go/internal/cache"
	"github.com/avamark/portal-go/internal/config"
	"github.com/avamark/portal-go/internal/geoip"
	"github.com/avamark/portal-go/internal/handler/api"
	"github.com/avamark/portal-go/internal/logging"
	"github.com/avamark/portal-go/internal/mailer"
	"github.com/avamark/portal-go/internal/planner"
	"github.com/avamark/portal-go/internal/scheduler"
	"github.com/avamark/portal-go/internal/session"
	"github.com/avamark/portal-go/internal/store"
	"github.com/avamark/portal-go/internal/tracker"
	"github.com/avamark/portal-go/internal/upload"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.IsDevelopment() {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

func run(cfg *config.Config, logger *slog.Logger) error {
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := store.Migrate(db); err != nil {
		return err
	}
	if cfg.DoSeed {
		if err := store.Seed(context.Background(), db); err != nil {
			return err
		}
	}

	// Mirror WARN+ records into the events table once the schema exists.
	logger = slog.New(logging.NewEventLogHandler(logger.Handler(), db))
	slog.SetDefault(logger)

	sessionManager := session.New(db, cfg.IsDevelopment())

	var backing cache.Cache
	if cfg.UseRedisCache() {
		redisCache, err := cache.NewRedisCache(cfg.RedisURL, cfg.CachePrefix, time.Duration(cfg.CacheTTL)*time.Second)
		if err != nil {
			logger.Warn("redis unavailable, using memory cache", "error", err)
			backing = cache.NewMemoryCache(time.Duration(cfg.CacheTTL)*time.Second, cfg.CacheMaxSize)
		} else {
			backing = redisCache
		}
	} else {
		backing = cache.NewMemoryCache(time.Duration(cfg.CacheTTL)*time.Second, cfg.CacheMaxSize)
	}
	cacheManager := cache.NewManager(backing, time.Duration(cfg.CacheTTL)*time.Second)
	defer func() { _ = cacheManager.Close() }()

	var generator planner.Generator
	if cfg.AIEnabled() {
		generator = planner.NewOpenAIGenerator(cfg.OpenAIKey, cfg.OpenAIModel)
	} else {
		logger.Info("plan generation disabled, no API key configured")
	}

	var mail mailer.Mailer
	if cfg.SMTPEnabled() {
		mail = mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
	} else {
		mail = mailer.NewLogMailer(logger)
	}

	geo, err := geoip.Open(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn("geoip disabled", "error", err)
		geo, _ = geoip.Open("")
	}
	defer func() { _ = geo.Close() }()

	resets := auth.NewResetTokens(auth.DefaultResetTokenTTL)
	uploads := upload.NewStore(cfg.UploadsDir, "/uploads")
	visits := tracker.New(db, geo, logger)

	handler := api.NewHandler(api.Config{
		DB:        db,
		Sessions:  sessionManager,
		Cache:     cacheManager,
		Generator: generator,
		Mail:      mail,
		Resets:    resets,
		Uploads:   uploads,
		Logger:    logger,
		BaseURL:   cfg.BaseURL,
	})

	jobs := scheduler.New(db, resets, logger)
	jobs.Start()
	defer jobs.Stop()

	r := newRouter(cfg, db, sessionManager, handler, visits)

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
