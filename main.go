package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"horizontravels/internal/cache"
	intconfig "horizontravels/internal/config"
	intdb "horizontravels/internal/db"
	router "horizontravels/internal/http"
	"horizontravels/internal/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", slog.Any("err", err))
		os.Exit(1)
	}
}

// run owns every resource so deferred cleanup happens before main exits.
func run() error {
	env, err := intconfig.LoadEnv()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	logger := utils.InitLogger(os.Stdout, env.LogLevel, env.LogFormat)
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStart()

	db, err := intconfig.ConnectDB(startCtx, env)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := intdb.EnsureSchema(startCtx, db); err != nil {
		return fmt.Errorf("prepare schema: %w", err)
	}
	if env.SeedData {
		admin := intdb.AdminSeed{
			Name:     env.AdminName,
			Contact:  env.AdminContact,
			Username: env.AdminUsername,
			Email:    env.AdminEmail,
			Password: env.AdminPassword,
		}
		if err := intdb.Seed(startCtx, db, admin, time.Now()); err != nil {
			return fmt.Errorf("seed data: %w", err)
		}
	}

	deps := router.Deps{DB: db, Now: time.Now}
	rdb, err := cache.NewClient(startCtx, cache.Config{Addr: env.RedisAddr, Password: env.RedisPassword})
	switch {
	case err != nil:
		logger.Warn("redis unavailable, logout revocation and idempotency disabled", slog.Any("err", err))
	case rdb != nil:
		defer rdb.Close()
		deps.Revoker = cache.TokenBlacklist{Client: rdb}
		deps.Idempotency = cache.IdempotencyStore{Client: rdb}
	}

	r := router.NewRouter(env, deps)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.String("addr", env.AppAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
	case <-quit:
	}

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
