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

	"github.com/example/emoji-scheduler/internal/application"
	"github.com/example/emoji-scheduler/internal/config"
	httptransport "github.com/example/emoji-scheduler/internal/http"
	"github.com/example/emoji-scheduler/internal/persistence/sqlite"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	pool, err := sqlite.Open(cfg.SQLitePath)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := pool.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	userRepo := sqlite.NewUserRepository(pool)
	userDataRepo := sqlite.NewUserDataRepository(pool)
	scheduleRepo := sqlite.NewScheduleRepository(pool)
	libraryRepo := sqlite.NewEmojiLibraryRepository(pool)

	tokens := application.NewTokenManager([]byte(cfg.JWTSecret), "emoji-scheduler", cfg.TokenTTL)

	authService := application.NewAuthServiceWithLogger(userRepo, tokens, logger)
	userDataService := application.NewUserDataServiceWithLogger(userDataRepo, logger)
	scheduleService := application.NewScheduleServiceWithLogger(scheduleRepo, logger)
	libraryService := application.NewLibraryServiceWithLogger(libraryRepo, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:      httptransport.NewAuthHandler(authService, logger),
		UserData:  httptransport.NewUserDataHandler(userDataService, logger),
		Schedules: httptransport.NewScheduleHandler(scheduleService, logger),
		Libraries: httptransport.NewLibraryHandler(libraryService, logger),
		Verifier:  authService,
		Logger:    logger,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("emoji schedule API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}
