package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/vaultpass/passgen/internal/config"
	"github.com/vaultpass/passgen/internal/crypto"
	"github.com/vaultpass/passgen/internal/handler"
	"github.com/vaultpass/passgen/internal/realtime"
	"github.com/vaultpass/passgen/internal/repository"
	"github.com/vaultpass/passgen/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()

	fileCfg, err := config.LoadFile(cfg.ConfigFile)
	if err != nil {
		slog.Error("config file error", "path", cfg.ConfigFile, "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := repository.OpenStore(ctx, cfg.StoreDriver, cfg.DatabaseDSN)
	if err != nil {
		slog.Error("settings store unavailable", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	rng, err := crypto.NewSource(cfg.RandomSource)
	if err != nil {
		slog.Error("random source unavailable", "source", cfg.RandomSource, "error", err)
		os.Exit(1)
	}

	hub := realtime.NewHub()
	historyService := service.NewHistoryService(store, hub)
	localeService := service.NewLocaleService(store, fileCfg.DefaultLocale())
	genService := service.NewGeneratorService(rng, fileCfg.Options(crypto.DefaultOptions()), historyService, localeService)
	sessionService := service.NewSessionService(cfg.SessionSecret, cfg.SessionExpiry)

	r := handler.NewRouter(ctx, handler.RouterConfig{
		Generator:      genService,
		History:        historyService,
		Locales:        localeService,
		Sessions:       sessionService,
		Hub:            hub,
		SessionSecret:  cfg.SessionSecret,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server starting",
			"addr", cfg.Addr(),
			"env", cfg.Env,
			"store", cfg.StoreDriver,
			"random_source", cfg.RandomSource,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// hijacked websocket connections are not tracked by Shutdown
	hub.Close()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
