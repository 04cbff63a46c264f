package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-vagas-scraper/internal/config"
	"go-vagas-scraper/internal/database"
	"go-vagas-scraper/internal/httpapi"
	"go-vagas-scraper/internal/runner"
	"go-vagas-scraper/internal/scraper/vagas"
	"go-vagas-scraper/internal/telegram"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	path := os.Getenv("VAGAS_CONFIG")
	if path == "" {
		path = config.DefaultConfigPath
	}
	cfg, err := config.Load(path)
	if err != nil {
		logger.Fatal().Err(err).Msg("❌ failed to load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var opts []runner.Option
	if cfg.TelegramEnabled() {
		bot, err := telegram.NewBot(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			logger.Fatal().Err(err).Msg("❌ failed to init Telegram bot")
		}
		opts = append(opts, runner.WithNotifier(bot))
	}
	if cfg.DatabaseURL != "" {
		repo, err := database.ConnectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("❌ failed to connect to database")
		}
		defer repo.Close()
		if err := repo.EnsureSchema(ctx); err != nil {
			logger.Fatal().Err(err).Msg("❌ failed to create schema")
		}
		opts = append(opts, runner.WithArchive(repo))
	}

	r := runner.New(cfg, launch, logger, opts...)

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           httpapi.NewServer(r, logger).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info().Str("addr", cfg.ServerAddr).Msg("🌐 server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("❌ server failed")
	}
}

func launch(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (runner.Session, error) {
	s, err := vagas.Launch(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return s, nil
}
