package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-vagas-scraper/internal/config"
	"go-vagas-scraper/internal/database"
	"go-vagas-scraper/internal/runner"
	"go-vagas-scraper/internal/scraper/vagas"
	"go-vagas-scraper/internal/telegram"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
)

type CLI struct {
	Config      string   `help:"Path to the YAML config file." default:"configs/config.yaml" type:"path"`
	URL         []string `name:"url" help:"Search page to scrape. Repeatable; replaces the configured URLs."`
	OutDir      string   `help:"Directory for the JSON and Excel files." type:"path"`
	Concurrency int      `help:"Pages loaded at the same time." default:"0"`
	Headful     bool     `help:"Show the browser window."`
	NoNotify    bool     `help:"Skip the Telegram summary even if a bot is configured."`
	Verbose     bool     `short:"v" help:"Enable debug logging."`
}

func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("vagas-scraper"),
		kong.Description("Scrapes vagas.com.br search pages into JSON and Excel files."),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)

	level := zerolog.InfoLevel
	if cli.Verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if err := run(cli, logger); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(cli CLI, logger zerolog.Logger) error {
	cfg, err := config.LoadWith(cli.Config, config.Overrides{
		URLs:        cli.URL,
		OutputDir:   cli.OutDir,
		Concurrency: cli.Concurrency,
		Headful:     cli.Headful,
	})
	if err != nil {
		return err
	}
	logger.Info().Strs("urls", cfg.URLs).Str("out", cfg.OutputDir).Msg("🔧 config loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var opts []runner.Option
	if cfg.TelegramEnabled() && !cli.NoNotify {
		bot, err := telegram.NewBot(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			return fmt.Errorf("failed to init Telegram bot: %w", err)
		}
		logger.Info().Msg("🤖 Telegram bot initialized")
		opts = append(opts, runner.WithNotifier(bot))
	}
	if cfg.DatabaseURL != "" {
		repo, err := database.ConnectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer repo.Close()
		if err := repo.EnsureSchema(ctx); err != nil {
			return err
		}
		logger.Info().Msg("🗄️ database connected")
		opts = append(opts, runner.WithArchive(repo))
	}

	res, err := runner.New(cfg, launch, logger, opts...).Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("%d vagas salvas\n", res.Run.Count)
	fmt.Println(res.Artifacts.JSON)
	fmt.Println(res.Artifacts.XLSX)
	return nil
}

func launch(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (runner.Session, error) {
	s, err := vagas.Launch(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return s, nil
}
