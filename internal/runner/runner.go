package runner

import (
	"context"
	"fmt"
	"time"

	"go-vagas-scraper/internal/config"
	"go-vagas-scraper/internal/export"
	"go-vagas-scraper/internal/models"
	"go-vagas-scraper/internal/scraper"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Session is an open browser that can visit pages.
type Session interface {
	scraper.Visitor
	Close() error
}

// LaunchFunc opens the browser session for one run.
type LaunchFunc func(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (Session, error)

// Notifier reports run outcomes, e.g. to a chat.
type Notifier interface {
	SendStatus(message string) error
	SendRun(run models.Run) error
	SendError(err error) error
}

// Archive keeps a copy of each successful run.
type Archive interface {
	SaveRun(ctx context.Context, run models.Run, listings []models.Listing) error
}

type Runner struct {
	cfg      *config.Config
	launch   LaunchFunc
	logger   zerolog.Logger
	notifier Notifier
	archive  Archive
	now      func() time.Time
}

type Option func(*Runner)

func WithNotifier(n Notifier) Option {
	return func(r *Runner) { r.notifier = n }
}

func WithArchive(a Archive) Option {
	return func(r *Runner) { r.archive = a }
}

func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

func New(cfg *config.Config, launch LaunchFunc, logger zerolog.Logger, opts ...Option) *Runner {
	r := &Runner{
		cfg:    cfg,
		launch: launch,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Result is what a run produced. On failure only Run is set, with
// status FAILED and the error message.
type Result struct {
	Run       models.Run
	Listings  []models.Listing
	Artifacts *export.Artifacts
	Pages     []scraper.PageResult
}

// Run launches the browser, collects every configured URL, writes the
// output files and closes the browser on every path.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	run := models.Run{
		ID:        uuid.NewString(),
		StartedAt: r.now(),
		URLs:      r.cfg.URLs,
	}
	res, err := r.run(ctx, run)
	if err != nil {
		run.Status = models.StatusFailed
		run.Error = err.Error()
		if r.notifier != nil {
			if nerr := r.notifier.SendError(err); nerr != nil {
				r.logger.Warn().Err(nerr).Msg("⚠️ failed to send error notification")
			}
		}
		return &Result{Run: run}, err
	}
	return res, nil
}

func (r *Runner) run(ctx context.Context, run models.Run) (*Result, error) {
	logger := r.logger.With().Str("run_id", run.ID).Logger()
	logger.Info().Int("urls", len(r.cfg.URLs)).Msg("🚀 starting job search")
	if r.notifier != nil {
		if err := r.notifier.SendStatus(fmt.Sprintf("🚀 iniciando busca (%d páginas)", len(r.cfg.URLs))); err != nil {
			logger.Warn().Err(err).Msg("⚠️ failed to send start notification")
		}
	}

	session, err := r.launch(ctx, r.cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", scraper.ErrBrowserLaunch, err)
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			logger.Warn().Err(cerr).Msg("⚠️ failed to close browser")
		}
		logger.Debug().Msg("browser closed")
	}()
	logger.Info().Msg("✅ browser launched")

	collected, err := scraper.Collect(ctx, session, r.cfg.URLs, scraper.CollectOptions{
		Concurrency: r.cfg.MaxConcurrentPages,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("error during search: %w", err)
	}
	logger.Info().Int("count", len(collected.Listings)).Int("failed_pages", len(collected.Failed())).Msg("📦 total jobs collected")

	artifacts, err := export.Save(collected.Listings, run.StartedAt, export.Options{
		Dir:          r.cfg.OutputDir,
		Prefix:       r.cfg.FilePrefix,
		SheetName:    r.cfg.SheetName,
		ColumnWidths: r.cfg.ColumnWidths,
	})
	if err != nil {
		if artifacts != nil && artifacts.JSON != "" {
			logger.Warn().Str("file", artifacts.JSON).Msg("⚠️ JSON file was written before the failure")
		}
		return nil, err
	}
	logger.Info().Str("file", artifacts.JSON).Msg("📁 JSON file saved")
	logger.Info().Str("file", artifacts.XLSX).Msg("📁 Excel file saved")

	run.Timestamp = artifacts.Timestamp
	run.Count = len(collected.Listings)
	run.Status = models.StatusSucceeded
	run.JSONFile = artifacts.JSON
	run.XLSXFile = artifacts.XLSX

	if r.archive != nil {
		if err := r.archive.SaveRun(ctx, run, collected.Listings); err != nil {
			logger.Warn().Err(err).Msg("⚠️ failed to archive run")
		} else {
			logger.Info().Msg("💾 run archived")
		}
	}
	if r.notifier != nil {
		if err := r.notifier.SendRun(run); err != nil {
			logger.Warn().Err(err).Msg("⚠️ failed to send run summary")
		}
	}

	logger.Info().Msg("🏁 execution finished")
	return &Result{
		Run:       run,
		Listings:  collected.Listings,
		Artifacts: artifacts,
		Pages:     collected.Pages,
	}, nil
}
