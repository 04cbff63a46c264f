package scraper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-vagas-scraper/internal/models"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// CollectOptions tunes the aggregation loop.
type CollectOptions struct {
	// Concurrency is the maximum number of pages visited at once.
	// Values below 1 mean sequential visits.
	Concurrency int
	Logger      zerolog.Logger
}

// PageResult records the outcome of one URL visit.
type PageResult struct {
	URL      string
	Count    int
	Err      error
	Duration time.Duration
}

// Result is the aggregate of one collection pass.
type Result struct {
	Listings []models.Listing
	Pages    []PageResult
}

// Failed returns the pages whose visit returned an error.
func (r *Result) Failed() []PageResult {
	var failed []PageResult
	for _, p := range r.Pages {
		if p.Err != nil {
			failed = append(failed, p)
		}
	}
	return failed
}

// Collect visits every URL and concatenates the listings in URL order,
// then page order. A failing URL is logged and skipped. The call fails
// only when the aggregate is empty: with ErrNavigation if any visit
// failed, with ErrEmptyResult otherwise.
func Collect(ctx context.Context, v Visitor, urls []string, opts CollectOptions) (*Result, error) {
	logger := opts.Logger
	limit := opts.Concurrency
	if limit < 1 {
		limit = 1
	}

	//indexed by URL position so output order never depends on timing
	perURL := make([][]models.Listing, len(urls))
	pages := make([]PageResult, len(urls))

	var g errgroup.Group
	g.SetLimit(limit)

	for i, url := range urls {
		g.Go(func() error {
			pages[i].URL = url
			if err := ctx.Err(); err != nil {
				pages[i].Err = err
				return nil
			}

			logger.Info().Str("url", url).Int("index", i+1).Int("total", len(urls)).Msg("🔍 navigating to jobs page")
			start := time.Now()
			listings, err := v.Visit(ctx, url)
			pages[i].Duration = time.Since(start)
			if err != nil {
				pages[i].Err = err
				logger.Warn().Err(err).Str("url", url).Msg("⚠️ page visit failed, skipping")
				return nil
			}

			perURL[i] = listings
			pages[i].Count = len(listings)
			if len(listings) == 0 {
				logger.Info().Str("url", url).Msg("no jobs found")
			} else {
				logger.Info().Str("url", url).Int("count", len(listings)).Msg("📦 found jobs")
			}
			return nil
		})
	}
	_ = g.Wait()

	result := &Result{Pages: pages}
	for _, listings := range perURL {
		result.Listings = append(result.Listings, listings...)
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	if len(result.Listings) > 0 {
		return result, nil
	}

	failed := result.Failed()
	if len(failed) > 0 {
		errs := make([]error, 0, len(failed))
		for _, p := range failed {
			errs = append(errs, fmt.Errorf("%s: %w", p.URL, p.Err))
		}
		return result, fmt.Errorf("%w: %d of %d pages failed: %w", ErrNavigation, len(failed), len(urls), errors.Join(errs...))
	}
	return result, fmt.Errorf("%w across %d URLs", ErrEmptyResult, len(urls))
}
