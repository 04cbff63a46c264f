package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/playwright-community/playwright-go"
)

// LaunchOptions controls how the Chromium instance is started.
type LaunchOptions struct {
	Headless bool
	Args     []string
}

// ContextOptions are applied to every page opened from a browser context.
type ContextOptions struct {
	UserAgent string
	Cookies   []playwright.OptionalCookie
}

// PlaywrightManager owns the playwright driver and a single browser.
type PlaywrightManager struct {
	pw      *playwright.Playwright
	browser playwright.Browser

	closeOnce sync.Once
	closeErr  error
}

// NewPlaywright starts the driver and launches Chromium.
func NewPlaywright(ctx context.Context, opts LaunchOptions) (*PlaywrightManager, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args:     opts.Args,
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("could not launch chromium: %w", err)
	}

	return &PlaywrightManager{
		pw:      pw,
		browser: browser,
	}, nil
}

// NewContext creates an isolated browser context carrying the user agent
// and cookies.
func (pm *PlaywrightManager) NewContext(opts ContextOptions) (playwright.BrowserContext, error) {
	ctxOpts := playwright.BrowserNewContextOptions{}
	if opts.UserAgent != "" {
		ctxOpts.UserAgent = playwright.String(opts.UserAgent)
	}

	bctx, err := pm.browser.NewContext(ctxOpts)
	if err != nil {
		return nil, fmt.Errorf("could not create browser context: %w", err)
	}

	if len(opts.Cookies) > 0 {
		if err := bctx.AddCookies(opts.Cookies); err != nil {
			_ = bctx.Close()
			return nil, fmt.Errorf("could not add cookies: %w", err)
		}
	}
	return bctx, nil
}

// Close shuts the browser and the driver down. Only the first call does work.
func (pm *PlaywrightManager) Close() error {
	pm.closeOnce.Do(func() {
		var errs []error
		if pm.browser != nil {
			if err := pm.browser.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close browser: %w", err))
			}
		}
		if pm.pw != nil {
			if err := pm.pw.Stop(); err != nil {
				errs = append(errs, fmt.Errorf("stop playwright: %w", err))
			}
		}
		pm.closeErr = errors.Join(errs...)
	})
	return pm.closeErr
}
