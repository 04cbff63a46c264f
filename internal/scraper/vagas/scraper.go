package vagas

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"time"

	"go-vagas-scraper/internal/browser"
	"go-vagas-scraper/internal/config"
	"go-vagas-scraper/internal/models"
	"go-vagas-scraper/internal/scraper"

	"github.com/playwright-community/playwright-go"
	"github.com/rs/zerolog"
)

// Visitor loads vagas.com.br search pages in a shared browser context.
// Each Visit uses its own page, so visits may run concurrently.
type Visitor struct {
	bctx     playwright.BrowserContext
	cfg      *config.Config
	logger   zerolog.Logger
	debugger *browser.ScreenshotDebugger
}

func NewVisitor(bctx playwright.BrowserContext, cfg *config.Config, logger zerolog.Logger) *Visitor {
	return &Visitor{
		bctx:     bctx,
		cfg:      cfg,
		logger:   logger,
		debugger: browser.NewScreenshotDebugger(cfg.ScreenshotDir, logger),
	}
}

var _ scraper.Visitor = (*Visitor)(nil)

func (v *Visitor) Visit(ctx context.Context, pageURL string) ([]models.Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page, err := v.bctx.NewPage()
	if err != nil {
		return nil, fmt.Errorf("%w: open page: %w", scraper.ErrNavigation, err)
	}
	//always close tab
	defer func() {
		if err := page.Close(); err != nil {
			v.logger.Debug().Err(err).Str("url", pageURL).Msg("close page")
		}
	}()

	timeoutMs := float64(v.cfg.NavigationTimeout / time.Millisecond)
	page.SetDefaultNavigationTimeout(timeoutMs)
	if len(v.cfg.Headers) > 0 {
		if err := page.SetExtraHTTPHeaders(v.cfg.Headers); err != nil {
			return nil, fmt.Errorf("%w: set headers: %w", scraper.ErrNavigation, err)
		}
	}

	//navigate
	if _, err := page.Goto(pageURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(timeoutMs),
	}); err != nil {
		v.debugger.CaptureAndLog(page, screenshotName(pageURL), "navigation failed")
		return nil, fmt.Errorf("%w: %w", scraper.ErrNavigation, err)
	}

	if v.cfg.ScrollToLoad {
		if err := browser.Scroll(ctx, page); err != nil {
			v.logger.Debug().Err(err).Str("url", pageURL).Msg("scroll failed")
		}
	}

	//wait for the listing count to stop changing
	v.logger.Debug().Str("url", pageURL).Msg("⏳ waiting for listings to settle")
	n, err := browser.WaitStable(ctx, func() (int, error) {
		return page.Locator(ListingSelector).Count()
	}, v.cfg.SettlePollInterval, v.cfg.SettleDelay)
	if err != nil {
		return nil, fmt.Errorf("%w: wait for listings: %w", scraper.ErrNavigation, err)
	}
	v.logger.Debug().Str("url", pageURL).Int("elements", n).Msg("listings settled")

	html, err := page.Content()
	if err != nil {
		return nil, fmt.Errorf("%w: read page content: %w", scraper.ErrNavigation, err)
	}

	listings, err := Extract(html, page.URL())
	if err != nil {
		v.debugger.CaptureAndLog(page, screenshotName(pageURL), "extraction failed")
		return nil, err
	}
	return listings, nil
}

// Session is one browser plus the context every page is opened from.
type Session struct {
	*Visitor
	manager *browser.PlaywrightManager
}

// Launch starts Chromium and prepares a context with the configured
// user agent and cookies.
func Launch(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Session, error) {
	cookies, err := browser.LoadCookies(cfg.CookiesFile)
	if err != nil {
		return nil, err
	}

	manager, err := browser.NewPlaywright(ctx, browser.LaunchOptions{
		Headless: cfg.Headless,
		Args:     cfg.BrowserArgs,
	})
	if err != nil {
		return nil, err
	}

	bctx, err := manager.NewContext(browser.ContextOptions{
		UserAgent: cfg.UserAgent,
		Cookies:   cookies,
	})
	if err != nil {
		_ = manager.Close()
		return nil, err
	}
	if len(cookies) > 0 {
		logger.Info().Int("count", len(cookies)).Msg("🍪 loaded cookies")
	}

	return &Session{
		Visitor: NewVisitor(bctx, cfg, logger),
		manager: manager,
	}, nil
}

// Close closes the browser. Safe to call more than once.
func (s *Session) Close() error {
	return s.manager.Close()
}

func screenshotName(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil || u.Path == "" || u.Path == "/" {
		return "vagas"
	}
	return path.Base(u.Path)
}
