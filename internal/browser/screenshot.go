package browser

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/rs/zerolog"
)

var unsafeName = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// ScreenshotDebugger saves full-page screenshots of pages that failed.
// A debugger with an empty directory is disabled.
type ScreenshotDebugger struct {
	outputDir string
	logger    zerolog.Logger
	now       func() time.Time
}

func NewScreenshotDebugger(dir string, logger zerolog.Logger) *ScreenshotDebugger {
	return &ScreenshotDebugger{
		outputDir: dir,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *ScreenshotDebugger) Enabled() bool {
	return s != nil && s.outputDir != ""
}

// Path returns the file a capture named name would be written to.
func (s *ScreenshotDebugger) Path(name string) string {
	timestamp := s.now().Format("2006-01-02_15-04-05")
	clean := strings.Trim(unsafeName.ReplaceAllString(name, "-"), "-")
	if clean == "" {
		clean = "page"
	}
	return filepath.Join(s.outputDir, fmt.Sprintf("%s_%s.png", clean, timestamp))
}

// CaptureAndLog writes a screenshot of page and logs message with its location.
func (s *ScreenshotDebugger) CaptureAndLog(page playwright.Page, name, message string) error {
	if !s.Enabled() {
		return nil
	}
	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		return fmt.Errorf("create screenshot dir: %w", err)
	}

	path := s.Path(name)
	s.logger.Warn().Str("page", page.URL()).Msgf("📸 %s", message)

	if _, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	}); err != nil {
		s.logger.Warn().Err(err).Msg("⚠️ failed to capture screenshot")
		return err
	}

	s.logger.Info().Str("file", path).Msg("screenshot saved")
	return nil
}
