package browser

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestScreenshotDebugger_Path(t *testing.T) {
	s := NewScreenshotDebugger("shots", zerolog.Nop())
	s.now = func() time.Time { return time.Date(2024, 5, 1, 9, 8, 7, 0, time.UTC) }

	assert.True(t, s.Enabled())
	assert.Equal(t,
		filepath.Join("shots", "vagas-de-sao-paulo-a-10_2024-05-01_09-08-07.png"),
		s.Path("vagas-de-sao-paulo?a[]=10"))
	assert.Equal(t, filepath.Join("shots", "page_2024-05-01_09-08-07.png"), s.Path("???"))
}

func TestScreenshotDebugger_DisabledWithoutDir(t *testing.T) {
	var nilDebugger *ScreenshotDebugger
	assert.False(t, nilDebugger.Enabled())
	assert.False(t, NewScreenshotDebugger("", zerolog.Nop()).Enabled())
	assert.NoError(t, NewScreenshotDebugger("", zerolog.Nop()).CaptureAndLog(nil, "x", "y"))
}
