package browser

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Scroller is the part of a page Scroll needs.
type Scroller interface {
	Mouse() playwright.Mouse
	Evaluate(expression string, arg ...interface{}) (interface{}, error)
}

// Scroll wheels down, corrects up a little, then jumps to the bottom so
// lazily rendered results get requested. Pauses are jittered and stop
// early if ctx is done.
func Scroll(ctx context.Context, page Scroller) error {
	if err := page.Mouse().Wheel(0, 500); err != nil {
		return err
	}
	if err := pause(ctx, 500, 1000); err != nil {
		return err
	}

	if err := page.Mouse().Wheel(0, -200); err != nil {
		return err
	}
	if err := pause(ctx, 500, 800); err != nil {
		return err
	}

	_, err := page.Evaluate("window.scrollTo(0, document.body.scrollHeight)")
	return err
}

// pause sleeps a random duration in [minMs, maxMs).
func pause(ctx context.Context, minMs, maxMs int) error {
	d := time.Duration(minMs) * time.Millisecond
	if maxMs > minMs {
		d = time.Duration(minMs+rand.IntN(maxMs-minMs)) * time.Millisecond
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
