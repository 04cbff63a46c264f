package browser

import (
	"context"
	"time"
)

// WaitStable polls count until two consecutive polls return the same
// non-zero value, or until max elapses. It returns the last count seen.
// A count error ends the wait early and is returned to the caller.
func WaitStable(ctx context.Context, count func() (int, error), interval, max time.Duration) (int, error) {
	if max <= 0 {
		return count()
	}
	if interval <= 0 || interval > max {
		interval = max
	}

	deadline := time.NewTimer(max)
	defer deadline.Stop()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last, err := count()
	if err != nil {
		return 0, err
	}

	for {
		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case <-deadline.C:
			return last, nil
		case <-ticker.C:
			n, err := count()
			if err != nil {
				return last, err
			}
			if n > 0 && n == last {
				return n, nil
			}
			last = n
		}
	}
}
