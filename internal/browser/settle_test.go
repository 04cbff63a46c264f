package browser

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequence returns the given counts in order, then repeats the last one.
func sequence(counts ...int) (func() (int, error), *int) {
	calls := 0
	return func() (int, error) {
		i := calls
		calls++
		if i >= len(counts) {
			i = len(counts) - 1
		}
		return counts[i], nil
	}, &calls
}

func TestWaitStable_ReturnsOnceCountSettles(t *testing.T) {
	count, calls := sequence(0, 3, 7, 7)

	start := time.Now()
	n, err := WaitStable(context.Background(), count, time.Millisecond, time.Second)
	require.NoError(t, err)

	assert.Equal(t, 7, n)
	assert.Equal(t, 4, *calls)
	assert.Less(t, time.Since(start), time.Second)
}

func TestWaitStable_ZeroNeverCountsAsStable(t *testing.T) {
	count, calls := sequence(0)

	start := time.Now()
	n, err := WaitStable(context.Background(), count, 5*time.Millisecond, 60*time.Millisecond)
	require.NoError(t, err)

	assert.Equal(t, 0, n)
	assert.Greater(t, *calls, 2)
	assert.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond)
}

func TestWaitStable_NoWaitWhenMaxIsZero(t *testing.T) {
	count, calls := sequence(4)

	n, err := WaitStable(context.Background(), count, time.Millisecond, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, 1, *calls)
}

func TestWaitStable_CountError(t *testing.T) {
	boom := errors.New("page closed")
	calls := 0
	count := func() (int, error) {
		calls++
		if calls == 2 {
			return 0, boom
		}
		return 1, nil
	}

	n, err := WaitStable(context.Background(), count, time.Millisecond, time.Second)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, n)
}

func TestWaitStable_ContextCancelled(t *testing.T) {
	count, _ := sequence(0)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := WaitStable(ctx, count, 5*time.Millisecond, time.Minute)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
