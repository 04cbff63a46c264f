package browser

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPause_Bounds(t *testing.T) {
	start := time.Now()
	require.NoError(t, pause(context.Background(), 20, 40))
	elapsed := time.Since(start)
	assert.GreaterOrEqual(t, elapsed, 20*time.Millisecond)
}

func TestPause_EqualBounds(t *testing.T) {
	require.NoError(t, pause(context.Background(), 5, 5))
}

func TestPause_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := pause(ctx, 5000, 6000)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}
