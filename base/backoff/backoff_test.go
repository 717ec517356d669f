package backoff

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestExponential(t *testing.T) {
	req := require.New(t)
	b := NewExponential(time.Millisecond, 4*time.Millisecond)
	ctx := context.Background()

	expected := []time.Duration{1, 2, 4, 4}
	for i, d := range expected {
		req.Equal(d*time.Millisecond, b.NextDuration, "attempt %d", i)
		req.NoError(b.Backoff(ctx))
	}
	req.Equal(4, b.Attempts())

	b.Reset()
	req.Equal(time.Millisecond, b.NextDuration)
	req.Equal(0, b.Attempts())
}

func TestLinear(t *testing.T) {
	req := require.New(t)
	b := NewLinear(time.Millisecond, 0)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		req.Equal(time.Duration(i)*time.Millisecond, b.NextDuration)
		req.NoError(b.Backoff(ctx))
	}
}

func TestBackoffCancelled(t *testing.T) {
	req := require.New(t)
	b := NewExponential(time.Hour, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req.ErrorIs(b.Backoff(ctx), context.Canceled)
	req.Equal(0, b.Attempts())
}
