package resilience

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBreakerOpensOnFailureRatio(t *testing.T) {
	b := NewBreaker(4, 0.5, time.Hour)

	for i := 0; i < 2; i++ {
		require.True(t, b.Allow())
		b.Report(true)
	}
	for i := 0; i < 2; i++ {
		require.True(t, b.Allow())
		b.Report(false)
	}
	require.False(t, b.Allow())
}

func TestBreakerHalfOpenProbeRecovers(t *testing.T) {
	b := NewBreaker(1, 0.5, 10*time.Millisecond)

	require.True(t, b.Allow())
	b.Report(false)
	require.False(t, b.Allow())

	time.Sleep(20 * time.Millisecond)
	require.True(t, b.Allow())
	b.Report(true)
	require.True(t, b.Allow())
}

func TestBreakerHalfOpenProbeFailureReopens(t *testing.T) {
	b := NewBreaker(1, 0.5, 10*time.Millisecond)

	b.Allow()
	b.Report(false)
	time.Sleep(20 * time.Millisecond)

	require.True(t, b.Allow())
	b.Report(false)
	require.False(t, b.Allow())
}

func TestBackoffGrowsExponentially(t *testing.T) {
	base := 100 * time.Millisecond
	require.Equal(t, base, Backoff(base, 1, 0))
	require.Equal(t, 2*base, Backoff(base, 2, 0))
	require.Equal(t, 4*base, Backoff(base, 3, 0))
}
