package httpx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBuckets_SweepDropsIdleKeys(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	b := newBuckets(RateLimitConfig{RequestsPerWindow: 5, Window: time.Minute, Burst: 5})
	b.now = func() time.Time { return now }
	b.lastSweep = now

	b.get("idle")
	now = now.Add(3 * time.Minute)
	b.get("busy")
	require.Equal(t, 2, b.len())

	now = now.Add(2 * time.Minute)
	b.get("busy")
	require.Equal(t, 1, b.len(), "the key untouched for a full sweep interval is dropped")

	limiter := b.get("busy")
	require.Same(t, limiter, b.get("busy"))
}
