package ratelimiter

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewRejectsInvalidArgs(t *testing.T) {
	require.Nil(t, New(0, 1, 0))
	require.Nil(t, New(1, 0, 0))
}

func TestNilLimiterAllowsEverything(t *testing.T) {
	var l *ClientLimiter
	ok, wait := l.Allow("client", time.Now())
	require.True(t, ok)
	require.Zero(t, wait)
	require.Zero(t, l.Len())
}

func TestBurstThenReject(t *testing.T) {
	l := New(1, 2, time.Minute)
	now := time.Unix(1_700_000_000, 0)

	for i := 0; i < 2; i++ {
		ok, _ := l.Allow("10.0.0.1", now)
		require.True(t, ok)
	}
	ok, wait := l.Allow("10.0.0.1", now)
	require.False(t, ok)
	require.Greater(t, wait, time.Duration(0))
	require.LessOrEqual(t, wait, time.Second)

	ok, _ = l.Allow("10.0.0.2", now)
	require.True(t, ok, "other clients have their own bucket")

	ok, _ = l.Allow("10.0.0.1", now.Add(time.Second))
	require.True(t, ok, "bucket refills over time")
}

func TestEmptyKeyBypasses(t *testing.T) {
	l := New(1, 1, time.Minute)
	now := time.Now()
	for i := 0; i < 5; i++ {
		ok, _ := l.Allow("  ", now)
		require.True(t, ok)
	}
	require.Zero(t, l.Len())
}

func TestIdleClientsAreSwept(t *testing.T) {
	l := New(100, 10, time.Minute)
	start := time.Unix(1_700_000_000, 0)
	for i := 0; i < sweepEvery-1; i++ {
		l.Allow(fmt.Sprintf("client-%d", i), start)
	}
	require.Equal(t, sweepEvery-1, l.Len())

	l.Allow("late", start.Add(2*time.Minute))
	require.Equal(t, 1, l.Len())
}
