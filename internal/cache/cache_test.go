package cache

import (
	"testing"
	"time"

	"github.com/banwardhq/banward-server/internal/ban"
	"github.com/banwardhq/banward-server/internal/model"
	"github.com/stretchr/testify/require"
)

func newTestSnapshot() *ban.Snapshot {
	return ban.NewSnapshot([]model.Ban{
		{ID: 1, Mode: "ip", Item: "10.0.0.1"},
		{ID: 2, Mode: "email", Item: "x@y.example"},
	})
}

func TestCacheRoundTrip(t *testing.T) {
	banCache, err := New(time.Hour)
	require.NoError(t, err)
	defer banCache.Close()

	_, ok := banCache.Get()
	require.False(t, ok)

	snapshot := newTestSnapshot()
	banCache.Put(snapshot)

	got, ok := banCache.Get()
	require.True(t, ok)
	require.Same(t, snapshot, got)
	require.Equal(t, []string{"ip", "email"}, got.Modes())
}

func TestCacheDestroyIsImmediatelyVisible(t *testing.T) {
	banCache, err := New(time.Hour)
	require.NoError(t, err)
	defer banCache.Close()

	banCache.Put(newTestSnapshot())
	banCache.Destroy()

	_, ok := banCache.Get()
	require.False(t, ok)
}

func TestCacheExpiresByTTL(t *testing.T) {
	banCache, err := New(10 * time.Millisecond)
	require.NoError(t, err)
	defer banCache.Close()

	banCache.Put(newTestSnapshot())

	require.Eventually(t, func() bool {
		_, ok := banCache.Get()
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestCachePutReplaces(t *testing.T) {
	banCache, err := New(time.Hour)
	require.NoError(t, err)
	defer banCache.Close()

	banCache.Put(newTestSnapshot())

	replacement := ban.NewSnapshot(nil)
	banCache.Put(replacement)

	got, ok := banCache.Get()
	require.True(t, ok)
	require.Same(t, replacement, got)
	require.Zero(t, got.Len())
}
