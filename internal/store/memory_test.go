package store

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/lunar-insights/internal/weather"
)

func snapshot(name string, ts time.Time) weather.WeatherSnapshot {
	return weather.WeatherSnapshot{LocationName: name, Timestamp: ts}
}

func TestMemoryStoreStartsIdle(t *testing.T) {
	s := NewMemoryStore(10, 0)

	assert.Equal(t, FetchStatus{State: StateIdle}, s.Current())
	_, err := s.GetLatest()
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = s.History()
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMemoryStoreLifecycle(t *testing.T) {
	s := NewMemoryStore(10, 0)
	now := time.Now()

	require.True(t, s.BeginFetch(1))
	assert.Equal(t, StateLoading, s.Current().State)

	require.True(t, s.CompleteFetch(1, snapshot("first", now)))
	st := s.Current()
	assert.Equal(t, StateLoaded, st.State)
	require.NotNil(t, st.Snapshot)
	assert.Equal(t, "first", st.Snapshot.LocationName)

	require.True(t, s.BeginFetch(2))
	require.True(t, s.FailFetch(2, "boom"))
	st = s.Current()
	assert.Equal(t, FetchStatus{State: StateFailed, Seq: 2, Message: "boom"}, st)

	latest, err := s.GetLatest()
	require.NoError(t, err)
	assert.Equal(t, "first", latest.LocationName, "failed fetch leaves the last snapshot retrievable")
}

func TestMemoryStoreDiscardsOutOfOrderCompletion(t *testing.T) {
	s := NewMemoryStore(10, 0)
	now := time.Now()

	require.True(t, s.BeginFetch(1))
	require.True(t, s.BeginFetch(2))

	assert.True(t, s.CompleteFetch(2, snapshot("second", now)))
	assert.False(t, s.CompleteFetch(1, snapshot("first", now)))
	assert.False(t, s.FailFetch(1, "late failure"))

	st := s.Current()
	assert.Equal(t, uint64(2), st.Seq)
	assert.Equal(t, "second", st.Snapshot.LocationName)

	hist, err := s.History()
	require.NoError(t, err)
	assert.Len(t, hist, 1)
}

func TestMemoryStoreDiscardsSupersededResultWhileNewerLoads(t *testing.T) {
	s := NewMemoryStore(10, 0)

	require.True(t, s.BeginFetch(1))
	require.True(t, s.BeginFetch(2))

	assert.False(t, s.CompleteFetch(1, snapshot("first", time.Now())))
	assert.Equal(t, FetchStatus{State: StateLoading, Seq: 2}, s.Current())
}

func TestMemoryStoreBeginGuard(t *testing.T) {
	s := NewMemoryStore(10, 0)

	require.True(t, s.BeginFetch(3))
	assert.False(t, s.BeginFetch(2), "older request cannot take over loading")
	assert.True(t, s.BeginFetch(3), "same request is idempotent")

	require.True(t, s.CompleteFetch(3, snapshot("third", time.Now())))
	assert.False(t, s.BeginFetch(3), "resolved request cannot go back to loading")
	assert.Equal(t, StateLoaded, s.Current().State)
}

func TestMemoryStoreStatusIsReplacedWholesale(t *testing.T) {
	s := NewMemoryStore(10, 0)

	require.True(t, s.BeginFetch(1))
	require.True(t, s.CompleteFetch(1, snapshot("first", time.Now())))
	before := s.Current()

	require.True(t, s.BeginFetch(2))
	require.True(t, s.CompleteFetch(2, snapshot("second", time.Now())))

	assert.Equal(t, "first", before.Snapshot.LocationName, "earlier readers keep their own copy")
}

func TestMemoryStoreRetentionByCount(t *testing.T) {
	s := NewMemoryStore(2, 0)
	now := time.Now()

	for i, name := range []string{"a", "b", "c"} {
		seq := uint64(i + 1)
		require.True(t, s.BeginFetch(seq))
		require.True(t, s.CompleteFetch(seq, snapshot(name, now)))
	}

	hist, err := s.History()
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, "b", hist[0].LocationName)
	assert.Equal(t, "c", hist[1].LocationName)
}

func TestMemoryStoreRetentionByAge(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore(0, time.Hour)
	s.now = func() time.Time { return now }

	require.True(t, s.CompleteFetch(1, snapshot("old", now.Add(-3*time.Hour))))
	require.True(t, s.CompleteFetch(2, snapshot("recent", now.Add(-10*time.Minute))))
	require.True(t, s.CompleteFetch(3, snapshot("fresh", now)))

	hist, err := s.History()
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, "recent", hist[0].LocationName)

	s2 := NewMemoryStore(0, time.Hour)
	s2.now = func() time.Time { return now }
	require.True(t, s2.CompleteFetch(1, snapshot("stale", now.Add(-5*time.Hour))))
	hist, err = s2.History()
	require.NoError(t, err)
	assert.Len(t, hist, 1, "newest snapshot is always kept")
}
