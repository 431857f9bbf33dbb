package store

import (
	"errors"
	"sync"
	"time"

	"github.com/i474232898/lunar-insights/internal/weather"
)

var (
	// ErrNotFound is returned when no snapshot has been loaded yet.
	ErrNotFound = errors.New("no weather snapshot loaded")
)

// State names the variant held by a FetchStatus.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateLoaded  State = "loaded"
	StateFailed  State = "failed"
)

// FetchStatus is the tagged result of the latest fetch. Snapshot is set only
// for StateLoaded and Message only for StateFailed.
type FetchStatus struct {
	State    State                    `json:"state"`
	Seq      uint64                   `json:"seq"`
	Snapshot *weather.WeatherSnapshot `json:"snapshot,omitempty"`
	Message  string                   `json:"message,omitempty"`
}

// MemoryStore holds the current FetchStatus and a bounded history of loaded
// snapshots. Results are gated by request sequence number: once seq N has
// begun or been applied, results for any seq below N are discarded.
type MemoryStore struct {
	mu sync.RWMutex

	status  FetchStatus
	begun   uint64 // highest seq passed to BeginFetch
	applied uint64 // highest seq completed or failed

	history []weather.WeatherSnapshot

	// retention configuration
	maxHistory int           // max number of snapshots kept
	maxAge     time.Duration // optional max age for snapshots

	now func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		status:     FetchStatus{State: StateIdle},
		maxHistory: maxHistory,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// BeginFetch marks seq as loading. It reports false and changes nothing when
// a newer request is already loading or resolved.
func (s *MemoryStore) BeginFetch(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq < s.begun || seq <= s.applied {
		return false
	}
	s.begun = seq
	s.status = FetchStatus{State: StateLoading, Seq: seq}
	return true
}

// CompleteFetch stores snapshot as the result of seq unless it was superseded.
func (s *MemoryStore) CompleteFetch(seq uint64, snapshot weather.WeatherSnapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.acceptLocked(seq) {
		return false
	}
	snap := snapshot
	s.status = FetchStatus{State: StateLoaded, Seq: seq, Snapshot: &snap}
	s.appendLocked(snapshot)
	return true
}

// FailFetch records message as the result of seq unless it was superseded.
func (s *MemoryStore) FailFetch(seq uint64, message string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.acceptLocked(seq) {
		return false
	}
	s.status = FetchStatus{State: StateFailed, Seq: seq, Message: message}
	return true
}

func (s *MemoryStore) acceptLocked(seq uint64) bool {
	if seq < s.begun || seq < s.applied {
		return false
	}
	s.applied = seq
	s.begun = seq
	return true
}

// Current returns the FetchStatus as of now. It never waits on a fetch.
func (s *MemoryStore) Current() FetchStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *MemoryStore) appendLocked(snapshot weather.WeatherSnapshot) {
	s.history = append(s.history, snapshot)

	// Enforce retention by count.
	if s.maxHistory > 0 && len(s.history) > s.maxHistory {
		over := len(s.history) - s.maxHistory
		s.history = append([]weather.WeatherSnapshot(nil), s.history[over:]...)
	}

	// Enforce retention by age, always keeping the newest snapshot.
	if s.maxAge > 0 {
		cutoff := s.now().Add(-s.maxAge)
		i := 0
		for ; i < len(s.history)-1; i++ {
			if !s.history[i].Timestamp.Before(cutoff) {
				break
			}
		}
		if i > 0 {
			s.history = append([]weather.WeatherSnapshot(nil), s.history[i:]...)
		}
	}
}

// GetLatest returns the most recently loaded snapshot, which stays available
// while a newer fetch is loading or after it failed.
func (s *MemoryStore) GetLatest() (weather.WeatherSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.history) == 0 {
		return weather.WeatherSnapshot{}, ErrNotFound
	}
	return s.history[len(s.history)-1], nil
}

// History returns the retained snapshots, oldest first.
func (s *MemoryStore) History() ([]weather.WeatherSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.history) == 0 {
		return nil, ErrNotFound
	}
	out := make([]weather.WeatherSnapshot, len(s.history))
	copy(out, s.history)
	return out, nil
}
