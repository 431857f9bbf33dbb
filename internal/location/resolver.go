// Package location turns "use my location", zip searches and refreshes into
// oracle fetches whose results are applied in request-issue order.
package location

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/i474232898/lunar-insights/internal/geo"
	"github.com/i474232898/lunar-insights/internal/store"
	"github.com/i474232898/lunar-insights/internal/weather"
)

// FetchFailedMessage is the single user-facing text for every oracle failure.
const FetchFailedMessage = "Failed to fetch data. Please try again later."

// minZipLength is the trimmed length below which zip input is ignored.
const minZipLength = 5

// Phase is the combined resolver and store state.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseLocating Phase = "locating"
	PhaseFetching Phase = "fetching"
	PhaseSuccess  Phase = "success"
	PhaseFailed   Phase = "failed"
)

// GeolocationState records which location is authoritative. At most one of
// Lat/Lng and Zip is set.
type GeolocationState struct {
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`
	Zip     *string  `json:"zip"`
	Error   *string  `json:"error"`
	Loading bool     `json:"loading"`
}

func (g GeolocationState) clone() GeolocationState {
	out := GeolocationState{Loading: g.Loading}
	if g.Lat != nil {
		out.Lat = ptr(*g.Lat)
	}
	if g.Lng != nil {
		out.Lng = ptr(*g.Lng)
	}
	if g.Zip != nil {
		out.Zip = ptr(*g.Zip)
	}
	if g.Error != nil {
		out.Error = ptr(*g.Error)
	}
	return out
}

func ptr[T any](v T) *T { return &v }

// SnapshotStore is the sequence-gated sink for fetch results.
type SnapshotStore interface {
	BeginFetch(seq uint64) bool
	CompleteFetch(seq uint64, snapshot weather.WeatherSnapshot) bool
	FailFetch(seq uint64, message string) bool
	Current() store.FetchStatus
}

// Resolver owns the GeolocationState and issues fetches. Each fetch gets the
// next sequence number; the store keeps only the newest issued result.
// Superseded fetches are not aborted, their results are dropped on arrival.
type Resolver struct {
	mu  sync.Mutex
	geo GeolocationState
	seq uint64

	source geo.Source
	oracle weather.Oracle
	store  SnapshotStore

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewResolver(source geo.Source, oracle weather.Oracle, st SnapshotStore) *Resolver {
	if source == nil {
		source = geo.Unavailable{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Resolver{
		source: source,
		oracle: oracle,
		store:  st,
		ctx:    ctx,
		cancel: cancel,
	}
}

// ResolveFromDevice acquires the device position and, on success, fetches
// data for it. A failure is recorded in the GeolocationState and returned;
// no fetch is issued and nothing is retried.
func (r *Resolver) ResolveFromDevice(ctx context.Context) (uint64, error) {
	r.mu.Lock()
	r.geo.Loading = true
	r.geo.Error = nil
	r.mu.Unlock()

	pos, err := r.source.CurrentPosition(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.geo.Loading = false
	if err != nil {
		r.geo.Error = ptr(geo.Message(err))
		log.Printf("INFO: device location failed: %v", err)
		return 0, err
	}

	r.geo.Lat = ptr(pos.Lat)
	r.geo.Lng = ptr(pos.Lng)
	r.geo.Zip = nil
	return r.issueLocked(weather.NewCoordsQuery(pos.Lat, pos.Lng)), nil
}

// ResolveFromZip fetches data for a postal code. Input shorter than five
// characters after trimming is ignored and returns (0, nil). Longer input
// that does not start with five digits returns weather.ErrInvalidZip and
// leaves all state untouched.
func (r *Resolver) ResolveFromZip(code string) (uint64, error) {
	code = strings.TrimSpace(code)
	if utf8.RuneCountInString(code) < minZipLength {
		return 0, nil
	}

	q, err := weather.NewZipQuery(code)
	if err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.geo.Zip = ptr(code)
	r.geo.Lat = nil
	r.geo.Lng = nil
	r.geo.Error = nil
	return r.issueLocked(q), nil
}

// Refresh re-fetches the authoritative location. It reports false when no
// location has been resolved yet.
func (r *Resolver) Refresh() (uint64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case r.geo.Zip != nil:
		q, err := weather.NewZipQuery(*r.geo.Zip)
		if err != nil {
			return 0, false
		}
		return r.issueLocked(q), true
	case r.geo.Lat != nil && r.geo.Lng != nil:
		return r.issueLocked(weather.NewCoordsQuery(*r.geo.Lat, *r.geo.Lng)), true
	default:
		return 0, false
	}
}

// issueLocked assigns the next sequence number and starts the fetch. r.mu
// must be held so sequence numbers reach the store in order.
func (r *Resolver) issueLocked(q weather.LocationQuery) uint64 {
	r.seq++
	seq := r.seq
	r.store.BeginFetch(seq)

	r.wg.Add(1)
	go r.run(seq, q)
	return seq
}

func (r *Resolver) run(seq uint64, q weather.LocationQuery) {
	defer r.wg.Done()

	id := uuid.NewString()
	log.Printf("DEBUG: fetch %s seq=%d for %s via %s", id, seq, q.Describe(), r.oracle.Name())

	snap, err := r.oracle.Fetch(r.ctx, q)
	if err != nil {
		switch {
		case errors.Is(err, weather.ErrOracleResponseInvalid):
			log.Printf("ERROR: fetch %s seq=%d: invalid oracle response: %v", id, seq, err)
		case errors.Is(err, weather.ErrOracleRequestFailed):
			log.Printf("ERROR: fetch %s seq=%d: oracle request failed: %v", id, seq, err)
		default:
			log.Printf("ERROR: fetch %s seq=%d: %v", id, seq, err)
		}
		if !r.store.FailFetch(seq, FetchFailedMessage) {
			log.Printf("DEBUG: fetch %s seq=%d superseded; failure discarded", id, seq)
		}
		return
	}

	if !r.store.CompleteFetch(seq, snap) {
		log.Printf("DEBUG: fetch %s seq=%d superseded; result discarded", id, seq)
		return
	}
	log.Printf("INFO: fetch %s seq=%d loaded %s", id, seq, snap.LocationName)
}

// State returns a copy of the GeolocationState.
func (r *Resolver) State() GeolocationState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.geo.clone()
}

// Phase combines the location and fetch state into one value.
func (r *Resolver) Phase() Phase {
	r.mu.Lock()
	locating := r.geo.Loading
	r.mu.Unlock()

	if locating {
		return PhaseLocating
	}
	switch r.store.Current().State {
	case store.StateLoading:
		return PhaseFetching
	case store.StateLoaded:
		return PhaseSuccess
	case store.StateFailed:
		return PhaseFailed
	default:
		return PhaseIdle
	}
}

// Wait blocks until every issued fetch has resolved.
func (r *Resolver) Wait() {
	r.wg.Wait()
}

// Shutdown cancels in-flight fetches and waits for them until ctx expires.
func (r *Resolver) Shutdown(ctx context.Context) error {
	r.cancel()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
