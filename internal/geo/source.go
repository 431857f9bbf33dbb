// Package geo provides the device position capability used by "use my
// location" requests.
package geo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/lunar-insights/internal/common"
)

var (
	ErrUnavailable = errors.New("geolocation unavailable")
	ErrDenied      = errors.New("geolocation permission denied")
	ErrTimeout     = errors.New("geolocation timed out")
)

// Position is a latitude/longitude pair in decimal degrees.
type Position struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Source acquires the current device position.
type Source interface {
	CurrentPosition(ctx context.Context) (Position, error)
}

// Message converts a Source error to the text shown to the user.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrDenied):
		return "Location access denied"
	case errors.Is(err, ErrTimeout):
		return "Location request timed out"
	case errors.Is(err, ErrUnavailable):
		return "Geolocation not supported"
	default:
		return "Unable to determine location"
	}
}

// FixedSource reports a configured position.
type FixedSource struct {
	pos Position
}

func NewFixedSource(lat, lng float64) *FixedSource {
	return &FixedSource{pos: Position{Lat: lat, Lng: lng}}
}

func (s *FixedSource) CurrentPosition(ctx context.Context) (Position, error) {
	if err := ctx.Err(); err != nil {
		return Position{}, fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return s.pos, nil
}

// Unavailable is the Source used when no position capability is configured.
type Unavailable struct{}

func (Unavailable) CurrentPosition(context.Context) (Position, error) {
	return Position{}, ErrUnavailable
}

// AddressSource resolves a configured street address to coordinates through
// the Google geocoding API.
type AddressSource struct {
	address geocoder.Address
	lookup  func(geocoder.Address) (geocoder.Location, error)
}

// NewAddressSource creates an AddressSource for a free-form address.
func NewAddressSource(apiKey, address string) *AddressSource {
	// The geocoder package keeps its key in a package variable.
	geocoder.ApiKey = apiKey

	return &AddressSource{
		address: geocoder.Address{Street: address},
		lookup:  geocoder.Geocoding,
	}
}

func (s *AddressSource) CurrentPosition(ctx context.Context) (Position, error) {
	if strings.TrimSpace(s.address.Street) == "" {
		return Position{}, ErrUnavailable
	}

	type result struct {
		loc geocoder.Location
		err error
	}
	done := make(chan result, 1)
	go func() {
		loc, err := s.lookup(s.address)
		done <- result{loc: loc, err: err}
	}()

	select {
	case <-ctx.Done():
		return Position{}, fmt.Errorf("%w: %v", ErrTimeout, ctx.Err())
	case r := <-done:
		if r.err != nil {
			if common.HasAny(r.err.Error(), "denied", "invalid api key") {
				return Position{}, fmt.Errorf("%w: %v", ErrDenied, r.err)
			}
			return Position{}, fmt.Errorf("%w: %v", ErrUnavailable, r.err)
		}
		return Position{Lat: r.loc.Latitude, Lng: r.loc.Longitude}, nil
	}
}
