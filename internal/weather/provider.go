package weather

import (
	"context"
	"errors"
)

var (
	// ErrOracleRequestFailed covers transport failures and non-success responses.
	ErrOracleRequestFailed = errors.New("oracle request failed")
	// ErrOracleResponseInvalid covers empty, unparsable or incomplete oracle answers.
	ErrOracleResponseInvalid = errors.New("oracle response invalid")
	// ErrInvalidZip is returned for postal codes that do not start with five digits.
	ErrInvalidZip = errors.New("invalid zip code")
)

// Oracle abstracts the external data source that answers a location query with
// a complete weather and astronomy snapshot.
//
// Implementations must wrap failures in ErrOracleRequestFailed or
// ErrOracleResponseInvalid so callers can tell them apart in logs.
type Oracle interface {
	Name() string
	Fetch(ctx context.Context, q LocationQuery) (WeatherSnapshot, error)
}
