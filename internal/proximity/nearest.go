// Package proximity ranks located records by their distance from an origin.
package proximity

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"runtime"
	"slices"

	"github.com/UnknownOlympus/functions/internal/models"
	"golang.org/x/sync/errgroup"
)

// DefaultLimit is the number of results returned when the caller does not ask for a specific count.
const DefaultLimit = 5

// parallelThreshold is the input size from which distances are computed concurrently.
const parallelThreshold = 2048

var (
	// ErrInvalidArgument is returned when the origin or the limit is unusable.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrMalformedRecord is returned when a record cannot report its coordinates.
	ErrMalformedRecord = errors.New("malformed record")
)

// Locatable is implemented by records that carry a coordinate.
type Locatable interface {
	Location() (models.Coordinates, error)
}

// Origin is the reference point distances are measured from.
// A nil field means the coordinate was not supplied.
type Origin struct {
	Latitude  *float64
	Longitude *float64
}

// NewOrigin builds an Origin with both coordinates present.
func NewOrigin(latitude, longitude float64) Origin {
	return Origin{Latitude: &latitude, Longitude: &longitude}
}

// Coordinates returns the origin as a coordinate pair, or ErrInvalidArgument if either part is missing.
func (o Origin) Coordinates() (models.Coordinates, error) {
	if o.Latitude == nil || o.Longitude == nil {
		return models.Coordinates{}, fmt.Errorf("%w: please provide latitude and longitude", ErrInvalidArgument)
	}

	return models.Coordinates{Latitude: *o.Latitude, Longitude: *o.Longitude}, nil
}

// Scored is a record together with its distance from the origin, in statute miles.
type Scored[T Locatable] struct {
	Record   T
	Distance float64
}

// MarshalJSON flattens the record's own fields and adds a "distance" field next to them.
func (s Scored[T]) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal(s.Record)
	if err != nil {
		return nil, fmt.Errorf("failed to encode scored record: %w", err)
	}

	fields := make(map[string]json.RawMessage)
	if err = json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("scored record must encode as a JSON object: %w", err)
	}

	distance, err := json.Marshal(s.Distance)
	if err != nil {
		return nil, fmt.Errorf("failed to encode distance: %w", err)
	}
	fields["distance"] = distance

	return json.Marshal(fields)
}

// Nearest scores every record by its distance from origin, sorts them ascending
// and returns at most limit of them. Records at an equal distance keep their input order.
//
// The whole call fails with ErrMalformedRecord if any record cannot report its coordinates.
// The input slice is never modified.
func Nearest[T Locatable](origin Origin, records []T, limit int) ([]Scored[T], error) {
	from, err := origin.Coordinates()
	if err != nil {
		return nil, err
	}

	if limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative, got %d", ErrInvalidArgument, limit)
	}

	scored := make([]Scored[T], len(records))
	if len(records) >= parallelThreshold {
		err = scoreParallel(from, records, scored)
	} else {
		err = scoreRange(from, records, scored, 0, len(records))
	}
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(scored, func(a, b Scored[T]) int {
		return cmp.Compare(a.Distance, b.Distance)
	})

	return scored[:min(limit, len(scored))], nil
}

func scoreRange[T Locatable](from models.Coordinates, records []T, out []Scored[T], start, end int) error {
	for idx := start; idx < end; idx++ {
		to, err := records[idx].Location()
		if err != nil {
			return fmt.Errorf("%w at index %d: %w", ErrMalformedRecord, idx, err)
		}
		out[idx] = Scored[T]{Record: records[idx], Distance: Distance(from, to)}
	}

	return nil
}

// scoreParallel splits records into one chunk per available CPU. Every chunk writes
// only its own slots of out, so the result matches the sequential path.
func scoreParallel[T Locatable](from models.Coordinates, records []T, out []Scored[T]) error {
	workers := runtime.GOMAXPROCS(0)
	total := len(records)
	chunkSize := (total + workers - 1) / workers

	var group errgroup.Group
	group.SetLimit(workers)

	for start := 0; start < total; start += chunkSize {
		end := min(start+chunkSize, total)
		group.Go(func() error {
			return scoreRange(from, records, out, start, end)
		})
	}

	return group.Wait()
}
