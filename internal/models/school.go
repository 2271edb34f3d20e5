package models

import (
	"errors"
	"fmt"
	"math"
)

// ErrMissingCoordinates is returned when a school record has no latitude or longitude.
var ErrMissingCoordinates = errors.New("record has no latitude or longitude")

// School is a single entry of the schools dataset.
// Latitude and Longitude are pointers so that an absent field can be told apart from zero.
type School struct {
	Name              string   `json:"name"`
	Website           string   `json:"website,omitempty"`
	Description       string   `json:"description,omitempty"`
	Levels            []string `json:"levels,omitempty"`
	Languages         []string `json:"languages,omitempty"`
	Format            string   `json:"format,omitempty"`
	FormatDescription string   `json:"format_description,omitempty"`
	Street            string   `json:"street,omitempty"`
	City              string   `json:"city,omitempty"`
	State             string   `json:"state,omitempty"`
	Zip               string   `json:"zip,omitempty"`
	Country           string   `json:"country,omitempty"`
	Latitude          *float64 `json:"latitude"`
	Longitude         *float64 `json:"longitude"`
}

// Location reports the coordinates of the school.
// It fails when either coordinate is absent or not a finite number.
func (s School) Location() (Coordinates, error) {
	if s.Latitude == nil || s.Longitude == nil {
		return Coordinates{}, ErrMissingCoordinates
	}

	lat, lon := *s.Latitude, *s.Longitude
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return Coordinates{}, fmt.Errorf("record has non-finite coordinates (%v, %v)", lat, lon)
	}

	return Coordinates{Latitude: lat, Longitude: lon}, nil
}
