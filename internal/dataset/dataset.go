// Package dataset loads the read-only school collection served by the processlargedata function.
package dataset

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/UnknownOlympus/functions/internal/models"
)

//go:embed schools.json
var embedded []byte

// ErrEmpty is returned when a dataset document contains no schools.
var ErrEmpty = errors.New("dataset contains no schools")

type document struct {
	Schools []models.School `json:"schools"`
}

// Schools is an immutable handle to a loaded school collection.
type Schools struct {
	items []models.School
}

// Load reads the dataset at path. An empty path loads the sample dataset bundled with the binary.
func Load(path string) (*Schools, error) {
	if path == "" {
		return Parse(embedded)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %q: %w", path, err)
	}

	return Parse(raw)
}

// Parse decodes a {"schools": [...]} document.
func Parse(raw []byte) (*Schools, error) {
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode dataset: %w", err)
	}

	if len(doc.Schools) == 0 {
		return nil, ErrEmpty
	}

	return &Schools{items: doc.Schools}, nil
}

// All returns the schools in dataset order. The slice is shared; callers must not modify it.
func (s *Schools) All() []models.School {
	return s.items
}

// Len returns the number of schools.
func (s *Schools) Len() int {
	return len(s.items)
}
