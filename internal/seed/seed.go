// Package seed loads fixture bundles from embedded JSON or an Excel workbook.
package seed

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/villagestay/villagestay/data"
	"github.com/villagestay/villagestay/internal/models"
)

// Embedded returns the fixtures compiled into the binary.
func Embedded() (models.Fixtures, error) {
	return FromJSON(data.FixturesJSON)
}

// FromJSON decodes and validates a fixture bundle. Unknown fields are rejected.
func FromJSON(b []byte) (models.Fixtures, error) {
	var f models.Fixtures
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return models.Fixtures{}, fmt.Errorf("failed to decode fixtures: %w", err)
	}
	if err := f.Validate(); err != nil {
		return models.Fixtures{}, fmt.Errorf("invalid fixtures: %w", err)
	}
	return f, nil
}
