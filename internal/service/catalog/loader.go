// internal/service/catalog/loader.go

package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"basedsprings/internal/domain/spring"
)

// Dataset is the static record collection plus the fixed list of recognized
// country names, supplied before the query engine initializes.
type Dataset struct {
	Countries []string        `json:"countries"`
	Springs   []spring.Spring `json:"springs"`
}

// ValidationError reports every integrity violation found in a dataset so a
// broken file is rejected with one structured error instead of being patched
// by hand afterwards.
type ValidationError struct {
	Violations []string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("dataset validation failed with %d violation(s): %s",
		len(e.Violations), strings.Join(e.Violations, "; "))
}

// Load reads and validates a dataset file. A dataset that fails validation
// is rejected outright.
func Load(path string) (*Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading dataset file: %w", err)
	}

	var ds Dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return nil, fmt.Errorf("error parsing dataset file: %w", err)
	}

	if err := Validate(&ds); err != nil {
		return nil, err
	}

	return &ds, nil
}

// Validate checks dataset integrity: unique identifiers, required fields,
// rating and coordinate ranges, and temperature bound ordering.
func Validate(ds *Dataset) error {
	var violations []string

	if len(ds.Countries) == 0 {
		violations = append(violations, "recognized country list is empty")
	}

	recognized := make(map[string]struct{}, len(ds.Countries))
	for _, c := range ds.Countries {
		recognized[c] = struct{}{}
	}

	seen := make(map[string]struct{}, len(ds.Springs))
	for i, s := range ds.Springs {
		where := fmt.Sprintf("record %d (%q)", i, s.ID)

		if s.ID == "" {
			violations = append(violations, fmt.Sprintf("record %d: missing id", i))
		} else if _, dup := seen[s.ID]; dup {
			violations = append(violations, fmt.Sprintf("%s: duplicate id", where))
		} else {
			seen[s.ID] = struct{}{}
		}

		if s.Name == "" {
			violations = append(violations, fmt.Sprintf("%s: missing name", where))
		}
		if s.City == "" {
			violations = append(violations, fmt.Sprintf("%s: missing city", where))
		}
		if s.State == "" {
			violations = append(violations, fmt.Sprintf("%s: missing state", where))
		}

		if s.Country == "" {
			violations = append(violations, fmt.Sprintf("%s: missing country", where))
		} else if _, ok := recognized[s.Country]; !ok {
			violations = append(violations, fmt.Sprintf("%s: unrecognized country %q", where, s.Country))
		}

		if s.Rating < 0 || s.Rating > 5 {
			violations = append(violations, fmt.Sprintf("%s: rating %.1f outside [0, 5]", where, s.Rating))
		}

		if s.Coordinates.Lat < -90 || s.Coordinates.Lat > 90 {
			violations = append(violations, fmt.Sprintf("%s: latitude %.4f outside [-90, 90]", where, s.Coordinates.Lat))
		}
		if s.Coordinates.Lng < -180 || s.Coordinates.Lng > 180 {
			violations = append(violations, fmt.Sprintf("%s: longitude %.4f outside [-180, 180]", where, s.Coordinates.Lng))
		}

		if s.Temperature != nil && s.Temperature.Min > s.Temperature.Max {
			violations = append(violations, fmt.Sprintf("%s: temperature min %.1f exceeds max %.1f",
				where, s.Temperature.Min, s.Temperature.Max))
		}
	}

	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}

	return nil
}
