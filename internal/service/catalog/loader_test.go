// internal/service/catalog/loader_test.go

package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"basedsprings/internal/domain/spring"
)

func writeDataset(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "springs.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadValidDataset(t *testing.T) {
	t.Parallel()

	path := writeDataset(t, `{
		"countries": ["United States"],
		"springs": [
			{
				"id": "one",
				"name": "One Spring",
				"city": "Bend",
				"state": "Oregon",
				"country": "United States",
				"coordinates": {"lat": 44.0, "lng": -121.3},
				"rating": 4.2,
				"temperature": {"min": 100, "max": 104},
				"description": "A pool.",
				"features": ["primitive"],
				"accessibility": {"difficulty": "easy", "fee": "free", "seasonal": false}
			}
		]
	}`)

	ds, err := Load(path)
	require.NoError(t, err)
	require.Len(t, ds.Springs, 1)
	assert.Equal(t, "one", ds.Springs[0].ID)
	assert.Equal(t, []string{"United States"}, ds.Countries)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestLoadMalformedJSON(t *testing.T) {
	t.Parallel()

	path := writeDataset(t, `{"countries": [`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateCollectsAllViolations(t *testing.T) {
	t.Parallel()

	ds := &Dataset{
		Countries: []string{"United States"},
		Springs: []spring.Spring{
			{
				// Missing name, city, state.
				ID:      "bad",
				Country: "United States",
				Rating:  6.5,
			},
			{
				ID:          "bad",
				Name:        "Duplicate",
				City:        "Somewhere",
				State:       "Nevada",
				Country:     "Atlantis",
				Coordinates: spring.Coordinates{Lat: 95, Lng: -200},
				Temperature: &spring.Temperature{Min: 110, Max: 100},
			},
		},
	}

	err := Validate(ds)
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	assert.Len(t, verr.Violations, 9)
	assert.Contains(t, err.Error(), "duplicate id")
	assert.Contains(t, err.Error(), "unrecognized country")
}

func TestValidateEmptyCountryList(t *testing.T) {
	t.Parallel()

	err := Validate(&Dataset{})
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"recognized country list is empty"}, verr.Violations)
}
