package spring

import (
	"errors"
)

// ErrNotFound is returned when a spring ID is not present in the catalog.
var ErrNotFound = errors.New("spring not found")

// Coordinates holds a geographic point in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Temperature holds the reported water temperature range in degrees Fahrenheit.
type Temperature struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Accessibility describes how hard a spring is to reach.
type Accessibility struct {
	Difficulty string `json:"difficulty"`
	Fee        string `json:"fee"`
	Seasonal   bool   `json:"seasonal"`
}

// Spring represents one catalog entry describing a single hot spring
// location and its attributes. Records are immutable once loaded.
type Spring struct {
	ID                   string          `json:"id"`
	Name                 string          `json:"name"`
	City                 string          `json:"city"`
	State                string          `json:"state"`
	Country              string          `json:"country"`
	Coordinates          Coordinates     `json:"coordinates"`
	Rating               float64         `json:"rating"`
	Temperature          *Temperature    `json:"temperature,omitempty"`
	Description          string          `json:"description"`
	DetailedDescription  string          `json:"detailed_description,omitempty"`
	Features             []string        `json:"features"`
	Accessibility        Accessibility   `json:"accessibility"`
	Facilities           map[string]bool `json:"facilities"`
	Elevation            int             `json:"elevation,omitempty"`
	Minerals             []string        `json:"minerals,omitempty"`
	Website              string          `json:"website,omitempty"`
	Address              string          `json:"address,omitempty"`
	Location             string          `json:"location,omitempty"`
	Directions           string          `json:"directions,omitempty"`
	AccessibilityDetails string          `json:"accessibility_details,omitempty"`
	HotSpringDetails     string          `json:"hot_spring_details,omitempty"`
	VisitorTips          string          `json:"visitor_tips,omitempty"`
	NearbyAttractions    []string        `json:"nearby_attractions,omitempty"`
	Image                string          `json:"image,omitempty"`
	ClothingOptional     bool            `json:"clothing_optional,omitempty"`
}

// TemperatureMidpoint returns the average of the temperature bounds, or 0
// when either bound is missing. Records without temperature data therefore
// sort as midpoint 0 under the temperature sort key.
func (s Spring) TemperatureMidpoint() float64 {
	if s.Temperature == nil {
		return 0
	}
	return (s.Temperature.Min + s.Temperature.Max) / 2
}
