// internal/domain/spring/catalog.go

package spring

// SortKey selects the ordering applied to a filtered result set.
type SortKey string

const (
	SortByName        SortKey = "name"
	SortByRating      SortKey = "rating"
	SortByTemperature SortKey = "temperature"
)

// FilterAll is the sentinel value meaning "no restriction" for the state
// and country filters.
const FilterAll = "all"

// Query holds the user-controlled parameters driving the visible subset.
// The caller owns the query state; changing search or a filter is expected
// to reset Page to 1, and the catalog clamps out-of-range pages regardless.
type Query struct {
	Search  string
	State   string
	Country string
	SortBy  SortKey
	Page    int
}

// View is the derived result set for a query: the page slice plus the
// pagination metadata needed to render controls. It is recomputed from the
// collection and query on every call and never persisted.
type View struct {
	Springs       []Spring `json:"springs"`
	FilteredCount int      `json:"filtered_count"`
	TotalCount    int      `json:"total_count"`
	Page          int      `json:"page"`
	TotalPages    int      `json:"total_pages"`
	PageSize      int      `json:"page_size"`
	PageWindow    []int    `json:"page_window"`
}

// StateStat aggregates the springs of one home-country state.
type StateStat struct {
	State     string  `json:"state"`
	Count     int     `json:"count"`
	AvgRating float64 `json:"avg_rating"`
}

// Catalog defines the interface for querying the spring collection.
type Catalog interface {
	// Find computes the derived view for a query. It is a pure function of
	// the collection and the query and never mutates the collection.
	Find(q Query) View

	// Get returns a single spring by ID, or ErrNotFound.
	Get(id string) (*Spring, error)

	// States returns the unique sorted list of home-country states.
	States() []string

	// StateStats returns per-state counts and average ratings for the home
	// country, sorted by count descending.
	StateStats() []StateStat

	// Countries returns the recognized country list supplied at load time.
	Countries() []string

	// CountryCounts returns the number of springs per recognized country.
	CountryCounts() map[string]int

	// Size returns the total number of records in the collection.
	Size() int
}
