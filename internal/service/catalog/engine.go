// internal/service/catalog/engine.go

package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"basedsprings/internal/domain/spring"
)

// EngineConfig contains configuration for the query engine
type EngineConfig struct {
	HomeCountry string
	PageSize    int
}

// Engine implements the spring.Catalog interface over an in-memory record
// collection. The collection is loaded once and never mutated; every query
// derives a fresh view from it.
type Engine struct {
	springs   []spring.Spring
	byID      map[string]int
	countries []string
	config    EngineConfig
	collator  *collate.Collator

	// Aggregates computed once from the full collection, not the filtered
	// view. The collection is static, so these stay consistent by
	// construction.
	states        []string
	stateStats    []spring.StateStat
	countryCounts map[string]int
}

// NewEngine creates a new query engine over the loaded collection and the
// recognized country list.
func NewEngine(springs []spring.Spring, countries []string, config EngineConfig) *Engine {
	e := &Engine{
		springs:   springs,
		byID:      make(map[string]int, len(springs)),
		countries: countries,
		config:    config,
		collator:  collate.New(language.AmericanEnglish, collate.IgnoreCase),
	}

	for i, s := range springs {
		e.byID[s.ID] = i
	}

	e.computeAggregates()

	return e
}

// Find computes the derived view for a query
func (e *Engine) Find(q spring.Query) spring.View {
	filtered := e.filter(q)
	e.sortSprings(filtered, q.SortBy)

	pageSize := e.config.PageSize
	totalPages := (len(filtered) + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	// Clamp the page into [1, totalPages] so a shrinking filtered set can
	// never strand the caller on an empty page.
	page := q.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	return spring.View{
		Springs:       filtered[start:end],
		FilteredCount: len(filtered),
		TotalCount:    len(e.springs),
		Page:          page,
		TotalPages:    totalPages,
		PageSize:      pageSize,
		PageWindow:    pageWindow(page, totalPages),
	}
}

// Get returns a single spring by ID
func (e *Engine) Get(id string) (*spring.Spring, error) {
	i, ok := e.byID[id]
	if !ok {
		return nil, spring.ErrNotFound
	}

	s := e.springs[i]
	return &s, nil
}

// States returns the unique sorted list of home-country states
func (e *Engine) States() []string {
	out := make([]string, len(e.states))
	copy(out, e.states)
	return out
}

// StateStats returns per-state counts and average ratings, sorted by count
// descending
func (e *Engine) StateStats() []spring.StateStat {
	out := make([]spring.StateStat, len(e.stateStats))
	copy(out, e.stateStats)
	return out
}

// Countries returns the recognized country list
func (e *Engine) Countries() []string {
	out := make([]string, len(e.countries))
	copy(out, e.countries)
	return out
}

// CountryCounts returns the number of springs per recognized country
func (e *Engine) CountryCounts() map[string]int {
	out := make(map[string]int, len(e.countryCounts))
	for k, v := range e.countryCounts {
		out[k] = v
	}
	return out
}

// Size returns the total number of records in the collection
func (e *Engine) Size() int {
	return len(e.springs)
}

// filter applies the search term, state, country, and home-country default
// restrictions to the full collection.
func (e *Engine) filter(q spring.Query) []spring.Spring {
	term := strings.ToLower(strings.TrimSpace(q.Search))
	countrySelected := q.Country != "" && q.Country != spring.FilterAll

	var filtered []spring.Spring
	for _, s := range e.springs {
		if term != "" && !matchesSearch(s, term) {
			continue
		}

		if q.State != "" && q.State != spring.FilterAll && s.State != q.State {
			continue
		}

		if countrySelected && s.Country != q.Country {
			continue
		}

		// Domestic-only default: without an explicit country selection only
		// home-country springs are shown.
		if !countrySelected && s.Country != e.config.HomeCountry {
			continue
		}

		filtered = append(filtered, s)
	}

	return filtered
}

// matchesSearch reports whether the lowercased term occurs in the record's
// name, state, city, description, or any feature tag.
func matchesSearch(s spring.Spring, term string) bool {
	if strings.Contains(strings.ToLower(s.Name), term) ||
		strings.Contains(strings.ToLower(s.State), term) ||
		strings.Contains(strings.ToLower(s.City), term) ||
		strings.Contains(strings.ToLower(s.Description), term) {
		return true
	}

	for _, feature := range s.Features {
		if strings.Contains(strings.ToLower(feature), term) {
			return true
		}
	}

	return false
}

// sortSprings orders the filtered subset in place. All sorts are stable
// with respect to input order on ties.
func (e *Engine) sortSprings(springs []spring.Spring, key spring.SortKey) {
	switch key {
	case spring.SortByName:
		sort.SliceStable(springs, func(i, j int) bool {
			return e.collator.CompareString(springs[i].Name, springs[j].Name) < 0
		})
	case spring.SortByTemperature:
		// Records lacking temperature bounds carry midpoint 0 and sort
		// after everything with a positive midpoint.
		sort.SliceStable(springs, func(i, j int) bool {
			return springs[i].TemperatureMidpoint() > springs[j].TemperatureMidpoint()
		})
	default:
		// Rating descending is the default ordering.
		sort.SliceStable(springs, func(i, j int) bool {
			return springs[i].Rating > springs[j].Rating
		})
	}
}

// pageWindow returns a sliding window of at most five page numbers centered
// on the current page and clamped at both ends.
func pageWindow(page, totalPages int) []int {
	count := totalPages
	if count > 5 {
		count = 5
	}

	var first int
	switch {
	case totalPages <= 5:
		first = 1
	case page <= 3:
		first = 1
	case page >= totalPages-2:
		first = totalPages - 4
	default:
		first = page - 2
	}

	window := make([]int, count)
	for i := range window {
		window[i] = first + i
	}
	return window
}

// computeAggregates derives the filter-option statistics from the full
// collection.
func (e *Engine) computeAggregates() {
	stateSet := make(map[string]struct{})
	stateCounts := make(map[string]int)
	stateRatings := make(map[string]float64)
	e.countryCounts = make(map[string]int, len(e.countries))

	for _, c := range e.countries {
		e.countryCounts[c] = 0
	}

	for _, s := range e.springs {
		if _, ok := e.countryCounts[s.Country]; ok {
			e.countryCounts[s.Country]++
		}

		if s.Country != e.config.HomeCountry {
			continue
		}

		stateSet[s.State] = struct{}{}
		stateCounts[s.State]++
		stateRatings[s.State] += s.Rating
	}

	e.states = make([]string, 0, len(stateSet))
	for state := range stateSet {
		e.states = append(e.states, state)
	}
	sort.Strings(e.states)

	e.stateStats = make([]spring.StateStat, 0, len(e.states))
	for _, state := range e.states {
		e.stateStats = append(e.stateStats, spring.StateStat{
			State:     state,
			Count:     stateCounts[state],
			AvgRating: stateRatings[state] / float64(stateCounts[state]),
		})
	}

	sort.SliceStable(e.stateStats, func(i, j int) bool {
		return e.stateStats[i].Count > e.stateStats[j].Count
	})
}
