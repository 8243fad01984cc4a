// internal/server/handlers/spring.go

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"basedsprings/internal/domain/spring"
)

// SpringHandler handles catalog-related HTTP requests
type SpringHandler struct {
	catalog spring.Catalog
}

// NewSpringHandler creates a new spring handler
func NewSpringHandler(catalog spring.Catalog) *SpringHandler {
	return &SpringHandler{
		catalog: catalog,
	}
}

// ListSprings returns the derived view for the query parameters
func (h *SpringHandler) ListSprings(w http.ResponseWriter, r *http.Request) {
	query := spring.Query{
		Search:  r.URL.Query().Get("q"),
		State:   r.URL.Query().Get("state"),
		Country: r.URL.Query().Get("country"),
		SortBy:  spring.SortByRating,
		Page:    1,
	}

	switch spring.SortKey(r.URL.Query().Get("sort")) {
	case spring.SortByName:
		query.SortBy = spring.SortByName
	case spring.SortByTemperature:
		query.SortBy = spring.SortByTemperature
	case spring.SortByRating, "":
		// Rating is the default sort.
	default:
		respondWithError(w, http.StatusBadRequest, "Invalid sort key", nil)
		return
	}

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid page number", err)
			return
		}
		query.Page = page
	}

	respondWithJSON(w, http.StatusOK, h.catalog.Find(query))
}

// GetSpring returns a specific spring by ID
func (h *SpringHandler) GetSpring(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "Missing spring ID", nil)
		return
	}

	s, err := h.catalog.Get(id)
	if err != nil {
		if errors.Is(err, spring.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Spring not found", nil)
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to get spring", err)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, s)
}

// GetStateStats returns per-state counts and average ratings for the home
// country
func (h *SpringHandler) GetStateStats(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"states": h.catalog.States(),
		"stats":  h.catalog.StateStats(),
	})
}

// GetCountryStats returns the recognized countries with per-country counts
func (h *SpringHandler) GetCountryStats(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"countries": h.catalog.Countries(),
		"counts":    h.catalog.CountryCounts(),
	})
}

// Helper for JSON responses
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper for error responses
func respondWithError(w http.ResponseWriter, code int, message string, err error) {
	response := map[string]string{"error": message}

	jsonResponse, _ := json.Marshal(response)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(jsonResponse)
}
