// internal/server/handlers/share.go

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"basedsprings/internal/adapter/host"
	"basedsprings/internal/domain/spring"
	"basedsprings/internal/domain/wallet"
)

// ShareHandler handles compose/share HTTP requests. When the host
// capability is absent or the user cancels the in-app compose, it falls
// back to a compose-intent URL plus the plain share text for clipboard
// copy.
type ShareHandler struct {
	provider wallet.Provider
	catalog  spring.Catalog
}

// NewShareHandler creates a new share handler. A nil provider means the
// host capability is unavailable and every share uses the fallback.
func NewShareHandler(provider wallet.Provider, catalog spring.Catalog) *ShareHandler {
	return &ShareHandler{
		provider: provider,
		catalog:  catalog,
	}
}

type shareResponse struct {
	Status    string `json:"status"`
	CastID    string `json:"cast_id,omitempty"`
	IntentURL string `json:"intent_url,omitempty"`
	Text      string `json:"text,omitempty"`
}

// Share composes a message for a spring through the host capability
func (h *ShareHandler) Share(w http.ResponseWriter, r *http.Request) {
	springID := chi.URLParam(r, "id")
	if springID == "" {
		respondWithError(w, http.StatusBadRequest, "Missing spring ID", nil)
		return
	}

	type shareRequest struct {
		Text   string   `json:"text"`
		Embeds []string `json:"embeds"`
	}

	var req shareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	s, err := h.catalog.Get(springID)
	if err != nil {
		if errors.Is(err, spring.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Spring not found", nil)
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to get spring", err)
		}
		return
	}

	text := req.Text
	if text == "" {
		text = host.SpringShareText(*s)
	}
	if s.Website != "" && len(req.Embeds) < host.MaxEmbeds {
		req.Embeds = append(req.Embeds, s.Website)
	}

	if h.provider == nil {
		respondWithJSON(w, http.StatusOK, shareResponse{
			Status:    "fallback",
			IntentURL: host.ComposeIntentURL(text, req.Embeds),
			Text:      text,
		})
		return
	}

	castID, err := h.provider.Compose(r.Context(), text, req.Embeds)
	if err != nil {
		if errors.Is(err, wallet.ErrCancelled) {
			// User backed out: no ledger mutation, offer the intent URL.
			respondWithJSON(w, http.StatusOK, shareResponse{
				Status:    "cancelled",
				IntentURL: host.ComposeIntentURL(text, req.Embeds),
				Text:      text,
			})
			return
		}
		respondWithError(w, http.StatusBadGateway, "Failed to compose message", err)
		return
	}

	respondWithJSON(w, http.StatusOK, shareResponse{
		Status: "posted",
		CastID: castID,
	})
}
