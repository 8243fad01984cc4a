// internal/server/handlers/engagement.go

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"basedsprings/internal/domain/engagement"
)

// EngagementHandler handles check-in, tip, nomination, quest, and
// leaderboard HTTP requests
type EngagementHandler struct {
	service engagement.Service
}

// NewEngagementHandler creates a new engagement handler
func NewEngagementHandler(service engagement.Service) *EngagementHandler {
	return &EngagementHandler{
		service: service,
	}
}

// CheckIn records a visit to a spring
func (h *EngagementHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	springID := chi.URLParam(r, "id")
	if springID == "" {
		respondWithError(w, http.StatusBadRequest, "Missing spring ID", nil)
		return
	}

	type checkInRequest struct {
		UserID   string `json:"user_id"`
		HasMedia bool   `json:"has_media"`
	}

	var req checkInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if req.UserID == "" {
		respondWithError(w, http.StatusBadRequest, "Missing user ID", nil)
		return
	}

	outcome := h.service.CheckIn(r.Context(), req.UserID, springID, req.HasMedia)
	respondWithOutcome(w, outcome)
}

// GetCheckInStats returns the check-in counters for a spring
func (h *EngagementHandler) GetCheckInStats(w http.ResponseWriter, r *http.Request) {
	springID := chi.URLParam(r, "id")
	if springID == "" {
		respondWithError(w, http.StatusBadRequest, "Missing spring ID", nil)
		return
	}

	respondWithJSON(w, http.StatusOK, h.service.CheckInStats(springID))
}

// CreateTip records a review for a spring
func (h *EngagementHandler) CreateTip(w http.ResponseWriter, r *http.Request) {
	springID := chi.URLParam(r, "id")
	if springID == "" {
		respondWithError(w, http.StatusBadRequest, "Missing spring ID", nil)
		return
	}

	type tipRequest struct {
		UserID  string `json:"user_id"`
		Rating  int    `json:"rating"`
		Message string `json:"message"`
	}

	var req tipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if req.UserID == "" {
		respondWithError(w, http.StatusBadRequest, "Missing user ID", nil)
		return
	}

	outcome := h.service.SubmitTip(r.Context(), req.UserID, springID, req.Rating, req.Message)
	respondWithOutcome(w, outcome)
}

// ListTips returns the tips recorded for a spring, newest first
func (h *EngagementHandler) ListTips(w http.ResponseWriter, r *http.Request) {
	springID := chi.URLParam(r, "id")
	if springID == "" {
		respondWithError(w, http.StatusBadRequest, "Missing spring ID", nil)
		return
	}

	respondWithJSON(w, http.StatusOK, h.service.TipsFor(springID))
}

// CreateReply appends a reply to an existing tip
func (h *EngagementHandler) CreateReply(w http.ResponseWriter, r *http.Request) {
	tipID := chi.URLParam(r, "id")
	if tipID == "" {
		respondWithError(w, http.StatusBadRequest, "Missing tip ID", nil)
		return
	}

	type replyRequest struct {
		UserID  string `json:"user_id"`
		Message string `json:"message"`
	}

	var req replyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if req.UserID == "" {
		respondWithError(w, http.StatusBadRequest, "Missing user ID", nil)
		return
	}

	outcome := h.service.ReplyToTip(r.Context(), req.UserID, tipID, req.Message)
	respondWithOutcome(w, outcome)
}

// MarkHelpful increments a tip's helpfulness counter
func (h *EngagementHandler) MarkHelpful(w http.ResponseWriter, r *http.Request) {
	tipID := chi.URLParam(r, "id")
	if tipID == "" {
		respondWithError(w, http.StatusBadRequest, "Missing tip ID", nil)
		return
	}

	type helpfulRequest struct {
		UserID string `json:"user_id"`
	}

	var req helpfulRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	outcome := h.service.MarkHelpful(r.Context(), req.UserID, tipID)
	respondWithOutcome(w, outcome)
}

// CreateNomination creates a hidden-gem nomination
func (h *EngagementHandler) CreateNomination(w http.ResponseWriter, r *http.Request) {
	type nominationRequest struct {
		UserID   string `json:"user_id"`
		SpringID string `json:"spring_id"`
		Pitch    string `json:"pitch"`
	}

	var req nominationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if req.UserID == "" || req.SpringID == "" {
		respondWithError(w, http.StatusBadRequest, "Missing user or spring ID", nil)
		return
	}

	outcome := h.service.Nominate(r.Context(), req.UserID, req.SpringID, req.Pitch)
	respondWithOutcome(w, outcome)
}

// ListNominations returns nominations ranked by votes
func (h *EngagementHandler) ListNominations(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.service.Nominations())
}

// CastVote adds one vote to a nomination
func (h *EngagementHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	nominationID := chi.URLParam(r, "id")
	if nominationID == "" {
		respondWithError(w, http.StatusBadRequest, "Missing nomination ID", nil)
		return
	}

	type voteRequest struct {
		UserID string `json:"user_id"`
	}

	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if req.UserID == "" {
		respondWithError(w, http.StatusBadRequest, "Missing user ID", nil)
		return
	}

	outcome := h.service.Vote(r.Context(), req.UserID, nominationID)
	respondWithOutcome(w, outcome)
}

// GetQuests returns quest definitions, with per-user progress when a user
// is given
func (h *EngagementHandler) GetQuests(w http.ResponseWriter, r *http.Request) {
	if userID := r.URL.Query().Get("user_id"); userID != "" {
		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"quests":   h.service.Quests(),
			"progress": h.service.QuestProgress(userID),
			"badges":   h.service.Badges(userID),
		})
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"quests": h.service.Quests(),
	})
}

// GetLeaderboard returns all leaderboard entries sorted by points
func (h *EngagementHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.service.Leaderboard())
}

// respondWithOutcome maps an engagement outcome onto an HTTP response.
// Info-level outcomes (cooldowns, validation misses, duplicate votes) are
// 200s carrying the outcome body; only error-level outcomes become 4xx.
func respondWithOutcome(w http.ResponseWriter, outcome engagement.Outcome) {
	code := http.StatusOK
	if outcome.Level == engagement.LevelError {
		code = http.StatusUnprocessableEntity
	}

	respondWithJSON(w, code, outcome)
}
