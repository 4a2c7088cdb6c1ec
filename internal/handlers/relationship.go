package handlers

import (
	"encoding/json"
	"net/http"

	"storyshare-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// RelationshipHandler handles follow-graph HTTP requests
type RelationshipHandler struct {
	relationshipService *services.RelationshipService
}

// NewRelationshipHandler creates a new relationship handler
func NewRelationshipHandler(relationshipService *services.RelationshipService) *RelationshipHandler {
	return &RelationshipHandler{
		relationshipService: relationshipService,
	}
}

// FollowRequest represents the request body for follow and unfollow
type FollowRequest struct {
	CurrentUserID string `json:"currentUserId"`
	TargetUserID  string `json:"targetUserId"`
}

// Follow handles POST /follow
func (h *RelationshipHandler) Follow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req FollowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.CurrentUserID == "" || req.TargetUserID == "" {
		respondError(w, "Both current user ID and target user ID are required", http.StatusBadRequest)
		return
	}

	if err := h.relationshipService.Follow(ctx, req.CurrentUserID, req.TargetUserID); err != nil {
		log.Error().
			Err(err).
			Str("user_id", req.CurrentUserID).
			Str("target_id", req.TargetUserID).
			Msg("Failed to follow")
		respondDomainError(w, err)
		return
	}

	log.Info().
		Str("user_id", req.CurrentUserID).
		Str("target_id", req.TargetUserID).
		Msg("Followed")

	respondJSON(w, http.StatusOK, map[string]string{"message": "Followed successfully"})
}

// Unfollow handles POST /unfollow
func (h *RelationshipHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req FollowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.CurrentUserID == "" || req.TargetUserID == "" {
		respondError(w, "Both current user ID and target user ID are required", http.StatusBadRequest)
		return
	}

	if err := h.relationshipService.Unfollow(ctx, req.CurrentUserID, req.TargetUserID); err != nil {
		log.Error().
			Err(err).
			Str("user_id", req.CurrentUserID).
			Str("target_id", req.TargetUserID).
			Msg("Failed to unfollow")
		respondDomainError(w, err)
		return
	}

	log.Info().
		Str("user_id", req.CurrentUserID).
		Str("target_id", req.TargetUserID).
		Msg("Unfollowed")

	respondJSON(w, http.StatusOK, map[string]string{"message": "Unfollowed successfully"})
}

// Following handles GET /following/{userId}
func (h *RelationshipHandler) Following(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "userId")

	users, err := h.relationshipService.Following(ctx, userID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, users)
}

// Followers handles GET /followers/{userId}
func (h *RelationshipHandler) Followers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "userId")

	users, err := h.relationshipService.Followers(ctx, userID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, users)
}
