package handlers

import (
	"net/http"

	"storyshare-backend/internal/models"
	"storyshare-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// FeedHandler handles feed HTTP requests
type FeedHandler struct {
	feedService *services.FeedService
}

// NewFeedHandler creates a new feed handler
func NewFeedHandler(feedService *services.FeedService) *FeedHandler {
	return &FeedHandler{
		feedService: feedService,
	}
}

// Feed handles GET /feed?userId=
func (h *FeedHandler) Feed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.URL.Query().Get("userId")

	if userID == "" {
		respondError(w, "User ID is required", http.StatusBadRequest)
		return
	}

	posts, err := h.feedService.ComposeFeed(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to compose feed")
		respondDomainError(w, err)
		return
	}

	if posts == nil {
		posts = []models.FeedPost{}
	}
	respondJSON(w, http.StatusOK, posts)
}
