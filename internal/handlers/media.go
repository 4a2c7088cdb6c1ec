package handlers

import (
	"encoding/json"
	"net/http"

	"storyshare-backend/internal/middleware"
	"storyshare-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// MediaHandler handles image upload HTTP requests
type MediaHandler struct {
	mediaService *services.MediaService
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(mediaService *services.MediaService) *MediaHandler {
	return &MediaHandler{
		mediaService: mediaService,
	}
}

// UploadRequest represents the request body for an upload URL
type UploadRequest struct {
	ContentType string `json:"content_type"`
}

// Upload handles POST /uploads for the authenticated user
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ContentType == "" {
		req.ContentType = "image/jpeg"
	}

	resp, err := h.mediaService.GetUploadURL(ctx, userID, req.ContentType)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to create upload URL")
		respondError(w, "Failed to create upload URL", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}
