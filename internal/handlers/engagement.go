package handlers

import (
	"encoding/json"
	"net/http"

	"storyshare-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// EngagementHandler handles like and comment HTTP requests
type EngagementHandler struct {
	engagementService *services.EngagementService
}

// NewEngagementHandler creates a new engagement handler
func NewEngagementHandler(engagementService *services.EngagementService) *EngagementHandler {
	return &EngagementHandler{
		engagementService: engagementService,
	}
}

// LikeRequest represents the request body for like and unlike
type LikeRequest struct {
	PostID string `json:"postId"`
	UserID string `json:"userId"`
}

// LikePost handles POST /likePost
func (h *EngagementHandler) LikePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LikeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.PostID == "" || req.UserID == "" {
		respondError(w, "Post ID and User ID are required", http.StatusBadRequest)
		return
	}

	if err := h.engagementService.LikePost(ctx, req.PostID, req.UserID); err != nil {
		respondDomainError(w, err)
		return
	}

	log.Info().Str("post_id", req.PostID).Str("user_id", req.UserID).Msg("Post liked")
	respondJSON(w, http.StatusOK, map[string]string{"message": "Post liked successfully"})
}

// RemoveLike handles POST /removeLike
func (h *EngagementHandler) RemoveLike(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LikeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.PostID == "" || req.UserID == "" {
		respondError(w, "Post ID and User ID are required", http.StatusBadRequest)
		return
	}

	if err := h.engagementService.UnlikePost(ctx, req.PostID, req.UserID); err != nil {
		respondDomainError(w, err)
		return
	}

	log.Info().Str("post_id", req.PostID).Str("user_id", req.UserID).Msg("Like removed")
	respondJSON(w, http.StatusOK, map[string]string{"message": "Like removed successfully"})
}

// HasLikedPost handles GET /hasLikedPost?postId=&userId=
func (h *EngagementHandler) HasLikedPost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	postID := r.URL.Query().Get("postId")
	userID := r.URL.Query().Get("userId")

	if postID == "" || userID == "" {
		respondError(w, "Post ID and User ID are required", http.StatusBadRequest)
		return
	}

	hasLiked, err := h.engagementService.HasLiked(ctx, postID, userID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"hasLiked": hasLiked})
}

// CommentRequest represents the request body for adding a comment
type CommentRequest struct {
	PostID string `json:"postId"`
	UserID string `json:"userId"`
	Text   string `json:"text"`
}

// Comment handles POST /comment
func (h *EngagementHandler) Comment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.PostID == "" || req.UserID == "" || req.Text == "" {
		respondError(w, "Post ID, User ID, and comment text are required", http.StatusBadRequest)
		return
	}

	comment, err := h.engagementService.AddComment(ctx, req.PostID, req.UserID, req.Text)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	log.Info().Str("post_id", req.PostID).Str("comment_id", comment.ID).Msg("Comment added")
	respondJSON(w, http.StatusOK, comment)
}

// RemoveCommentRequest represents the request body for removing a comment
type RemoveCommentRequest struct {
	PostID    string `json:"postId"`
	CommentID string `json:"commentId"`
}

// RemoveComment handles POST /removeComment
func (h *EngagementHandler) RemoveComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RemoveCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.PostID == "" || req.CommentID == "" {
		respondError(w, "Post ID and Comment ID are required", http.StatusBadRequest)
		return
	}

	if err := h.engagementService.RemoveComment(ctx, req.PostID, req.CommentID); err != nil {
		respondDomainError(w, err)
		return
	}

	log.Info().Str("post_id", req.PostID).Str("comment_id", req.CommentID).Msg("Comment removed")
	respondJSON(w, http.StatusOK, map[string]string{"message": "Comment removed successfully"})
}

// Comments handles GET /comments/{postId}
func (h *EngagementHandler) Comments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	postID := chi.URLParam(r, "postId")

	comments, err := h.engagementService.Comments(ctx, postID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"comments": comments})
}
