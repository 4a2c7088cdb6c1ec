package handlers

import (
	"encoding/json"
	"net/http"

	"storyshare-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// PostHandler handles story HTTP requests
type PostHandler struct {
	postService *services.PostService
}

// NewPostHandler creates a new post handler
func NewPostHandler(postService *services.PostService) *PostHandler {
	return &PostHandler{
		postService: postService,
	}
}

// AddPost handles POST /addPost
func (h *PostHandler) AddPost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req services.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	post, err := h.postService.Create(ctx, req)
	if err != nil {
		log.Error().Err(err).Str("user_id", req.PostedBy).Msg("Failed to create post")
		respondDomainError(w, err)
		return
	}

	log.Info().Str("post_id", post.ID).Str("user_id", post.PostedBy).Msg("Post created")
	respondJSON(w, http.StatusCreated, post)
}

// GetPost handles GET /post/{postId}
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	postID := chi.URLParam(r, "postId")

	post, err := h.postService.Get(ctx, postID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, post)
}

// UserPosts handles GET /user/{userId}/posts
func (h *PostHandler) UserPosts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "userId")

	posts, err := h.postService.ByUser(ctx, userID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if len(posts) == 0 {
		respondError(w, "No posts found for this user", http.StatusNotFound)
		return
	}

	respondJSON(w, http.StatusOK, posts)
}

// SearchPosts handles GET /searchPosts?query=
func (h *PostHandler) SearchPosts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query().Get("query")

	posts, err := h.postService.Search(ctx, query)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, posts)
}
