package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"storyshare-backend/internal/middleware"
	"storyshare-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// UserHandler handles account and profile HTTP requests
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	DOB      string `json:"dob"`
	Bio      string `json:"bio"`
	Pfp      string `json:"pfp"`
}

// Register handles POST /register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	dob, err := time.Parse("2006-01-02", req.DOB)
	if err != nil {
		respondError(w, "dob must be formatted YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	user, token, err := h.userService.Register(ctx, services.RegisterRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		DOB:      dob,
		Bio:      req.Bio,
		Pfp:      req.Pfp,
	})
	if err != nil {
		log.Error().Err(err).Str("email", req.Email).Msg("Failed to register user")
		respondDomainError(w, err)
		return
	}

	log.Info().Str("user_id", user.ID).Msg("User registered")

	respondJSON(w, http.StatusCreated, map[string]any{
		"message":     "User registered successfully",
		"accessToken": token,
		"userId":      user.ID,
	})
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, token, err := h.userService.Login(ctx, req.Email, req.Password)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	log.Info().Str("user_id", user.ID).Msg("User logged in")

	respondJSON(w, http.StatusOK, map[string]any{
		"message":     "Login Successfully",
		"accessToken": token,
		"userId":      user.ID,
		"email":       user.Email,
		"name":        user.Name,
		"pfp":         user.Pfp,
	})
}

// GetUserInfo handles GET /getUserInfo for the authenticated user
func (h *UserHandler) GetUserInfo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	user, posts, err := h.userService.Info(ctx, userID)
	if err != nil {
		log.Error().Err(err).
			Str("user_id", userID).
			Str("email", middleware.GetUserEmail(ctx)).
			Msg("Failed to get user info")
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"user":  user,
		"posts": posts,
	})
}

// UserInfo handles GET /userInfo/{id}
func (h *UserHandler) UserInfo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "id")

	user, posts, err := h.userService.Info(ctx, userID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"user":  user,
		"posts": posts,
	})
}

// SearchUsers handles GET /searchUsers?name=
func (h *UserHandler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := r.URL.Query().Get("name")

	users, err := h.userService.SearchByName(ctx, name)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, users)
}

// UpdatePfpRequest represents the request body for a pfp update
type UpdatePfpRequest struct {
	Pfp string `json:"pfp"`
}

// UpdatePfp handles PATCH /updatePfp/{userId}
func (h *UserHandler) UpdatePfp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "userId")

	var req UpdatePfpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.userService.UpdateProfilePicture(ctx, userID, req.Pfp); err != nil {
		respondDomainError(w, err)
		return
	}

	log.Info().Str("user_id", userID).Msg("Profile picture updated")
	respondJSON(w, http.StatusOK, map[string]string{"message": "Profile picture updated"})
}

// UpdateBioRequest represents the request body for a bio update. The
// field is a pointer so a missing bio and an explicitly empty one can
// be told apart.
type UpdateBioRequest struct {
	Bio *string `json:"bio"`
}

// UpdateBio handles PATCH /updateBio/{userId}
func (h *UserHandler) UpdateBio(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "userId")

	var req UpdateBioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Bio == nil {
		respondError(w, "Bio content is required", http.StatusBadRequest)
		return
	}

	if err := h.userService.UpdateBio(ctx, userID, *req.Bio); err != nil {
		respondDomainError(w, err)
		return
	}

	log.Info().Str("user_id", userID).Msg("Bio updated")
	respondJSON(w, http.StatusOK, map[string]string{"message": "Bio updated"})
}

// UpdatePushTokenRequest represents the request body for a token update
type UpdatePushTokenRequest struct {
	PushToken *string `json:"push_token"`
}

// UpdatePushToken handles PATCH /pushToken for the authenticated user
func (h *UserHandler) UpdatePushToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req UpdatePushTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.userService.UpdatePushToken(ctx, userID, req.PushToken); err != nil {
		respondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
