package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"storyshare-backend/internal/domain"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// respondDomainError maps a service error to its HTTP status
func respondDomainError(w http.ResponseWriter, err error) {
	respondError(w, err.Error(), statusFromError(err))
}

// statusFromError maps the domain error taxonomy to HTTP statuses.
// State-conflict guards are conflicts, malformed or self-referencing
// input is a client error, unknown failures stay server errors.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrSelfReference):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyFollowing),
		errors.Is(err, domain.ErrNotFollowing),
		errors.Is(err, domain.ErrAlreadyLiked),
		errors.Is(err, domain.ErrNotLiked),
		errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
