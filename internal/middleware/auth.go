package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"storyshare-backend/internal/services"

	"github.com/rs/zerolog/log"
)

type contextKey string

const claimsKey contextKey = "token_claims"

// AuthMiddleware creates a middleware for JWT authentication. Verified
// claims are stored on the request context for GetUserID.
func AuthMiddleware(userService *services.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := bearerClaims(r.Header.Get("Authorization"), userService)
			if err != nil {
				log.Warn().Err(err).Str("path", r.URL.Path).Msg("Rejected unauthenticated request")
				respondError(w, err.Error(), http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerClaims parses an Authorization header and verifies the token
func bearerClaims(header string, userService *services.UserService) (*services.TokenClaims, error) {
	if header == "" {
		return nil, fmt.Errorf("authorization header required")
	}

	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return nil, fmt.Errorf("authorization header must use the Bearer scheme")
	}

	claims, err := userService.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// GetUserID extracts the authenticated user's ID from context
func GetUserID(ctx context.Context) string {
	claims, ok := ctx.Value(claimsKey).(*services.TokenClaims)
	if !ok {
		return ""
	}
	return claims.UserID
}

// GetUserEmail extracts the authenticated user's email from context
func GetUserEmail(ctx context.Context) string {
	claims, ok := ctx.Value(claimsKey).(*services.TokenClaims)
	if !ok {
		return ""
	}
	return claims.Email
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// ValidateWebSocketToken validates JWT token from WebSocket query parameter
func ValidateWebSocketToken(token string, userService *services.UserService) (string, error) {
	if token == "" {
		return "", fmt.Errorf("token required")
	}
	return userService.ValidateJWT(token)
}
