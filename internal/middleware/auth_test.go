package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"storyshare-backend/internal/services"
)

func authFixture(t *testing.T) (*services.UserService, http.Handler, *string, *string) {
	t.Helper()

	svc := services.NewUserService(nil, nil, "test-secret")
	var gotID, gotEmail string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = GetUserID(r.Context())
		gotEmail = GetUserEmail(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	return svc, AuthMiddleware(svc)(inner), &gotID, &gotEmail
}

func TestAuthMiddlewarePassesClaimsThrough(t *testing.T) {
	svc, handler, gotID, gotEmail := authFixture(t)

	token, err := svc.GenerateJWT("user-1", "a@example.com")
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/getUserInfo", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if *gotID != "user-1" {
		t.Fatalf("expected user-1 in context, got %q", *gotID)
	}
	if *gotEmail != "a@example.com" {
		t.Fatalf("expected email in context, got %q", *gotEmail)
	}
}

func TestAuthMiddlewareRejectsBadRequests(t *testing.T) {
	_, handler, gotID, _ := authFixture(t)

	forged, err := services.NewUserService(nil, nil, "other-secret").GenerateJWT("user-1", "a@example.com")
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc"},
		{"empty token", "Bearer "},
		{"garbage token", "Bearer not-a-jwt"},
		{"wrong secret", "Bearer " + forged},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			*gotID = ""
			req := httptest.NewRequest(http.MethodGet, "/getUserInfo", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
			if *gotID != "" {
				t.Fatal("inner handler must not run for rejected requests")
			}

			var body struct {
				Error string `json:"error"`
			}
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("401 body must be valid JSON: %v", err)
			}
			if body.Error == "" {
				t.Fatal("401 body must carry an error message")
			}
		})
	}
}

func TestValidateWebSocketToken(t *testing.T) {
	svc := services.NewUserService(nil, nil, "test-secret")

	if _, err := ValidateWebSocketToken("", svc); err == nil {
		t.Fatal("empty token must be rejected")
	}

	token, err := svc.GenerateJWT("user-9", "b@example.com")
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}
	userID, err := ValidateWebSocketToken(token, svc)
	if err != nil {
		t.Fatalf("ValidateWebSocketToken failed: %v", err)
	}
	if userID != "user-9" {
		t.Fatalf("expected user-9, got %q", userID)
	}
}
