package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storyshare-backend/internal/domain"
	"storyshare-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const jwtExpDays = 365

// UserStore is the persistence surface the user service needs
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Exists(ctx context.Context, id string) (bool, error)
	SearchByName(ctx context.Context, name string) ([]models.UserSummary, error)
	UpdatePfp(ctx context.Context, userID, pfp string) error
	UpdateBio(ctx context.Context, userID, bio string) error
	UpdatePushToken(ctx context.Context, userID string, pushToken *string) error
}

// AuthorPostLister lists the posts a user has authored
type AuthorPostLister interface {
	ListByAuthor(ctx context.Context, authorID string) ([]models.FeedPost, error)
}

// UserService handles registration, login and profile logic
type UserService struct {
	users     UserStore
	posts     AuthorPostLister
	jwtSecret string
}

// NewUserService creates a new user service
func NewUserService(users UserStore, posts AuthorPostLister, jwtSecret string) *UserService {
	return &UserService{
		users:     users,
		posts:     posts,
		jwtSecret: jwtSecret,
	}
}

// RegisterRequest carries the fields required to create an account
type RegisterRequest struct {
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Password string    `json:"password"`
	DOB      time.Time `json:"dob"`
	Bio      string    `json:"bio"`
	Pfp      string    `json:"pfp"`
}

// Register creates a new user and returns it with an access token
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*models.User, string, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" || req.DOB.IsZero() {
		return nil, "", fmt.Errorf("name, email, password and dob are required: %w", domain.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        strings.ToLower(req.Email),
		PasswordHash: string(hash),
		DOB:          req.DOB,
		Bio:          req.Bio,
		Pfp:          req.Pfp,
		CreatedAt:    time.Now(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.GenerateJWT(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Login verifies credentials and returns the user with an access token.
// A missing account and a wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("email and password are required: %w", domain.ErrInvalidInput)
	}

	user, err := s.users.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.GenerateJWT(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// TokenClaims is the identity an access token asserts
type TokenClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateJWT generates a JWT token for a user
func (s *UserService) GenerateJWT(userID, email string) (string, error) {
	claims := TokenClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().AddDate(0, 0, jwtExpDays)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ParseToken verifies a token's signature and returns its claims
func (s *UserService) ParseToken(tokenString string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid || claims.UserID == "" {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// ValidateJWT validates a JWT token and returns the user ID
func (s *UserService) ValidateJWT(tokenString string) (string, error) {
	claims, err := s.ParseToken(tokenString)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

// Info returns a user's profile together with their own posts.
// The password hash never leaves the model's json:"-" field.
func (s *UserService) Info(ctx context.Context, userID string) (*models.User, []models.FeedPost, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	posts, err := s.posts.ListByAuthor(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	return user, posts, nil
}

// SearchByName finds users by display name
func (s *UserService) SearchByName(ctx context.Context, name string) ([]models.UserSummary, error) {
	if name == "" {
		return nil, fmt.Errorf("a search query is required: %w", domain.ErrInvalidInput)
	}
	return s.users.SearchByName(ctx, name)
}

// UpdateProfilePicture replaces a user's profile picture reference
func (s *UserService) UpdateProfilePicture(ctx context.Context, userID, pfp string) error {
	if pfp == "" {
		return fmt.Errorf("profile picture data is required: %w", domain.ErrInvalidInput)
	}
	return s.users.UpdatePfp(ctx, userID, pfp)
}

// UpdateBio replaces a user's bio text. An empty string clears the bio.
func (s *UserService) UpdateBio(ctx context.Context, userID, bio string) error {
	return s.users.UpdateBio(ctx, userID, bio)
}

// UpdatePushToken stores or clears a user's device push token
func (s *UserService) UpdatePushToken(ctx context.Context, userID string, pushToken *string) error {
	return s.users.UpdatePushToken(ctx, userID, pushToken)
}
