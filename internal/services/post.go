package services

import (
	"context"
	"fmt"
	"time"

	"storyshare-backend/internal/domain"
	"storyshare-backend/internal/models"

	"github.com/google/uuid"
)

// PostStore is the persistence surface for post submission and reads
type PostStore interface {
	Create(ctx context.Context, post *models.Post) error
	GetExpanded(ctx context.Context, postID string) (*models.FeedPost, error)
	ListByAuthor(ctx context.Context, authorID string) ([]models.FeedPost, error)
	Search(ctx context.Context, text string) ([]models.FeedPost, error)
}

// PostService handles story submission and retrieval
type PostService struct {
	posts PostStore
	users UserExister
}

// NewPostService creates a new post service
func NewPostService(posts PostStore, users UserExister) *PostService {
	return &PostService{
		posts: posts,
		users: users,
	}
}

// CreatePostRequest carries the fields required to submit a story
type CreatePostRequest struct {
	Title    string  `json:"title"`
	Story    string  `json:"story"`
	Image    *string `json:"image,omitempty"`
	PostedBy string  `json:"posted_by"`
}

// Create submits a new story
func (s *PostService) Create(ctx context.Context, req CreatePostRequest) (*models.Post, error) {
	if req.Title == "" || req.Story == "" || req.PostedBy == "" {
		return nil, fmt.Errorf("title, story and posted_by are required: %w", domain.ErrInvalidInput)
	}

	exists, err := s.users.Exists(ctx, req.PostedBy)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("user %s: %w", req.PostedBy, domain.ErrNotFound)
	}

	post := &models.Post{
		ID:        uuid.New().String(),
		Title:     req.Title,
		Story:     req.Story,
		Image:     req.Image,
		PostedBy:  req.PostedBy,
		CreatedAt: time.Now(),
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Get retrieves a single post with author and comment expansions
func (s *PostService) Get(ctx context.Context, postID string) (*models.FeedPost, error) {
	return s.posts.GetExpanded(ctx, postID)
}

// ByUser retrieves a user's posts, newest first
func (s *PostService) ByUser(ctx context.Context, userID string) ([]models.FeedPost, error) {
	return s.posts.ListByAuthor(ctx, userID)
}

// Search retrieves posts matching the query in title or story
func (s *PostService) Search(ctx context.Context, query string) ([]models.FeedPost, error) {
	if query == "" {
		return nil, fmt.Errorf("search query is required: %w", domain.ErrInvalidInput)
	}
	return s.posts.Search(ctx, query)
}
