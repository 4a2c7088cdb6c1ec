package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storyshare-backend/internal/domain"
	"storyshare-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// EngagementStore is the persistence surface for likes and comments
type EngagementStore interface {
	GetByID(ctx context.Context, id string) (*models.Post, error)
	Like(ctx context.Context, postID, userID string) error
	Unlike(ctx context.Context, postID, userID string) error
	HasLiked(ctx context.Context, postID, userID string) (bool, error)
	AddComment(ctx context.Context, comment *models.Comment) error
	RemoveComment(ctx context.Context, postID, commentID string) error
	Comments(ctx context.Context, postID string) ([]models.CommentView, error)
}

// EngagementService enforces like/comment semantics on posts
type EngagementService struct {
	posts EngagementStore
	users UserGetter
	hub   EventSink
}

// NewEngagementService creates a new engagement service.
// hub may be nil when realtime delivery is not configured.
func NewEngagementService(posts EngagementStore, users UserGetter, hub EventSink) *EngagementService {
	return &EngagementService{
		posts: posts,
		users: users,
		hub:   hub,
	}
}

// LikePost records that userID likes postID. Liking twice is rejected.
func (s *EngagementService) LikePost(ctx context.Context, postID, userID string) error {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	if err := s.posts.Like(ctx, postID, userID); err != nil {
		return err
	}

	s.dispatchEvent(ctx, post, userID, Event{Type: EventPostLiked, PostID: postID})
	return nil
}

// UnlikePost removes userID's like from postID
func (s *EngagementService) UnlikePost(ctx context.Context, postID, userID string) error {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return err
	}
	return s.posts.Unlike(ctx, postID, userID)
}

// HasLiked reports whether userID currently likes postID
func (s *EngagementService) HasLiked(ctx context.Context, postID, userID string) (bool, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return false, err
	}
	return s.posts.HasLiked(ctx, postID, userID)
}

// AddComment appends a comment to a post's sequence and returns it.
// The identifier and timestamp are server-assigned.
func (s *EngagementService) AddComment(ctx context.Context, postID, userID, text string) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("comment text is required: %w", domain.ErrInvalidInput)
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ID:        uuid.New().String(),
		PostID:    postID,
		PostedBy:  userID,
		Text:      text,
		CreatedAt: time.Now(),
	}

	if err := s.posts.AddComment(ctx, comment); err != nil {
		return nil, err
	}

	s.dispatchEvent(ctx, post, userID, Event{Type: EventNewComment, PostID: postID, CommentID: comment.ID})
	return comment, nil
}

// RemoveComment deletes a comment from a post's sequence. Any caller may
// remove any comment; there is deliberately no ownership check.
func (s *EngagementService) RemoveComment(ctx context.Context, postID, commentID string) error {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return err
	}
	return s.posts.RemoveComment(ctx, postID, commentID)
}

// Comments lists a post's comments expanded with author attributes
func (s *EngagementService) Comments(ctx context.Context, postID string) ([]models.CommentView, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.posts.Comments(ctx, postID)
}

// dispatchEvent tells the post's author about the engagement if they are
// online. Self-engagement produces no event; failures are only logged.
func (s *EngagementService) dispatchEvent(ctx context.Context, post *models.Post, actorID string, event Event) {
	if s.hub == nil || post.PostedBy == actorID || !s.hub.IsOnline(post.PostedBy) {
		return
	}

	actor, err := s.users.GetByID(ctx, actorID)
	if err == nil {
		event.Actor = models.UserSummary{ID: actor.ID, Name: actor.Name, Pfp: actor.Pfp}
	}

	go func() {
		if err := s.hub.SendToUser(post.PostedBy, event); err != nil {
			log.Error().
				Err(err).
				Str("user_id", post.PostedBy).
				Str("post_id", post.ID).
				Msg("Failed to deliver engagement event")
		}
	}()
}
