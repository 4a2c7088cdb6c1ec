package services

import (
	"context"
	"fmt"

	"storyshare-backend/internal/domain"
	"storyshare-backend/internal/models"
)

// discoverLimit caps the cold-start fallback feed
const discoverLimit = 15

// UserExister checks whether a user id resolves
type UserExister interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// FollowingLister yields the ids a viewer follows
type FollowingLister interface {
	FollowingIDs(ctx context.Context, userID string) ([]string, error)
}

// FeedStore is the persistence surface for feed composition
type FeedStore interface {
	ListByAuthors(ctx context.Context, authorIDs []string) ([]models.FeedPost, error)
	ListTopLiked(ctx context.Context, limit int) ([]models.FeedPost, error)
}

// DiscoverCache caches the viewer-independent discovery feed
type DiscoverCache interface {
	Get(ctx context.Context) ([]models.FeedPost, bool)
	Set(ctx context.Context, posts []models.FeedPost)
}

// FeedService composes the ranked post sequence shown to a viewer
type FeedService struct {
	users   UserExister
	follows FollowingLister
	posts   FeedStore
	cache   DiscoverCache
}

// NewFeedService creates a new feed service. cache may be nil.
func NewFeedService(users UserExister, follows FollowingLister, posts FeedStore, cache DiscoverCache) *FeedService {
	return &FeedService{
		users:   users,
		follows: follows,
		posts:   posts,
		cache:   cache,
	}
}

// ComposeFeed returns the viewer's feed. A viewer with a non-empty
// following set gets every post by followed users, newest first and
// unlimited. A viewer following nobody gets the cold-start fallback:
// the globally most-liked posts, capped at 15.
func (s *FeedService) ComposeFeed(ctx context.Context, viewerID string) ([]models.FeedPost, error) {
	exists, err := s.users.Exists(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("user %s: %w", viewerID, domain.ErrNotFound)
	}

	following, err := s.follows.FollowingIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	if len(following) > 0 {
		return s.posts.ListByAuthors(ctx, following)
	}

	return s.discover(ctx)
}

// discover serves the popularity fallback, from cache when fresh.
// The ranking is viewer-independent, so one cached copy serves everyone.
func (s *FeedService) discover(ctx context.Context) ([]models.FeedPost, error) {
	if s.cache != nil {
		if posts, ok := s.cache.Get(ctx); ok {
			return posts, nil
		}
	}

	posts, err := s.posts.ListTopLiked(ctx, discoverLimit)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, posts)
	}
	return posts, nil
}
