package services

import (
	"context"
	"fmt"

	"storyshare-backend/internal/domain"
	"storyshare-backend/internal/models"

	"github.com/rs/zerolog/log"
)

// UserGetter resolves user identifiers to records
type UserGetter interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// FollowStore is the persistence surface for the follow graph
type FollowStore interface {
	Create(ctx context.Context, followerID, followeeID string) error
	Delete(ctx context.Context, followerID, followeeID string) error
	Exists(ctx context.Context, followerID, followeeID string) (bool, error)
	Following(ctx context.Context, userID string) ([]models.UserSummary, error)
	Followers(ctx context.Context, userID string) ([]models.UserSummary, error)
}

// PushSender delivers a push notification to a device token
type PushSender interface {
	PushNewFollower(deviceToken, followerName string) error
}

// RelationshipService enforces the follow/unfollow invariants.
// Notification delivery is best-effort and never affects the outcome.
type RelationshipService struct {
	users    UserGetter
	follows  FollowStore
	notifier PushSender
	hub      EventSink
}

// NewRelationshipService creates a new relationship service.
// notifier and hub may be nil when push/realtime delivery is not configured.
func NewRelationshipService(users UserGetter, follows FollowStore, notifier PushSender, hub EventSink) *RelationshipService {
	return &RelationshipService{
		users:    users,
		follows:  follows,
		notifier: notifier,
		hub:      hub,
	}
}

// Follow makes actor follow target. Following yourself, following an
// unknown user and following twice are all rejected before any write.
func (s *RelationshipService) Follow(ctx context.Context, actorID, targetID string) error {
	if actorID == targetID {
		return domain.ErrSelfReference
	}

	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return err
	}
	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return err
	}

	following, err := s.follows.Exists(ctx, actorID, targetID)
	if err != nil {
		return fmt.Errorf("failed to check follow state: %w", err)
	}
	if following {
		return domain.ErrAlreadyFollowing
	}

	if err := s.follows.Create(ctx, actorID, targetID); err != nil {
		return err
	}

	s.dispatchNewFollower(actor, target)
	return nil
}

// Unfollow removes the actor→target edge
func (s *RelationshipService) Unfollow(ctx context.Context, actorID, targetID string) error {
	if actorID == targetID {
		return domain.ErrSelfReference
	}

	if _, err := s.users.GetByID(ctx, actorID); err != nil {
		return err
	}
	if _, err := s.users.GetByID(ctx, targetID); err != nil {
		return err
	}

	following, err := s.follows.Exists(ctx, actorID, targetID)
	if err != nil {
		return fmt.Errorf("failed to check follow state: %w", err)
	}
	if !following {
		return domain.ErrNotFollowing
	}

	return s.follows.Delete(ctx, actorID, targetID)
}

// Following lists the users userID follows, expanded for display
func (s *RelationshipService) Following(ctx context.Context, userID string) ([]models.UserSummary, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.follows.Following(ctx, userID)
}

// Followers lists the users following userID, expanded for display
func (s *RelationshipService) Followers(ctx context.Context, userID string) ([]models.UserSummary, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.follows.Followers(ctx, userID)
}

// dispatchNewFollower notifies the target about their new follower.
// Runs detached from the request: a failure here is logged and swallowed,
// the follow itself has already succeeded.
func (s *RelationshipService) dispatchNewFollower(actor, target *models.User) {
	go func() {
		if s.hub != nil && s.hub.IsOnline(target.ID) {
			event := Event{
				Type:  EventNewFollower,
				Actor: models.UserSummary{ID: actor.ID, Name: actor.Name, Pfp: actor.Pfp},
			}
			if err := s.hub.SendToUser(target.ID, event); err != nil {
				log.Error().
					Err(err).
					Str("user_id", target.ID).
					Msg("Failed to deliver follower event")
			}
		}

		if s.notifier == nil || target.PushToken == nil {
			return
		}
		if err := s.notifier.PushNewFollower(*target.PushToken, actor.Name); err != nil {
			log.Error().
				Err(err).
				Str("user_id", target.ID).
				Msg("Failed to send follower notification")
		}
	}()
}
