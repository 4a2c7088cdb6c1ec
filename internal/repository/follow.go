package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storyshare-backend/internal/domain"
	"storyshare-backend/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FollowRepository stores the follow graph as one edge row per relation.
// A follow is either fully present or fully absent; the follower and
// followee lists are the two directions of the same table, so they cannot
// drift apart the way two independent array fields can.
type FollowRepository struct {
	db *pgxpool.Pool
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(db *pgxpool.Pool) *FollowRepository {
	return &FollowRepository{db: db}
}

// Create inserts a follow edge. The primary key doubles as the duplicate
// guard, so a concurrent double-follow still surfaces ErrAlreadyFollowing.
func (r *FollowRepository) Create(ctx context.Context, followerID, followeeID string) error {
	query := `
		INSERT INTO follows (follower_id, followee_id, created_at)
		VALUES ($1, $2, $3)
	`
	_, err := r.db.Exec(ctx, query, followerID, followeeID, time.Now())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrAlreadyFollowing
		}
		return fmt.Errorf("failed to create follow: %w", err)
	}
	return nil
}

// Delete removes a follow edge
func (r *FollowRepository) Delete(ctx context.Context, followerID, followeeID string) error {
	query := `DELETE FROM follows WHERE follower_id = $1 AND followee_id = $2`
	result, err := r.db.Exec(ctx, query, followerID, followeeID)
	if err != nil {
		return fmt.Errorf("failed to delete follow: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFollowing
	}
	return nil
}

// Exists checks whether follower currently follows followee
func (r *FollowRepository) Exists(ctx context.Context, followerID, followeeID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM follows WHERE follower_id = $1 AND followee_id = $2)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, followerID, followeeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check follow existence: %w", err)
	}
	return exists, nil
}

// Following returns display summaries of the users userID follows
func (r *FollowRepository) Following(ctx context.Context, userID string) ([]models.UserSummary, error) {
	query := `
		SELECT u.id, u.name, u.pfp
		FROM follows f
		JOIN users u ON u.id = f.followee_id
		WHERE f.follower_id = $1
		ORDER BY f.created_at, u.id
	`
	return r.listSummaries(ctx, query, userID)
}

// Followers returns display summaries of the users following userID
func (r *FollowRepository) Followers(ctx context.Context, userID string) ([]models.UserSummary, error) {
	query := `
		SELECT u.id, u.name, u.pfp
		FROM follows f
		JOIN users u ON u.id = f.follower_id
		WHERE f.followee_id = $1
		ORDER BY f.created_at, u.id
	`
	return r.listSummaries(ctx, query, userID)
}

// FollowingIDs returns only the identifiers userID follows, for feed queries
func (r *FollowRepository) FollowingIDs(ctx context.Context, userID string) ([]string, error) {
	query := `SELECT followee_id FROM follows WHERE follower_id = $1`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list following ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan following id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read following ids: %w", err)
	}
	return ids, nil
}

func (r *FollowRepository) listSummaries(ctx context.Context, query, userID string) ([]models.UserSummary, error) {
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list relationships: %w", err)
	}
	defer rows.Close()

	var users []models.UserSummary
	for rows.Next() {
		var u models.UserSummary
		if err := rows.Scan(&u.ID, &u.Name, &u.Pfp); err != nil {
			return nil, fmt.Errorf("failed to scan relationship row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read relationship rows: %w", err)
	}
	return users, nil
}
