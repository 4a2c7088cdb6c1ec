package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		dob DATE NOT NULL,
		bio TEXT NOT NULL DEFAULT '',
		pfp TEXT NOT NULL DEFAULT '',
		push_token TEXT,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS follows (
		follower_id UUID NOT NULL REFERENCES users(id),
		followee_id UUID NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (follower_id, followee_id),
		CHECK (follower_id <> followee_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_follows_followee ON follows (followee_id)`,
	`CREATE TABLE IF NOT EXISTS posts (
		id UUID PRIMARY KEY,
		title TEXT NOT NULL,
		story TEXT NOT NULL,
		image TEXT,
		posted_by UUID NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_posts_posted_by ON posts (posted_by, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS post_likes (
		post_id UUID NOT NULL REFERENCES posts(id),
		user_id UUID NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (post_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS comments (
		id UUID PRIMARY KEY,
		post_id UUID NOT NULL REFERENCES posts(id),
		posted_by UUID NOT NULL REFERENCES users(id),
		body TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_post ON comments (post_id, created_at)`,
}

// ApplySchema creates the tables and indexes if they do not exist yet.
// Statements are idempotent so it is safe to run on every startup.
func ApplySchema(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
