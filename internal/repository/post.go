package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storyshare-backend/internal/domain"
	"storyshare-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostRepository handles database operations for posts, likes and comments
type PostRepository struct {
	db *pgxpool.Pool
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *pgxpool.Pool) *PostRepository {
	return &PostRepository{db: db}
}

// Create creates a new post
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (id, title, story, image, posted_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query,
		post.ID, post.Title, post.Story, post.Image, post.PostedBy, post.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// GetByID retrieves a post row by ID
func (r *PostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	query := `
		SELECT id, title, story, image, posted_by, created_at
		FROM posts
		WHERE id = $1
	`
	var post models.Post
	err := r.db.QueryRow(ctx, query, id).Scan(
		&post.ID, &post.Title, &post.Story, &post.Image, &post.PostedBy, &post.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("post %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return &post, nil
}

// Exists checks whether a post id resolves to a record
func (r *PostRepository) Exists(ctx context.Context, id string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check post existence: %w", err)
	}
	return exists, nil
}

// Like records that userID likes postID. The primary key on
// (post_id, user_id) keeps a user's like unique even under races.
func (r *PostRepository) Like(ctx context.Context, postID, userID string) error {
	query := `
		INSERT INTO post_likes (post_id, user_id, created_at)
		VALUES ($1, $2, $3)
	`
	_, err := r.db.Exec(ctx, query, postID, userID, time.Now())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrAlreadyLiked
		}
		return fmt.Errorf("failed to like post: %w", err)
	}
	return nil
}

// Unlike removes userID's like from postID
func (r *PostRepository) Unlike(ctx context.Context, postID, userID string) error {
	query := `DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`
	result, err := r.db.Exec(ctx, query, postID, userID)
	if err != nil {
		return fmt.Errorf("failed to unlike post: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotLiked
	}
	return nil
}

// HasLiked checks whether userID has liked postID
func (r *PostRepository) HasLiked(ctx context.Context, postID, userID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM post_likes WHERE post_id = $1 AND user_id = $2)`
	var liked bool
	if err := r.db.QueryRow(ctx, query, postID, userID).Scan(&liked); err != nil {
		return false, fmt.Errorf("failed to check like: %w", err)
	}
	return liked, nil
}

// AddComment appends a comment to a post's sequence
func (r *PostRepository) AddComment(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (id, post_id, posted_by, body, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query,
		comment.ID, comment.PostID, comment.PostedBy, comment.Text, comment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to add comment: %w", err)
	}
	return nil
}

// RemoveComment deletes a comment by id within its post
func (r *PostRepository) RemoveComment(ctx context.Context, postID, commentID string) error {
	query := `DELETE FROM comments WHERE id = $1 AND post_id = $2`
	result, err := r.db.Exec(ctx, query, commentID, postID)
	if err != nil {
		return fmt.Errorf("failed to remove comment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("comment %s: %w", commentID, domain.ErrNotFound)
	}
	return nil
}

// Comments returns a post's comments in insertion order, each expanded
// with its author's display attributes
func (r *PostRepository) Comments(ctx context.Context, postID string) ([]models.CommentView, error) {
	query := `
		SELECT c.id, c.body, c.created_at, u.id, u.name, u.pfp
		FROM comments c
		JOIN users u ON u.id = c.posted_by
		WHERE c.post_id = $1
		ORDER BY c.created_at, c.id
	`
	rows, err := r.db.Query(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var comments []models.CommentView
	for rows.Next() {
		var c models.CommentView
		if err := rows.Scan(&c.ID, &c.Text, &c.CreatedAt, &c.Author.ID, &c.Author.Name, &c.Author.Pfp); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read comments: %w", err)
	}
	return comments, nil
}

// GetExpanded retrieves a single post with author, like count and comments
func (r *PostRepository) GetExpanded(ctx context.Context, postID string) (*models.FeedPost, error) {
	posts, err := r.queryFeedPosts(ctx, feedPostSelect+` WHERE p.id = $1`, postID)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, fmt.Errorf("post %s: %w", postID, domain.ErrNotFound)
	}
	return &posts[0], nil
}

// ListByAuthors retrieves all posts authored by any of authorIDs,
// newest first. Used for the following feed; no limit.
func (r *PostRepository) ListByAuthors(ctx context.Context, authorIDs []string) ([]models.FeedPost, error) {
	query := feedPostSelect + `
		WHERE p.posted_by = ANY($1)
		ORDER BY p.created_at DESC, p.id DESC
	`
	return r.queryFeedPosts(ctx, query, authorIDs)
}

// ListByAuthor retrieves one user's posts, newest first
func (r *PostRepository) ListByAuthor(ctx context.Context, authorID string) ([]models.FeedPost, error) {
	query := feedPostSelect + `
		WHERE p.posted_by = $1
		ORDER BY p.created_at DESC, p.id DESC
	`
	return r.queryFeedPosts(ctx, query, authorID)
}

// ListTopLiked retrieves the most-liked posts across all users,
// capped at limit. This is the cold-start discovery ranking.
func (r *PostRepository) ListTopLiked(ctx context.Context, limit int) ([]models.FeedPost, error) {
	query := feedPostSelect + `
		ORDER BY like_count DESC, p.id
		LIMIT $1
	`
	return r.queryFeedPosts(ctx, query, limit)
}

// Search retrieves posts whose title or story matches the query,
// case-insensitive
func (r *PostRepository) Search(ctx context.Context, text string) ([]models.FeedPost, error) {
	query := feedPostSelect + `
		WHERE p.title ILIKE '%' || $1 || '%' OR p.story ILIKE '%' || $1 || '%'
		ORDER BY p.created_at DESC, p.id DESC
	`
	return r.queryFeedPosts(ctx, query, text)
}

const feedPostSelect = `
	SELECT p.id, p.title, p.story, p.image, p.created_at,
		u.id, u.name, u.pfp,
		(SELECT COUNT(*) FROM post_likes l WHERE l.post_id = p.id) AS like_count
	FROM posts p
	JOIN users u ON u.id = p.posted_by
`

func (r *PostRepository) queryFeedPosts(ctx context.Context, query string, args ...any) ([]models.FeedPost, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	var posts []models.FeedPost
	for rows.Next() {
		var p models.FeedPost
		err := rows.Scan(
			&p.ID, &p.Title, &p.Story, &p.Image, &p.CreatedAt,
			&p.Author.ID, &p.Author.Name, &p.Author.Pfp,
			&p.LikeCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		p.Comments = []models.CommentView{}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read posts: %w", err)
	}

	if err := r.attachComments(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// attachComments loads the comments for all posts in one query and
// groups them onto their parents in insertion order.
func (r *PostRepository) attachComments(ctx context.Context, posts []models.FeedPost) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]string, len(posts))
	index := make(map[string]int, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
		index[p.ID] = i
	}

	query := `
		SELECT c.post_id, c.id, c.body, c.created_at, u.id, u.name, u.pfp
		FROM comments c
		JOIN users u ON u.id = c.posted_by
		WHERE c.post_id = ANY($1)
		ORDER BY c.created_at, c.id
	`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var postID string
		var c models.CommentView
		if err := rows.Scan(&postID, &c.ID, &c.Text, &c.CreatedAt, &c.Author.ID, &c.Author.Name, &c.Author.Pfp); err != nil {
			return fmt.Errorf("failed to scan comment: %w", err)
		}
		if i, ok := index[postID]; ok {
			posts[i].Comments = append(posts[i].Comments, c)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read comments: %w", err)
	}
	return nil
}
