package models

import "time"

// User represents a registered user
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	DOB          time.Time `json:"dob"`
	Bio          string    `json:"bio,omitempty"`
	Pfp          string    `json:"pfp,omitempty"`
	PushToken    *string   `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserSummary is the display projection of a user embedded in
// relationship lists, posts and comments. It never carries credentials.
type UserSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Pfp  string `json:"pfp,omitempty"`
}

// Follow is a directed edge in the follow graph. Both the followers and
// the following list of a user are read from this single relation.
type Follow struct {
	FollowerID string    `json:"follower_id"`
	FolloweeID string    `json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// Post represents a story posted by a user
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Story     string    `json:"story"`
	Image     *string   `json:"image,omitempty"`
	PostedBy  string    `json:"posted_by"`
	CreatedAt time.Time `json:"created_at"`
}

// Comment is a comment on a post; its id is unique within the post
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	PostedBy  string    `json:"posted_by"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentView is a comment expanded with its author's display attributes
type CommentView struct {
	ID        string      `json:"id"`
	Text      string      `json:"text"`
	Author    UserSummary `json:"posted_by"`
	CreatedAt time.Time   `json:"created_at"`
}

// FeedPost is a post expanded for feed and detail responses: author
// summary, like count and comments with their authors.
type FeedPost struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Story     string        `json:"story"`
	Image     *string       `json:"image,omitempty"`
	Author    UserSummary   `json:"posted_by"`
	LikeCount int           `json:"like_count"`
	Comments  []CommentView `json:"comments"`
	CreatedAt time.Time     `json:"created_at"`
}
