package domain

import "errors"

// Domain errors shared by services and handlers. Services wrap these with
// context via fmt.Errorf("...: %w", err); handlers match with errors.Is.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrSelfReference      = errors.New("cannot target yourself")
	ErrAlreadyFollowing   = errors.New("already following this user")
	ErrNotFollowing       = errors.New("not following this user")
	ErrAlreadyLiked       = errors.New("post already liked")
	ErrNotLiked           = errors.New("post not liked")
	ErrEmailTaken         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("wrong email or password")
)
