package services

import (
	"context"
	"errors"
	"testing"

	"storyshare-backend/internal/domain"
)

func newPostFixture(t *testing.T) *PostService {
	t.Helper()
	users := newFakeUsers(testUser("author", "anna"))
	return NewPostService(newFakePosts(users), users)
}

func TestCreatePost(t *testing.T) {
	svc := newPostFixture(t)

	post, err := svc.Create(context.Background(), CreatePostRequest{
		Title:    "Hello",
		Story:    "A long story",
		PostedBy: "author",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if post.ID == "" || post.CreatedAt.IsZero() {
		t.Fatal("post should get a server-assigned id and timestamp")
	}
}

func TestCreatePostRequiresFields(t *testing.T) {
	svc := newPostFixture(t)

	_, err := svc.Create(context.Background(), CreatePostRequest{Story: "s", PostedBy: "author"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCreatePostUnknownAuthorFails(t *testing.T) {
	svc := newPostFixture(t)

	_, err := svc.Create(context.Background(), CreatePostRequest{
		Title:    "t",
		Story:    "s",
		PostedBy: "ghost",
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetMissingPostFails(t *testing.T) {
	svc := newPostFixture(t)

	if _, err := svc.Get(context.Background(), "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	svc := newPostFixture(t)

	if _, err := svc.Search(context.Background(), ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
