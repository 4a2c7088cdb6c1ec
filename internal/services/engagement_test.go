package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"storyshare-backend/internal/domain"
	"storyshare-backend/internal/models"
)

func newEngagementFixture(t *testing.T) (*EngagementService, *fakePosts, *fakeUsers) {
	t.Helper()
	users := newFakeUsers(testUser("author", "anna"), testUser("reader", "rita"))
	posts := newFakePosts(users)
	posts.Create(context.Background(), &models.Post{
		ID:        "p1",
		Title:     "A story",
		Story:     "Once upon a time",
		PostedBy:  "author",
		CreatedAt: time.Now(),
	})
	return NewEngagementService(posts, users, nil), posts, users
}

func TestLikePost(t *testing.T) {
	svc, _, _ := newEngagementFixture(t)
	ctx := context.Background()

	if err := svc.LikePost(ctx, "p1", "reader"); err != nil {
		t.Fatalf("like failed: %v", err)
	}

	liked, err := svc.HasLiked(ctx, "p1", "reader")
	if err != nil {
		t.Fatalf("HasLiked failed: %v", err)
	}
	if !liked {
		t.Fatal("HasLiked should be true after LikePost")
	}
}

func TestLikePostTwiceFails(t *testing.T) {
	svc, _, _ := newEngagementFixture(t)
	ctx := context.Background()

	if err := svc.LikePost(ctx, "p1", "reader"); err != nil {
		t.Fatalf("like failed: %v", err)
	}
	if err := svc.LikePost(ctx, "p1", "reader"); !errors.Is(err, domain.ErrAlreadyLiked) {
		t.Fatalf("expected ErrAlreadyLiked, got %v", err)
	}
}

func TestUnlikeClearsLike(t *testing.T) {
	svc, _, _ := newEngagementFixture(t)
	ctx := context.Background()

	if err := svc.LikePost(ctx, "p1", "reader"); err != nil {
		t.Fatalf("like failed: %v", err)
	}
	if err := svc.UnlikePost(ctx, "p1", "reader"); err != nil {
		t.Fatalf("unlike failed: %v", err)
	}

	liked, _ := svc.HasLiked(ctx, "p1", "reader")
	if liked {
		t.Fatal("HasLiked should be false after UnlikePost")
	}
}

func TestUnlikeWithoutLikeFails(t *testing.T) {
	svc, _, _ := newEngagementFixture(t)

	if err := svc.UnlikePost(context.Background(), "p1", "reader"); !errors.Is(err, domain.ErrNotLiked) {
		t.Fatalf("expected ErrNotLiked, got %v", err)
	}
}

func TestEngagementOnMissingPostFails(t *testing.T) {
	svc, _, _ := newEngagementFixture(t)
	ctx := context.Background()

	if err := svc.LikePost(ctx, "nope", "reader"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from LikePost, got %v", err)
	}
	if _, err := svc.HasLiked(ctx, "nope", "reader"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from HasLiked, got %v", err)
	}
	if _, err := svc.AddComment(ctx, "nope", "reader", "hi"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from AddComment, got %v", err)
	}
}

func TestAddCommentRequiresText(t *testing.T) {
	svc, _, _ := newEngagementFixture(t)

	if _, err := svc.AddComment(context.Background(), "p1", "reader", "   "); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAddCommentAssignsIDAndTimestamp(t *testing.T) {
	svc, _, _ := newEngagementFixture(t)

	comment, err := svc.AddComment(context.Background(), "p1", "reader", "nice one")
	if err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}
	if comment.ID == "" {
		t.Fatal("comment should get a server-assigned id")
	}
	if comment.CreatedAt.IsZero() {
		t.Fatal("comment should get a server-assigned timestamp")
	}
}

func TestAddThenRemoveCommentRestoresLength(t *testing.T) {
	svc, _, _ := newEngagementFixture(t)
	ctx := context.Background()

	before, err := svc.Comments(ctx, "p1")
	if err != nil {
		t.Fatalf("Comments failed: %v", err)
	}

	comment, err := svc.AddComment(ctx, "p1", "reader", "temporary")
	if err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}
	if err := svc.RemoveComment(ctx, "p1", comment.ID); err != nil {
		t.Fatalf("RemoveComment failed: %v", err)
	}

	after, err := svc.Comments(ctx, "p1")
	if err != nil {
		t.Fatalf("Comments failed: %v", err)
	}
	if len(after) != len(before) {
		t.Fatalf("comment count changed: before=%d after=%d", len(before), len(after))
	}
}

func TestRemoveUnknownCommentFails(t *testing.T) {
	svc, _, _ := newEngagementFixture(t)

	if err := svc.RemoveComment(context.Background(), "p1", "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCommentsKeepInsertionOrder(t *testing.T) {
	svc, _, _ := newEngagementFixture(t)
	ctx := context.Background()

	first, _ := svc.AddComment(ctx, "p1", "reader", "first")
	second, _ := svc.AddComment(ctx, "p1", "author", "second")

	comments, err := svc.Comments(ctx, "p1")
	if err != nil {
		t.Fatalf("Comments failed: %v", err)
	}
	if len(comments) != 2 || comments[0].ID != first.ID || comments[1].ID != second.ID {
		t.Fatalf("comments out of order: %v", comments)
	}
}

func TestLikeNotifiesOnlineAuthor(t *testing.T) {
	users := newFakeUsers(testUser("author", "anna"), testUser("reader", "rita"))
	posts := newFakePosts(users)
	posts.Create(context.Background(), &models.Post{ID: "p1", Title: "t", Story: "s", PostedBy: "author"})

	hub := newFakeHub("author")
	svc := NewEngagementService(posts, users, hub)

	if err := svc.LikePost(context.Background(), "p1", "reader"); err != nil {
		t.Fatalf("like failed: %v", err)
	}

	select {
	case event := <-hub.sent:
		if event.Type != EventPostLiked || event.PostID != "p1" || event.Actor.ID != "reader" {
			t.Fatalf("unexpected event %+v", event)
		}
	case <-time.After(time.Second):
		t.Fatal("expected a like event")
	}
}
