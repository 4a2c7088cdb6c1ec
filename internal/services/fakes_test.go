package services

import (
	"context"
	"fmt"
	"sort"

	"storyshare-backend/internal/domain"
	"storyshare-backend/internal/models"
)

// In-memory stand-ins for the pgx repositories.

type fakeUsers struct {
	users map[string]*models.User
}

func newFakeUsers(users ...*models.User) *fakeUsers {
	f := &fakeUsers{users: make(map[string]*models.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, user *models.User) error {
	for _, u := range f.users {
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, domain.ErrNotFound)
}

func (f *fakeUsers) Exists(_ context.Context, id string) (bool, error) {
	_, ok := f.users[id]
	return ok, nil
}

func (f *fakeUsers) SearchByName(_ context.Context, name string) ([]models.UserSummary, error) {
	var out []models.UserSummary
	for _, u := range f.users {
		if u.Name == name {
			out = append(out, models.UserSummary{ID: u.ID, Name: u.Name, Pfp: u.Pfp})
		}
	}
	return out, nil
}

func (f *fakeUsers) UpdatePfp(_ context.Context, userID, pfp string) error {
	u, ok := f.users[userID]
	if !ok {
		return fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}
	u.Pfp = pfp
	return nil
}

func (f *fakeUsers) UpdateBio(_ context.Context, userID, bio string) error {
	u, ok := f.users[userID]
	if !ok {
		return fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}
	u.Bio = bio
	return nil
}

func (f *fakeUsers) UpdatePushToken(_ context.Context, userID string, pushToken *string) error {
	u, ok := f.users[userID]
	if !ok {
		return fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}
	u.PushToken = pushToken
	return nil
}

type edge struct {
	follower, followee string
}

type fakeFollows struct {
	edges []edge
	users *fakeUsers
}

func newFakeFollows(users *fakeUsers) *fakeFollows {
	return &fakeFollows{users: users}
}

func (f *fakeFollows) index(followerID, followeeID string) int {
	for i, e := range f.edges {
		if e.follower == followerID && e.followee == followeeID {
			return i
		}
	}
	return -1
}

func (f *fakeFollows) Create(_ context.Context, followerID, followeeID string) error {
	if f.index(followerID, followeeID) >= 0 {
		return domain.ErrAlreadyFollowing
	}
	f.edges = append(f.edges, edge{followerID, followeeID})
	return nil
}

func (f *fakeFollows) Delete(_ context.Context, followerID, followeeID string) error {
	i := f.index(followerID, followeeID)
	if i < 0 {
		return domain.ErrNotFollowing
	}
	f.edges = append(f.edges[:i], f.edges[i+1:]...)
	return nil
}

func (f *fakeFollows) Exists(_ context.Context, followerID, followeeID string) (bool, error) {
	return f.index(followerID, followeeID) >= 0, nil
}

func (f *fakeFollows) Following(_ context.Context, userID string) ([]models.UserSummary, error) {
	var out []models.UserSummary
	for _, e := range f.edges {
		if e.follower == userID {
			out = append(out, f.summary(e.followee))
		}
	}
	return out, nil
}

func (f *fakeFollows) Followers(_ context.Context, userID string) ([]models.UserSummary, error) {
	var out []models.UserSummary
	for _, e := range f.edges {
		if e.followee == userID {
			out = append(out, f.summary(e.follower))
		}
	}
	return out, nil
}

func (f *fakeFollows) FollowingIDs(_ context.Context, userID string) ([]string, error) {
	var out []string
	for _, e := range f.edges {
		if e.follower == userID {
			out = append(out, e.followee)
		}
	}
	return out, nil
}

func (f *fakeFollows) summary(userID string) models.UserSummary {
	if u, ok := f.users.users[userID]; ok {
		return models.UserSummary{ID: u.ID, Name: u.Name, Pfp: u.Pfp}
	}
	return models.UserSummary{ID: userID}
}

type fakePosts struct {
	posts    map[string]*models.Post
	order    []string
	likes    map[string]map[string]bool
	comments map[string][]*models.Comment
	users    *fakeUsers
}

func newFakePosts(users *fakeUsers) *fakePosts {
	return &fakePosts{
		posts:    make(map[string]*models.Post),
		likes:    make(map[string]map[string]bool),
		comments: make(map[string][]*models.Comment),
		users:    users,
	}
}

func (f *fakePosts) Create(_ context.Context, post *models.Post) error {
	f.posts[post.ID] = post
	f.order = append(f.order, post.ID)
	return nil
}

func (f *fakePosts) GetByID(_ context.Context, id string) (*models.Post, error) {
	if p, ok := f.posts[id]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("post %s: %w", id, domain.ErrNotFound)
}

func (f *fakePosts) Like(_ context.Context, postID, userID string) error {
	set := f.likes[postID]
	if set == nil {
		set = make(map[string]bool)
		f.likes[postID] = set
	}
	if set[userID] {
		return domain.ErrAlreadyLiked
	}
	set[userID] = true
	return nil
}

func (f *fakePosts) Unlike(_ context.Context, postID, userID string) error {
	if !f.likes[postID][userID] {
		return domain.ErrNotLiked
	}
	delete(f.likes[postID], userID)
	return nil
}

func (f *fakePosts) HasLiked(_ context.Context, postID, userID string) (bool, error) {
	return f.likes[postID][userID], nil
}

func (f *fakePosts) AddComment(_ context.Context, comment *models.Comment) error {
	f.comments[comment.PostID] = append(f.comments[comment.PostID], comment)
	return nil
}

func (f *fakePosts) RemoveComment(_ context.Context, postID, commentID string) error {
	seq := f.comments[postID]
	for i, c := range seq {
		if c.ID == commentID {
			f.comments[postID] = append(seq[:i], seq[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("comment %s: %w", commentID, domain.ErrNotFound)
}

func (f *fakePosts) Comments(_ context.Context, postID string) ([]models.CommentView, error) {
	var out []models.CommentView
	for _, c := range f.comments[postID] {
		view := models.CommentView{ID: c.ID, Text: c.Text, CreatedAt: c.CreatedAt}
		if u, ok := f.users.users[c.PostedBy]; ok {
			view.Author = models.UserSummary{ID: u.ID, Name: u.Name, Pfp: u.Pfp}
		}
		out = append(out, view)
	}
	return out, nil
}

func (f *fakePosts) GetExpanded(_ context.Context, postID string) (*models.FeedPost, error) {
	p, ok := f.posts[postID]
	if !ok {
		return nil, fmt.Errorf("post %s: %w", postID, domain.ErrNotFound)
	}
	fp := f.expand(p)
	return &fp, nil
}

func (f *fakePosts) ListByAuthors(_ context.Context, authorIDs []string) ([]models.FeedPost, error) {
	allowed := make(map[string]bool, len(authorIDs))
	for _, id := range authorIDs {
		allowed[id] = true
	}
	var out []models.FeedPost
	for _, id := range f.order {
		if p := f.posts[id]; allowed[p.PostedBy] {
			out = append(out, f.expand(p))
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (f *fakePosts) ListByAuthor(ctx context.Context, authorID string) ([]models.FeedPost, error) {
	return f.ListByAuthors(ctx, []string{authorID})
}

func (f *fakePosts) ListTopLiked(_ context.Context, limit int) ([]models.FeedPost, error) {
	var out []models.FeedPost
	for _, id := range f.order {
		out = append(out, f.expand(f.posts[id]))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].LikeCount != out[j].LikeCount {
			return out[i].LikeCount > out[j].LikeCount
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakePosts) Search(_ context.Context, _ string) ([]models.FeedPost, error) {
	return nil, nil
}

func (f *fakePosts) expand(p *models.Post) models.FeedPost {
	fp := models.FeedPost{
		ID:        p.ID,
		Title:     p.Title,
		Story:     p.Story,
		Image:     p.Image,
		LikeCount: len(f.likes[p.ID]),
		Comments:  []models.CommentView{},
		CreatedAt: p.CreatedAt,
	}
	if u, ok := f.users.users[p.PostedBy]; ok {
		fp.Author = models.UserSummary{ID: u.ID, Name: u.Name, Pfp: u.Pfp}
	} else {
		fp.Author = models.UserSummary{ID: p.PostedBy}
	}
	views, _ := f.Comments(context.Background(), p.ID)
	if views != nil {
		fp.Comments = views
	}
	return fp
}

func sortNewestFirst(posts []models.FeedPost) {
	sort.SliceStable(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID > posts[j].ID
	})
}

type fakeNotifier struct {
	err   error
	calls chan string
}

func newFakeNotifier(err error) *fakeNotifier {
	return &fakeNotifier{err: err, calls: make(chan string, 8)}
}

func (f *fakeNotifier) PushNewFollower(deviceToken, followerName string) error {
	f.calls <- deviceToken
	return f.err
}

type fakeHub struct {
	online map[string]bool
	sent   chan Event
	err    error
}

func newFakeHub(online ...string) *fakeHub {
	h := &fakeHub{online: make(map[string]bool), sent: make(chan Event, 8)}
	for _, id := range online {
		h.online[id] = true
	}
	return h
}

func (f *fakeHub) IsOnline(userID string) bool {
	return f.online[userID]
}

func (f *fakeHub) SendToUser(userID string, event Event) error {
	f.sent <- event
	return f.err
}
