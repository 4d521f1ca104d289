package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/arafhm/minigram/backend/internal/apperrors"
	"github.com/arafhm/minigram/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakePostRepo is an in-memory PostRepository for service tests.
type fakePostRepo struct {
	seq   int64
	posts map[string]models.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[string]models.Post)}
}

func clonePost(p models.Post) models.Post {
	p.Tags = append([]string(nil), p.Tags...)
	p.Likes = append([]string(nil), p.Likes...)
	p.Comments = append([]models.Comment(nil), p.Comments...)
	return p
}

func (f *fakePostRepo) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	f.seq++
	post.CreatedAt = time.Unix(f.seq, 0)
	post.UpdatedAt = post.CreatedAt
	f.posts[post.ID.Hex()] = clonePost(*post)
	return nil
}

func (f *fakePostRepo) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, apperrors.ErrNotFound
	}
	p, ok := f.posts[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	c := clonePost(p)
	return &c, nil
}

func (f *fakePostRepo) GetPostsPage(ctx context.Context, skip, limit int64) ([]models.Post, error) {
	all := make([]models.Post, 0, len(f.posts))
	for _, p := range f.posts {
		all = append(all, clonePost(p))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if skip >= int64(len(all)) {
		return nil, nil
	}
	all = all[skip:]
	if int64(len(all)) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (f *fakePostRepo) ReplacePost(ctx context.Context, post *models.Post) error {
	if _, ok := f.posts[post.ID.Hex()]; !ok {
		return apperrors.ErrNotFound
	}
	post.UpdatedAt = time.Now()
	f.posts[post.ID.Hex()] = clonePost(*post)
	return nil
}

func (f *fakePostRepo) DeletePost(ctx context.Context, id string) error {
	if _, ok := f.posts[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(f.posts, id)
	return nil
}

func (f *fakePostRepo) CountPosts(ctx context.Context) (int64, error) {
	return int64(len(f.posts)), nil
}

// fakeResolver hydrates from a fixed uid -> summary table.
type fakeResolver struct {
	users map[string]models.UserSummary
}

func (f *fakeResolver) Resolve(ctx context.Context, uids []string) (map[string]models.UserSummary, error) {
	out := make(map[string]models.UserSummary)
	for _, uid := range uids {
		if s, ok := f.users[uid]; ok {
			out[uid] = s
		}
	}
	return out, nil
}

func newTestService() (*PostService, *fakePostRepo) {
	repo := newFakePostRepo()
	resolver := &fakeResolver{users: map[string]models.UserSummary{
		"user-a": {UID: "user-a", Username: "alice", AvatarURL: "https://cdn.example.com/a.png"},
		"user-b": {UID: "user-b", Username: "bob"},
	}}
	return NewPostService(repo, resolver), repo
}

func TestCreatePostStartsEmpty(t *testing.T) {
	svc, _ := newTestService()

	post, err := svc.Create(context.Background(), "user-a", models.CreatePostRequest{Content: "  hello  ", Tags: []string{" go ", ""}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if post.LikesCount != 0 || post.CommentsCount != 0 {
		t.Fatalf("expected zero counts, got likes=%d comments=%d", post.LikesCount, post.CommentsCount)
	}
	if post.Content != "hello" {
		t.Fatalf("expected trimmed content, got %q", post.Content)
	}
	if len(post.Tags) != 1 || post.Tags[0] != "go" {
		t.Fatalf("expected trimmed tags, got %v", post.Tags)
	}
	if post.Author.Username != "alice" {
		t.Fatalf("expected hydrated author, got %+v", post.Author)
	}
}

func TestCreatePostRejectsBlankContent(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), "user-a", models.CreatePostRequest{Content: "   "})
	var verr *apperrors.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(verr.Fields) != 1 || verr.Fields[0].Field != "content" {
		t.Fatalf("expected content field error, got %+v", verr.Fields)
	}
}

func TestToggleLikeIsAnInvolution(t *testing.T) {
	svc, _ := newTestService()
	created, err := svc.Create(context.Background(), "user-a", models.CreatePostRequest{Content: "hello"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	liked, err := svc.ToggleLike(context.Background(), created.ID, "user-b")
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if liked.LikesCount != 1 || liked.Likes[0].UID != "user-b" {
		t.Fatalf("expected one like by user-b, got %+v", liked.Likes)
	}

	unliked, err := svc.ToggleLike(context.Background(), created.ID, "user-b")
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if unliked.LikesCount != 0 {
		t.Fatalf("expected like set restored, got %+v", unliked.Likes)
	}
}

func TestToggleLikePreservesInsertionOrder(t *testing.T) {
	svc, _ := newTestService()
	created, _ := svc.Create(context.Background(), "user-a", models.CreatePostRequest{Content: "hello"})

	if _, err := svc.ToggleLike(context.Background(), created.ID, "user-a"); err != nil {
		t.Fatalf("author toggle: %v", err)
	}
	post, err := svc.ToggleLike(context.Background(), created.ID, "user-b")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if post.LikesCount != 2 || post.Likes[0].UID != "user-a" || post.Likes[1].UID != "user-b" {
		t.Fatalf("expected likes in insertion order, got %+v", post.Likes)
	}
}

func TestAddCommentPrependsAndNeverDeduplicates(t *testing.T) {
	svc, _ := newTestService()
	created, _ := svc.Create(context.Background(), "user-a", models.CreatePostRequest{Content: "hello"})

	if _, err := svc.AddComment(context.Background(), created.ID, "user-a", "hi"); err != nil {
		t.Fatalf("first comment: %v", err)
	}
	post, err := svc.AddComment(context.Background(), created.ID, "user-a", "again")
	if err != nil {
		t.Fatalf("second comment: %v", err)
	}

	if post.CommentsCount != 2 {
		t.Fatalf("expected 2 comments, got %d", post.CommentsCount)
	}
	if post.Comments[0].Text != "again" || post.Comments[1].Text != "hi" {
		t.Fatalf("expected newest-first order, got %+v", post.Comments)
	}

	// Identical text still appends a new entry.
	post, err = svc.AddComment(context.Background(), created.ID, "user-b", "again")
	if err != nil {
		t.Fatalf("third comment: %v", err)
	}
	if post.CommentsCount != 3 || post.Comments[0].Text != "again" {
		t.Fatalf("expected duplicate text as new entry at position 0, got %+v", post.Comments)
	}
}

func TestAddCommentValidatesText(t *testing.T) {
	svc, _ := newTestService()
	created, _ := svc.Create(context.Background(), "user-a", models.CreatePostRequest{Content: "hello"})

	_, err := svc.AddComment(context.Background(), created.ID, "user-b", "  ")
	var verr *apperrors.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateByNonAuthorIsForbidden(t *testing.T) {
	svc, repo := newTestService()
	created, _ := svc.Create(context.Background(), "user-a", models.CreatePostRequest{Content: "hello"})

	_, err := svc.Update(context.Background(), created.ID, "user-b", models.UpdatePostRequest{Content: "hacked"})
	if !errors.Is(err, apperrors.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}

	stored := repo.posts[created.ID]
	if stored.Content != "hello" {
		t.Fatalf("post changed in storage after forbidden update: %q", stored.Content)
	}
}

func TestUpdatePatchKeepsOmittedFields(t *testing.T) {
	svc, _ := newTestService()
	created, _ := svc.Create(context.Background(), "user-a", models.CreatePostRequest{
		Content:  "hello",
		Tags:     []string{"go"},
		ImageURL: "https://cdn.example.com/1.png",
	})

	// Empty content falls back to the prior value; nil tags are retained.
	post, err := svc.Update(context.Background(), created.ID, "user-a", models.UpdatePostRequest{})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if post.Content != "hello" || len(post.Tags) != 1 || post.ImageURL == "" {
		t.Fatalf("expected fields retained, got %+v", post)
	}

	// A non-nil empty tag slice does replace.
	post, err = svc.Update(context.Background(), created.ID, "user-a", models.UpdatePostRequest{Tags: []string{}})
	if err != nil {
		t.Fatalf("update tags: %v", err)
	}
	if len(post.Tags) != 0 {
		t.Fatalf("expected tags replaced with empty, got %v", post.Tags)
	}

	post, err = svc.Update(context.Background(), created.ID, "user-a", models.UpdatePostRequest{Content: "edited"})
	if err != nil {
		t.Fatalf("update content: %v", err)
	}
	if post.Content != "edited" {
		t.Fatalf("expected content replaced, got %q", post.Content)
	}
}

func TestDeleteRequiresAuthor(t *testing.T) {
	svc, _ := newTestService()
	created, _ := svc.Create(context.Background(), "user-a", models.CreatePostRequest{Content: "hello"})

	if err := svc.Delete(context.Background(), created.ID, "user-b"); !errors.Is(err, apperrors.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, err := svc.GetByID(context.Background(), created.ID); err != nil {
		t.Fatalf("post should survive a forbidden delete: %v", err)
	}

	if err := svc.Delete(context.Background(), created.ID, "user-a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), created.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestListPagination(t *testing.T) {
	svc, _ := newTestService()
	for i := 0; i < 15; i++ {
		if _, err := svc.Create(context.Background(), "user-a", models.CreatePostRequest{Content: fmt.Sprintf("post %d", i)}); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	page, err := svc.List(context.Background(), 2, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Posts) != 5 {
		t.Fatalf("expected 5 posts on page 2, got %d", len(page.Posts))
	}
	if page.Pages != 2 || page.Total != 15 || page.Page != 2 {
		t.Fatalf("expected pages=2 total=15 page=2, got %+v", page)
	}

	first, err := svc.List(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("list page 1: %v", err)
	}
	if first.Posts[0].Content != "post 14" {
		t.Fatalf("expected newest first, got %q", first.Posts[0].Content)
	}
	for i := 1; i < len(first.Posts); i++ {
		if first.Posts[i].CreatedAt.After(first.Posts[i-1].CreatedAt) {
			t.Fatalf("posts not sorted by created_at descending at index %d", i)
		}
	}
}

func TestListCoercesBadPagingToDefaults(t *testing.T) {
	svc, _ := newTestService()
	for i := 0; i < 3; i++ {
		svc.Create(context.Background(), "user-a", models.CreatePostRequest{Content: "x"})
	}

	page, err := svc.List(context.Background(), 0, -7)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Page != 1 || page.Pages != 1 || len(page.Posts) != 3 {
		t.Fatalf("expected default paging, got %+v", page)
	}
}

func TestGetByIDCollapsesMalformedIDs(t *testing.T) {
	svc, _ := newTestService()

	_, missingErr := svc.GetByID(context.Background(), primitive.NewObjectID().Hex())
	_, malformedErr := svc.GetByID(context.Background(), "not-a-hex-id")

	if !errors.Is(missingErr, apperrors.ErrNotFound) {
		t.Fatalf("expected not found for missing id, got %v", missingErr)
	}
	if !errors.Is(malformedErr, apperrors.ErrNotFound) {
		t.Fatalf("expected not found for malformed id, got %v", malformedErr)
	}
}

func TestHydrationDegradesForUnknownUsers(t *testing.T) {
	svc, _ := newTestService()
	created, _ := svc.Create(context.Background(), "user-a", models.CreatePostRequest{Content: "hello"})

	post, err := svc.AddComment(context.Background(), created.ID, "ghost-user", "boo")
	if err != nil {
		t.Fatalf("comment: %v", err)
	}
	if post.Comments[0].Author.UID != "ghost-user" || post.Comments[0].Author.Username != "" {
		t.Fatalf("expected bare reference for unknown commenter, got %+v", post.Comments[0].Author)
	}
}
