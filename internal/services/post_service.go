package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/arafhm/minigram/backend/internal/apperrors"
	"github.com/arafhm/minigram/backend/internal/models"
	"github.com/arafhm/minigram/backend/internal/repositories"
)

const (
	defaultPage  = 1
	defaultLimit = 10

	maxContentLength = 2000
	maxCommentLength = 500
)

// PostService owns the post aggregate: it enforces authorship, applies
// mutations and hydrates identity references before anything is returned.
// It raises typed failures and never shapes HTTP responses itself.
type PostService struct {
	posts    repositories.PostRepository
	resolver UserResolver
}

// NewPostService creates a new PostService
func NewPostService(posts repositories.PostRepository, resolver UserResolver) *PostService {
	return &PostService{posts: posts, resolver: resolver}
}

// PostPage is the result of a paginated listing.
type PostPage struct {
	Posts []models.PostView `json:"posts"`
	Page  int               `json:"page"`
	Pages int               `json:"pages"`
	Total int64             `json:"total"`
}

// Create validates and persists a new post for the given author.
func (s *PostService) Create(ctx context.Context, authorUID string, req models.CreatePostRequest) (*models.PostView, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" || utf8.RuneCountInString(content) > maxContentLength {
		return nil, apperrors.NewValidationError(apperrors.FieldError{
			Field:   "content",
			Message: "Content must be between 1 and 2000 characters",
		})
	}

	post := &models.Post{
		AuthorID: authorUID,
		Content:  content,
		ImageURL: req.ImageURL,
		Tags:     trimTags(req.Tags),
		Likes:    []string{},
		Comments: []models.Comment{},
	}

	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, err
	}

	return s.hydrate(ctx, post)
}

// List returns one page of posts, newest first. Absent or unusable paging
// values silently fall back to page 1 and a limit of 10.
func (s *PostService) List(ctx context.Context, page, limit int) (*PostPage, error) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}

	total, err := s.posts.CountPosts(ctx)
	if err != nil {
		return nil, err
	}

	skip := int64(page-1) * int64(limit)
	posts, err := s.posts.GetPostsPage(ctx, skip, int64(limit))
	if err != nil {
		return nil, err
	}

	refs := make([]string, 0, len(posts))
	for i := range posts {
		refs = append(refs, collectRefs(&posts[i])...)
	}
	users, err := s.resolver.Resolve(ctx, refs)
	if err != nil {
		return nil, err
	}

	views := make([]models.PostView, 0, len(posts))
	for i := range posts {
		views = append(views, models.NewPostView(&posts[i], users))
	}

	pages := int((total + int64(limit) - 1) / int64(limit))

	return &PostPage{
		Posts: views,
		Page:  page,
		Pages: pages,
		Total: total,
	}, nil
}

// GetByID returns a single hydrated post.
func (s *PostService) GetByID(ctx context.Context, id string) (*models.PostView, error) {
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.hydrate(ctx, post)
}

// Update applies a partial edit to a post owned by the caller. Fields left
// empty in the patch keep their previous value.
func (s *PostService) Update(ctx context.Context, id, callerUID string, req models.UpdatePostRequest) (*models.PostView, error) {
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != callerUID {
		return nil, apperrors.ErrForbidden
	}

	if content := strings.TrimSpace(req.Content); content != "" {
		if utf8.RuneCountInString(content) > maxContentLength {
			return nil, apperrors.NewValidationError(apperrors.FieldError{
				Field:   "content",
				Message: "Content must be between 1 and 2000 characters",
			})
		}
		post.Content = content
	}
	if req.Tags != nil {
		post.Tags = trimTags(req.Tags)
	}
	if req.ImageURL != "" {
		post.ImageURL = req.ImageURL
	}

	if err := s.posts.ReplacePost(ctx, post); err != nil {
		return nil, err
	}

	return s.hydrate(ctx, post)
}

// Delete removes a post owned by the caller, together with its embedded
// comments and likes, as one operation.
func (s *PostService) Delete(ctx context.Context, id, callerUID string) error {
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return err
	}
	if post.AuthorID != callerUID {
		return apperrors.ErrForbidden
	}
	return s.posts.DeletePost(ctx, id)
}

// ToggleLike likes the post for the caller, or unlikes it when already
// liked. Any identity may toggle, the author included.
func (s *PostService) ToggleLike(ctx context.Context, id, callerUID string) (*models.PostView, error) {
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return nil, err
	}

	post.ToggleLike(callerUID)

	if err := s.posts.ReplacePost(ctx, post); err != nil {
		return nil, err
	}

	return s.hydrate(ctx, post)
}

// AddComment prepends a comment by the caller and returns the whole updated
// post. Commenting twice with the same text adds two entries.
func (s *PostService) AddComment(ctx context.Context, id, callerUID, text string) (*models.PostView, error) {
	text = strings.TrimSpace(text)
	if text == "" || utf8.RuneCountInString(text) > maxCommentLength {
		return nil, apperrors.NewValidationError(apperrors.FieldError{
			Field:   "text",
			Message: "Text must be between 1 and 500 characters",
		})
	}

	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return nil, err
	}

	post.PrependComment(models.Comment{
		Text:      text,
		AuthorID:  callerUID,
		CreatedAt: time.Now(),
	})

	if err := s.posts.ReplacePost(ctx, post); err != nil {
		return nil, err
	}

	return s.hydrate(ctx, post)
}

// hydrate resolves every identity reference on the post and builds its view.
func (s *PostService) hydrate(ctx context.Context, post *models.Post) (*models.PostView, error) {
	users, err := s.resolver.Resolve(ctx, collectRefs(post))
	if err != nil {
		return nil, err
	}
	view := models.NewPostView(post, users)
	return &view, nil
}

func collectRefs(post *models.Post) []string {
	refs := make([]string, 0, 1+len(post.Likes)+len(post.Comments))
	refs = append(refs, post.AuthorID)
	refs = append(refs, post.Likes...)
	for _, c := range post.Comments {
		refs = append(refs, c.AuthorID)
	}
	return refs
}

func trimTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
