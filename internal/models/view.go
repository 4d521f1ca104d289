package models

import "time"

// UserSummary is the display projection an identity reference hydrates into.
type UserSummary struct {
	UID       string `json:"uid"`
	Username  string `json:"username,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// CommentView is a comment with its author hydrated.
type CommentView struct {
	Text      string      `json:"text"`
	Author    UserSummary `json:"author"`
	CreatedAt time.Time   `json:"created_at"`
}

// PostView is the response shape of a post. The like and comment counts are
// derived from the live collections here, they are never stored on the
// document.
type PostView struct {
	ID            string        `json:"id"`
	Author        UserSummary   `json:"author"`
	Content       string        `json:"content"`
	ImageURL      string        `json:"image_url,omitempty"`
	Tags          []string      `json:"tags"`
	Likes         []UserSummary `json:"likes"`
	LikesCount    int           `json:"likes_count"`
	Comments      []CommentView `json:"comments"`
	CommentsCount int           `json:"comments_count"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// NewPostView projects a post into its response shape, resolving identity
// references through the given summaries. References missing from the map
// degrade to a summary carrying only the reference itself, so a deleted
// account never breaks a read.
func NewPostView(p *Post, users map[string]UserSummary) PostView {
	summary := func(uid string) UserSummary {
		if s, ok := users[uid]; ok {
			return s
		}
		return UserSummary{UID: uid}
	}

	likes := make([]UserSummary, 0, len(p.Likes))
	for _, uid := range p.Likes {
		likes = append(likes, summary(uid))
	}

	comments := make([]CommentView, 0, len(p.Comments))
	for _, c := range p.Comments {
		comments = append(comments, CommentView{
			Text:      c.Text,
			Author:    summary(c.AuthorID),
			CreatedAt: c.CreatedAt,
		})
	}

	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}

	return PostView{
		ID:            p.ID.Hex(),
		Author:        summary(p.AuthorID),
		Content:       p.Content,
		ImageURL:      p.ImageURL,
		Tags:          tags,
		Likes:         likes,
		LikesCount:    len(likes),
		Comments:      comments,
		CommentsCount: len(comments),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
