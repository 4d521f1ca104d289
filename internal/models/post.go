package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is the aggregate root stored as a single MongoDB document. Comments
// and likes are embedded value collections with no lifecycle of their own:
// every mutation loads the document, changes the in-memory copy and writes
// the whole document back.
type Post struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	AuthorID  string             `json:"author_id" bson:"author_id"` // identity reference of the owner, immutable
	Content   string             `json:"content" bson:"content"`
	ImageURL  string             `json:"image_url,omitempty" bson:"image_url,omitempty"`
	Tags      []string           `json:"tags" bson:"tags"`
	Likes     []string           `json:"likes" bson:"likes"`       // identity references, each at most once
	Comments  []Comment          `json:"comments" bson:"comments"` // newest first
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// Comment is embedded inside a Post and has no identity beyond its position.
type Comment struct {
	Text      string    `json:"text" bson:"text"`
	AuthorID  string    `json:"author_id" bson:"author_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// HasLiked reports whether the given identity reference is in the like set.
func (p *Post) HasLiked(uid string) bool {
	for _, id := range p.Likes {
		if id == uid {
			return true
		}
	}
	return false
}

// ToggleLike adds the identity reference to the like set, or removes it if
// already present. Returns true when the post is liked after the call.
func (p *Post) ToggleLike(uid string) bool {
	for i, id := range p.Likes {
		if id == uid {
			p.Likes = append(p.Likes[:i], p.Likes[i+1:]...)
			return false
		}
	}
	p.Likes = append(p.Likes, uid)
	return true
}

// PrependComment inserts a comment at position 0, keeping newest-first order.
func (p *Post) PrependComment(c Comment) {
	p.Comments = append([]Comment{c}, p.Comments...)
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content  string   `json:"content" validate:"required,min=1,max=2000"`
	Tags     []string `json:"tags,omitempty"`
	ImageURL string   `json:"image_url,omitempty" validate:"omitempty,url"`
}

// UpdatePostRequest defines the request body for updating an existing post.
// Empty fields keep their previous value; an empty string cannot clear
// content or the image reference through this endpoint.
type UpdatePostRequest struct {
	Content  string   `json:"content,omitempty" validate:"omitempty,min=1,max=2000"`
	Tags     []string `json:"tags,omitempty"`
	ImageURL string   `json:"image_url,omitempty" validate:"omitempty,url"`
}

// CreateCommentRequest defines the request body for commenting on a post
type CreateCommentRequest struct {
	Text string `json:"text" validate:"required,min=1,max=500"`
}
