package model

import (
	"context"
	"time"
)

// PostStore defines persistence operations for blog posts. The collection
// is kept most-recent-first. Stores trust their caller on ownership: edit
// and delete authorization happens in the view layer.
type PostStore interface {
	List(ctx context.Context) ([]Post, error)
	GetByID(ctx context.Context, id int64) (Post, error)
	Create(ctx context.Context, params CreatePostParams) (Post, error)
	Update(ctx context.Context, id int64, patch PostPatch) (Post, error)
	Delete(ctx context.Context, id int64) error
}

// Post represents a blog post. UserID is the owner recorded at creation
// time and never changes.
type Post struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Title     string    `json:"title"`
	Excerpt   string    `json:"excerpt"`
	Content   string    `json:"content"`
	Category  string    `json:"category,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreatePostParams carries the caller-supplied fields of a new post.
type CreatePostParams struct {
	UserID   int64
	Title    string
	Excerpt  string
	Content  string
	Category string
}

// PostPatch is a partial update: nil fields are left untouched.
type PostPatch struct {
	Title    *string
	Excerpt  *string
	Content  *string
	Category *string
}
