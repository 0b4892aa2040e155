package iambic

import (
	"context"
	"time"
)

type Post struct {
	ID        int64     `json:"id" bson:"_id" db:"id"`
	Body      string    `json:"body" bson:"body" db:"body"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" db:"created_at"`
}

// Manager stores posts. Posts are listed in creation order.
type Manager interface {
	AddPost(ctx context.Context, body string) (Post, error)
	GetPost(ctx context.Context, id int64) (Post, error)
	ListPosts(ctx context.Context) ([]Post, error)
	IsReady(ctx context.Context) bool
}
