package blog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when no blog matches the lookup.
	ErrNotFound = errors.New("blog not found")
	// ErrStoreFailure wraps backend failures.
	ErrStoreFailure = errors.New("blog store failure")
)

// Blog is one generated post.
type Blog struct {
	ID        uuid.UUID `bson:"_id"`
	OwnerID   uuid.UUID `bson:"owner_id"`
	Keyword   string    `bson:"keyword"`
	Title     string    `bson:"title"`
	Content   string    `bson:"content"`
	WordCount int64     `bson:"word_count"`
	PlanKey   string    `bson:"plan_key"`
	CreatedAt time.Time `bson:"created_at"`
}

// Store persists generated posts.
type Store interface {
	// Create inserts a new blog.
	Create(ctx context.Context, b *Blog) error
	// Get returns the blog by ID, or ErrNotFound.
	Get(ctx context.Context, id uuid.UUID) (*Blog, error)
	// ListByOwner returns the owner's blogs, newest first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Blog, error)
}
