package blog_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/blogsmith/pkg/blog"
)

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	store := blog.NewMemoryStore()
	ctx := context.Background()
	owner := uuid.New()

	first := &blog.Blog{
		ID:        uuid.New(),
		OwnerID:   owner,
		Keyword:   "seo",
		Title:     "seo guide",
		Content:   "# seo guide",
		WordCount: 3,
		PlanKey:   "PRO",
		CreatedAt: time.Now().UTC().Add(-time.Hour),
	}
	second := &blog.Blog{
		ID:        uuid.New(),
		OwnerID:   owner,
		Keyword:   "email marketing",
		Title:     "email marketing guide",
		Content:   "# email marketing guide",
		WordCount: 4,
		PlanKey:   "PRO",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.Create(ctx, first))
	require.NoError(t, store.Create(ctx, second))
	require.NoError(t, store.Create(ctx, &blog.Blog{
		ID:        uuid.New(),
		OwnerID:   uuid.New(),
		Keyword:   "other tenant",
		CreatedAt: time.Now().UTC(),
	}))

	got, err := store.Get(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, "seo", got.Keyword)

	_, err = store.Get(ctx, uuid.New())
	require.ErrorIs(t, err, blog.ErrNotFound)

	list, err := store.ListByOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, second.ID, list[0].ID)
	require.Equal(t, first.ID, list[1].ID)
}
