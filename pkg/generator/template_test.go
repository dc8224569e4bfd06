package generator_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/blogsmith/pkg/generator"
)

func TestTemplateGenerator(t *testing.T) {
	t.Parallel()

	gen := generator.NewTemplateGenerator()

	t.Run("produces article around the keyword", func(t *testing.T) {
		t.Parallel()

		res, err := gen.Generate(context.Background(), "email marketing", 1200)
		require.NoError(t, err)
		require.Contains(t, res.Title, "email marketing")
		require.True(t, strings.HasPrefix(res.Content, "# "))
		require.Contains(t, res.Content, "## Conclusion")
		require.Equal(t, generator.CountWords(res.Content), res.WordCount)
		require.Positive(t, res.WordCount)
	})

	t.Run("rejects empty keyword", func(t *testing.T) {
		t.Parallel()

		_, err := gen.Generate(context.Background(), "   ", 0)
		require.ErrorIs(t, err, generator.ErrEmptyKeyword)
	})

	t.Run("honors cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := gen.Generate(ctx, "seo", 0)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestCountWords(t *testing.T) {
	t.Parallel()

	require.Equal(t, int64(0), generator.CountWords(""))
	require.Equal(t, int64(2), generator.CountWords("  hello   world \n"))
	require.Equal(t, int64(4), generator.CountWords("# title\n\nbody text"))
}
