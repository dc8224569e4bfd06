package generation_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/blogsmith/modules/generation"
	"github.com/dmitrymomot/blogsmith/pkg/account"
	"github.com/dmitrymomot/blogsmith/pkg/blog"
	"github.com/dmitrymomot/blogsmith/pkg/entitlement"
	"github.com/dmitrymomot/blogsmith/pkg/generator"
	"github.com/dmitrymomot/blogsmith/pkg/plans"
)

type fixture struct {
	handler  http.Handler
	accounts account.Store
	blogs    blog.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	catalog, err := plans.NewCatalog(context.Background(), plans.NewStaticSource(plans.DefaultPlans()...))
	require.NoError(t, err)
	accounts := account.NewMemoryStore()
	blogs := blog.NewMemoryStore()

	handler := generation.Router(generation.RouterOptions{
		Guard:     entitlement.NewGuard(catalog, accounts),
		Generator: generator.NewTemplateGenerator(),
		Blogs:     blogs,
	})
	return &fixture{handler: handler, accounts: accounts, blogs: blogs}
}

func (f *fixture) seedAccount(t *testing.T, planKey string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, f.accounts.Create(context.Background(), &account.Account{
		ID:          id,
		Email:       "tenant@example.com",
		PlanKey:     planKey,
		TeamMembers: 1,
		CreatedAt:   time.Now().UTC(),
	}))
	return id
}

func (f *fixture) generate(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/blogs/generate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func TestGenerateBlog(t *testing.T) {
	t.Parallel()

	t.Run("generates and meters a blog", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		tenantID := f.seedAccount(t, "PRO")

		rec := f.generate(t, `{"keyword":"seo","userId":"`+tenantID.String()+`"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Success bool `json:"success"`
			Blog    struct {
				ID        string `json:"id"`
				Keyword   string `json:"keyword"`
				WordCount int64  `json:"wordCount"`
				Plan      string `json:"plan"`
			} `json:"blog"`
			Usage struct {
				BlogsUsed int64 `json:"blogsUsed"`
				WordsUsed int64 `json:"wordsUsed"`
			} `json:"usage"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.True(t, resp.Success)
		require.Equal(t, "seo", resp.Blog.Keyword)
		require.Equal(t, "PRO", resp.Blog.Plan)
		require.Equal(t, int64(1), resp.Usage.BlogsUsed)
		require.Equal(t, resp.Blog.WordCount, resp.Usage.WordsUsed)

		saved, err := f.blogs.ListByOwner(context.Background(), tenantID)
		require.NoError(t, err)
		require.Len(t, saved, 1)
		require.Equal(t, resp.Blog.WordCount, saved[0].WordCount)
	})

	t.Run("denies with upgrade prompt when credits are spent", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		tenantID := f.seedAccount(t, plans.FreePlanKey)

		for range 3 {
			rec := f.generate(t, `{"keyword":"seo","userId":"`+tenantID.String()+`"}`)
			require.Equal(t, http.StatusOK, rec.Code)
		}

		rec := f.generate(t, `{"keyword":"seo","userId":"`+tenantID.String()+`"}`)
		require.Equal(t, http.StatusTooManyRequests, rec.Code)

		var resp struct {
			Error           string `json:"error"`
			LimitType       string `json:"limitType"`
			UpgradeRequired bool   `json:"upgradeRequired"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "blogs", resp.LimitType)
		require.True(t, resp.UpgradeRequired)
		require.NotEmpty(t, resp.Error)

		saved, err := f.blogs.ListByOwner(context.Background(), tenantID)
		require.NoError(t, err)
		require.Len(t, saved, 3)
	})

	t.Run("denies on prospective word overflow", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		tenantID := f.seedAccount(t, plans.FreePlanKey)

		rec := f.generate(t, `{"keyword":"seo","userId":"`+tenantID.String()+`","wordCount":999999}`)
		require.Equal(t, http.StatusTooManyRequests, rec.Code)

		var resp struct {
			LimitType string `json:"limitType"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "words", resp.LimitType)
	})

	t.Run("unknown tenant is 404", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		rec := f.generate(t, `{"keyword":"seo","userId":"`+uuid.NewString()+`"}`)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing fields are 400", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		rec := f.generate(t, `{"keyword":""}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unlimited plan never denies", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		tenantID := f.seedAccount(t, "UNLIMITED")

		for range 5 {
			rec := f.generate(t, `{"keyword":"seo","userId":"`+tenantID.String()+`"}`)
			require.Equal(t, http.StatusOK, rec.Code)
		}
	})
}

func TestListBlogs(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	tenantID := f.seedAccount(t, "PRO")

	rec := f.generate(t, `{"keyword":"seo","userId":"`+tenantID.String()+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/blogs?userId="+tenantID.String(), nil)
	out := httptest.NewRecorder()
	f.handler.ServeHTTP(out, req)
	require.Equal(t, http.StatusOK, out.Code)

	var resp struct {
		Blogs []struct {
			Keyword string `json:"keyword"`
		} `json:"blogs"`
	}
	require.NoError(t, json.Unmarshal(out.Body.Bytes(), &resp))
	require.Len(t, resp.Blogs, 1)
	require.Equal(t, "seo", resp.Blogs[0].Keyword)
}

func TestUsageEndpoint(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	tenantID := f.seedAccount(t, plans.FreePlanKey)

	rec := f.generate(t, `{"keyword":"seo","userId":"`+tenantID.String()+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/usage?userId="+tenantID.String(), nil)
	out := httptest.NewRecorder()
	f.handler.ServeHTTP(out, req)
	require.Equal(t, http.StatusOK, out.Code)

	var stats entitlement.UsageStats
	require.NoError(t, json.Unmarshal(out.Body.Bytes(), &stats))
	require.Equal(t, plans.FreePlanKey, stats.PlanKey)
	require.Equal(t, int64(1), stats.Blogs.Used)
	require.Positive(t, stats.Words.Used)

	t.Run("bad userId is 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/usage?userId=nope", nil)
		out := httptest.NewRecorder()
		f.handler.ServeHTTP(out, req)
		require.Equal(t, http.StatusBadRequest, out.Code)
	})
}
