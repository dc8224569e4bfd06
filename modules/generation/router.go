package generation

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/blogsmith/pkg/binder"
	"github.com/dmitrymomot/blogsmith/pkg/blog"
	"github.com/dmitrymomot/blogsmith/pkg/entitlement"
	"github.com/dmitrymomot/blogsmith/pkg/generator"
)

// RouterOptions carries the module's collaborators.
type RouterOptions struct {
	Guard     *entitlement.Guard
	Generator generator.Generator
	Blogs     blog.Store
	Logger    *slog.Logger
}

// Router mounts the generation endpoints.
// Panics on missing collaborators to fail fast on wiring mistakes.
func Router(opts RouterOptions) chi.Router {
	if opts.Guard == nil {
		panic("generation: guard is required")
	}
	if opts.Generator == nil {
		panic("generation: generator is required")
	}
	if opts.Blogs == nil {
		panic("generation: blog store is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	h := &handlers{
		guard:     opts.Guard,
		generator: opts.Generator,
		blogs:     opts.Blogs,
		log:       opts.Logger,
	}

	r := chi.NewRouter()
	r.Post("/blogs/generate", h.generateBlog)
	r.Get("/blogs", h.listBlogs)
	r.Get("/usage", h.usage)
	return r
}

type handlers struct {
	guard     *entitlement.Guard
	generator generator.Generator
	blogs     blog.Store
	log       *slog.Logger
}

type generateRequest struct {
	Keyword   string `json:"keyword"`
	UserID    string `json:"userId"`
	WordCount int64  `json:"wordCount"`
}

type blogResponse struct {
	ID        string    `json:"id"`
	Keyword   string    `json:"keyword"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	WordCount int64     `json:"wordCount"`
	Plan      string    `json:"plan"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h *handlers) generateBlog(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := binder.JSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Keyword == "" || req.UserID == "" {
		writeError(w, http.StatusBadRequest, "keyword and userId are required")
		return
	}
	tenantID, err := uuid.Parse(req.UserID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "userId must be a valid UUID")
		return
	}
	if req.WordCount <= 0 {
		req.WordCount = generator.DefaultWordCount
	}

	ctx := r.Context()

	if err := h.guard.CheckBlog(ctx, tenantID); err != nil {
		h.denied(w, r, err)
		return
	}
	if err := h.guard.CheckWords(ctx, tenantID, req.WordCount); err != nil {
		h.denied(w, r, err)
		return
	}

	res, err := h.generator.Generate(ctx, req.Keyword, req.WordCount)
	if err != nil {
		if errors.Is(err, generator.ErrEmptyKeyword) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.ErrorContext(ctx, "content generation failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "content generation failed")
		return
	}

	// Metering charges what was actually produced, not what was asked for,
	// and happens before persistence so an unpaid-for post never exists.
	if err := h.guard.Record(ctx, tenantID, res.WordCount); err != nil {
		h.denied(w, r, err)
		return
	}

	stats, err := h.guard.Usage(ctx, tenantID)
	if err != nil {
		h.denied(w, r, err)
		return
	}

	b := &blog.Blog{
		ID:        uuid.New(),
		OwnerID:   tenantID,
		Keyword:   req.Keyword,
		Title:     res.Title,
		Content:   res.Content,
		WordCount: res.WordCount,
		PlanKey:   stats.PlanKey,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.blogs.Create(ctx, b); err != nil {
		h.log.ErrorContext(ctx, "failed to persist blog",
			slog.String("tenant_id", tenantID.String()),
			slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to save blog")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"blog": blogResponse{
			ID:        b.ID.String(),
			Keyword:   b.Keyword,
			Title:     b.Title,
			Content:   b.Content,
			WordCount: b.WordCount,
			Plan:      b.PlanKey,
			CreatedAt: b.CreatedAt,
		},
		"usage": map[string]int64{
			"blogsUsed": stats.Blogs.Used,
			"wordsUsed": stats.Words.Used,
		},
	})
}

func (h *handlers) listBlogs(w http.ResponseWriter, r *http.Request) {
	tenantID, err := uuid.Parse(r.URL.Query().Get("userId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "userId must be a valid UUID")
		return
	}

	list, err := h.blogs.ListByOwner(r.Context(), tenantID)
	if err != nil {
		h.log.ErrorContext(r.Context(), "failed to list blogs", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to list blogs")
		return
	}

	out := make([]blogResponse, 0, len(list))
	for _, b := range list {
		out = append(out, blogResponse{
			ID:        b.ID.String(),
			Keyword:   b.Keyword,
			Title:     b.Title,
			Content:   b.Content,
			WordCount: b.WordCount,
			Plan:      b.PlanKey,
			CreatedAt: b.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"blogs": out})
}

func (h *handlers) usage(w http.ResponseWriter, r *http.Request) {
	tenantID, err := uuid.Parse(r.URL.Query().Get("userId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "userId must be a valid UUID")
		return
	}

	stats, err := h.guard.Usage(r.Context(), tenantID)
	if err != nil {
		h.denied(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// denied maps guard errors to responses: quota denials carry the structured
// upgrade prompt, unknown tenants are 404, everything else is a 500.
func (h *handlers) denied(w http.ResponseWriter, r *http.Request, err error) {
	var quotaErr *entitlement.QuotaError
	if errors.As(err, &quotaErr) {
		writeJSON(w, http.StatusTooManyRequests, map[string]any{
			"error":           quotaErr.Error(),
			"limitType":       string(quotaErr.Kind),
			"upgradeRequired": true,
		})
		return
	}
	if errors.Is(err, entitlement.ErrTenantNotFound) {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}
	h.log.ErrorContext(r.Context(), "entitlement check failed", slog.Any("error", err))
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
