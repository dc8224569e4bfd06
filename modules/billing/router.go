package billing

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/blogsmith/pkg/account"
	"github.com/dmitrymomot/blogsmith/pkg/binder"
	"github.com/dmitrymomot/blogsmith/pkg/billing"
)

// maxWebhookBody caps webhook payload reads. Stripe events are small;
// anything larger is not a legitimate delivery.
const maxWebhookBody = 1 << 20

// RouterOptions carries the module's collaborators.
type RouterOptions struct {
	Service *billing.Service
	Logger  *slog.Logger
}

// Router mounts the billing endpoints.
// Panics if the service is missing to fail fast on wiring mistakes.
func Router(opts RouterOptions) chi.Router {
	if opts.Service == nil {
		panic("billing: service is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	h := &handlers{svc: opts.Service, log: opts.Logger}

	r := chi.NewRouter()
	r.Post("/webhook", h.webhook)
	r.Post("/checkout", h.checkout)
	r.Post("/portal", h.portal)
	return r
}

type handlers struct {
	svc *billing.Service
	log *slog.Logger
}

// webhook receives provider event deliveries. Rejections are limited to
// unverifiable or unreadable requests; processing failures return 500 so
// the provider redelivers.
func (h *handlers) webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable payload")
		return
	}

	err = h.svc.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature"))
	switch {
	case errors.Is(err, billing.ErrSignatureVerificationFailed),
		errors.Is(err, billing.ErrMalformedPayload):
		writeError(w, http.StatusBadRequest, err.Error())
	case err != nil:
		h.log.ErrorContext(r.Context(), "webhook processing failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "webhook processing failed")
	default:
		writeJSON(w, http.StatusOK, map[string]bool{"received": true})
	}
}

type checkoutRequest struct {
	UserID     string `json:"userId"`
	PlanKey    string `json:"planKey"`
	SuccessURL string `json:"successUrl"`
	CancelURL  string `json:"cancelUrl"`
}

func (h *handlers) checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := binder.JSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	tenantID, err := uuid.Parse(req.UserID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "userId must be a valid UUID")
		return
	}
	if req.PlanKey == "" {
		writeError(w, http.StatusBadRequest, "planKey is required")
		return
	}

	link, err := h.svc.Checkout(r.Context(), tenantID, req.PlanKey, req.SuccessURL, req.CancelURL)
	switch {
	case errors.Is(err, billing.ErrPlanNotFound):
		writeError(w, http.StatusBadRequest, "unknown plan")
	case errors.Is(err, billing.ErrFreePlanCheckout):
		writeError(w, http.StatusBadRequest, "free plan does not require checkout")
	case errors.Is(err, account.ErrNotFound):
		writeError(w, http.StatusNotFound, "account not found")
	case err != nil:
		h.log.ErrorContext(r.Context(), "checkout session failed", slog.Any("error", err))
		writeError(w, http.StatusBadGateway, "failed to create checkout session")
	default:
		writeJSON(w, http.StatusOK, map[string]string{
			"url":       link.URL,
			"sessionId": link.SessionID,
		})
	}
}

type portalRequest struct {
	UserID string `json:"userId"`
}

func (h *handlers) portal(w http.ResponseWriter, r *http.Request) {
	var req portalRequest
	if err := binder.JSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	tenantID, err := uuid.Parse(req.UserID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "userId must be a valid UUID")
		return
	}

	link, err := h.svc.PortalLink(r.Context(), tenantID)
	switch {
	case errors.Is(err, account.ErrNotFound):
		writeError(w, http.StatusNotFound, "account not found")
	case err != nil:
		h.log.ErrorContext(r.Context(), "portal session failed", slog.Any("error", err))
		writeError(w, http.StatusBadGateway, "failed to create portal session")
	default:
		writeJSON(w, http.StatusOK, map[string]string{"url": link.URL})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
