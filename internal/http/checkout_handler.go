package http

import (
	"context"
	"net/http"
	"time"

	"github.com/fjod/go_cart/internal/domain"
	"github.com/go-chi/chi/v5"
)

// CheckoutHistory lists committed checkouts
type CheckoutHistory interface {
	ListByUser(ctx context.Context, userID string) ([]domain.CheckoutRecord, error)
}

// IdempotencyGuard replays outcomes of requests that carry the same key
type IdempotencyGuard interface {
	Do(ctx context.Context, key string, fn func(ctx context.Context) (domain.Outcome, error)) (domain.Outcome, bool, error)
}

type CheckoutHandler struct {
	carts   CartOperations
	history CheckoutHistory
	guard   IdempotencyGuard
	timeout time.Duration
}

// NewCheckoutHandler creates the checkout routes. history and guard may be nil.
func NewCheckoutHandler(carts CartOperations, history CheckoutHistory, guard IdempotencyGuard, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		carts:   carts,
		history: history,
		guard:   guard,
		timeout: timeout,
	}
}

// GET /api/v1/users/{userId}/cart/checkout-info
func (h *CheckoutHandler) Info(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	info, err := h.carts.CheckoutInfo(ctx, chi.URLParam(r, "userId"))
	if err != nil {
		handleServiceError(ctx, w, err)
		return
	}
	respondJSON(w, http.StatusOK, info)
}

// POST /api/v1/users/{userId}/checkout
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := chi.URLParam(r, "userId")
	key := r.Header.Get("Idempotency-Key")

	var (
		outcome  domain.Outcome
		replayed bool
		err      error
	)
	if h.guard != nil && key != "" {
		outcome, replayed, err = h.guard.Do(ctx, userID+":"+key, func(ctx context.Context) (domain.Outcome, error) {
			return h.carts.Checkout(ctx, userID)
		})
	} else {
		outcome, err = h.carts.Checkout(ctx, userID)
	}
	if err != nil {
		handleServiceError(ctx, w, err)
		return
	}

	if replayed {
		w.Header().Set("Idempotent-Replayed", "true")
	}
	respondJSON(w, http.StatusOK, outcome)
}

// GET /api/v1/users/{userId}/checkouts
func (h *CheckoutHandler) History(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if h.history == nil {
		respondError(w, http.StatusNotImplemented, "history_disabled", "checkout history is not configured")
		return
	}

	records, err := h.history.ListByUser(ctx, chi.URLParam(r, "userId"))
	if err != nil {
		handleServiceError(ctx, w, err)
		return
	}
	respondJSON(w, http.StatusOK, records)
}
