package http

import (
	"context"
	"net/http"
	"time"

	"github.com/fjod/go_cart/internal/domain"
	"github.com/go-chi/chi/v5"
)

// CartOperations is the cart behaviour the cart routes rely on
type CartOperations interface {
	Cart(ctx context.Context, userID string) (domain.EnrichedCart, error)
	CheckoutInfo(ctx context.Context, userID string) (domain.CheckoutInfo, error)
	AddToCart(ctx context.Context, userID, productID string, quantity int) (domain.EnrichedCart, error)
	UpdateCartItem(ctx context.Context, itemID string, quantity int) (domain.EnrichedCart, error)
	RemoveCartItem(ctx context.Context, itemID string) (domain.EnrichedCart, error)
	SelectCartItem(ctx context.Context, itemID string, selected bool) (domain.EnrichedCart, error)
	SelectMultipleItems(ctx context.Context, cartID string, itemIDs []string, selected bool) (domain.EnrichedCart, error)
	ClearCart(ctx context.Context, cartID string) (domain.EnrichedCart, error)
	Checkout(ctx context.Context, userID string) (domain.Outcome, error)
}

type CartHandler struct {
	carts   CartOperations
	timeout time.Duration
}

func NewCartHandler(carts CartOperations, timeout time.Duration) *CartHandler {
	return &CartHandler{
		carts:   carts,
		timeout: timeout,
	}
}

// A nil Quantity or Selected means the field was omitted from the body.

type AddItemRequestDTO struct {
	ProductID string `json:"productId"`
	Quantity  *int   `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity *int `json:"quantity"`
}

type SelectItemRequestDTO struct {
	Selected *bool `json:"selected"`
}

type SelectItemsRequestDTO struct {
	ItemIDs  []string `json:"itemIds"`
	Selected *bool    `json:"selected"`
}

// GET /api/v1/users/{userId}/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	cart, err := h.carts.Cart(ctx, chi.URLParam(r, "userId"))
	if err != nil {
		handleServiceError(ctx, w, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

// POST /api/v1/users/{userId}/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "productId is required")
		return
	}
	if req.Quantity == nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "quantity is required")
		return
	}

	cart, err := h.carts.AddToCart(ctx, chi.URLParam(r, "userId"), req.ProductID, *req.Quantity)
	if err != nil {
		handleServiceError(ctx, w, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

// PATCH /api/v1/cart-items/{cartItemId}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req UpdateQuantityRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity == nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "quantity is required")
		return
	}

	cart, err := h.carts.UpdateCartItem(ctx, chi.URLParam(r, "cartItemId"), *req.Quantity)
	if err != nil {
		handleServiceError(ctx, w, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

// DELETE /api/v1/cart-items/{cartItemId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	cart, err := h.carts.RemoveCartItem(ctx, chi.URLParam(r, "cartItemId"))
	if err != nil {
		handleServiceError(ctx, w, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

// PUT /api/v1/cart-items/{cartItemId}/selection
func (h *CartHandler) SelectItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req SelectItemRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Selected == nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "selected is required")
		return
	}

	cart, err := h.carts.SelectCartItem(ctx, chi.URLParam(r, "cartItemId"), *req.Selected)
	if err != nil {
		handleServiceError(ctx, w, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

// PUT /api/v1/carts/{cartId}/selection
func (h *CartHandler) SelectItems(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req SelectItemsRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Selected == nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "selected is required")
		return
	}

	cart, err := h.carts.SelectMultipleItems(ctx, chi.URLParam(r, "cartId"), req.ItemIDs, *req.Selected)
	if err != nil {
		handleServiceError(ctx, w, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

// DELETE /api/v1/carts/{cartId}/items
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	cart, err := h.carts.ClearCart(ctx, chi.URLParam(r, "cartId"))
	if err != nil {
		handleServiceError(ctx, w, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}
