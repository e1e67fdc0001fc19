package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fjod/go_cart/internal/aggregator"
	"github.com/fjod/go_cart/internal/domain"
	"github.com/fjod/go_cart/internal/store"
	"github.com/google/uuid"
)

// CheckoutRecorder receives every committed checkout. Failures are logged and
// never change the checkout outcome.
type CheckoutRecorder interface {
	RecordCheckout(ctx context.Context, rec domain.CheckoutRecord) error
}

// MaxItemQuantity bounds the quantity of a single cart line
const MaxItemQuantity = 99

// recordTimeout bounds each checkout recorder call
const recordTimeout = 10 * time.Second

type CartService struct {
	mu        sync.Mutex // serializes read-modify-write on carts
	carts     store.Carts
	catalog   store.Catalog
	recorders []CheckoutRecorder
	now       func() time.Time
}

func NewCartService(carts store.Carts, catalog store.Catalog, recorders ...CheckoutRecorder) *CartService {
	return &CartService{
		carts:     carts,
		catalog:   catalog,
		recorders: recorders,
		now:       time.Now,
	}
}

// Cart returns the enriched cart of the user, creating an empty cart on first access.
func (s *CartService) Cart(ctx context.Context, userID string) (domain.EnrichedCart, error) {
	cart := s.carts.GetOrCreate(userID)
	return aggregator.Enrich(cart, s.catalog)
}

func (s *CartService) CheckoutInfo(ctx context.Context, userID string) (domain.CheckoutInfo, error) {
	view, err := s.Cart(ctx, userID)
	if err != nil {
		return domain.CheckoutInfo{}, err
	}
	return view.CheckoutInfo(), nil
}

// AddToCart merges quantity into the line of the product. The merged quantity
// may not exceed MaxItemQuantity.
func (s *CartService) AddToCart(ctx context.Context, userID, productID string, quantity int) (domain.EnrichedCart, error) {
	if quantity <= 0 || quantity > MaxItemQuantity {
		return domain.EnrichedCart{}, ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.catalog.Get(productID); !ok {
		return domain.EnrichedCart{}, fmt.Errorf("add product %s: %w", productID, store.ErrProductNotFound)
	}

	cart := s.carts.GetOrCreate(userID)
	if cart.QuantityOf(productID)+quantity > MaxItemQuantity {
		return domain.EnrichedCart{}, ErrInvalidQuantity
	}
	cart.MergeItem(productID, quantity, s.carts.NextItemID)

	view, err := s.commit(ctx, cart)
	var dangling *aggregator.DanglingReferenceError
	if errors.As(err, &dangling) && dangling.ProductID == productID {
		// deleted from the catalog after the lookup above
		return domain.EnrichedCart{}, fmt.Errorf("add product %s: %w", productID, store.ErrProductNotFound)
	}
	return view, err
}

// UpdateCartItem sets an absolute quantity. A non-positive quantity removes the item.
func (s *CartService) UpdateCartItem(ctx context.Context, itemID string, quantity int) (domain.EnrichedCart, error) {
	if quantity > MaxItemQuantity {
		return domain.EnrichedCart{}, ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart, _, err := s.carts.FindItemOwner(itemID)
	if err != nil {
		return domain.EnrichedCart{}, err
	}
	cart.SetQuantity(itemID, quantity)
	return s.commit(ctx, cart)
}

func (s *CartService) RemoveCartItem(ctx context.Context, itemID string) (domain.EnrichedCart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, _, err := s.carts.FindItemOwner(itemID)
	if err != nil {
		return domain.EnrichedCart{}, err
	}
	cart.RemoveItem(itemID)
	return s.commit(ctx, cart)
}

func (s *CartService) SelectCartItem(ctx context.Context, itemID string, selected bool) (domain.EnrichedCart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, _, err := s.carts.FindItemOwner(itemID)
	if err != nil {
		return domain.EnrichedCart{}, err
	}
	cart.Select(itemID, selected)
	return s.commit(ctx, cart)
}

// SelectMultipleItems sets the flag on the listed items of the cart. Ids that
// are not in the cart are ignored.
func (s *CartService) SelectMultipleItems(ctx context.Context, cartID string, itemIDs []string, selected bool) (domain.EnrichedCart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.carts.FindByID(cartID)
	if err != nil {
		return domain.EnrichedCart{}, err
	}
	cart.SelectMany(itemIDs, selected)
	return s.commit(ctx, cart)
}

func (s *CartService) ClearCart(ctx context.Context, cartID string) (domain.EnrichedCart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.carts.FindByID(cartID)
	if err != nil {
		return domain.EnrichedCart{}, err
	}
	cart.Clear()
	return s.commit(ctx, cart)
}

// Checkout removes the selected items of the user's cart. Missing cart and
// empty selection are reported as unsuccessful outcomes, not errors.
func (s *CartService) Checkout(ctx context.Context, userID string) (domain.Outcome, error) {
	rec, outcome, err := s.takeSelected(ctx, userID)
	if err != nil || !outcome.Success {
		return outcome, err
	}

	slog.InfoContext(ctx, "checkout committed",
		slog.String("checkout_id", rec.ID),
		slog.String("user_id", rec.UserID),
		slog.Int("items", len(rec.Items)),
		slog.Int64("total_price", rec.TotalPrice),
	)

	// the cart is already committed, so recording must outlive the request
	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()
	for _, r := range s.recorders {
		if errRecord := r.RecordCheckout(recordCtx, rec); errRecord != nil {
			slog.ErrorContext(ctx, "record checkout failed",
				slog.String("checkout_id", rec.ID),
				slog.Any("error", errRecord),
			)
		}
	}
	return outcome, nil
}

func (s *CartService) takeSelected(ctx context.Context, userID string) (domain.CheckoutRecord, domain.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.carts.FindByUser(userID)
	if err != nil {
		return domain.CheckoutRecord{}, domain.Outcome{Success: false, Message: "cart not found"}, nil
	}
	if !cart.HasSelected() {
		return domain.CheckoutRecord{}, domain.Outcome{Success: false, Message: "no items selected for checkout"}, nil
	}

	view, err := aggregator.Enrich(cart, s.catalog)
	if err != nil {
		return domain.CheckoutRecord{}, domain.Outcome{}, err
	}

	taken := cart.TakeSelected()
	if err := s.carts.Save(cart); err != nil {
		return domain.CheckoutRecord{}, domain.Outcome{}, fmt.Errorf("save cart %s: %w", cart.ID, err)
	}

	rec := domain.CheckoutRecord{
		ID:         uuid.New().String(),
		UserID:     cart.UserID,
		CartID:     cart.ID,
		Items:      view.CheckoutItems,
		TotalPrice: view.CheckoutTotalPrice,
		CreatedAt:  s.now().UTC(),
	}
	outcome := domain.Outcome{
		Success: true,
		Message: fmt.Sprintf("successfully checked out %d item(s)", len(taken)),
	}
	return rec, outcome, nil
}

// commit enriches the staged cart and stores it only when enrichment succeeds.
// Must be called with s.mu held.
func (s *CartService) commit(ctx context.Context, cart domain.Cart) (domain.EnrichedCart, error) {
	view, err := aggregator.Enrich(cart, s.catalog)
	if err != nil {
		slog.WarnContext(ctx, "cart mutation rejected", slog.String("cart_id", cart.ID), slog.Any("error", err))
		return domain.EnrichedCart{}, err
	}
	if err := s.carts.Save(cart); err != nil {
		return domain.EnrichedCart{}, fmt.Errorf("save cart %s: %w", cart.ID, err)
	}
	return view, nil
}
