// Package aggregator builds the enriched cart view from a cart and the catalog.
package aggregator

import (
	"errors"
	"fmt"
	"math"

	"github.com/fjod/go_cart/internal/domain"
)

// ErrInconsistentReference is matched by every DanglingReferenceError
var ErrInconsistentReference = errors.New("cart item references a missing product")

// ErrAmountOverflow is returned when a line total or cart total does not fit in int64
var ErrAmountOverflow = errors.New("cart amount overflows")

// ProductResolver looks up products by id
type ProductResolver interface {
	Get(id string) (domain.Product, bool)
}

// DanglingReferenceError reports a cart item whose product no longer exists
type DanglingReferenceError struct {
	CartID    string
	ItemID    string
	ProductID string
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("cart %s item %s: product %s not found", e.CartID, e.ItemID, e.ProductID)
}

func (e *DanglingReferenceError) Is(target error) bool {
	return target == ErrInconsistentReference
}

// Enrich resolves every item of the cart and computes the totals.
// It fails on the first item whose product cannot be resolved.
func Enrich(cart domain.Cart, products ProductResolver) (domain.EnrichedCart, error) {
	view := domain.EnrichedCart{
		ID:            cart.ID,
		UserID:        cart.UserID,
		Items:         make([]domain.EnrichedCartItem, 0, len(cart.Items)),
		CheckoutItems: []domain.EnrichedCartItem{},
	}

	for _, it := range cart.Items {
		product, ok := products.Get(it.ProductID)
		if !ok {
			return domain.EnrichedCart{}, &DanglingReferenceError{
				CartID:    cart.ID,
				ItemID:    it.ID,
				ProductID: it.ProductID,
			}
		}

		lineTotal, ok := mulAmount(product.Price, it.Quantity)
		if !ok {
			return domain.EnrichedCart{}, fmt.Errorf("cart %s item %s: %w", cart.ID, it.ID, ErrAmountOverflow)
		}
		line := domain.EnrichedCartItem{
			ID:                  it.ID,
			Product:             product,
			Quantity:            it.Quantity,
			SelectedForCheckout: it.SelectedForCheckout,
			LineTotal:           lineTotal,
		}
		view.Items = append(view.Items, line)
		view.TotalQuantity += line.Quantity
		if view.TotalPrice, ok = addAmount(view.TotalPrice, lineTotal); !ok {
			return domain.EnrichedCart{}, fmt.Errorf("cart %s total: %w", cart.ID, ErrAmountOverflow)
		}

		if line.SelectedForCheckout {
			view.CheckoutItems = append(view.CheckoutItems, line)
			// bounded by TotalPrice, which was checked above
			view.CheckoutTotalPrice += lineTotal
		}
	}

	return view, nil
}

// mulAmount multiplies a non-negative price by a positive quantity.
func mulAmount(price int64, quantity int) (int64, bool) {
	if quantity > 0 && price > math.MaxInt64/int64(quantity) {
		return 0, false
	}
	return price * int64(quantity), true
}

func addAmount(a, b int64) (int64, bool) {
	if b > math.MaxInt64-a {
		return 0, false
	}
	return a + b, true
}
