package store

import (
	"errors"

	"github.com/fjod/go_cart/internal/domain"
)

// Common errors returned by the stores
var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCartNotFound     = errors.New("cart not found")
	ErrCartItemNotFound = errors.New("cart item not found")
)

// Catalog defines the product storage operations
type Catalog interface {
	// Create stores a new product under a freshly allocated id
	Create(p domain.Product) domain.Product

	// Get returns the product with the given id
	Get(id string) (domain.Product, bool)

	// List returns all products in insertion order
	List() []domain.Product

	// Update applies the patch to an existing product
	Update(id string, patch domain.ProductPatch) (domain.Product, error)

	// Delete removes a product. Carts still referencing it are not touched
	Delete(id string) error

	// ClearAll removes every product
	ClearAll()
}

// Carts defines the cart storage operations
type Carts interface {
	// GetOrCreate returns the cart of the user, creating an empty one on first use
	GetOrCreate(userID string) domain.Cart

	// FindByID returns the cart with the given id
	FindByID(cartID string) (domain.Cart, error)

	// FindByUser returns the cart of the user without creating it
	FindByUser(userID string) (domain.Cart, error)

	// FindItemOwner returns the cart containing the item and the item itself
	FindItemOwner(itemID string) (domain.Cart, domain.CartItem, error)

	// NextItemID allocates a new cart item id
	NextItemID() string

	// Save replaces the item sequence of an existing cart
	Save(cart domain.Cart) error
}
