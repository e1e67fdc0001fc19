package store

import (
	"strconv"
	"sync"

	"github.com/fjod/go_cart/internal/domain"
)

// CartStore implements Carts with in-memory storage
type CartStore struct {
	mu         sync.RWMutex
	carts      map[string]*domain.Cart // cartID -> cart
	byUser     map[string]string       // userID -> cartID
	itemOwners map[string]string       // itemID -> cartID
	nextCartID int
	nextItemID int
}

// NewCartStore creates an empty cart store
func NewCartStore() *CartStore {
	return &CartStore{
		carts:      make(map[string]*domain.Cart),
		byUser:     make(map[string]string),
		itemOwners: make(map[string]string),
		nextCartID: 1,
		nextItemID: 1,
	}
}

// GetOrCreate returns the user's cart, creating an empty one if none exists
func (s *CartStore) GetOrCreate(userID string) domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cartID, exists := s.byUser[userID]; exists {
		return s.carts[cartID].Clone()
	}

	cart := &domain.Cart{
		ID:     strconv.Itoa(s.nextCartID),
		UserID: userID,
		Items:  []domain.CartItem{},
	}
	s.nextCartID++
	s.carts[cart.ID] = cart
	s.byUser[userID] = cart.ID
	return cart.Clone()
}

// FindByID returns a copy of the cart with the given id
func (s *CartStore) FindByID(cartID string) (domain.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cart, exists := s.carts[cartID]
	if !exists {
		return domain.Cart{}, ErrCartNotFound
	}
	return cart.Clone(), nil
}

// FindByUser returns a copy of the user's cart
func (s *CartStore) FindByUser(userID string) (domain.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cartID, exists := s.byUser[userID]
	if !exists {
		return domain.Cart{}, ErrCartNotFound
	}
	return s.carts[cartID].Clone(), nil
}

// FindItemOwner resolves the cart holding the item
func (s *CartStore) FindItemOwner(itemID string) (domain.Cart, domain.CartItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cartID, exists := s.itemOwners[itemID]
	if !exists {
		return domain.Cart{}, domain.CartItem{}, ErrCartItemNotFound
	}
	cart := s.carts[cartID]
	item, ok := cart.Item(itemID)
	if !ok {
		return domain.Cart{}, domain.CartItem{}, ErrCartItemNotFound
	}
	return cart.Clone(), item, nil
}

// NextItemID allocates the next "ci<N>" id
func (s *CartStore) NextItemID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := "ci" + strconv.Itoa(s.nextItemID)
	s.nextItemID++
	return id
}

// Save replaces the items of an existing cart and reindexes item ownership
func (s *CartStore) Save(cart domain.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.carts[cart.ID]
	if !exists {
		return ErrCartNotFound
	}

	for _, it := range stored.Items {
		delete(s.itemOwners, it.ID)
	}
	next := cart.Clone()
	stored.Items = next.Items
	for _, it := range stored.Items {
		s.itemOwners[it.ID] = stored.ID
	}
	return nil
}
