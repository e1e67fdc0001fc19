package store

import (
	"fmt"
	"sync"

	"github.com/fjod/go_cart/internal/domain"
)

// CatalogStore implements Catalog with in-memory storage
type CatalogStore struct {
	mu       sync.RWMutex
	products []domain.Product // insertion order
	nextID   int
}

// NewCatalogStore creates an empty catalog
func NewCatalogStore() *CatalogStore {
	return &CatalogStore{nextID: 1}
}

// Create allocates the next "p<N>" id and appends the product
func (s *CatalogStore) Create(p domain.Product) domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = fmt.Sprintf("p%d", s.nextID)
	s.nextID++
	s.products = append(s.products, p)
	return p
}

// Seed creates every product in order
func (s *CatalogStore) Seed(products []domain.Product) []domain.Product {
	created := make([]domain.Product, 0, len(products))
	for _, p := range products {
		created = append(created, s.Create(p))
	}
	return created
}

// Get returns the product with the given id
func (s *CatalogStore) Get(id string) (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.products[i], true
	}
	return domain.Product{}, false
}

// List returns a copy of all products in insertion order
func (s *CatalogStore) List() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Product, len(s.products))
	copy(result, s.products)
	return result
}

// Update applies the truthy fields of the patch
func (s *CatalogStore) Update(id string, patch domain.ProductPatch) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.Product{}, ErrProductNotFound
	}
	patch.Apply(&s.products[i])
	return s.products[i], nil
}

// Delete removes the product with the given id
func (s *CatalogStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return ErrProductNotFound
	}
	s.products = append(s.products[:i], s.products[i+1:]...)
	return nil
}

// ClearAll empties the catalog. The id counter keeps running.
func (s *CatalogStore) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products = nil
}

// indexOf must be called with the lock held
func (s *CatalogStore) indexOf(id string) int {
	for i := range s.products {
		if s.products[i].ID == id {
			return i
		}
	}
	return -1
}

// DefaultProducts is the demo catalog loaded when seeding is enabled
func DefaultProducts() []domain.Product {
	return []domain.Product{
		{
			Name:        "Laptop Dell XPS 13",
			Price:       25000000,
			Image:       "https://via.placeholder.com/300x300?text=Laptop",
			Description: "Powerful laptop for work",
		},
		{
			Name:        "iPhone 15 Pro",
			Price:       29000000,
			Image:       "https://via.placeholder.com/300x300?text=iPhone",
			Description: "Flagship smartphone 2024",
		},
		{
			Name:        "AirPods Pro",
			Price:       6500000,
			Image:       "https://via.placeholder.com/300x300?text=AirPods",
			Description: "High quality wireless earbuds",
		},
		{
			Name:        "iPad Pro",
			Price:       18000000,
			Image:       "https://via.placeholder.com/300x300?text=iPad",
			Description: "Powerful tablet",
		},
	}
}
