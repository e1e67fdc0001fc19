package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fjod/go_cart/internal/domain"
	"github.com/fjod/go_cart/internal/store"
)

type CatalogService struct {
	catalog store.Catalog
}

func NewCatalogService(catalog store.Catalog) *CatalogService {
	return &CatalogService{catalog: catalog}
}

func (s *CatalogService) Products(ctx context.Context) []domain.Product {
	return s.catalog.List()
}

func (s *CatalogService) Product(ctx context.Context, id string) (domain.Product, error) {
	p, ok := s.catalog.Get(id)
	if !ok {
		return domain.Product{}, fmt.Errorf("product %s: %w", id, store.ErrProductNotFound)
	}
	return p, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	if p.Name == "" || p.Price < 0 {
		return domain.Product{}, ErrInvalidProduct
	}
	created := s.catalog.Create(p)
	slog.InfoContext(ctx, "product created", slog.String("product_id", created.ID))
	return created, nil
}

// UpdateProduct applies the truthy fields of the patch. A negative price is rejected.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, patch domain.ProductPatch) (domain.Product, error) {
	if patch.Price != nil && *patch.Price < 0 {
		return domain.Product{}, ErrInvalidProduct
	}
	p, err := s.catalog.Update(id, patch)
	if err != nil {
		return domain.Product{}, fmt.Errorf("update product %s: %w", id, err)
	}
	return p, nil
}

// DeleteProduct removes a product. Cart items that reference it are kept.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) domain.Outcome {
	if err := s.catalog.Delete(id); err != nil {
		return domain.Outcome{Success: false, Message: fmt.Sprintf("product %s not found", id)}
	}
	slog.InfoContext(ctx, "product deleted", slog.String("product_id", id))
	return domain.Outcome{Success: true, Message: "product deleted successfully"}
}

func (s *CatalogService) ClearAllProducts(ctx context.Context) domain.Outcome {
	s.catalog.ClearAll()
	slog.InfoContext(ctx, "catalog cleared")
	return domain.Outcome{Success: true, Message: "all products cleared"}
}
