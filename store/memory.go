// Package store provides the catalog's persistence: product repositories,
// event logs and the backend factory that wires them.
package store

import (
	"context"
	"sync"

	"catalog/domain"
)

// MemoryProductRepository is a thread-safe in-memory domain.ProductRepository
type MemoryProductRepository struct {
	mu       sync.RWMutex
	products productSet
}

// NewMemoryProductRepository constructs an empty MemoryProductRepository
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make(productSet),
	}
}

// compile-time assertion that MemoryProductRepository implements domain.ProductRepository
var _ domain.ProductRepository = (*MemoryProductRepository)(nil)

func (r *MemoryProductRepository) Save(ctx context.Context, p *domain.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.products.put(p.State())
}

func (r *MemoryProductRepository) FindByID(ctx context.Context, id domain.ProductID) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	st, ok := r.products[id.String()]
	if !ok {
		return nil, domain.NewProductNotFoundError(id)
	}
	return domain.ReconstituteProduct(st), nil
}

func (r *MemoryProductRepository) FindAll(ctx context.Context) ([]*domain.Product, error) {
	return r.find(ctx, nil)
}

func (r *MemoryProductRepository) FindAllActive(ctx context.Context) ([]*domain.Product, error) {
	return r.find(ctx, isActive)
}

func (r *MemoryProductRepository) FindByNameContaining(ctx context.Context, fragment string) ([]*domain.Product, error) {
	return r.find(ctx, nameContains(fragment))
}

func (r *MemoryProductRepository) find(ctx context.Context, keep func(domain.ProductState) bool) ([]*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.products.filter(keep), nil
}

func (r *MemoryProductRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.products.nameTaken(name), nil
}

func (r *MemoryProductRepository) ExistsByID(ctx context.Context, id domain.ProductID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.products[id.String()]
	return ok, nil
}

func (r *MemoryProductRepository) Delete(ctx context.Context, p *domain.Product) error {
	return r.DeleteByID(ctx, p.ID())
}

func (r *MemoryProductRepository) DeleteByID(ctx context.Context, id domain.ProductID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id.String()]; !ok {
		return domain.NewProductNotFoundError(id)
	}
	delete(r.products, id.String())
	return nil
}
