package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"catalog/domain"
)

// FileProductRepository is a JSON file-backed domain.ProductRepository. The
// whole set is rewritten atomically on every change.
type FileProductRepository struct {
	mu       sync.RWMutex
	products productSet
	path     string
}

// compile-time assertion
var _ domain.ProductRepository = (*FileProductRepository)(nil)

// NewFileProductRepository constructs a FileProductRepository at the given path. If the file exists it will be loaded.
func NewFileProductRepository(path string) (*FileProductRepository, error) {
	r := &FileProductRepository{
		products: make(productSet),
		path:     path,
	}
	if err := r.loadFromFile(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *FileProductRepository) loadFromFile() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			// no file yet; that's fine
			return nil
		}
		return err
	}
	if len(b) == 0 {
		return nil
	}
	var list []domain.ProductState
	if err := json.Unmarshal(b, &list); err != nil {
		return fmt.Errorf("decode %s: %w", r.path, err)
	}
	for _, st := range list {
		r.products[st.ID.String()] = st
	}
	return nil
}

func (r *FileProductRepository) saveToFile() error {
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	list := make([]domain.ProductState, 0, len(r.products))
	for _, st := range r.products {
		list = append(list, st)
	}
	// stable order for deterministic files
	sort.Slice(list, func(i, j int) bool { return list[i].ID.String() < list[j].ID.String() })
	b, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return err
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, r.path)
}

func (r *FileProductRepository) Save(ctx context.Context, p *domain.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	st := p.State()
	prev, existed := r.products[st.ID.String()]
	if err := r.products.put(st); err != nil {
		return err
	}
	if err := r.saveToFile(); err != nil {
		if existed {
			r.products[st.ID.String()] = prev
		} else {
			delete(r.products, st.ID.String())
		}
		return fmt.Errorf("write %s: %w", r.path, err)
	}
	return nil
}

func (r *FileProductRepository) FindByID(ctx context.Context, id domain.ProductID) (*domain.Product, error) {
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

func (r *FileProductRepository) FindAll(ctx context.Context) ([]*domain.Product, error) {
	return r.find(ctx, nil)
}

func (r *FileProductRepository) FindAllActive(ctx context.Context) ([]*domain.Product, error) {
	return r.find(ctx, isActive)
}

func (r *FileProductRepository) FindByNameContaining(ctx context.Context, fragment string) ([]*domain.Product, error) {
	return r.find(ctx, nameContains(fragment))
}

func (r *FileProductRepository) find(ctx context.Context, keep func(domain.ProductState) bool) ([]*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.products.filter(keep), nil
}

func (r *FileProductRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.products.nameTaken(name), nil
}

func (r *FileProductRepository) ExistsByID(ctx context.Context, id domain.ProductID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.products[id.String()]
	return ok, nil
}

func (r *FileProductRepository) Delete(ctx context.Context, p *domain.Product) error {
	return r.DeleteByID(ctx, p.ID())
}

func (r *FileProductRepository) DeleteByID(ctx context.Context, id domain.ProductID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	prev, ok := r.products[id.String()]
	if !ok {
		return domain.NewProductNotFoundError(id)
	}
	delete(r.products, id.String())
	if err := r.saveToFile(); err != nil {
		r.products[id.String()] = prev
		return fmt.Errorf("write %s: %w", r.path, err)
	}
	return nil
}
