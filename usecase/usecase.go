// Package usecase orchestrates the catalog's application operations: load an
// aggregate, run domain logic, persist it, then publish what it emitted.
package usecase

import (
	"context"
	"log/slog"

	"catalog/domain"
)

// Catalog bundles every use case built over one repository and publisher.
type Catalog struct {
	Create       *CreateProduct
	Get          *GetProduct
	Update       *UpdateProduct
	List         *ListProducts
	ChangePrice  *ChangePrice
	AdjustStock  *AdjustStock
	ChangeStatus *ChangeStatus
	Delete       *DeleteProduct
	Search       *SearchProducts
	Discount     *QuoteDiscount
	Import       *ImportProducts
}

// NewCatalog wires all use cases. A nil logger falls back to slog.Default().
func NewCatalog(repo domain.ProductRepository, pub domain.EventPublisher, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "usecase")
	create := NewCreateProduct(repo, pub, logger)
	return &Catalog{
		Create:       create,
		Get:          NewGetProduct(repo),
		Update:       NewUpdateProduct(repo, pub, logger),
		List:         NewListProducts(repo),
		ChangePrice:  NewChangePrice(repo, pub, logger),
		AdjustStock:  NewAdjustStock(repo, pub, logger),
		ChangeStatus: NewChangeStatus(repo, pub, logger),
		Delete:       NewDeleteProduct(repo, logger),
		Search:       NewSearchProducts(repo),
		Discount:     NewQuoteDiscount(repo, domain.NewProductService()),
		Import:       NewImportProducts(create, logger),
	}
}

func loadProduct(ctx context.Context, repo domain.ProductRepository, rawID string) (*domain.Product, error) {
	id, err := domain.ParseProductID(rawID)
	if err != nil {
		return nil, err
	}
	return repo.FindByID(ctx, id)
}

// saveAndPublish persists p and then hands its events to the publisher in
// order. Publication happens even for an empty batch.
func saveAndPublish(ctx context.Context, repo domain.ProductRepository, pub domain.EventPublisher, p *domain.Product, events domain.Events) error {
	if err := repo.Save(ctx, p); err != nil {
		return err
	}
	return pub.PublishAll(ctx, events)
}
