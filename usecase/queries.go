package usecase

import (
	"context"
	"strings"

	"catalog/domain"
)

// GetProduct fetches a single product in any status.
type GetProduct struct {
	repo domain.ProductRepository
}

// NewGetProduct returns a GetProduct.
func NewGetProduct(repo domain.ProductRepository) *GetProduct {
	return &GetProduct{repo: repo}
}

// Execute looks a product up by id.
func (uc *GetProduct) Execute(ctx context.Context, id string) (ProductResponse, error) {
	p, err := loadProduct(ctx, uc.repo, id)
	if err != nil {
		return ProductResponse{}, err
	}
	return toResponse(p), nil
}

// ListProducts returns the ACTIVE products, oldest first.
type ListProducts struct {
	repo domain.ProductRepository
}

// NewListProducts returns a ListProducts.
func NewListProducts(repo domain.ProductRepository) *ListProducts {
	return &ListProducts{repo: repo}
}

// Execute never returns a nil slice.
func (uc *ListProducts) Execute(ctx context.Context) ([]ProductResponse, error) {
	products, err := uc.repo.FindAllActive(ctx)
	if err != nil {
		return nil, err
	}
	return toResponses(products), nil
}

// SearchProducts matches a name fragment case-insensitively across all
// statuses. A blank query returns every product.
type SearchProducts struct {
	repo domain.ProductRepository
}

// NewSearchProducts returns a SearchProducts.
func NewSearchProducts(repo domain.ProductRepository) *SearchProducts {
	return &SearchProducts{repo: repo}
}

// Execute trims query before matching.
func (uc *SearchProducts) Execute(ctx context.Context, query string) ([]ProductResponse, error) {
	query = strings.TrimSpace(query)
	var (
		products []*domain.Product
		err      error
	)
	if query == "" {
		products, err = uc.repo.FindAll(ctx)
	} else {
		products, err = uc.repo.FindByNameContaining(ctx, query)
	}
	if err != nil {
		return nil, err
	}
	return toResponses(products), nil
}

// QuoteDiscount computes a discounted price without changing the product.
type QuoteDiscount struct {
	repo    domain.ProductRepository
	service *domain.ProductService
}

// NewQuoteDiscount returns a QuoteDiscount priced by service.
func NewQuoteDiscount(repo domain.ProductRepository, service *domain.ProductService) *QuoteDiscount {
	return &QuoteDiscount{repo: repo, service: service}
}

// Execute quotes the price after a percentage discount between 0 and 100.
func (uc *QuoteDiscount) Execute(ctx context.Context, id string, percentage int) (DiscountQuote, error) {
	p, err := loadProduct(ctx, uc.repo, id)
	if err != nil {
		return DiscountQuote{}, err
	}
	discounted, err := uc.service.CalculateDiscountedPrice(p, percentage)
	if err != nil {
		return DiscountQuote{}, err
	}
	return DiscountQuote{
		ProductID:       p.ID().String(),
		Percentage:      percentage,
		OriginalPrice:   p.Price().Amount(),
		DiscountedPrice: discounted.Amount(),
		Currency:        discounted.Currency(),
	}, nil
}
