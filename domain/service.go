package domain

import "github.com/shopspring/decimal"

// MaxDiscountPercentage caps the discount ProductService will quote.
const MaxDiscountPercentage = 50

// ProductService holds pricing rules that don't belong to a single aggregate.
type ProductService struct{}

// NewProductService creates a ProductService.
func NewProductService() *ProductService {
	return &ProductService{}
}

// CalculateDiscountedPrice quotes p's price reduced by pct percent, rounded to
// the currency's minor units. The product is not modified.
func (s *ProductService) CalculateDiscountedPrice(p *Product, pct int) (Money, error) {
	if pct < 0 || pct > 100 {
		return Money{}, NewInvalidDomainStateError("discount percentage must be between 0 and 100")
	}
	if pct > MaxDiscountPercentage {
		return Money{}, NewInvalidDomainStateError("discount cannot exceed %d%%", MaxDiscountPercentage)
	}
	price := p.Price()
	if price.IsZero() {
		return Money{}, NewInvalidDomainStateError("price is required")
	}
	factor := decimal.NewFromInt(int64(100 - pct)).Div(decimal.NewFromInt(100))
	// rounded before validation: the raw product may carry more than the
	// stored number of decimals
	rounded := Money{amount: price.amount.Mul(factor), currency: price.currency, valid: true}.RoundToCurrency()
	amount, err := checkAmount(rounded.amount)
	if err != nil {
		return Money{}, err
	}
	return Money{amount: amount, currency: price.currency, valid: true}, nil
}
