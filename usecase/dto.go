package usecase

import (
	"time"

	"catalog/domain"

	"github.com/shopspring/decimal"
)

// CreateProductRequest is the input of CreateProduct. A nil Price is reported
// as a missing price by the domain.
type CreateProductRequest struct {
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	Price        *decimal.Decimal `json:"price"`
	Currency     string           `json:"currency"`
	InitialStock int              `json:"initialStock"`
}

type UpdateProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ChangePriceRequest sets a new price. An empty Currency keeps the current one.
type ChangePriceRequest struct {
	Price    *decimal.Decimal `json:"price"`
	Currency string           `json:"currency,omitempty"`
}

// AdjustStockRequest adds (Delta > 0) or removes (Delta < 0) stock.
type AdjustStockRequest struct {
	Delta int `json:"delta"`
}

type ChangeStatusRequest struct {
	Status string `json:"status"`
}

// ProductResponse is the external representation of a product.
type ProductResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	Currency      string          `json:"currency"`
	StockQuantity int             `json:"stockQuantity"`
	Status        string          `json:"status"`
	Available     bool            `json:"available"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// DiscountQuote is a price reduction computed for a product; nothing is saved.
type DiscountQuote struct {
	ProductID       string          `json:"productId"`
	Percentage      int             `json:"percentage"`
	OriginalPrice   decimal.Decimal `json:"originalPrice"`
	DiscountedPrice decimal.Decimal `json:"discountedPrice"`
	Currency        string          `json:"currency"`
}

func toResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID().String(),
		Name:          p.Name(),
		Description:   p.Description(),
		Price:         p.Price().Amount(),
		Currency:      p.Price().Currency(),
		StockQuantity: p.StockQuantity(),
		Status:        string(p.Status()),
		Available:     p.IsAvailable(),
		CreatedAt:     p.CreatedAt(),
		UpdatedAt:     p.UpdatedAt(),
	}
}

func toResponses(products []*domain.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toResponse(p))
	}
	return out
}

func toMoney(amount *decimal.Decimal, code string) (domain.Money, error) {
	if amount == nil {
		return domain.Money{}, nil
	}
	return domain.NewMoney(*amount, code)
}
