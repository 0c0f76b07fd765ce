// Package domain defines the product catalog's aggregate, value objects,
// events and the ports its use cases depend on.
package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MaxNameLength is the longest product name accepted, in characters.
const MaxNameLength = 255

// Status is the lifecycle state of a Product.
type Status string

const (
	StatusActive       Status = "ACTIVE"
	StatusInactive     Status = "INACTIVE"
	StatusDiscontinued Status = "DISCONTINUED"
)

// ParseStatus accepts any casing of a known status.
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusActive, StatusInactive, StatusDiscontinued:
		return st, nil
	}
	return "", NewInvalidDomainStateError("unknown product status %q", s)
}

// ProductState is a plain snapshot of a Product, used to persist and
// reconstitute it.
type ProductState struct {
	ID            ProductID `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         Money     `json:"price"`
	StockQuantity int       `json:"stockQuantity"`
	Status        Status    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Product is the catalog aggregate root. Business methods mutate it in place
// and return the events they emitted; the aggregate keeps none.
type Product struct {
	id            ProductID
	name          string
	description   string
	price         Money
	stockQuantity int
	status        Status
	createdAt     time.Time
	updatedAt     time.Time
}

// NewProduct validates its inputs and creates an ACTIVE product with a fresh
// id. It emits exactly one ProductCreated event.
func NewProduct(name, description string, price Money, initialStock int) (*Product, Events, error) {
	if err := validateName(name); err != nil {
		return nil, nil, err
	}
	if price.IsZero() {
		return nil, nil, NewInvalidDomainStateError("price is required")
	}
	if initialStock < 0 {
		return nil, nil, NewInvalidDomainStateError("stock quantity cannot be negative")
	}
	now := Now()
	p := &Product{
		id:            NewID[Product](),
		name:          name,
		description:   description,
		price:         price,
		stockQuantity: initialStock,
		status:        StatusActive,
		createdAt:     now,
		updatedAt:     now,
	}
	created := newEvent(p.id.String(), now, ProductCreated{ProductName: name, Price: price})
	return p, Events{created}, nil
}

// ReconstituteProduct rebuilds a Product from persisted state. The state is
// trusted: nothing is validated and no events are emitted.
func ReconstituteProduct(s ProductState) *Product {
	return &Product{
		id:            s.ID,
		name:          s.Name,
		description:   s.Description,
		price:         s.Price,
		stockQuantity: s.StockQuantity,
		status:        s.Status,
		createdAt:     s.CreatedAt,
		updatedAt:     s.UpdatedAt,
	}
}

// State returns a snapshot of p.
func (p *Product) State() ProductState {
	return ProductState{
		ID:            p.id,
		Name:          p.name,
		Description:   p.description,
		Price:         p.price,
		StockQuantity: p.stockQuantity,
		Status:        p.status,
		CreatedAt:     p.createdAt,
		UpdatedAt:     p.updatedAt,
	}
}

func (p *Product) ID() ProductID        { return p.id }
func (p *Product) Name() string         { return p.name }
func (p *Product) Description() string  { return p.description }
func (p *Product) Price() Money         { return p.price }
func (p *Product) StockQuantity() int   { return p.stockQuantity }
func (p *Product) Status() Status       { return p.status }
func (p *Product) CreatedAt() time.Time { return p.createdAt }
func (p *Product) UpdatedAt() time.Time { return p.updatedAt }

// IsAvailable reports whether the product can be sold right now.
func (p *Product) IsAvailable() bool {
	return p.status == StatusActive && p.stockQuantity > 0
}

// ChangePrice replaces the price and emits one ProductPriceChanged event.
func (p *Product) ChangePrice(newPrice Money) (Events, error) {
	if newPrice.IsZero() {
		return nil, NewInvalidDomainStateError("price is required")
	}
	oldPrice := p.price
	p.price = newPrice
	p.touch()
	changed := newEvent(p.id.String(), p.updatedAt, ProductPriceChanged{OldPrice: oldPrice, NewPrice: newPrice})
	return Events{changed}, nil
}

// UpdateInfo replaces name and description. No event is emitted.
func (p *Product) UpdateInfo(name, description string) (Events, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	p.name = name
	p.description = description
	p.touch()
	return Events{}, nil
}

// AddStock increases stock by a positive quantity. No event is emitted.
func (p *Product) AddStock(quantity int) (Events, error) {
	if quantity <= 0 {
		return nil, NewInvalidDomainStateError("quantity to add must be positive")
	}
	p.stockQuantity += quantity
	p.touch()
	return Events{}, nil
}

// RemoveStock decreases stock by a positive quantity, failing when less
// than quantity is on hand. No event is emitted.
func (p *Product) RemoveStock(quantity int) (Events, error) {
	if quantity <= 0 {
		return nil, NewInvalidDomainStateError("quantity to remove must be positive")
	}
	if quantity > p.stockQuantity {
		return nil, NewInvalidDomainStateError("insufficient stock: available %d, requested %d", p.stockQuantity, quantity)
	}
	p.stockQuantity -= quantity
	p.touch()
	return Events{}, nil
}

// Activate makes the product sellable again.
func (p *Product) Activate() Events {
	return p.setStatus(StatusActive)
}

// Deactivate hides the product from listings until reactivated.
func (p *Product) Deactivate() Events {
	return p.setStatus(StatusInactive)
}

// Discontinue retires the product for good.
func (p *Product) Discontinue() Events {
	return p.setStatus(StatusDiscontinued)
}

func (p *Product) setStatus(s Status) Events {
	p.status = s
	p.touch()
	return Events{}
}

// touch bumps updatedAt, keeping it strictly increasing even when the clock
// hasn't moved at storage precision.
func (p *Product) touch() {
	now := Now()
	if !now.After(p.updatedAt) {
		now = p.updatedAt.Add(time.Microsecond)
	}
	p.updatedAt = now
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return NewInvalidDomainStateError("product name cannot be blank")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return NewInvalidDomainStateError("product name cannot exceed %d characters", MaxNameLength)
	}
	return nil
}
