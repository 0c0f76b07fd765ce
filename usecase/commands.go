package usecase

import (
	"context"
	"log/slog"

	"catalog/domain"
)

// CreateProduct registers a new product under a unique name.
type CreateProduct struct {
	repo   domain.ProductRepository
	pub    domain.EventPublisher
	logger *slog.Logger
}

// NewCreateProduct returns a CreateProduct. A nil logger uses slog.Default().
func NewCreateProduct(repo domain.ProductRepository, pub domain.EventPublisher, logger *slog.Logger) *CreateProduct {
	return &CreateProduct{repo: repo, pub: pub, logger: orDefault(logger)}
}

// Execute validates req, saves the product and publishes its ProductCreated
// event. A taken name is reported as a duplicate entity.
func (uc *CreateProduct) Execute(ctx context.Context, req CreateProductRequest) (ProductResponse, error) {
	exists, err := uc.repo.ExistsByName(ctx, req.Name)
	if err != nil {
		return ProductResponse{}, err
	}
	if exists {
		return ProductResponse{}, domain.NewDuplicateProductError(req.Name)
	}
	price, err := toMoney(req.Price, req.Currency)
	if err != nil {
		return ProductResponse{}, err
	}
	p, events, err := domain.NewProduct(req.Name, req.Description, price, req.InitialStock)
	if err != nil {
		return ProductResponse{}, err
	}
	if err := saveAndPublish(ctx, uc.repo, uc.pub, p, events); err != nil {
		return ProductResponse{}, err
	}
	uc.logger.Info("product created", "product_id", p.ID().String(), "name", p.Name())
	return toResponse(p), nil
}

// UpdateProduct replaces a product's name and description.
type UpdateProduct struct {
	repo   domain.ProductRepository
	pub    domain.EventPublisher
	logger *slog.Logger
}

// NewUpdateProduct returns an UpdateProduct.
func NewUpdateProduct(repo domain.ProductRepository, pub domain.EventPublisher, logger *slog.Logger) *UpdateProduct {
	return &UpdateProduct{repo: repo, pub: pub, logger: orDefault(logger)}
}

// Execute leaves price, stock and createdAt untouched.
func (uc *UpdateProduct) Execute(ctx context.Context, id string, req UpdateProductRequest) (ProductResponse, error) {
	p, err := loadProduct(ctx, uc.repo, id)
	if err != nil {
		return ProductResponse{}, err
	}
	events, err := p.UpdateInfo(req.Name, req.Description)
	if err != nil {
		return ProductResponse{}, err
	}
	if err := saveAndPublish(ctx, uc.repo, uc.pub, p, events); err != nil {
		return ProductResponse{}, err
	}
	uc.logger.Info("product updated", "product_id", id)
	return toResponse(p), nil
}

// ChangePrice sets a new price, emitting a price-changed event.
type ChangePrice struct {
	repo   domain.ProductRepository
	pub    domain.EventPublisher
	logger *slog.Logger
}

// NewChangePrice returns a ChangePrice.
func NewChangePrice(repo domain.ProductRepository, pub domain.EventPublisher, logger *slog.Logger) *ChangePrice {
	return &ChangePrice{repo: repo, pub: pub, logger: orDefault(logger)}
}

// Execute keeps the current currency when req.Currency is empty.
func (uc *ChangePrice) Execute(ctx context.Context, id string, req ChangePriceRequest) (ProductResponse, error) {
	p, err := loadProduct(ctx, uc.repo, id)
	if err != nil {
		return ProductResponse{}, err
	}
	code := req.Currency
	if code == "" {
		code = p.Price().Currency()
	}
	price, err := toMoney(req.Price, code)
	if err != nil {
		return ProductResponse{}, err
	}
	old := p.Price()
	events, err := p.ChangePrice(price)
	if err != nil {
		return ProductResponse{}, err
	}
	if err := saveAndPublish(ctx, uc.repo, uc.pub, p, events); err != nil {
		return ProductResponse{}, err
	}
	uc.logger.Info("product price changed", "product_id", id, "old_price", old.String(), "new_price", price.String())
	return toResponse(p), nil
}

// AdjustStock adds or removes stock depending on the sign of the delta.
type AdjustStock struct {
	repo   domain.ProductRepository
	pub    domain.EventPublisher
	logger *slog.Logger
}

// NewAdjustStock returns an AdjustStock.
func NewAdjustStock(repo domain.ProductRepository, pub domain.EventPublisher, logger *slog.Logger) *AdjustStock {
	return &AdjustStock{repo: repo, pub: pub, logger: orDefault(logger)}
}

// Execute rejects a zero delta and any removal beyond the stock on hand.
func (uc *AdjustStock) Execute(ctx context.Context, id string, req AdjustStockRequest) (ProductResponse, error) {
	if req.Delta == 0 {
		return ProductResponse{}, domain.NewInvalidDomainStateError("stock adjustment cannot be zero")
	}
	p, err := loadProduct(ctx, uc.repo, id)
	if err != nil {
		return ProductResponse{}, err
	}
	var events domain.Events
	if req.Delta > 0 {
		events, err = p.AddStock(req.Delta)
	} else {
		events, err = p.RemoveStock(-req.Delta)
	}
	if err != nil {
		return ProductResponse{}, err
	}
	if err := saveAndPublish(ctx, uc.repo, uc.pub, p, events); err != nil {
		return ProductResponse{}, err
	}
	uc.logger.Info("product stock adjusted", "product_id", id, "delta", req.Delta, "stock", p.StockQuantity())
	return toResponse(p), nil
}

// ChangeStatus moves a product between ACTIVE, INACTIVE and DISCONTINUED.
type ChangeStatus struct {
	repo   domain.ProductRepository
	pub    domain.EventPublisher
	logger *slog.Logger
}

// NewChangeStatus returns a ChangeStatus.
func NewChangeStatus(repo domain.ProductRepository, pub domain.EventPublisher, logger *slog.Logger) *ChangeStatus {
	return &ChangeStatus{repo: repo, pub: pub, logger: orDefault(logger)}
}

// Execute accepts the status name in any casing.
func (uc *ChangeStatus) Execute(ctx context.Context, id string, req ChangeStatusRequest) (ProductResponse, error) {
	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		return ProductResponse{}, err
	}
	p, err := loadProduct(ctx, uc.repo, id)
	if err != nil {
		return ProductResponse{}, err
	}
	var events domain.Events
	switch status {
	case domain.StatusActive:
		events = p.Activate()
	case domain.StatusInactive:
		events = p.Deactivate()
	case domain.StatusDiscontinued:
		events = p.Discontinue()
	}
	if err := saveAndPublish(ctx, uc.repo, uc.pub, p, events); err != nil {
		return ProductResponse{}, err
	}
	uc.logger.Info("product status changed", "product_id", id, "status", status)
	return toResponse(p), nil
}

// DeleteProduct removes a product. Unknown ids are reported as not found.
type DeleteProduct struct {
	repo   domain.ProductRepository
	logger *slog.Logger
}

// NewDeleteProduct returns a DeleteProduct.
func NewDeleteProduct(repo domain.ProductRepository, logger *slog.Logger) *DeleteProduct {
	return &DeleteProduct{repo: repo, logger: orDefault(logger)}
}

// Execute deletes the product with the given id.
func (uc *DeleteProduct) Execute(ctx context.Context, rawID string) error {
	id, err := domain.ParseProductID(rawID)
	if err != nil {
		return err
	}
	exists, err := uc.repo.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return domain.NewProductNotFoundError(id)
	}
	if err := uc.repo.DeleteByID(ctx, id); err != nil {
		return err
	}
	uc.logger.Info("product deleted", "product_id", rawID)
	return nil
}

func orDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
