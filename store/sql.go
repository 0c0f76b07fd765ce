package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"catalog/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// productRow maps the products table. The timestamp fields avoid gorm's
// CreatedAt/UpdatedAt auto-tracking names; the aggregate owns those values.
type productRow struct {
	ID            string          `gorm:"column:id;primaryKey;size:36"`
	Name          string          `gorm:"column:name;size:255"`
	Description   string          `gorm:"column:description;size:1000"`
	Price         decimal.Decimal `gorm:"column:price;type:numeric(19,4)"`
	Currency      string          `gorm:"column:currency;size:3"`
	StockQuantity int             `gorm:"column:stock_quantity"`
	Status        string          `gorm:"column:status;size:20"`
	CreatedOn     time.Time       `gorm:"column:created_at"`
	UpdatedOn     time.Time       `gorm:"column:updated_at"`
}

func (productRow) TableName() string { return "products" }

func rowFromState(st domain.ProductState) productRow {
	return productRow{
		ID:            st.ID.String(),
		Name:          st.Name,
		Description:   st.Description,
		Price:         st.Price.Amount(),
		Currency:      st.Price.Currency(),
		StockQuantity: st.StockQuantity,
		Status:        string(st.Status),
		CreatedOn:     st.CreatedAt.UTC(),
		UpdatedOn:     st.UpdatedAt.UTC(),
	}
}

func (r productRow) toProduct() (*domain.Product, error) {
	id, err := domain.ParseProductID(r.ID)
	if err != nil {
		return nil, err
	}
	price, err := domain.NewMoney(r.Price, r.Currency)
	if err != nil {
		return nil, fmt.Errorf("product %s: %w", r.ID, err)
	}
	return domain.ReconstituteProduct(domain.ProductState{
		ID:            id,
		Name:          r.Name,
		Description:   r.Description,
		Price:         price,
		StockQuantity: r.StockQuantity,
		Status:        domain.Status(r.Status),
		CreatedAt:     r.CreatedOn.UTC(),
		UpdatedAt:     r.UpdatedOn.UTC(),
	}), nil
}

// SQLProductRepository is a gorm-backed domain.ProductRepository.
type SQLProductRepository struct {
	db *gorm.DB
}

var _ domain.ProductRepository = (*SQLProductRepository)(nil)

func NewSQLProductRepository(db *gorm.DB) *SQLProductRepository {
	return &SQLProductRepository{db: db}
}

// Save inserts or fully overwrites the row for p.
func (r *SQLProductRepository) Save(ctx context.Context, p *domain.Product) error {
	row := rowFromState(p.State())
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, UpdateAll: true}).
		Create(&row).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.NewDuplicateProductError(row.Name)
	}
	if err != nil {
		return fmt.Errorf("save product %s: %w", row.ID, err)
	}
	return nil
}

func (r *SQLProductRepository) FindByID(ctx context.Context, id domain.ProductID) (*domain.Product, error) {
	var row productRow
	err := r.db.WithContext(ctx).Where("id = ?", id.String()).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewProductNotFoundError(id)
	}
	if err != nil {
		return nil, fmt.Errorf("find product %s: %w", id, err)
	}
	return row.toProduct()
}

func (r *SQLProductRepository) FindAll(ctx context.Context) ([]*domain.Product, error) {
	return r.find(r.db.WithContext(ctx))
}

func (r *SQLProductRepository) FindAllActive(ctx context.Context) ([]*domain.Product, error) {
	return r.find(r.db.WithContext(ctx).Where("status = ?", string(domain.StatusActive)))
}

func (r *SQLProductRepository) FindByNameContaining(ctx context.Context, fragment string) ([]*domain.Product, error) {
	pattern := "%" + escapeLike(strings.ToLower(fragment)) + "%"
	return r.find(r.db.WithContext(ctx).Where(`LOWER(name) LIKE ? ESCAPE '\'`, pattern))
}

func (r *SQLProductRepository) find(q *gorm.DB) ([]*domain.Product, error) {
	var rows []productRow
	if err := q.Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	out := make([]*domain.Product, 0, len(rows))
	for _, row := range rows {
		p, err := row.toProduct()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *SQLProductRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&productRow{}).Where("name = ?", name).Count(&n).Error; err != nil {
		return false, fmt.Errorf("count products by name: %w", err)
	}
	return n > 0, nil
}

func (r *SQLProductRepository) ExistsByID(ctx context.Context, id domain.ProductID) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&productRow{}).Where("id = ?", id.String()).Count(&n).Error; err != nil {
		return false, fmt.Errorf("count products by id: %w", err)
	}
	return n > 0, nil
}

func (r *SQLProductRepository) Delete(ctx context.Context, p *domain.Product) error {
	return r.DeleteByID(ctx, p.ID())
}

func (r *SQLProductRepository) DeleteByID(ctx context.Context, id domain.ProductID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&productRow{})
	if res.Error != nil {
		return fmt.Errorf("delete product %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NewProductNotFoundError(id)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
