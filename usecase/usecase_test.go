package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"catalog/domain"
	"catalog/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu      sync.Mutex
	batches []domain.Events
	err     error
}

func (p *recordingPublisher) Publish(ctx context.Context, e domain.Event) error {
	return p.PublishAll(ctx, domain.Events{e})
}

func (p *recordingPublisher) PublishAll(_ context.Context, events domain.Events) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.batches = append(p.batches, events)
	return p.err
}

func (p *recordingPublisher) kinds() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, b := range p.batches {
		for _, e := range b {
			out = append(out, e.Kind())
		}
	}
	return out
}

func (p *recordingPublisher) batchCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.batches)
}

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func newTestCatalog(t *testing.T) (*Catalog, *recordingPublisher) {
	t.Helper()
	var mu sync.Mutex
	current := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	t.Cleanup(domain.SetClock(func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Millisecond)
		return current
	}))
	pub := &recordingPublisher{}
	return NewCatalog(store.NewMemoryProductRepository(), pub, nil), pub
}

func createLaptop(t *testing.T, c *Catalog) ProductResponse {
	t.Helper()
	resp, err := c.Create.Execute(context.Background(), CreateProductRequest{
		Name:         "Laptop",
		Description:  "High-performance laptop",
		Price:        price("999.99"),
		Currency:     "USD",
		InitialStock: 10,
	})
	require.NoError(t, err)
	return resp
}

func TestLaptopScenario(t *testing.T) {
	ctx := context.Background()
	c, pub := newTestCatalog(t)

	created := createLaptop(t, c)
	assert.Equal(t, "Laptop", created.Name)
	assert.Equal(t, "USD", created.Currency)
	assert.Equal(t, 10, created.StockQuantity)
	assert.Equal(t, "ACTIVE", created.Status)
	assert.True(t, created.Available)
	assert.Equal(t, []string{domain.KindProductCreated}, pub.kinds())

	changed, err := c.ChangePrice.Execute(ctx, created.ID, ChangePriceRequest{Price: price("899.99")})
	require.NoError(t, err)
	assert.Equal(t, "899.99", changed.Price.String())
	assert.Equal(t, "USD", changed.Currency)
	assert.True(t, changed.UpdatedAt.After(created.UpdatedAt))
	assert.Equal(t, []string{domain.KindProductCreated, domain.KindProductPriceChanged}, pub.kinds())

	quote, err := c.Discount.Execute(ctx, created.ID, 20)
	require.NoError(t, err)
	assert.Equal(t, "719.99", quote.DiscountedPrice.String())
	assert.Equal(t, "899.99", quote.OriginalPrice.String())

	_, err = c.AdjustStock.Execute(ctx, created.ID, AdjustStockRequest{Delta: -15})
	require.Error(t, err)
	assert.True(t, domain.IsInvalidDomainState(err))
	assert.Contains(t, err.Error(), "insufficient stock: available 10, requested 15")

	got, err := c.Get.Execute(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.StockQuantity, "failed removal leaves stock untouched")
}

func TestEndToEndScenario(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCatalog(t)

	created := createLaptop(t, c)

	active, err := c.List.Execute(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, created.ID, active[0].ID)

	before, err := c.Get.Execute(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, before.Name)

	_, err = c.Update.Execute(ctx, created.ID, UpdateProductRequest{
		Name:        "Gaming Laptop",
		Description: "High-performance gaming laptop",
	})
	require.NoError(t, err)

	after, err := c.Get.Execute(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gaming Laptop", after.Name)
	assert.Equal(t, "High-performance gaming laptop", after.Description)
	assert.Equal(t, "999.99", after.Price.String())
	assert.Equal(t, "USD", after.Currency)
	assert.Equal(t, 10, after.StockQuantity)
	assert.True(t, after.CreatedAt.Equal(before.CreatedAt))
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt))
}

func TestCreateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate name", func(t *testing.T) {
		c, pub := newTestCatalog(t)
		createLaptop(t, c)
		_, err := c.Create.Execute(ctx, CreateProductRequest{Name: "Laptop", Price: price("1"), Currency: "USD"})
		require.Error(t, err)
		assert.True(t, domain.IsInvalidDomainState(err))
		assert.Contains(t, err.Error(), "product with name 'Laptop' already exists")
		assert.Equal(t, 1, pub.batchCount())
	})

	t.Run("missing price", func(t *testing.T) {
		c, pub := newTestCatalog(t)
		_, err := c.Create.Execute(ctx, CreateProductRequest{Name: "Pen", Currency: "USD"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "price is required")
		assert.Zero(t, pub.batchCount())
	})

	t.Run("unknown currency", func(t *testing.T) {
		c, _ := newTestCatalog(t)
		_, err := c.Create.Execute(ctx, CreateProductRequest{Name: "Pen", Price: price("1"), Currency: "ZZZ"})
		require.Error(t, err)
		assert.True(t, domain.IsInvalidDomainState(err))
	})

	t.Run("publisher failure surfaces after save", func(t *testing.T) {
		c, pub := newTestCatalog(t)
		pub.err = errors.New("broker down")
		_, err := c.Create.Execute(ctx, CreateProductRequest{Name: "Pen", Price: price("1"), Currency: "USD"})
		require.EqualError(t, err, "broker down")

		all, err := c.Search.Execute(ctx, "")
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})
}

func TestUpdateProduct(t *testing.T) {
	ctx := context.Background()
	c, pub := newTestCatalog(t)
	created := createLaptop(t, c)

	updated, err := c.Update.Execute(ctx, created.ID, UpdateProductRequest{Name: "Gaming Laptop", Description: "RGB"})
	require.NoError(t, err)
	assert.Equal(t, "Gaming Laptop", updated.Name)
	assert.Equal(t, "RGB", updated.Description)
	require.Equal(t, 2, pub.batchCount())
	assert.Empty(t, pub.batches[1], "info updates publish an empty batch")

	_, err = c.Update.Execute(ctx, created.ID, UpdateProductRequest{Name: "  "})
	assert.True(t, domain.IsInvalidDomainState(err))

	_, err = c.Update.Execute(ctx, domain.NewID[domain.Product]().String(), UpdateProductRequest{Name: "x"})
	assert.True(t, domain.IsEntityNotFound(err))
}

func TestChangePriceWithCurrency(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCatalog(t)
	created := createLaptop(t, c)

	resp, err := c.ChangePrice.Execute(ctx, created.ID, ChangePriceRequest{Price: price("850"), Currency: "eur"})
	require.NoError(t, err)
	assert.Equal(t, "EUR", resp.Currency)

	_, err = c.ChangePrice.Execute(ctx, created.ID, ChangePriceRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "price is required")
}

func TestAdjustStock(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCatalog(t)
	created := createLaptop(t, c)

	resp, err := c.AdjustStock.Execute(ctx, created.ID, AdjustStockRequest{Delta: 5})
	require.NoError(t, err)
	assert.Equal(t, 15, resp.StockQuantity)

	resp, err = c.AdjustStock.Execute(ctx, created.ID, AdjustStockRequest{Delta: -15})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.StockQuantity)
	assert.False(t, resp.Available)

	_, err = c.AdjustStock.Execute(ctx, created.ID, AdjustStockRequest{Delta: 0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stock adjustment cannot be zero")
}

func TestChangeStatus(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCatalog(t)
	created := createLaptop(t, c)

	resp, err := c.ChangeStatus.Execute(ctx, created.ID, ChangeStatusRequest{Status: "discontinued"})
	require.NoError(t, err)
	assert.Equal(t, "DISCONTINUED", resp.Status)
	assert.False(t, resp.Available)

	active, err := c.List.Execute(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	resp, err = c.ChangeStatus.Execute(ctx, created.ID, ChangeStatusRequest{Status: "ACTIVE"})
	require.NoError(t, err)
	assert.True(t, resp.Available)

	_, err = c.ChangeStatus.Execute(ctx, created.ID, ChangeStatusRequest{Status: "ARCHIVED"})
	assert.True(t, domain.IsInvalidDomainState(err))
}

func TestDeleteProduct(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCatalog(t)
	created := createLaptop(t, c)

	require.NoError(t, c.Delete.Execute(ctx, created.ID))
	_, err := c.Get.Execute(ctx, created.ID)
	assert.True(t, domain.IsEntityNotFound(err))

	err = c.Delete.Execute(ctx, created.ID)
	assert.True(t, domain.IsEntityNotFound(err))

	err = c.Delete.Execute(ctx, "")
	assert.True(t, domain.IsInvalidDomainState(err))
}

func TestSearchProducts(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCatalog(t)
	for _, name := range []string{"Coffee Mug", "Tea Pot", "Travel Mug"} {
		_, err := c.Create.Execute(ctx, CreateProductRequest{Name: name, Price: price("9.5"), Currency: "USD", InitialStock: 1})
		require.NoError(t, err)
	}

	found, err := c.Search.Execute(ctx, "MUG")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Coffee Mug", found[0].Name)
	assert.Equal(t, "Travel Mug", found[1].Name)

	all, err := c.Search.Execute(ctx, "   ")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestQuoteDiscountLimits(t *testing.T) {
	ctx := context.Background()
	c, pub := newTestCatalog(t)
	created := createLaptop(t, c)

	for _, pct := range []int{-1, 51, 101} {
		_, err := c.Discount.Execute(ctx, created.ID, pct)
		assert.True(t, domain.IsInvalidDomainState(err), "percentage %d", pct)
	}
	quote, err := c.Discount.Execute(ctx, created.ID, 0)
	require.NoError(t, err)
	assert.True(t, quote.DiscountedPrice.Equal(decimal.RequireFromString("999.99")))
	assert.Equal(t, 1, pub.batchCount(), "quotes publish nothing")
}

func TestImportProducts(t *testing.T) {
	ctx := context.Background()

	t.Run("partial failures", func(t *testing.T) {
		c, _ := newTestCatalog(t)
		var reqs []CreateProductRequest
		for i := 0; i < 25; i++ {
			reqs = append(reqs, CreateProductRequest{
				Name: fmt.Sprintf("Item %02d", i), Price: price("3.25"), Currency: "USD", InitialStock: i,
			})
		}
		reqs[7].Price = nil
		reqs[19].Currency = "???"

		created, err := c.Import.Execute(ctx, reqs)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "item 7 (Item 07)")
		assert.Contains(t, err.Error(), "item 19 (Item 19)")
		require.Len(t, created, 23)
		assert.Equal(t, "Item 00", created[0].Name)
		assert.Equal(t, "Item 24", created[22].Name)

		all, err := c.Search.Execute(ctx, "")
		require.NoError(t, err)
		assert.Len(t, all, 23)
	})

	t.Run("duplicates within a batch", func(t *testing.T) {
		c, _ := newTestCatalog(t)
		reqs := []CreateProductRequest{
			{Name: "Same", Price: price("1"), Currency: "USD"},
			{Name: "Same", Price: price("1"), Currency: "USD"},
		}
		created, err := c.Import.Execute(ctx, reqs)
		require.Error(t, err)
		assert.True(t, domain.IsInvalidDomainState(err))
		assert.Len(t, created, 1)
	})

	t.Run("empty input", func(t *testing.T) {
		c, _ := newTestCatalog(t)
		created, err := c.Import.Execute(ctx, nil)
		assert.NoError(t, err)
		assert.Empty(t, created)
	})

	t.Run("cancelled context", func(t *testing.T) {
		c, _ := newTestCatalog(t)
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := c.Import.Execute(cctx, []CreateProductRequest{{Name: "Late", Price: price("1"), Currency: "USD"}})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
