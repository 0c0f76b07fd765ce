package store

import (
	"context"
	"testing"
	"time"

	"catalog/domain"
)

// steppingClock makes every domain timestamp one second after the previous.
func steppingClock(t *testing.T) {
	t.Helper()
	current := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	restore := domain.SetClock(func() time.Time {
		current = current.Add(time.Second)
		return current
	})
	t.Cleanup(restore)
}

func mustProduct(t *testing.T, name, price string, stock int) *domain.Product {
	t.Helper()
	p, _, err := domain.NewProduct(name, name+" description", domain.MustMoney(price, "USD"), stock)
	if err != nil {
		t.Fatalf("NewProduct(%q) failed: %v", name, err)
	}
	return p
}

func assertSameState(t *testing.T, want, got domain.ProductState) {
	t.Helper()
	if want.ID != got.ID || want.Name != got.Name || want.Description != got.Description {
		t.Fatalf("identity/info mismatch: want %+v, got %+v", want, got)
	}
	if !want.Price.Equal(got.Price) {
		t.Fatalf("price mismatch: want %s, got %s", want.Price, got.Price)
	}
	if want.StockQuantity != got.StockQuantity || want.Status != got.Status {
		t.Fatalf("stock/status mismatch: want %d/%s, got %d/%s", want.StockQuantity, want.Status, got.StockQuantity, got.Status)
	}
	if !want.CreatedAt.Equal(got.CreatedAt) || !want.UpdatedAt.Equal(got.UpdatedAt) {
		t.Fatalf("timestamp mismatch: want %v/%v, got %v/%v", want.CreatedAt, want.UpdatedAt, got.CreatedAt, got.UpdatedAt)
	}
}

func names(products []*domain.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Name())
	}
	return out
}

func equalNames(got []*domain.Product, want ...string) bool {
	g := names(got)
	if len(g) != len(want) {
		return false
	}
	for i := range g {
		if g[i] != want[i] {
			return false
		}
	}
	return true
}

// testProductRepository runs the behaviour every domain.ProductRepository must share.
func testProductRepository(t *testing.T, newRepo func(t *testing.T) domain.ProductRepository) {
	ctx := context.Background()

	t.Run("save and find round trip", func(t *testing.T) {
		steppingClock(t)
		repo := newRepo(t)
		p := mustProduct(t, "Laptop", "999.99", 10)
		if err := repo.Save(ctx, p); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		got, err := repo.FindByID(ctx, p.ID())
		if err != nil {
			t.Fatalf("FindByID failed: %v", err)
		}
		assertSameState(t, p.State(), got.State())
	})

	t.Run("find missing is not found", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.FindByID(ctx, domain.NewID[domain.Product]())
		if !domain.IsEntityNotFound(err) {
			t.Fatalf("expected EntityNotFoundError, got %v", err)
		}
	})

	t.Run("save overwrites existing", func(t *testing.T) {
		steppingClock(t)
		repo := newRepo(t)
		p := mustProduct(t, "Desk", "100", 1)
		if err := repo.Save(ctx, p); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if _, err := p.ChangePrice(domain.MustMoney("80", "USD")); err != nil {
			t.Fatalf("ChangePrice failed: %v", err)
		}
		p.Deactivate()
		if err := repo.Save(ctx, p); err != nil {
			t.Fatalf("second Save failed: %v", err)
		}
		got, err := repo.FindByID(ctx, p.ID())
		if err != nil {
			t.Fatalf("FindByID failed: %v", err)
		}
		assertSameState(t, p.State(), got.State())
		all, _ := repo.FindAll(ctx)
		if len(all) != 1 {
			t.Fatalf("expected 1 product after overwrite, got %d", len(all))
		}
	})

	t.Run("duplicate name is rejected", func(t *testing.T) {
		repo := newRepo(t)
		if err := repo.Save(ctx, mustProduct(t, "Chair", "10", 1)); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		err := repo.Save(ctx, mustProduct(t, "Chair", "12", 1))
		if !domain.IsInvalidDomainState(err) {
			t.Fatalf("expected InvalidDomainStateError, got %v", err)
		}
	})

	t.Run("listing order and active filter", func(t *testing.T) {
		steppingClock(t)
		repo := newRepo(t)
		a := mustProduct(t, "Alpha", "1", 1)
		b := mustProduct(t, "Beta", "2", 0)
		c := mustProduct(t, "Gamma", "3", 5)
		b.Deactivate()
		for _, p := range []*domain.Product{c, b, a} {
			if err := repo.Save(ctx, p); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
		}
		all, err := repo.FindAll(ctx)
		if err != nil {
			t.Fatalf("FindAll failed: %v", err)
		}
		if !equalNames(all, "Alpha", "Beta", "Gamma") {
			t.Fatalf("unexpected FindAll order %v", names(all))
		}
		active, err := repo.FindAllActive(ctx)
		if err != nil {
			t.Fatalf("FindAllActive failed: %v", err)
		}
		if !equalNames(active, "Alpha", "Gamma") {
			t.Fatalf("unexpected FindAllActive result %v", names(active))
		}
	})

	t.Run("name search is case-insensitive and literal", func(t *testing.T) {
		steppingClock(t)
		repo := newRepo(t)
		for _, n := range []string{"Coffee Mug", "50% Off MUG", "Tea_Pot", "Teapot"} {
			if err := repo.Save(ctx, mustProduct(t, n, "5", 1)); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
		}
		cases := []struct {
			query string
			want  []string
		}{
			{"mug", []string{"Coffee Mug", "50% Off MUG"}},
			{"%", []string{"50% Off MUG"}},
			{"_", []string{"Tea_Pot"}},
			{"TEA", []string{"Tea_Pot", "Teapot"}},
			{"nothing", nil},
		}
		for _, tc := range cases {
			got, err := repo.FindByNameContaining(ctx, tc.query)
			if err != nil {
				t.Fatalf("FindByNameContaining(%q) failed: %v", tc.query, err)
			}
			if !equalNames(got, tc.want...) {
				t.Fatalf("FindByNameContaining(%q) = %v, want %v", tc.query, names(got), tc.want)
			}
		}
	})

	t.Run("exists and delete", func(t *testing.T) {
		repo := newRepo(t)
		p := mustProduct(t, "Lamp", "20", 2)
		q := mustProduct(t, "Rug", "30", 2)
		for _, x := range []*domain.Product{p, q} {
			if err := repo.Save(ctx, x); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
		}
		if ok, _ := repo.ExistsByName(ctx, "Lamp"); !ok {
			t.Fatal("expected ExistsByName(Lamp) to be true")
		}
		if ok, _ := repo.ExistsByName(ctx, "lamp"); ok {
			t.Fatal("ExistsByName should be an exact match")
		}
		if ok, _ := repo.ExistsByID(ctx, p.ID()); !ok {
			t.Fatal("expected ExistsByID to be true")
		}

		if err := repo.DeleteByID(ctx, p.ID()); err != nil {
			t.Fatalf("DeleteByID failed: %v", err)
		}
		if ok, _ := repo.ExistsByID(ctx, p.ID()); ok {
			t.Fatal("product still exists after delete")
		}
		if err := repo.DeleteByID(ctx, p.ID()); !domain.IsEntityNotFound(err) {
			t.Fatalf("expected EntityNotFoundError deleting twice, got %v", err)
		}
		if err := repo.Delete(ctx, q); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		all, _ := repo.FindAll(ctx)
		if len(all) != 0 {
			t.Fatalf("expected empty repository, got %v", names(all))
		}
	})
}

// testEventLog runs the behaviour every domain.EventLog must share.
func testEventLog(t *testing.T, log domain.EventLog) {
	ctx := context.Background()
	steppingClock(t)

	p, created, err := domain.NewProduct("Laptop", "", domain.MustMoney("999.99", "USD"), 1)
	if err != nil {
		t.Fatalf("NewProduct failed: %v", err)
	}
	changed, err := p.ChangePrice(domain.MustMoney("899.99", "USD"))
	if err != nil {
		t.Fatalf("ChangePrice failed: %v", err)
	}
	_, other, _ := domain.NewProduct("Other", "", domain.MustMoney("1", "EUR"), 1)

	for _, ev := range []domain.Event{created[0], changed[0], other[0]} {
		if err := log.Append(ctx, ev.Envelope()); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	got, err := log.ForAggregate(ctx, p.ID().String())
	if err != nil {
		t.Fatalf("ForAggregate failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[0].EventType != domain.KindProductCreated || got[1].EventType != domain.KindProductPriceChanged {
		t.Fatalf("unexpected event order: %s, %s", got[0].EventType, got[1].EventType)
	}
	if got[1].Metadata["newPriceAmount"] != "899.99" || got[1].Metadata["oldPriceAmount"] != "999.99" {
		t.Fatalf("metadata not preserved: %v", got[1].Metadata)
	}
	if !got[1].OccurredOn.Equal(changed[0].OccurredOn) {
		t.Fatalf("occurredOn mismatch: %v vs %v", got[1].OccurredOn, changed[0].OccurredOn)
	}
	if _, err := got[1].Event(); err != nil {
		t.Fatalf("stored envelope does not decode: %v", err)
	}

	none, err := log.ForAggregate(ctx, "unknown")
	if err != nil {
		t.Fatalf("ForAggregate(unknown) failed: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no events, got %d", len(none))
	}
}
