package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestEntityNotFoundError(t *testing.T) {
	id, _ := ParseProductID("prod-123")

	t.Run("Error message formatting", func(t *testing.T) {
		err := NewProductNotFoundError(id)
		expected := "Product with ID prod-123 not found"
		if err.Error() != expected {
			t.Errorf("expected %q, got %q", expected, err.Error())
		}
	})

	t.Run("errors.Is detection", func(t *testing.T) {
		err := NewProductNotFoundError(id)
		target := &EntityNotFoundError{}
		if !errors.Is(err, target) {
			t.Error("errors.Is should detect EntityNotFoundError")
		}
	})

	t.Run("errors.As conversion", func(t *testing.T) {
		err := fmt.Errorf("load: %w", NewProductNotFoundError(id))
		var enf *EntityNotFoundError
		if !errors.As(err, &enf) {
			t.Fatal("errors.As should convert wrapped EntityNotFoundError")
		}
		if enf.Entity != "Product" || enf.ID != "prod-123" {
			t.Errorf("error fields not correctly preserved: %+v", enf)
		}
	})

	t.Run("IsEntityNotFound helper", func(t *testing.T) {
		if !IsEntityNotFound(NewEntityNotFoundError("Order", "o-1")) {
			t.Error("IsEntityNotFound should return true")
		}
	})
}

func TestInvalidDomainStateError(t *testing.T) {
	t.Run("Error message formatting", func(t *testing.T) {
		err := NewInvalidDomainStateError("insufficient stock: available %d, requested %d", 10, 15)
		expected := "invalid domain state: insufficient stock: available 10, requested 15"
		if err.Error() != expected {
			t.Errorf("expected %q, got %q", expected, err.Error())
		}
	})

	t.Run("errors.Is detection", func(t *testing.T) {
		err := NewInvalidDomainStateError("price is required")
		if !errors.Is(err, &InvalidDomainStateError{}) {
			t.Error("errors.Is should detect InvalidDomainStateError")
		}
	})

	t.Run("errors.As conversion", func(t *testing.T) {
		err := NewInvalidDomainStateError("product name cannot be blank")
		var ids *InvalidDomainStateError
		if !errors.As(err, &ids) {
			t.Fatal("errors.As should convert to InvalidDomainStateError")
		}
		if ids.Reason != "product name cannot be blank" {
			t.Errorf("unexpected reason %q", ids.Reason)
		}
	})

	t.Run("duplicate name is invalid state", func(t *testing.T) {
		err := NewDuplicateProductError("Laptop")
		if !IsInvalidDomainState(err) {
			t.Error("duplicate product should be an InvalidDomainStateError")
		}
		expected := "invalid domain state: product with name 'Laptop' already exists"
		if err.Error() != expected {
			t.Errorf("expected %q, got %q", expected, err.Error())
		}
	})
}

func TestErrorTypeDiscrimination(t *testing.T) {
	id, _ := ParseProductID("prod-1")
	nf := NewProductNotFoundError(id)
	ids := NewInvalidDomainStateError("price is required")

	if IsInvalidDomainState(nf) {
		t.Error("EntityNotFoundError should not be InvalidDomainStateError")
	}
	if IsEntityNotFound(ids) {
		t.Error("InvalidDomainStateError should not be EntityNotFoundError")
	}
	if IsEntityNotFound(errors.New("boom")) || IsInvalidDomainState(errors.New("boom")) {
		t.Error("plain errors should match neither type")
	}
}
