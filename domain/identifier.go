package domain

import (
	"encoding/json"
	"strings"

	"catalog/util"
)

// Identifier is a typed, non-blank identifier. The type parameter only tags
// which entity the id belongs to, so a ProductID can't be passed where another
// entity's id is expected.
type Identifier[T any] struct {
	value string
}

// NewID generates a fresh random identifier.
func NewID[T any]() Identifier[T] {
	return Identifier[T]{value: util.GenerateToken()}
}

// ParseID wraps an existing identifier value.
func ParseID[T any](value string) (Identifier[T], error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Identifier[T]{}, NewInvalidDomainStateError("identifier cannot be blank")
	}
	return Identifier[T]{value: value}, nil
}

func (id Identifier[T]) String() string { return id.value }

// IsZero reports whether id was never assigned.
func (id Identifier[T]) IsZero() bool { return id.value == "" }

func (id Identifier[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.value)
}

func (id *Identifier[T]) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseID[T](s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ProductID identifies a Product.
type ProductID = Identifier[Product]

// EventID identifies a domain event.
type EventID = Identifier[Event]

// ParseProductID is ParseID for products.
func ParseProductID(value string) (ProductID, error) {
	return ParseID[Product](value)
}
