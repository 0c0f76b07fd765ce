package domain

import (
	"errors"
	"fmt"
)

// InvalidDomainStateError is returned when an input violates an aggregate or
// value object invariant. It is always caller-correctable.
type InvalidDomainStateError struct {
	Reason string
}

// Error implements the error interface for InvalidDomainStateError
func (e *InvalidDomainStateError) Error() string {
	return fmt.Sprintf("invalid domain state: %s", e.Reason)
}

// Is allows proper error type checking with errors.Is()
func (e *InvalidDomainStateError) Is(target error) bool {
	_, ok := target.(*InvalidDomainStateError)
	return ok
}

// EntityNotFoundError is returned when an identifier does not resolve to an
// existing aggregate
type EntityNotFoundError struct {
	Entity string
	ID     string
}

// Error implements the error interface for EntityNotFoundError
func (e *EntityNotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Entity, e.ID)
}

// Is allows proper error type checking with errors.Is()
func (e *EntityNotFoundError) Is(target error) bool {
	_, ok := target.(*EntityNotFoundError)
	return ok
}

// Helper functions for creating errors with context

// NewInvalidDomainStateError creates a new InvalidDomainStateError
func NewInvalidDomainStateError(format string, args ...any) error {
	return &InvalidDomainStateError{Reason: fmt.Sprintf(format, args...)}
}

// NewEntityNotFoundError creates a new EntityNotFoundError
func NewEntityNotFoundError(entity, id string) error {
	return &EntityNotFoundError{Entity: entity, ID: id}
}

// NewProductNotFoundError creates an EntityNotFoundError for a product id
func NewProductNotFoundError(id ProductID) error {
	return NewEntityNotFoundError("Product", id.String())
}

// NewDuplicateProductError reports a product name that is already taken.
// Duplicates are a flavour of invalid domain state.
func NewDuplicateProductError(name string) error {
	return NewInvalidDomainStateError("product with name '%s' already exists", name)
}

// Type assertion helpers for use with errors.As()

// IsInvalidDomainState checks if an error is an InvalidDomainStateError
func IsInvalidDomainState(err error) bool {
	var ide *InvalidDomainStateError
	return errors.As(err, &ide)
}

// IsEntityNotFound checks if an error is an EntityNotFoundError
func IsEntityNotFound(err error) bool {
	var enf *EntityNotFoundError
	return errors.As(err, &enf)
}
