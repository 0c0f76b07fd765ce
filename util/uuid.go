// Package util provides utility functions for the catalog.
package util

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateUUID returns a RFC4122-compliant v4 UUID string.
func GenerateUUID() string {
	return uuid.NewString()
}

// GenerateToken returns a v4 UUID rendered as 32 lowercase hex characters.
func GenerateToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
