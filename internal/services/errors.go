package services

import (
	"fmt"

	"catalog/internal/models"
)

// ValidationError carries the accumulated rule failures for one request.
// It is always recoverable by resubmitting corrected input; nothing is
// persisted when it is returned.
type ValidationError struct {
	Failures []models.ValidationFailure
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("product validation failed with %d error(s)", len(e.Failures))
}

// DuplicateSKUError is the distinguished duplicate-key failure. Its message
// is part of the API contract.
type DuplicateSKUError struct {
	SKU string
}

func (e *DuplicateSKUError) Error() string {
	return fmt.Sprintf("A product with SKU '%s' already exists. SKU must be unique.", e.SKU)
}
