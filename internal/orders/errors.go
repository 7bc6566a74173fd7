package orders

import (
	"fmt"
	"strings"
)

// ProductNotFoundError aborts the whole placement: no partial reservation is
// ever kept.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

type InsufficientStockError struct {
	ProductID string
	Title     string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %q: available %d, requested %d",
		e.Title, e.Available, e.Requested)
}

// ValidationError carries every violated constraint, not just the first.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "invalid order: " + strings.Join(e.Violations, "; ")
}
