package orders

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemRef is one unit of a product in the placement payload. The frontend
// passes catalog fields through alongside the id; none of them are trusted
// for pricing, so only the id is kept.
type ItemRef struct {
	ID string `json:"id"`
}

type PlacementRequest struct {
	Customer Customer        `json:"customer"`
	Address  Address         `json:"address"`
	Total    decimal.Decimal `json:"total"`
	Items    []ItemRef       `json:"items"`
}

// AggregateQuantities collapses duplicate product references into per-product
// quantities, preserving first-occurrence order.
func AggregateQuantities(items []ItemRef) (ids []string, quantities map[string]int) {
	quantities = make(map[string]int, len(items))
	for _, it := range items {
		if _, seen := quantities[it.ID]; !seen {
			ids = append(ids, it.ID)
		}
		quantities[it.ID]++
	}
	return ids, quantities
}

// LineItem is a reserved (product, quantity, unit price) tuple ready to
// become an OrderItem.
type LineItem struct {
	ProductID string
	Title     string
	Quantity  int
	UnitPrice decimal.Decimal
}

// BuildOrder assembles and validates the aggregate. All violated constraints
// are collected and returned together in one ValidationError. The declared
// total must equal the sum of line items; a client-supplied total is never
// trusted.
func BuildOrder(userID string, c Customer, a Address, declaredTotal decimal.Decimal, lines []LineItem) (Order, error) {
	var violations []string

	for _, f := range []struct{ name, value string }{
		{"customer first name", c.FirstName},
		{"customer last name", c.LastName},
		{"customer email", c.Email},
		{"address street", a.Street},
		{"address city", a.City},
		{"address zip", a.Zip},
	} {
		if strings.TrimSpace(f.value) == "" {
			violations = append(violations, f.name+" can't be blank")
		}
	}

	if len(lines) == 0 {
		violations = append(violations, "order must contain at least one item")
	}

	computed := decimal.Zero
	items := make([]OrderItem, 0, len(lines))
	for _, l := range lines {
		if l.Quantity < 1 {
			violations = append(violations, fmt.Sprintf("quantity for product %s must be at least 1", l.ProductID))
			continue
		}
		if !l.UnitPrice.IsPositive() {
			violations = append(violations, fmt.Sprintf("unit price for product %s must be greater than 0", l.ProductID))
			continue
		}
		computed = computed.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
		items = append(items, OrderItem{
			ProductID:    l.ProductID,
			ProductTitle: l.Title,
			Quantity:     l.Quantity,
			UnitPrice:    l.UnitPrice,
		})
	}

	if len(lines) > 0 && !computed.Equal(declaredTotal) {
		violations = append(violations,
			fmt.Sprintf("total %s does not match sum of items %s", declaredTotal, computed))
	}

	if len(violations) > 0 {
		return Order{}, &ValidationError{Violations: violations}
	}

	return Order{
		ID:        uuid.New(),
		UserID:    userID,
		Customer:  c,
		Address:   a,
		Total:     computed,
		CreatedAt: time.Now().UTC(),
		Items:     items,
	}, nil
}
