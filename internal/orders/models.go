package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Customer struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
	Zip    string `json:"zip"`
}

type Order struct {
	ID        uuid.UUID       `json:"id"`
	UserID    string          `json:"userId"`
	Customer  Customer        `json:"customer"`
	Address   Address         `json:"address"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"createdAt"`
	Items     []OrderItem     `json:"items"`
}

// OrderItem captures unit price at order time; it never tracks later catalog
// price changes.
type OrderItem struct {
	ProductID    string          `json:"productId"`
	ProductTitle string          `json:"productTitle,omitempty"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
}
