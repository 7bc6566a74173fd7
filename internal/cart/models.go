package cart

import (
	"time"

	"github.com/google/uuid"
)

type Cart struct {
	ID     uuid.UUID  `json:"id"`
	UserID string     `json:"userId"`
	Items  []CartItem `json:"items"`
}

type CartItem struct {
	ProductID string    `json:"productId"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
}
