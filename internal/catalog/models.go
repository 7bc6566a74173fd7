package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	OriginalPrice decimal.Decimal `json:"originalPrice"`
	Sale          bool            `json:"sale"`
	Thumbnail     string          `json:"thumbnail"`
	Tags          []string        `json:"tags"`
	Stock         int             `json:"stock"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"-"`
}
