package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/lpagani/go-shop-orders/internal/postgres"
)

// Ledger is the single mutation path for product stock. Reserve runs on the
// caller's transaction so the decrement commits or rolls back together with
// the order rows.
type Ledger struct{}

// Reservation is the per-product outcome of a successful Reserve: the unit
// price snapshot taken at validation time.
type Reservation struct {
	Title     string
	UnitPrice decimal.Decimal
}

// Reserve locks each requested product row (FOR UPDATE), validates existence
// and stock, and decrements. It fails fast on the first missing or
// short-stocked product, in the order the ids appear in the request; the
// caller's rollback undoes any decrement already applied.
func (Ledger) Reserve(ctx context.Context, tx postgres.DBTX, ids []string, quantities map[string]int) (map[string]Reservation, error) {
	reserved := make(map[string]Reservation, len(ids))

	for _, id := range ids {
		qty := quantities[id]

		var (
			title string
			stock int
			price decimal.Decimal
		)
		err := tx.QueryRow(ctx,
			`SELECT title, stock, price FROM products WHERE id=$1 FOR UPDATE`, id).
			Scan(&title, &stock, &price)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &ProductNotFoundError{ProductID: id}
		}
		if err != nil {
			return nil, fmt.Errorf("lock product %s: %w", id, err)
		}

		if stock < qty {
			return nil, &InsufficientStockError{
				ProductID: id,
				Title:     title,
				Available: stock,
				Requested: qty,
			}
		}

		if _, err := tx.Exec(ctx,
			`UPDATE products SET stock = stock - $2, updated_at = now() WHERE id=$1`, id, qty); err != nil {
			return nil, fmt.Errorf("decrement stock for %s: %w", id, err)
		}

		reserved[id] = Reservation{Title: title, UnitPrice: price}
	}

	return reserved, nil
}
