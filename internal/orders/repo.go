package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lpagani/go-shop-orders/internal/postgres"
)

type Repo struct{ DB postgres.DBTX }

func (r *Repo) WithTx(tx pgx.Tx) *Repo { return &Repo{DB: tx} }

// Insert persists the aggregate: the order row plus one row per line item.
func (r *Repo) Insert(ctx context.Context, o Order) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO orders(id, user_id, customer_first_name, customer_last_name, customer_email,
		                   address_street, address_city, address_zip, total, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		o.ID, o.UserID, o.Customer.FirstName, o.Customer.LastName, o.Customer.Email,
		o.Address.Street, o.Address.City, o.Address.Zip, o.Total, o.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, it := range o.Items {
		_, err := r.DB.Exec(ctx, `
			INSERT INTO order_items(order_id, product_id, quantity, unit_price)
			VALUES ($1,$2,$3,$4)`,
			o.ID, it.ProductID, it.Quantity, it.UnitPrice)
		if err != nil {
			return fmt.Errorf("insert order item %s: %w", it.ProductID, err)
		}
	}
	return nil
}

// ListForUser returns the user's orders newest first, each expanded with its
// items and the referenced product title.
func (r *Repo) ListForUser(ctx context.Context, userID string) ([]Order, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, user_id, customer_first_name, customer_last_name, customer_email,
		       address_street, address_city, address_zip, total, created_at
		FROM orders WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var (
		out []Order
		ids []uuid.UUID
		idx = map[uuid.UUID]int{}
	)
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Customer.FirstName, &o.Customer.LastName, &o.Customer.Email,
			&o.Address.Street, &o.Address.City, &o.Address.Zip, &o.Total, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		o.Items = []OrderItem{}
		idx[o.ID] = len(out)
		ids = append(ids, o.ID)
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return []Order{}, nil
	}

	itemRows, err := r.DB.Query(ctx, `
		SELECT oi.order_id, oi.product_id, p.title, oi.quantity, oi.unit_price
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.id`, ids)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var (
			orderID uuid.UUID
			it      OrderItem
		)
		if err := itemRows.Scan(&orderID, &it.ProductID, &it.ProductTitle, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		i := idx[orderID]
		out[i].Items = append(out[i].Items, it)
	}
	return out, itemRows.Err()
}
