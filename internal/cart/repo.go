package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lpagani/go-shop-orders/internal/postgres"
)

// Repo runs against the pool or, via WithTx, inside a caller-owned
// transaction so the placement workflow can clear the cart atomically.
type Repo struct{ DB postgres.DBTX }

func (r *Repo) WithTx(tx pgx.Tx) *Repo { return &Repo{DB: tx} }

// Current returns the user's cart with its items; found is false when the
// user has no cart yet.
func (r *Repo) Current(ctx context.Context, userID string) (Cart, bool, error) {
	if userID == "" {
		return Cart{}, false, fmt.Errorf("userID is empty")
	}

	var c Cart
	err := r.DB.QueryRow(ctx, `SELECT id, user_id FROM carts WHERE user_id=$1`, userID).
		Scan(&c.ID, &c.UserID)
	if errors.Is(err, pgx.ErrNoRows) {
		return Cart{}, false, nil
	}
	if err != nil {
		return Cart{}, false, fmt.Errorf("query cart: %w", err)
	}

	rows, err := r.DB.Query(ctx, `
		SELECT product_id, quantity, created_at FROM cart_items
		WHERE cart_id=$1 ORDER BY created_at`, c.ID)
	if err != nil {
		return Cart{}, false, fmt.Errorf("query cart items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it CartItem
		if err := rows.Scan(&it.ProductID, &it.Quantity, &it.CreatedAt); err != nil {
			return Cart{}, false, fmt.Errorf("scan cart item: %w", err)
		}
		c.Items = append(c.Items, it)
	}
	return c, true, rows.Err()
}

// AddItem increments the quantity for the product, creating the cart on first
// use.
func (r *Repo) AddItem(ctx context.Context, userID, productID string, qty int) error {
	if userID == "" {
		return fmt.Errorf("userID is empty")
	}
	if qty <= 0 {
		return fmt.Errorf("quantity must be positive")
	}

	var cartID uuid.UUID
	err := r.DB.QueryRow(ctx, `
		INSERT INTO carts(id, user_id) VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET user_id=EXCLUDED.user_id
		RETURNING id`, uuid.New(), userID).Scan(&cartID)
	if err != nil {
		return fmt.Errorf("upsert cart: %w", err)
	}

	_, err = r.DB.Exec(ctx, `
		INSERT INTO cart_items(cart_id, product_id, quantity) VALUES ($1, $2, $3)
		ON CONFLICT (cart_id, product_id) DO UPDATE
		SET quantity = cart_items.quantity + EXCLUDED.quantity`,
		cartID, productID, qty)
	if err != nil {
		return fmt.Errorf("upsert cart item: %w", err)
	}
	return nil
}

func (r *Repo) RemoveItem(ctx context.Context, userID, productID string) (bool, error) {
	if userID == "" {
		return false, fmt.Errorf("userID is empty")
	}
	ct, err := r.DB.Exec(ctx, `
		DELETE FROM cart_items USING carts
		WHERE cart_items.cart_id = carts.id AND carts.user_id=$1 AND cart_items.product_id=$2`,
		userID, productID)
	if err != nil {
		return false, fmt.Errorf("delete cart item: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

// Clear destroys all items of the cart. The cart row itself stays so the id
// remains stable for the next shopping session.
func (r *Repo) Clear(ctx context.Context, cartID uuid.UUID) error {
	if _, err := r.DB.Exec(ctx, `DELETE FROM cart_items WHERE cart_id=$1`, cartID); err != nil {
		return fmt.Errorf("clear cart %s: %w", cartID, err)
	}
	return nil
}
