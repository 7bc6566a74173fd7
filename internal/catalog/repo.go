package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/lpagani/go-shop-orders/internal/postgres"
)

var ErrNotFound = errors.New("product not found")

const (
	SortDateDesc  = "date_desc"
	SortDateAsc   = "date_asc"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
)

type ListParams struct {
	Search   string
	PriceMin *decimal.Decimal
	PriceMax *decimal.Decimal
	Sort     string
}

type Repo struct{ DB postgres.DBTX }

const productCols = `id, title, description, price, original_price, sale, thumbnail, tags, stock, created_at, updated_at`

// List applies search/price filters and sorting; default order is newest
// first.
func (r *Repo) List(ctx context.Context, p ListParams) ([]Product, error) {
	q := `SELECT ` + productCols + ` FROM products`
	var (
		conds []string
		args  []any
	)
	if p.Search != "" {
		args = append(args, "%"+p.Search+"%")
		conds = append(conds, fmt.Sprintf("title ILIKE $%d", len(args)))
	}
	if p.PriceMin != nil {
		args = append(args, *p.PriceMin)
		conds = append(conds, fmt.Sprintf("price >= $%d", len(args)))
	}
	if p.PriceMax != nil {
		args = append(args, *p.PriceMax)
		conds = append(conds, fmt.Sprintf("price <= $%d", len(args)))
	}
	for i, c := range conds {
		if i == 0 {
			q += " WHERE " + c
		} else {
			q += " AND " + c
		}
	}

	switch p.Sort {
	case SortPriceAsc:
		q += " ORDER BY price ASC"
	case SortPriceDesc:
		q += " ORDER BY price DESC"
	case SortDateAsc:
		q += " ORDER BY created_at ASC"
	default:
		q += " ORDER BY created_at DESC"
	}

	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	out := []Product{}
	for rows.Next() {
		var pr Product
		if err := rows.Scan(&pr.ID, &pr.Title, &pr.Description, &pr.Price, &pr.OriginalPrice,
			&pr.Sale, &pr.Thumbnail, &pr.Tags, &pr.Stock, &pr.CreatedAt, &pr.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, pr)
	}
	return out, rows.Err()
}

func (r *Repo) GetByID(ctx context.Context, id string) (Product, error) {
	var pr Product
	err := r.DB.QueryRow(ctx, `SELECT `+productCols+` FROM products WHERE id=$1`, id).
		Scan(&pr.ID, &pr.Title, &pr.Description, &pr.Price, &pr.OriginalPrice,
			&pr.Sale, &pr.Thumbnail, &pr.Tags, &pr.Stock, &pr.CreatedAt, &pr.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, fmt.Errorf("query product %s: %w", id, err)
	}
	return pr, nil
}

// Insert is used by seeding; stock and timestamps come from the import file.
func (r *Repo) Insert(ctx context.Context, pr Product) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO products(`+productCols+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (id) DO UPDATE SET
			title=EXCLUDED.title, description=EXCLUDED.description, price=EXCLUDED.price,
			original_price=EXCLUDED.original_price, sale=EXCLUDED.sale,
			thumbnail=EXCLUDED.thumbnail, tags=EXCLUDED.tags, stock=EXCLUDED.stock,
			updated_at=now()`,
		pr.ID, pr.Title, pr.Description, pr.Price, pr.OriginalPrice,
		pr.Sale, pr.Thumbnail, pr.Tags, pr.Stock, pr.CreatedAt, pr.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert product %s: %w", pr.ID, err)
	}
	return nil
}
