package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/lpagani/go-shop-orders/internal/catalog"
	"github.com/lpagani/go-shop-orders/internal/redisx"
)

type Catalog interface {
	List(ctx context.Context, p catalog.ListParams) ([]catalog.Product, error)
	GetByID(ctx context.Context, id string) (catalog.Product, error)
}

type ProductsHandler struct {
	Catalog Catalog
	Redis   *redis.Client
	Log     *zap.Logger
}

func (h *ProductsHandler) Register(r chi.Router) {
	r.Get("/api/products", h.listProducts)
	r.Get("/api/products/{id}", h.getProduct)
}

func (h *ProductsHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := catalog.ListParams{
		Search: q.Get("search"),
		Sort:   q.Get("sort"),
	}
	for _, f := range []struct {
		name string
		dst  **decimal.Decimal
	}{
		{"price_min", &params.PriceMin},
		{"price_max", &params.PriceMax},
	} {
		if raw := q.Get(f.name); raw != "" {
			d, err := decimal.NewFromString(raw)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid " + f.name})
				return
			}
			*f.dst = &d
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ps, err := h.Catalog.List(ctx, params)
	if err != nil {
		h.Log.Error("list products", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

// getProduct serves from the Redis read-through cache; entries are
// invalidated by the stockcache consumer after each placement.
func (h *ProductsHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	key := fmt.Sprintf(redisx.KeyProduct, id)
	if h.Redis != nil {
		if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(s))
			return
		}
	}

	p, err := h.Catalog.GetByID(ctx, id)
	if errors.Is(err, catalog.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Product not found"})
		return
	}
	if err != nil {
		h.Log.Error("get product", zap.String("id", id), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	b, _ := json.Marshal(p)
	if h.Redis != nil {
		_ = h.Redis.Set(ctx, key, b, redisx.TTLProductCache).Err()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}
