package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lpagani/go-shop-orders/internal/cart"
)

type fakeCartStore struct {
	cart  cart.Cart
	found bool

	added   []string
	removed bool
}

func (f *fakeCartStore) Current(context.Context, string) (cart.Cart, bool, error) {
	return f.cart, f.found, nil
}

func (f *fakeCartStore) AddItem(_ context.Context, _, productID string, qty int) error {
	for i := 0; i < qty; i++ {
		f.added = append(f.added, productID)
	}
	return nil
}

func (f *fakeCartStore) RemoveItem(context.Context, string, string) (bool, error) {
	return f.removed, nil
}

func newCartRouter(store *fakeCartStore) http.Handler {
	r := NewRouter()
	(&CartHandler{Cart: store, Log: zap.NewNop()}).Register(r)
	return r
}

func TestGetCart_EmptyForNewUser(t *testing.T) {
	r := newCartRouter(&fakeCartStore{found: false})

	req := asUser(httptest.NewRequest(http.MethodGet, "/api/cart", nil), "u1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got cart.Cart
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "u1", got.UserID)
	assert.Empty(t, got.Items)
}

func TestAddCartItem(t *testing.T) {
	store := &fakeCartStore{}
	r := newCartRouter(store)

	req := asUser(httptest.NewRequest(http.MethodPost, "/api/cart/items",
		strings.NewReader(`{"product_id": "a"}`)), "u1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	// qty defaults to 1
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"a"}, store.added)
}

func TestAddCartItem_MissingProduct(t *testing.T) {
	r := newCartRouter(&fakeCartStore{})

	req := asUser(httptest.NewRequest(http.MethodPost, "/api/cart/items", strings.NewReader(`{}`)), "u1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRemoveCartItem_NotInCart(t *testing.T) {
	r := newCartRouter(&fakeCartStore{removed: false})

	req := asUser(httptest.NewRequest(http.MethodDelete, "/api/cart/items/a", nil), "u1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
