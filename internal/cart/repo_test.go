package cart_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/lpagani/go-shop-orders/internal/cart"
)

func startPostgres(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	postgresContainer, err := postgres.Run(ctx, "postgres:17.6-alpine3.22",
		postgres.BasicWaitStrategies(),
		postgres.WithInitScripts(
			"../../migrations/01_products.up.sql",
			"../../migrations/02_orders.up.sql",
			"../../migrations/03_carts.up.sql"),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", fmt.Errorf("pc.ConnectionString: %w", err)
	}

	return postgresContainer, connStr, nil
}

type cartRepoSuite struct {
	suite.Suite

	pool *pgxpool.Pool
	repo *cart.Repo
}

func TestCartRepoSuite(t *testing.T) {
	suite.Run(t, new(cartRepoSuite))
}

func (s *cartRepoSuite) SetupSuite() {
	ctx := s.T().Context()

	_, connStr, err := startPostgres(ctx)
	s.Require().NoError(err)

	s.pool, err = pgxpool.New(ctx, connStr)
	s.Require().NoError(err)

	s.repo = &cart.Repo{DB: s.pool}

	// cart items reference the catalog
	for _, id := range []string{"a", "b", "c"} {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO products(id, title, price, original_price, stock)
			VALUES ($1, $1, 10.00, 10.00, 100)`, id)
		s.Require().NoError(err)
	}
}

func (s *cartRepoSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *cartRepoSuite) TearDownTest() {
	_, err := s.pool.Exec(s.T().Context(), "TRUNCATE TABLE cart_items, carts CASCADE")
	s.NoError(err)
}

func (s *cartRepoSuite) TestAddItem() {
	t := s.T()
	ctx := t.Context()
	userID := gofakeit.UUID()

	require.NoError(t, s.repo.AddItem(ctx, userID, "a", 1))
	// same product again increments the quantity
	require.NoError(t, s.repo.AddItem(ctx, userID, "a", 2))
	require.NoError(t, s.repo.AddItem(ctx, userID, "b", 1))

	c, found, err := s.repo.Current(ctx, userID)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, c.Items, 2)
	assert.Equal(t, "a", c.Items[0].ProductID)
	assert.Equal(t, 3, c.Items[0].Quantity)
	assert.Equal(t, "b", c.Items[1].ProductID)
	assert.Equal(t, 1, c.Items[1].Quantity)
}

func (s *cartRepoSuite) TestAddItem_Invalid() {
	t := s.T()
	ctx := t.Context()

	require.EqualError(t, s.repo.AddItem(ctx, "", "a", 1), "userID is empty")
	require.EqualError(t, s.repo.AddItem(ctx, gofakeit.UUID(), "a", 0), "quantity must be positive")
}

func (s *cartRepoSuite) TestCurrent_NoCart() {
	t := s.T()
	ctx := t.Context()

	_, found, err := s.repo.Current(ctx, gofakeit.UUID())
	require.NoError(t, err)
	assert.False(t, found)
}

func (s *cartRepoSuite) TestRemoveItem() {
	t := s.T()
	ctx := t.Context()
	userID := gofakeit.UUID()

	require.NoError(t, s.repo.AddItem(ctx, userID, "a", 1))

	removed, err := s.repo.RemoveItem(ctx, userID, "a")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = s.repo.RemoveItem(ctx, userID, "a")
	require.NoError(t, err)
	assert.False(t, removed)
}

func (s *cartRepoSuite) TestClear() {
	t := s.T()
	ctx := t.Context()
	userID := gofakeit.UUID()

	require.NoError(t, s.repo.AddItem(ctx, userID, "a", 1))
	require.NoError(t, s.repo.AddItem(ctx, userID, "b", 2))

	c, found, err := s.repo.Current(ctx, userID)
	require.NoError(t, err)
	require.True(t, found)

	require.NoError(t, s.repo.Clear(ctx, c.ID))

	after, found, err := s.repo.Current(ctx, userID)
	require.NoError(t, err)
	require.True(t, found, "cart row survives a clear")
	assert.Empty(t, after.Items)
	assert.Equal(t, c.ID, after.ID)
}
