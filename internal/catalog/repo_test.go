package catalog_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/lpagani/go-shop-orders/internal/catalog"
)

func startPostgres(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	postgresContainer, err := postgres.Run(ctx, "postgres:17.6-alpine3.22",
		postgres.BasicWaitStrategies(),
		postgres.WithInitScripts("../../migrations/01_products.up.sql"),
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

type catalogRepoSuite struct {
	suite.Suite

	pool *pgxpool.Pool
	repo *catalog.Repo
}

func TestCatalogRepoSuite(t *testing.T) {
	suite.Run(t, new(catalogRepoSuite))
}

func (s *catalogRepoSuite) SetupSuite() {
	ctx := s.T().Context()

	_, connStr, err := startPostgres(ctx)
	s.Require().NoError(err)

	s.pool, err = pgxpool.New(ctx, connStr)
	s.Require().NoError(err)

	s.repo = &catalog.Repo{DB: s.pool}

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	fixtures := []struct {
		id, title string
		price     string
		createdAt time.Time
	}{
		{"laptop-1", "Laptop", "999.99", base},
		{"mouse-1", "Mouse", "29.99", base.Add(time.Hour)},
		{"keyboard-1", "Keyboard", "149.99", base.Add(2 * time.Hour)},
	}
	for _, f := range fixtures {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO products(id, title, price, original_price, stock, created_at, updated_at)
			VALUES ($1, $2, $3, $3, 10, $4, $4)`, f.id, f.title, f.price, f.createdAt)
		s.Require().NoError(err)
	}
}

func (s *catalogRepoSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func dec(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func titles(ps []catalog.Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Title)
	}
	return out
}

func (s *catalogRepoSuite) TestList() {
	t := s.T()
	ctx := t.Context()

	tests := []struct {
		name       string
		params     catalog.ListParams
		wantTitles []string
	}{
		{
			name:       "no filters, newest first by default",
			params:     catalog.ListParams{},
			wantTitles: []string{"Keyboard", "Mouse", "Laptop"},
		},
		{
			name:       "search is case-insensitive",
			params:     catalog.ListParams{Search: "laptop"},
			wantTitles: []string{"Laptop"},
		},
		{
			name:       "search with no matches",
			params:     catalog.ListParams{Search: "Nonexistent"},
			wantTitles: []string{},
		},
		{
			name:       "minimum price",
			params:     catalog.ListParams{PriceMin: dec("100")},
			wantTitles: []string{"Keyboard", "Laptop"},
		},
		{
			name:       "maximum price",
			params:     catalog.ListParams{PriceMax: dec("100")},
			wantTitles: []string{"Mouse"},
		},
		{
			name:       "price range",
			params:     catalog.ListParams{PriceMin: dec("50"), PriceMax: dec("500")},
			wantTitles: []string{"Keyboard"},
		},
		{
			name:       "sort price ascending",
			params:     catalog.ListParams{Sort: catalog.SortPriceAsc},
			wantTitles: []string{"Mouse", "Keyboard", "Laptop"},
		},
		{
			name:       "sort price descending",
			params:     catalog.ListParams{Sort: catalog.SortPriceDesc},
			wantTitles: []string{"Laptop", "Keyboard", "Mouse"},
		},
		{
			name:       "sort date ascending",
			params:     catalog.ListParams{Sort: catalog.SortDateAsc},
			wantTitles: []string{"Laptop", "Mouse", "Keyboard"},
		},
		{
			name:       "combined search, filter and sort",
			params:     catalog.ListParams{Search: "o", PriceMax: dec("200"), Sort: catalog.SortPriceAsc},
			wantTitles: []string{"Mouse", "Keyboard"},
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			ps, err := s.repo.List(ctx, tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTitles, titles(ps))
		})
	}
}

func (s *catalogRepoSuite) TestGetByID() {
	t := s.T()
	ctx := t.Context()

	p, err := s.repo.GetByID(ctx, "laptop-1")
	require.NoError(t, err)
	assert.Equal(t, "Laptop", p.Title)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("999.99")), "price %s", p.Price)
	assert.Equal(t, 10, p.Stock)

	_, err = s.repo.GetByID(ctx, "99999")
	require.ErrorIs(t, err, catalog.ErrNotFound)
}
