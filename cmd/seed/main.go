// Command seed imports products from a JSON catalog dump into Postgres.
// Re-running it is safe: existing products are updated in place.
package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/lpagani/go-shop-orders/internal/catalog"
	"github.com/lpagani/go-shop-orders/internal/config"
	"github.com/lpagani/go-shop-orders/internal/postgres"
)

type seedFile struct {
	Products []catalog.Product `json:"products"`
}

func main() {
	_ = godotenv.Load()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	path := os.Getenv("PRODUCTS_FILE")
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	if path == "" {
		log.Fatal("usage: seed <products.json> (or set PRODUCTS_FILE)")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		log.Fatal("read seed file", zap.Error(err))
	}
	var f seedFile
	if err := json.Unmarshal(b, &f); err != nil {
		log.Fatal("parse seed file", zap.Error(err))
	}

	cfg := config.Load()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	repo := &catalog.Repo{DB: db}
	now := time.Now().UTC()
	for _, p := range f.Products {
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		if p.UpdatedAt.IsZero() {
			p.UpdatedAt = p.CreatedAt
		}
		if err := repo.Insert(ctx, p); err != nil {
			log.Fatal("import product", zap.String("id", p.ID), zap.Error(err))
		}
	}

	log.Info("seeding completed", zap.Int("products", len(f.Products)))
}
