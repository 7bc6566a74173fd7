package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/lpagani/go-shop-orders/internal/cart"
	"github.com/lpagani/go-shop-orders/internal/catalog"
	"github.com/lpagani/go-shop-orders/internal/config"
	"github.com/lpagani/go-shop-orders/internal/httpx"
	kafkax "github.com/lpagani/go-shop-orders/internal/kafka"
	"github.com/lpagani/go-shop-orders/internal/orders"
	"github.com/lpagani/go-shop-orders/internal/postgres"
	"github.com/lpagani/go-shop-orders/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer
	prod := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderPlaced, 1024, log)
	prod.Start(ctx)

	// Repos & workflow
	cartRepo := &cart.Repo{DB: db}
	workflow := &orders.Workflow{DB: db, Cart: cartRepo, Log: log}

	// Router & handlers
	router := httpx.NewRouter()

	ph := &httpx.ProductsHandler{Catalog: &catalog.Repo{DB: db}, Redis: rdb, Log: log}
	ph.Register(router)

	auth := &httpx.Auth{Redis: rdb}
	router.Group(func(r chi.Router) {
		r.Use(auth.Middleware)
		oh := &httpx.OrdersHandler{
			Workflow: workflow,
			Orders:   &orders.Repo{DB: db},
			Producer: prod,
			Service:  cfg.ServiceName,
			Log:      log,
		}
		oh.Register(r)
		ch := &httpx.CartHandler{Cart: cartRepo, Log: log}
		ch.Register(r)
	})

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	// graceful shutdown
	go func() {
		log.Info("HTTP listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close() // stop accepting -> flush & close writer
	prod.WaitClosed()
}
