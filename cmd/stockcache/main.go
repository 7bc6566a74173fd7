package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/lpagani/go-shop-orders/internal/config"
	kafkax "github.com/lpagani/go-shop-orders/internal/kafka"
	"github.com/lpagani/go-shop-orders/internal/orders"
	"github.com/lpagani/go-shop-orders/internal/redisx"
	"github.com/lpagani/go-shop-orders/internal/stockcache"
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

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &stockcache.Service{
		Redis:       rdb,
		ServiceName: cfg.ServiceName + "-stockcache",
		Log:         log,
	}

	group := getenv("STOCKCACHE_GROUP", "stockcache-svc")
	workers := mustAtoi(os.Getenv("STOCKCACHE_WORKERS"), "4")
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, orders.TopicOrderPlaced, workers, log)

	go func() {
		log.Info("stockcache consumer started",
			zap.String("group", group), zap.String("topic", orders.TopicOrderPlaced), zap.Int("workers", workers))
		if err := cons.Start(ctx, svc.HandleOrderPlaced); err != nil {
			log.Error("consumer exit", zap.Error(err))
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down consumer")
	cancel()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}
