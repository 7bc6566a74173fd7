// Package stockcache keeps the Redis product cache honest: every placement
// changes stock, so cached product payloads for the ordered ids are dropped.
package stockcache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	kafkax "github.com/lpagani/go-shop-orders/internal/kafka"
	"github.com/lpagani/go-shop-orders/internal/orders"
	"github.com/lpagani/go-shop-orders/internal/redisx"
)

type Service struct {
	Redis       *redis.Client
	ServiceName string
	Log         *zap.Logger
}

// HandleOrderPlaced runs as the consumer handler for shop.order.placed.
func (s *Service) HandleOrderPlaced(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != orders.EventOrderPlaced {
		return nil // ignore
	}

	// dedup via event_id; redelivery must not re-log or re-delete
	dkey := fmt.Sprintf(redisx.KeyDedup, "stockcache", env.EventID)
	if seen, _ := redisx.Exists(ctx, s.Redis, dkey); seen {
		return nil
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	p, err := kafkax.UnwrapPayload[orders.OrderPlacedPayload](env.Payload)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(p.Items))
	for _, it := range p.Items {
		keys = append(keys, fmt.Sprintf(redisx.KeyProduct, it.ProductID))
	}
	if len(keys) == 0 {
		return nil
	}
	if err := s.Redis.Del(ctx, keys...).Err(); err != nil {
		return err
	}

	s.Log.Info("product cache invalidated",
		zap.String("order_id", p.OrderID), zap.Int("products", len(keys)))
	return nil
}
