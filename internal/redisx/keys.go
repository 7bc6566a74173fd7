package redisx

import "time"

const (
	// Session token -> user id: session:{token}
	KeySession = "session:%s"

	// Cached product detail JSON: product:{product_id}
	KeyProduct = "product:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLProductCache = 5 * time.Minute
	TTLDedup        = 48 * time.Hour
)
