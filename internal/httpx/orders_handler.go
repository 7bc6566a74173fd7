package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	kafkax "github.com/lpagani/go-shop-orders/internal/kafka"
	"github.com/lpagani/go-shop-orders/internal/orders"
)

type PlacementService interface {
	Place(ctx context.Context, userID string, req orders.PlacementRequest) (orders.Order, error)
}

type OrderLister interface {
	ListForUser(ctx context.Context, userID string) ([]orders.Order, error)
}

type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

type OrdersHandler struct {
	Workflow PlacementService
	Orders   OrderLister
	Producer Publisher
	Service  string
	Log      *zap.Logger
}

func (h *OrdersHandler) Register(r chi.Router) {
	r.Post("/api/orders", h.createOrder)
	r.Get("/api/orders", h.listOrders)
}

func (h *OrdersHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing user"})
		return
	}

	var req orders.PlacementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	order, err := h.Workflow.Place(ctx, userID, req)
	if err != nil {
		h.writePlacementError(w, err)
		return
	}

	h.publishPlaced(order, r.Header.Get("X-Request-Id"))
	writeJSON(w, http.StatusCreated, order)
}

// Inventory and validation failures are the client's problem (422); anything
// else is ours (500).
func (h *OrdersHandler) writePlacementError(w http.ResponseWriter, err error) {
	var (
		notFound   *orders.ProductNotFoundError
		noStock    *orders.InsufficientStockError
		validation *orders.ValidationError
	)
	switch {
	case errors.As(err, &notFound):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": notFound.Error()})
	case errors.As(err, &noStock):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": noStock.Error()})
	case errors.As(err, &validation):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": validation.Violations})
	default:
		h.Log.Error("placement", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

// publishPlaced emits the OrderPlaced envelope after the transaction has
// committed; downstream consumers (cache invalidation) must never hold up or
// abort a placement.
func (h *OrdersHandler) publishPlaced(o orders.Order, traceID string) {
	if h.Producer == nil {
		return
	}
	items := make([]orders.ItemQty, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orders.ItemQty{ProductID: it.ProductID, Qty: it.Quantity})
	}
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventOrderPlaced,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       traceID,
		CorrelationID: o.ID.String(),
	}
	ev.Payload = kafkax.MustMarshal(orders.OrderPlacedPayload{
		OrderID: o.ID.String(),
		UserID:  o.UserID,
		Items:   items,
		Total:   o.Total,
	})
	h.Producer.Publish(orders.PartitionKey(o.ID.String()), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventOrderPlaced)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (h *OrdersHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing user"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	list, err := h.Orders.ListForUser(ctx, userID)
	if err != nil {
		h.Log.Error("list orders", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, list)
}
