package orders

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/lpagani/go-shop-orders/internal/cart"
)

// Workflow orchestrates order placement. Reservation, order persistence and
// cart clearing run on one transaction: they commit together or not at all.
type Workflow struct {
	DB     *pgxpool.Pool
	Cart   *cart.Repo
	Ledger Ledger
	Log    *zap.Logger
}

// Place runs the full placement for one request. Inventory and validation
// failures come back as the typed errors in errors.go; anything else is a
// storage failure. In every failure case the transaction rolls back and stock
// is untouched.
func (w *Workflow) Place(ctx context.Context, userID string, req PlacementRequest) (Order, error) {
	phase := PhaseReceived
	advance := func(next Phase) {
		if !CanTransition(phase, next) {
			w.Log.DPanic("invalid phase transition",
				zap.String("from", string(phase)), zap.String("to", string(next)))
		}
		phase = next
		w.Log.Debug("placement phase", zap.String("phase", string(phase)), zap.String("user_id", userID))
	}
	fail := func(err error) (Order, error) {
		w.Log.Info("placement failed",
			zap.String("phase", string(phase)), zap.String("user_id", userID), zap.Error(err))
		phase = PhaseFailed
		return Order{}, err
	}

	advance(PhaseAggregating)
	ids, quantities := AggregateQuantities(req.Items)

	tx, err := w.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fail(fmt.Errorf("begin tx: %w", err))
	}
	defer tx.Rollback(ctx)

	advance(PhaseReserving)
	reserved, err := w.Ledger.Reserve(ctx, tx, ids, quantities)
	if err != nil {
		return fail(err)
	}

	advance(PhasePersisting)
	lines := make([]LineItem, 0, len(ids))
	for _, id := range ids {
		res := reserved[id]
		lines = append(lines, LineItem{
			ProductID: id,
			Title:     res.Title,
			Quantity:  quantities[id],
			UnitPrice: res.UnitPrice,
		})
	}
	order, err := BuildOrder(userID, req.Customer, req.Address, req.Total, lines)
	if err != nil {
		return fail(err)
	}
	if err := (&Repo{DB: tx}).Insert(ctx, order); err != nil {
		return fail(err)
	}

	advance(PhaseCartClearing)
	c, found, err := w.Cart.WithTx(tx).Current(ctx, userID)
	if err != nil {
		return fail(err)
	}
	if found {
		if err := w.Cart.WithTx(tx).Clear(ctx, c.ID); err != nil {
			return fail(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fail(fmt.Errorf("commit placement: %w", err))
	}

	advance(PhaseCompleted)
	w.Log.Info("order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", userID),
		zap.Int("items", len(order.Items)),
		zap.String("total", order.Total.String()))
	return order, nil
}
