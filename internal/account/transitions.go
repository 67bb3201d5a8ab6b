package account

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"mesacard/internal/api"
)

var (
	ErrIllegalTransition = errors.New("transition not allowed from current order state")
	ErrUnknownOrder      = errors.New("order not in this table view")
)

// CanComplete reports whether an order may be marked Completed.
func CanComplete(o api.Order) bool {
	switch o.Status {
	case api.StatusPending, api.StatusInProgress, api.StatusDelivered:
		return true
	}
	return false
}

// CanCancel reports whether an order may still be cancelled. Cancellation is
// terminal; a paid or already-cancelled order stays as it is.
func CanCancel(o api.Order) bool {
	return o.Status != api.StatusCancelled && !o.PaymentStatus
}

// CanPay reports whether a payment may be recorded for an order.
func CanPay(o api.Order) bool {
	return o.Status == api.StatusCompleted && !o.PaymentStatus
}

// View owns the in-memory order list for one table screen. Each transition
// goes to the backend and, on success, replaces exactly the matching row
// with the order the backend returned. A failed transition marks only its
// own row; every other row stays usable.
type View struct {
	mu      sync.Mutex
	tableID int64
	orders  *api.OrderService
	list    []api.Order
	rowErrs map[int64]string
}

func NewView(orders *api.OrderService, tableID int64) *View {
	return &View{
		tableID: tableID,
		orders:  orders,
		rowErrs: make(map[int64]string),
	}
}

func (v *View) TableID() int64 { return v.tableID }

// Load re-fetches the table's orders and resets per-row errors.
func (v *View) Load(ctx context.Context) error {
	orders, err := v.orders.ByTable(ctx, v.tableID)
	if err != nil {
		return fmt.Errorf("could not load orders for table %d: %w", v.tableID, err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.list = orders
	v.rowErrs = make(map[int64]string)
	return nil
}

// Orders returns a copy of the held list.
func (v *View) Orders() []api.Order {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]api.Order, len(v.list))
	copy(out, v.list)
	return out
}

// RowErrors returns a copy of the per-order error messages.
func (v *View) RowErrors() map[int64]string {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make(map[int64]string, len(v.rowErrs))
	for id, msg := range v.rowErrs {
		out[id] = msg
	}
	return out
}

// Summary aggregates the held list.
func (v *View) Summary() Summary {
	return Summarize(v.Orders())
}

// Clear empties the held list. Called once the account is closed and the
// table released.
func (v *View) Clear() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.list = nil
	v.rowErrs = make(map[int64]string)
}

func (v *View) Complete(ctx context.Context, orderID int64) (api.Order, error) {
	return v.transition(ctx, orderID, CanComplete, func(ctx context.Context) (api.Order, error) {
		return v.orders.UpdateStatus(ctx, orderID, api.StatusCompleted)
	})
}

func (v *View) Cancel(ctx context.Context, orderID int64) (api.Order, error) {
	return v.transition(ctx, orderID, CanCancel, func(ctx context.Context) (api.Order, error) {
		return v.orders.Cancel(ctx, orderID)
	})
}

func (v *View) Pay(ctx context.Context, orderID int64, method string) (api.Order, error) {
	return v.transition(ctx, orderID, CanPay, func(ctx context.Context) (api.Order, error) {
		return v.orders.Pay(ctx, orderID, method)
	})
}

func (v *View) transition(ctx context.Context, orderID int64, allowed func(api.Order) bool, call func(context.Context) (api.Order, error)) (api.Order, error) {
	v.mu.Lock()
	current, ok := v.find(orderID)
	if !ok {
		v.mu.Unlock()
		return api.Order{}, fmt.Errorf("order %d: %w", orderID, ErrUnknownOrder)
	}
	if !allowed(current) {
		v.mu.Unlock()
		return api.Order{}, fmt.Errorf("order %d in state %s: %w", orderID, current.Status, ErrIllegalTransition)
	}
	v.mu.Unlock()

	updated, err := call(ctx)
	if err != nil {
		v.mu.Lock()
		v.rowErrs[orderID] = err.Error()
		v.mu.Unlock()
		return api.Order{}, err
	}

	v.mu.Lock()
	v.apply(updated)
	delete(v.rowErrs, orderID)
	v.mu.Unlock()
	return updated, nil
}

// find and apply assume v.mu is held.
func (v *View) find(orderID int64) (api.Order, bool) {
	for _, o := range v.list {
		if o.ID == orderID {
			return o, true
		}
	}
	return api.Order{}, false
}

// apply patches the one matching row with the backend's version of the
// order, verbatim. Fields are never reconstructed locally.
func (v *View) apply(updated api.Order) {
	for i := range v.list {
		if v.list[i].ID == updated.ID {
			v.list[i] = updated
			return
		}
	}
}
