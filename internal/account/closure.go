package account

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"mesacard/internal/api"
	"mesacard/internal/tablestate"
)

// ErrCloseInFlight guards against a double close-out on the same table while
// one is still running.
var ErrCloseInFlight = errors.New("account close already in progress for this table")

// NotCloseableError lists the orders that forbid closing the account.
type NotCloseableError struct {
	TableID  int64
	Blocking []int64
}

func (e *NotCloseableError) Error() string {
	return fmt.Sprintf("table %d cannot be closed: %d unresolved order(s)", e.TableID, len(e.Blocking))
}

// PaymentError names the order whose payment failed during a close-out.
// Orders after it in the batch were not attempted.
type PaymentError struct {
	OrderID int64
	Err     error
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("payment for order %d failed: %v", e.OrderID, e.Err)
}

func (e *PaymentError) Unwrap() error { return e.Err }

// Decision is what the close-account control renders from.
type Decision struct {
	CanClose        bool    `json:"canClose"`
	Blocking        []int64 `json:"blocking,omitempty"`
	UnpaidCompleted []int64 `json:"unpaidCompleted,omitempty"`
}

// Decide applies the closure rule to a summary: closing is permitted only
// when no order is left in a pre-completed state. Unpaid completed orders do
// not block, the close-out pays them. A table with no orders closes freely.
func Decide(s Summary) Decision {
	return Decision{
		CanClose:        len(s.Blocking) == 0,
		Blocking:        s.Blocking,
		UnpaidCompleted: s.UnpaidCompleted,
	}
}

// Receipt is the result of a successful close-out.
type Receipt struct {
	TableID       int64           `json:"tableId"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod string          `json:"paymentMethod"`
	OrdersPaid    int             `json:"ordersPaid"`
	OrderCount    int             `json:"orderCount"`
	ClosedAt      time.Time       `json:"closedAt"`
}

// Coordinator executes the close-account-and-free-table sequence.
type Coordinator struct {
	orders   *api.OrderService
	tables   *api.TableService
	releases *tablestate.Store

	mu       sync.Mutex
	inFlight map[int64]bool
}

func NewCoordinator(orders *api.OrderService, tables *api.TableService, releases *tablestate.Store) *Coordinator {
	return &Coordinator{
		orders:   orders,
		tables:   tables,
		releases: releases,
		inFlight: make(map[int64]bool),
	}
}

// Close resolves a table's account and releases the table:
//
//  1. re-fetch the table's orders, never trusting a stale view
//  2. refuse if any order is not yet completed or cancelled
//  3. pay unpaid completed orders one by one; the first failure aborts the
//     rest and leaves the table occupied
//  4. record the close with the backend, then free the table
//  5. publish the release so the table list re-fetches
//
// Concurrent closes on different tables are independent; a second close on
// the same table returns ErrCloseInFlight.
func (c *Coordinator) Close(ctx context.Context, tableID int64, paymentMethod string) (Receipt, error) {
	c.mu.Lock()
	if c.inFlight[tableID] {
		c.mu.Unlock()
		return Receipt{}, ErrCloseInFlight
	}
	c.inFlight[tableID] = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.inFlight, tableID)
		c.mu.Unlock()
	}()

	orders, err := c.orders.ByTable(ctx, tableID)
	if err != nil {
		return Receipt{}, fmt.Errorf("could not load orders for table %d: %w", tableID, err)
	}

	summary := Summarize(orders)
	decision := Decide(summary)
	if !decision.CanClose {
		return Receipt{}, &NotCloseableError{TableID: tableID, Blocking: decision.Blocking}
	}

	paid := 0
	for _, orderID := range decision.UnpaidCompleted {
		if _, err := c.orders.Pay(ctx, orderID, paymentMethod); err != nil {
			return Receipt{}, &PaymentError{OrderID: orderID, Err: err}
		}
		paid++
	}

	// A table with no orders was never really occupied; there is no account
	// to record, only the release.
	if len(orders) > 0 {
		req := api.CloseAccountRequest{
			PaymentMethod:  paymentMethod,
			TotalAmount:    summary.Due,
			IdempotencyKey: uuid.NewString(),
		}
		if err := c.orders.CloseAccount(ctx, tableID, req); err != nil {
			return Receipt{}, fmt.Errorf("close account for table %d: %w", tableID, err)
		}
	}

	if err := c.tables.Free(ctx, tableID); err != nil {
		return Receipt{}, fmt.Errorf("free table %d: %w", tableID, err)
	}

	c.releases.MarkFreed(tableID)

	return Receipt{
		TableID:       tableID,
		Total:         summary.Due,
		PaymentMethod: paymentMethod,
		OrdersPaid:    paid,
		OrderCount:    len(orders),
		ClosedAt:      time.Now(),
	}, nil
}
