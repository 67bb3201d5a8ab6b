package account

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"mesacard/internal/api"
	"mesacard/internal/tablestate"
)

func TestDecideRule(t *testing.T) {
	statuses := []string{
		api.StatusPending, api.StatusInProgress, api.StatusCompleted,
		api.StatusDelivered, api.StatusCancelled,
	}

	// Closing is permitted iff no order is still short of Completed or
	// Cancelled; unpaid Completed orders are payable at close time.
	for _, status := range statuses {
		for _, paid := range []bool{false, true} {
			s := Summarize([]api.Order{ord(1, status, paid, "10.00")})
			d := Decide(s)

			wantClose := status == api.StatusCancelled || status == api.StatusCompleted
			if d.CanClose != wantClose {
				t.Errorf("Decide(%s, paid=%v).CanClose = %v, want %v", status, paid, d.CanClose, wantClose)
			}
			wantUnpaid := status == api.StatusCompleted && !paid
			if (len(d.UnpaidCompleted) == 1) != wantUnpaid {
				t.Errorf("Decide(%s, paid=%v).UnpaidCompleted = %v", status, paid, d.UnpaidCompleted)
			}
		}
	}

	if d := Decide(Summarize(nil)); !d.CanClose {
		t.Error("a table with no orders must be closeable")
	}
}

// closureBackend fakes the order and table endpoints a close-out touches.
type closureBackend struct {
	t *testing.T

	mu          sync.Mutex
	orders      []api.Order
	payFail     map[int64]bool
	payAttempts []int64
	closeCalls  int
	freeCalls   int

	// When set, the first payment blocks until released. Lets tests hold a
	// close-out mid-flight.
	payGate    chan struct{}
	payStarted chan struct{}
}

func (b *closureBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodGet && strings.Contains(r.URL.Path, "/orders/table/"):
		b.mu.Lock()
		defer b.mu.Unlock()
		writeJSON(b.t, w, b.orders)

	case r.Method == http.MethodPut && strings.HasSuffix(r.URL.Path, "/payment"):
		orderID := pathOrderID(r.URL.Path, "/payment")

		if b.payGate != nil {
			b.payStarted <- struct{}{}
			<-b.payGate
		}

		b.mu.Lock()
		defer b.mu.Unlock()
		b.payAttempts = append(b.payAttempts, orderID)
		if b.payFail[orderID] {
			http.Error(w, `{"message":"card declined"}`, http.StatusBadGateway)
			return
		}
		for i := range b.orders {
			if b.orders[i].ID == orderID {
				b.orders[i].PaymentStatus = true
				b.orders[i].PaymentMethod = api.PaymentCash
				writeJSON(b.t, w, b.orders[i])
				return
			}
		}
		http.NotFound(w, r)

	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/close"):
		b.mu.Lock()
		defer b.mu.Unlock()
		b.closeCalls++
		w.WriteHeader(http.StatusOK)

	case r.Method == http.MethodPut && strings.HasSuffix(r.URL.Path, "/free"):
		b.mu.Lock()
		defer b.mu.Unlock()
		b.freeCalls++
		w.WriteHeader(http.StatusOK)

	default:
		http.NotFound(w, r)
	}
}

func newCoordinator(t *testing.T, backend *closureBackend) (*Coordinator, *tablestate.Store) {
	t.Helper()
	clients := newTestClients(t, backend)
	releases := tablestate.NewStore()
	return NewCoordinator(clients.Orders, clients.Tables, releases), releases
}

func TestCloseBlockedThenAllowed(t *testing.T) {
	backend := &closureBackend{t: t, orders: []api.Order{
		ord(1, api.StatusCompleted, true, "10.00"),
		ord(2, api.StatusPending, false, "20.00"),
	}}
	coordinator, releases := newCoordinator(t, backend)

	_, err := coordinator.Close(context.Background(), 5, api.PaymentCash)
	var notCloseable *NotCloseableError
	if !errors.As(err, &notCloseable) {
		t.Fatalf("err = %v, want NotCloseableError", err)
	}
	if len(notCloseable.Blocking) != 1 || notCloseable.Blocking[0] != 2 {
		t.Fatalf("Blocking = %v, want [2]", notCloseable.Blocking)
	}
	if backend.freeCalls != 0 {
		t.Fatal("a blocked close must not free the table")
	}

	// Order 2 completes; the close now goes through and pays it.
	backend.orders[1].Status = api.StatusCompleted

	receipt, err := coordinator.Close(context.Background(), 5, api.PaymentCash)
	if err != nil {
		t.Fatalf("Close: %v", err)
	}
	if want := decimal.RequireFromString("30.00"); !receipt.Total.Equal(want) {
		t.Errorf("receipt total = %s, want %s", receipt.Total, want)
	}
	if receipt.OrdersPaid != 1 {
		t.Errorf("OrdersPaid = %d, want 1", receipt.OrdersPaid)
	}
	if backend.closeCalls != 1 || backend.freeCalls != 1 {
		t.Errorf("closeCalls = %d freeCalls = %d, want 1 and 1", backend.closeCalls, backend.freeCalls)
	}
	if !releases.Consume(5) {
		t.Error("release must be recorded for the table list")
	}
}

func TestCloseEmptyTable(t *testing.T) {
	backend := &closureBackend{t: t}
	coordinator, releases := newCoordinator(t, backend)

	receipt, err := coordinator.Close(context.Background(), 3, api.PaymentCash)
	if err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !receipt.Total.IsZero() {
		t.Errorf("receipt total = %s, want 0", receipt.Total)
	}
	if backend.closeCalls != 0 {
		t.Error("no account to record for an empty table")
	}
	if backend.freeCalls != 1 {
		t.Error("empty table must still be freed")
	}
	if !releases.Consume(3) {
		t.Error("release must be recorded")
	}
}

func TestClosePaymentBatchAbortsOnFailure(t *testing.T) {
	backend := &closureBackend{
		t: t,
		orders: []api.Order{
			ord(1, api.StatusCompleted, false, "10.00"),
			ord(2, api.StatusCompleted, false, "20.00"),
			ord(3, api.StatusCompleted, false, "30.00"),
		},
		payFail: map[int64]bool{2: true},
	}
	coordinator, releases := newCoordinator(t, backend)

	_, err := coordinator.Close(context.Background(), 9, api.PaymentCreditCard)
	var paymentErr *PaymentError
	if !errors.As(err, &paymentErr) {
		t.Fatalf("err = %v, want PaymentError", err)
	}
	if paymentErr.OrderID != 2 {
		t.Errorf("failed order = %d, want 2", paymentErr.OrderID)
	}

	if got := backend.payAttempts; len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("payAttempts = %v, want [1 2]: the third payment must not be attempted", got)
	}
	if !backend.orders[0].PaymentStatus {
		t.Error("order 1 should have been paid before the failure")
	}
	if backend.orders[1].PaymentStatus || backend.orders[2].PaymentStatus {
		t.Error("orders 2 and 3 must remain unpaid")
	}
	if backend.closeCalls != 0 || backend.freeCalls != 0 {
		t.Error("table must remain occupied after a payment failure")
	}
	if releases.Consume(9) {
		t.Error("no release may be recorded")
	}
}

func TestCloseInFlightLatch(t *testing.T) {
	backend := &closureBackend{
		t: t,
		orders: []api.Order{
			ord(1, api.StatusCompleted, false, "10.00"),
		},
		payGate:    make(chan struct{}),
		payStarted: make(chan struct{}),
	}
	coordinator, _ := newCoordinator(t, backend)

	done := make(chan error, 1)
	go func() {
		_, err := coordinator.Close(context.Background(), 4, api.PaymentCash)
		done <- err
	}()

	<-backend.payStarted

	if _, err := coordinator.Close(context.Background(), 4, api.PaymentCash); !errors.Is(err, ErrCloseInFlight) {
		t.Fatalf("second close err = %v, want ErrCloseInFlight", err)
	}

	close(backend.payGate)
	if err := <-done; err != nil {
		t.Fatalf("first close: %v", err)
	}

	// The latch releases once the close resolves; the table is already free
	// and empty, so a repeat close is a cheap no-op release.
	backend.orders = nil
	if _, err := coordinator.Close(context.Background(), 4, api.PaymentCash); err != nil {
		t.Fatalf("close after latch release: %v", err)
	}
}
