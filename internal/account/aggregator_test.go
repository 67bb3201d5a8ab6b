package account

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"

	"mesacard/internal/api"
)

func ord(id int64, status string, paid bool, total string) api.Order {
	return api.Order{
		ID:            id,
		TableID:       1,
		Status:        status,
		PaymentStatus: paid,
		TotalAmount:   decimal.RequireFromString(total),
	}
}

func TestSummarizeRandomLineItems(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	orders := make([]api.Order, 0, 20)
	want := decimal.Zero
	for i := 0; i < 20; i++ {
		items := make([]api.OrderItem, 0, 5)
		for j := 0; j < 1+rng.Intn(5); j++ {
			price := decimal.NewFromInt(int64(rng.Intn(5000))).Div(decimal.NewFromInt(100))
			items = append(items, api.OrderItem{
				ProductID:   int64(j + 1),
				ProductName: fmt.Sprintf("product-%d", j),
				UnitPrice:   price,
				Quantity:    1 + rng.Intn(4),
			})
		}
		o := api.Order{ID: int64(i + 1), TableID: 1, Status: api.StatusCompleted, PaymentStatus: true, Items: items}
		o.TotalAmount = o.Subtotal()
		want = want.Add(o.TotalAmount)
		orders = append(orders, o)
	}

	s := Summarize(orders)
	if !s.Total.Equal(want) {
		t.Fatalf("Total = %s, want %s", s.Total, want)
	}
	if err := VerifyTotals(orders); err != nil {
		t.Fatalf("VerifyTotals: %v", err)
	}
}

func TestVerifyTotalsMismatch(t *testing.T) {
	o := api.Order{
		ID:    7,
		Items: []api.OrderItem{{ProductID: 1, UnitPrice: decimal.NewFromInt(10), Quantity: 2}},
	}
	o.TotalAmount = decimal.NewFromInt(25)

	if err := VerifyTotals([]api.Order{o}); err == nil {
		t.Fatal("expected a total mismatch error")
	}
}

func TestSummarizeAggregates(t *testing.T) {
	orders := []api.Order{
		ord(1, api.StatusCompleted, true, "10.00"),
		ord(2, api.StatusCompleted, false, "20.00"),
		ord(3, api.StatusCancelled, false, "5.00"),
		ord(4, api.StatusPending, false, "7.50"),
	}

	s := Summarize(orders)

	if want := decimal.RequireFromString("42.50"); !s.Total.Equal(want) {
		t.Errorf("Total = %s, want %s", s.Total, want)
	}
	if want := decimal.RequireFromString("5.00"); !s.Cancelled.Equal(want) {
		t.Errorf("Cancelled = %s, want %s", s.Cancelled, want)
	}
	if want := decimal.RequireFromString("37.50"); !s.Due.Equal(want) {
		t.Errorf("Due = %s, want %s", s.Due, want)
	}
	// Pending counts the unpaid, non-cancelled orders: 20.00 + 7.50.
	if want := decimal.RequireFromString("27.50"); !s.Pending.Equal(want) {
		t.Errorf("Pending = %s, want %s", s.Pending, want)
	}
	if len(s.UnpaidCompleted) != 1 || s.UnpaidCompleted[0] != 2 {
		t.Errorf("UnpaidCompleted = %v, want [2]", s.UnpaidCompleted)
	}
	if len(s.Blocking) != 1 || s.Blocking[0] != 4 {
		t.Errorf("Blocking = %v, want [4]", s.Blocking)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if !s.Total.IsZero() || !s.Due.IsZero() || !s.Pending.IsZero() {
		t.Fatalf("empty summary should be all zero, got total=%s due=%s pending=%s", s.Total, s.Due, s.Pending)
	}
	if len(s.Blocking) != 0 || len(s.UnpaidCompleted) != 0 {
		t.Fatalf("empty summary should have no order lists")
	}
}
