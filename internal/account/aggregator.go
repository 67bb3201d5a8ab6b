// Package account implements the table account workflow: aggregating a
// table's orders, applying single-order transitions, and closing the account
// out. The backend owns the truth; everything here works on the orders it
// returned last.
package account

import (
	"fmt"

	"github.com/shopspring/decimal"

	"mesacard/internal/api"
)

// Summary is the derived account state for one table. It is recomputed from
// a fresh fetch every time and never cached.
type Summary struct {
	Orders          []api.Order     `json:"orders"`
	Total           decimal.Decimal `json:"total"`
	Cancelled       decimal.Decimal `json:"cancelled"`
	Due             decimal.Decimal `json:"due"`
	Pending         decimal.Decimal `json:"pending"`
	UnpaidCompleted []int64         `json:"unpaidCompleted"`
	Blocking        []int64         `json:"blocking"`
}

// Summarize derives the account aggregates from one fetched order set.
//
//	Total     — every order, cancelled included
//	Cancelled — cancelled orders only
//	Due       — Total minus Cancelled, what a close-out charges
//	Pending   — unpaid, non-cancelled orders
//
// UnpaidCompleted lists orders a close-out would still have to pay;
// Blocking lists orders that forbid closing entirely (not yet completed).
func Summarize(orders []api.Order) Summary {
	s := Summary{
		Orders:    orders,
		Total:     decimal.Zero,
		Cancelled: decimal.Zero,
		Pending:   decimal.Zero,
	}

	for _, o := range orders {
		s.Total = s.Total.Add(o.TotalAmount)

		if o.Status == api.StatusCancelled {
			s.Cancelled = s.Cancelled.Add(o.TotalAmount)
			continue
		}
		if !o.PaymentStatus {
			s.Pending = s.Pending.Add(o.TotalAmount)
		}

		switch {
		case o.Status == api.StatusCompleted && o.PaymentStatus:
			// resolved
		case o.Status == api.StatusCompleted:
			s.UnpaidCompleted = append(s.UnpaidCompleted, o.ID)
		default:
			s.Blocking = append(s.Blocking, o.ID)
		}
	}

	s.Due = s.Total.Sub(s.Cancelled)
	return s
}

// VerifyTotals cross-checks each order's stored total against the sum of its
// line items. A mismatch means the backend and this client disagree about
// money, which is worth failing loudly over.
func VerifyTotals(orders []api.Order) error {
	for _, o := range orders {
		if len(o.Items) == 0 {
			continue
		}
		if subtotal := o.Subtotal(); !subtotal.Equal(o.TotalAmount) {
			return fmt.Errorf("order %d: total %s does not match item subtotal %s",
				o.ID, o.TotalAmount.String(), subtotal.String())
		}
	}
	return nil
}
