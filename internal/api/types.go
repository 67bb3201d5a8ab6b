package api

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order lifecycle statuses as the backend spells them.
const (
	StatusPending    = "Pending"
	StatusInProgress = "InProgress"
	StatusCompleted  = "Completed"
	StatusDelivered  = "Delivered"
	StatusCancelled  = "Cancelled"
)

// Payment methods accepted at close-out.
const (
	PaymentCash       = "Cash"
	PaymentCreditCard = "CreditCard"
	PaymentDebitCard  = "DebitCard"
)

func ValidPaymentMethod(method string) bool {
	switch method {
	case PaymentCash, PaymentCreditCard, PaymentDebitCard:
		return true
	}
	return false
}

type Order struct {
	ID            int64           `json:"id"`
	TableID       int64           `json:"tableId"`
	TableNumber   int             `json:"tableNumber"`
	CustomerName  string          `json:"customerName,omitempty"`
	Items         []OrderItem     `json:"items"`
	Status        string          `json:"status"`
	PaymentStatus bool            `json:"paymentStatus"`
	PaymentMethod string          `json:"paymentMethod,omitempty"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type OrderItem struct {
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    int             `json:"quantity"`
	Notes       string          `json:"notes,omitempty"`
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Subtotal recomputes the total from the line items. The backend persists
// TotalAmount; this exists to cross-check the two.
func (o Order) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range o.Items {
		sum = sum.Add(item.LineTotal())
	}
	return sum
}

// Terminal reports whether no further status transition is possible.
func (o Order) Terminal() bool {
	return o.Status == StatusCancelled || (o.Status == StatusCompleted && o.PaymentStatus)
}

type Table struct {
	ID          int64  `json:"id"`
	Number      int    `json:"number"`
	Capacity    int    `json:"capacity"`
	IsActive    bool   `json:"isActive"`
	IsOccupied  bool   `json:"isOccupied"`
	Description string `json:"description,omitempty"`
}

type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	CategoryID  int64           `json:"categoryId"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	IsActive    bool            `json:"isActive"`
}

type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"isActive"`
}

type StockChange struct {
	ID            int64     `json:"id"`
	ProductID     int64     `json:"productId"`
	PreviousStock int       `json:"previousStock"`
	NewStock      int       `json:"newStock"`
	ChangeType    string    `json:"changeType"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}
