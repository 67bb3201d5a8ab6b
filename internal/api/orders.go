package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"
)

type OrderService struct {
	client *Client
}

type OrderFilters struct {
	StartDate string
	EndDate   string
	Status    string
}

type CreateOrderRequest struct {
	TableID      int64       `json:"tableId"`
	CustomerName string      `json:"customerName,omitempty"`
	Items        []OrderItem `json:"items"`
}

type CloseAccountRequest struct {
	PaymentMethod  string          `json:"paymentMethod"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	IdempotencyKey string          `json:"idempotencyKey,omitempty"`
}

func (s *OrderService) List(ctx context.Context, filters OrderFilters) ([]Order, error) {
	query := url.Values{}
	if filters.StartDate != "" {
		query.Set("startDate", filters.StartDate)
	}
	if filters.EndDate != "" {
		query.Set("endDate", filters.EndDate)
	}
	if filters.Status != "" {
		query.Set("status", filters.Status)
	}

	var orders []Order
	if err := s.client.get(ctx, "/api/orders", query, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *OrderService) ByTable(ctx context.Context, tableID int64) ([]Order, error) {
	var orders []Order
	if err := s.client.get(ctx, fmt.Sprintf("/api/orders/table/%d", tableID), nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *OrderService) Get(ctx context.Context, id int64) (Order, error) {
	var order Order
	err := s.client.get(ctx, fmt.Sprintf("/api/orders/%d", id), nil, &order)
	return order, err
}

// Create submits a customer's cart. Public: the menu page runs without a
// staff session.
func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (Order, error) {
	var order Order
	err := s.client.do(ctx, "POST", "/api/orders", nil, req, &order, false)
	return order, err
}

// UpdateStatus moves an order to the given status and returns the order as
// the backend now sees it. Callers patch their held list with this value.
func (s *OrderService) UpdateStatus(ctx context.Context, id int64, status string) (Order, error) {
	body := map[string]string{"status": status}
	var order Order
	err := s.client.put(ctx, fmt.Sprintf("/api/orders/%d/status", id), body, &order)
	return order, err
}

// Pay records a payment for one order.
func (s *OrderService) Pay(ctx context.Context, id int64, paymentMethod string) (Order, error) {
	body := map[string]string{"paymentMethod": paymentMethod}
	var order Order
	err := s.client.put(ctx, fmt.Sprintf("/api/orders/%d/payment", id), body, &order)
	return order, err
}

// Cancel is terminal. Always a real backend call, never a local-only edit.
func (s *OrderService) Cancel(ctx context.Context, id int64) (Order, error) {
	var order Order
	err := s.client.delete(ctx, fmt.Sprintf("/api/orders/%d", id), &order)
	return order, err
}

func (s *OrderService) CloseAccount(ctx context.Context, tableID int64, req CloseAccountRequest) error {
	return s.client.post(ctx, fmt.Sprintf("/api/orders/table/%d/close", tableID), req, nil)
}

func (s *OrderService) TableHistory(ctx context.Context, tableID int64, fromDate string) ([]Order, error) {
	query := url.Values{}
	if fromDate != "" {
		query.Set("fromDate", fromDate)
	}

	var orders []Order
	if err := s.client.get(ctx, fmt.Sprintf("/api/orders/table/%d/history", tableID), query, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
