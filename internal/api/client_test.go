package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"mesacard/internal/session"
)

func TestBearerInjection(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode([]Order{})
	}))
	defer server.Close()

	sessions := session.NewStore()
	sessions.Set("abc123", session.User{ID: 1})
	clients := NewClients(server.URL, sessions)

	if _, err := clients.Orders.ByTable(context.Background(), 1); err != nil {
		t.Fatalf("ByTable: %v", err)
	}
	if gotAuth != "Bearer abc123" {
		t.Errorf("Authorization = %q, want Bearer abc123", gotAuth)
	}

	// Public calls go out without the token.
	if _, err := clients.Products.Active(context.Background()); err != nil {
		t.Fatalf("Active: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("public call sent Authorization = %q", gotAuth)
	}
}

func TestUnauthenticatedFailsFast(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	clients := NewClients(server.URL, session.NewStore())

	_, err := clients.Orders.ByTable(context.Background(), 1)
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("err = %v, want ErrUnauthenticated", err)
	}
	if requests != 0 {
		t.Fatal("no request may leave the client without a session")
	}
}

func TestErrorMapping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Order not found"})
	}))
	defer server.Close()

	sessions := session.NewStore()
	sessions.Set("tok", session.User{})
	clients := NewClients(server.URL, sessions)

	_, err := clients.Orders.Get(context.Background(), 42)
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *Error", err)
	}
	if apiErr.Status != http.StatusNotFound || apiErr.Message != "Order not found" {
		t.Errorf("got %d %q", apiErr.Status, apiErr.Message)
	}
	if !IsNotFound(err) {
		t.Error("IsNotFound should match")
	}
}

func TestCancelIssuesDelete(t *testing.T) {
	var gotMethod, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		_ = json.NewEncoder(w).Encode(Order{ID: 7, Status: StatusCancelled})
	}))
	defer server.Close()

	sessions := session.NewStore()
	sessions.Set("tok", session.User{})
	clients := NewClients(server.URL, sessions)

	order, err := clients.Orders.Cancel(context.Background(), 7)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/api/orders/7" {
		t.Errorf("got %s %s, want DELETE /api/orders/7", gotMethod, gotPath)
	}
	if order.Status != StatusCancelled {
		t.Errorf("status = %s", order.Status)
	}
}

func TestOrderSubtotalAndTerminal(t *testing.T) {
	order := Order{}
	if err := json.Unmarshal([]byte(`{
		"id": 1, "tableId": 2, "status": "Completed", "paymentStatus": true,
		"totalAmount": 35.5,
		"items": [
			{"productId": 1, "productName": "Paella", "unitPrice": 15.5, "quantity": 1},
			{"productId": 2, "productName": "Agua", "unitPrice": 10, "quantity": 2}
		]
	}`), &order); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !order.Subtotal().Equal(order.TotalAmount) {
		t.Errorf("subtotal %s != total %s", order.Subtotal(), order.TotalAmount)
	}
	if !order.Terminal() {
		t.Error("completed+paid order is terminal")
	}

	order.PaymentStatus = false
	if order.Terminal() {
		t.Error("completed but unpaid order is not terminal")
	}
}
