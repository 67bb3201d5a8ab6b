package api

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

type ProductService struct {
	client *Client
}

type ProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	CategoryID  int64           `json:"categoryId"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	IsActive    bool            `json:"isActive"`
}

type StockUpdateRequest struct {
	Quantity int    `json:"quantity"`
	Notes    string `json:"notes,omitempty"`
}

type StockChangeRequest struct {
	ProductID     int64  `json:"productId"`
	PreviousStock int    `json:"previousStock"`
	NewStock      int    `json:"newStock"`
	ChangeType    string `json:"changeType"`
	Notes         string `json:"notes,omitempty"`
}

// Active lists what the customer menu shows. Public endpoint.
func (s *ProductService) Active(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := s.client.getPublic(ctx, "/api/products", &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *ProductService) All(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := s.client.get(ctx, "/api/products/all", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *ProductService) ByCategory(ctx context.Context, categoryID int64) ([]Product, error) {
	var products []Product
	if err := s.client.getPublic(ctx, fmt.Sprintf("/api/products/category/%d", categoryID), &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *ProductService) Get(ctx context.Context, id int64) (Product, error) {
	var product Product
	err := s.client.getPublic(ctx, fmt.Sprintf("/api/products/%d", id), &product)
	return product, err
}

func (s *ProductService) Create(ctx context.Context, req ProductRequest) (Product, error) {
	var product Product
	err := s.client.post(ctx, "/api/products", req, &product)
	return product, err
}

func (s *ProductService) Update(ctx context.Context, id int64, req ProductRequest) (Product, error) {
	var product Product
	err := s.client.put(ctx, fmt.Sprintf("/api/products/%d", id), req, &product)
	return product, err
}

func (s *ProductService) UpdateStock(ctx context.Context, id int64, req StockUpdateRequest) (Product, error) {
	var product Product
	err := s.client.put(ctx, fmt.Sprintf("/api/products/%d/stock", id), req, &product)
	return product, err
}

func (s *ProductService) ToggleActive(ctx context.Context, id int64) (Product, error) {
	var product Product
	err := s.client.delete(ctx, fmt.Sprintf("/api/products/%d", id), &product)
	return product, err
}

func (s *ProductService) RecordStockChange(ctx context.Context, req StockChangeRequest) (StockChange, error) {
	var change StockChange
	err := s.client.post(ctx, "/api/products/stock-history", req, &change)
	return change, err
}

func (s *ProductService) StockHistory(ctx context.Context, productID int64) ([]StockChange, error) {
	var changes []StockChange
	if err := s.client.get(ctx, fmt.Sprintf("/api/products/%d/stock-history", productID), nil, &changes); err != nil {
		return nil, err
	}
	return changes, nil
}
