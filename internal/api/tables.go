package api

import (
	"context"
	"fmt"
)

type TableService struct {
	client *Client
}

type TableRequest struct {
	Number      int    `json:"number"`
	Capacity    int    `json:"capacity"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"isActive"`
}

type TableStatus struct {
	TableID    int64 `json:"tableId"`
	IsOccupied bool  `json:"isOccupied"`
	OrderCount int   `json:"orderCount"`
}

func (s *TableService) List(ctx context.Context) ([]Table, error) {
	var tables []Table
	if err := s.client.get(ctx, "/api/tables", nil, &tables); err != nil {
		return nil, err
	}
	return tables, nil
}

// ListPublic is the unauthenticated listing the customer-facing table page
// uses before scanning a code.
func (s *TableService) ListPublic(ctx context.Context) ([]Table, error) {
	var tables []Table
	if err := s.client.getPublic(ctx, "/api/tables", &tables); err != nil {
		return nil, err
	}
	return tables, nil
}

func (s *TableService) Get(ctx context.Context, id int64) (Table, error) {
	var table Table
	err := s.client.get(ctx, fmt.Sprintf("/api/tables/%d", id), nil, &table)
	return table, err
}

func (s *TableService) Create(ctx context.Context, req TableRequest) (Table, error) {
	var table Table
	err := s.client.post(ctx, "/api/tables", req, &table)
	return table, err
}

func (s *TableService) Update(ctx context.Context, id int64, req TableRequest) (Table, error) {
	var table Table
	err := s.client.put(ctx, fmt.Sprintf("/api/tables/%d", id), req, &table)
	return table, err
}

// ToggleActive flips the active flag. The backend models this as a soft
// delete, hence the verb.
func (s *TableService) ToggleActive(ctx context.Context, id int64) (Table, error) {
	var table Table
	err := s.client.delete(ctx, fmt.Sprintf("/api/tables/%d", id), &table)
	return table, err
}

func (s *TableService) Status(ctx context.Context, id int64) (TableStatus, error) {
	var status TableStatus
	err := s.client.get(ctx, fmt.Sprintf("/api/tables/%d/status", id), nil, &status)
	return status, err
}

// Free releases the table so it can seat new customers. Only the closure
// coordinator calls this, after every order is resolved.
func (s *TableService) Free(ctx context.Context, id int64) error {
	return s.client.put(ctx, fmt.Sprintf("/api/tables/%d/free", id), nil, nil)
}
