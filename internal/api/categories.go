package api

import (
	"context"
	"fmt"
)

type CategoryService struct {
	client *Client
}

type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"isActive"`
}

func (s *CategoryService) Active(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := s.client.getPublic(ctx, "/api/categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *CategoryService) All(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := s.client.get(ctx, "/api/categories/all", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *CategoryService) Get(ctx context.Context, id int64) (Category, error) {
	var category Category
	err := s.client.getPublic(ctx, fmt.Sprintf("/api/categories/%d", id), &category)
	return category, err
}

func (s *CategoryService) Create(ctx context.Context, req CategoryRequest) (Category, error) {
	var category Category
	err := s.client.post(ctx, "/api/categories", req, &category)
	return category, err
}

func (s *CategoryService) Update(ctx context.Context, id int64, req CategoryRequest) (Category, error) {
	var category Category
	err := s.client.put(ctx, fmt.Sprintf("/api/categories/%d", id), req, &category)
	return category, err
}

func (s *CategoryService) ToggleActive(ctx context.Context, id int64) (Category, error) {
	var category Category
	err := s.client.delete(ctx, fmt.Sprintf("/api/categories/%d", id), &category)
	return category, err
}
