package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mesacard/internal/api"
	"mesacard/internal/menucache"
)

type CategoryHTTPHandler struct {
	categories *api.CategoryService
	cache      *menucache.Cache
}

func NewCategoryHTTPHandler(categories *api.CategoryService, cache *menucache.Cache) *CategoryHTTPHandler {
	return &CategoryHTTPHandler{
		categories: categories,
		cache:      cache,
	}
}

type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description,omitempty"`
	IsActive    *bool  `json:"is_active,omitempty"`
}

func (r CategoryRequest) toAPI() api.CategoryRequest {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return api.CategoryRequest{
		Name:        r.Name,
		Description: r.Description,
		IsActive:    active,
	}
}

func (h *CategoryHTTPHandler) ListAll(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	categories, err := h.categories.All(ctx)
	if err != nil {
		c.JSON(http.StatusBadGateway, errorResponse("Could not load categories"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Categories retrieved", categories))
}

func (h *CategoryHTTPHandler) Get(c *gin.Context) {
	categoryID, ok := pathID(c, "categoryId")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	category, err := h.categories.Get(ctx, categoryID)
	if err != nil {
		if api.IsNotFound(err) {
			c.JSON(http.StatusNotFound, errorResponse("Category not found"))
			return
		}
		c.JSON(http.StatusBadGateway, errorResponse("Could not load category"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Category retrieved", category))
}

func (h *CategoryHTTPHandler) Create(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	category, err := h.categories.Create(ctx, req.toAPI())
	if err != nil {
		c.JSON(http.StatusBadGateway, errorResponse("Could not create category"))
		return
	}

	h.cache.InvalidateMenu(ctx)
	c.JSON(http.StatusCreated, successResponse("Category created", category))
}

func (h *CategoryHTTPHandler) Update(c *gin.Context) {
	categoryID, ok := pathID(c, "categoryId")
	if !ok {
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	category, err := h.categories.Update(ctx, categoryID, req.toAPI())
	if err != nil {
		if api.IsNotFound(err) {
			c.JSON(http.StatusNotFound, errorResponse("Category not found"))
			return
		}
		c.JSON(http.StatusBadGateway, errorResponse("Could not update category"))
		return
	}

	h.cache.InvalidateMenu(ctx)
	c.JSON(http.StatusOK, successResponse("Category updated", category))
}

func (h *CategoryHTTPHandler) Toggle(c *gin.Context) {
	categoryID, ok := pathID(c, "categoryId")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	category, err := h.categories.ToggleActive(ctx, categoryID)
	if err != nil {
		if api.IsNotFound(err) {
			c.JSON(http.StatusNotFound, errorResponse("Category not found"))
			return
		}
		c.JSON(http.StatusBadGateway, errorResponse("Could not toggle category status"))
		return
	}

	h.cache.InvalidateMenu(ctx)
	c.JSON(http.StatusOK, successResponse("Category status toggled", category))
}
