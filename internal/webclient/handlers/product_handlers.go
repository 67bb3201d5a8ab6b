package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"mesacard/internal/api"
	"mesacard/internal/menucache"
)

type ProductHTTPHandler struct {
	products *api.ProductService
	cache    *menucache.Cache
}

func NewProductHTTPHandler(products *api.ProductService, cache *menucache.Cache) *ProductHTTPHandler {
	return &ProductHTTPHandler{
		products: products,
		cache:    cache,
	}
}

type ProductRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description,omitempty"`
	Price       string `json:"price" binding:"required"`
	Stock       int    `json:"stock"`
	CategoryID  int64  `json:"category_id" binding:"required"`
	ImageURL    string `json:"image_url,omitempty"`
	IsActive    *bool  `json:"is_active,omitempty"`
}

type StockUpdateRequest struct {
	Quantity int    `json:"quantity" binding:"required"`
	Notes    string `json:"notes,omitempty"`
}

func (r ProductRequest) toAPI() (api.ProductRequest, error) {
	price, err := decimal.NewFromString(r.Price)
	if err != nil {
		return api.ProductRequest{}, err
	}
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return api.ProductRequest{
		Name:        r.Name,
		Description: r.Description,
		Price:       price,
		Stock:       r.Stock,
		CategoryID:  r.CategoryID,
		ImageURL:    r.ImageURL,
		IsActive:    active,
	}, nil
}

func (h *ProductHTTPHandler) ListAll(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	products, err := h.products.All(ctx)
	if err != nil {
		c.JSON(http.StatusBadGateway, errorResponse("Could not load products"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Products retrieved", products))
}

func (h *ProductHTTPHandler) Get(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	product, err := h.products.Get(ctx, productID)
	if err != nil {
		if api.IsNotFound(err) {
			c.JSON(http.StatusNotFound, errorResponse("Product not found"))
			return
		}
		c.JSON(http.StatusBadGateway, errorResponse("Could not load product"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Product retrieved", product))
}

func (h *ProductHTTPHandler) Create(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}
	apiReq, err := req.toAPI()
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid price"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	product, err := h.products.Create(ctx, apiReq)
	if err != nil {
		c.JSON(http.StatusBadGateway, errorResponse("Could not create product"))
		return
	}

	h.cache.InvalidateMenu(ctx)
	c.JSON(http.StatusCreated, successResponse("Product created", product))
}

func (h *ProductHTTPHandler) Update(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}
	apiReq, err := req.toAPI()
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid price"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	product, err := h.products.Update(ctx, productID, apiReq)
	if err != nil {
		if api.IsNotFound(err) {
			c.JSON(http.StatusNotFound, errorResponse("Product not found"))
			return
		}
		c.JSON(http.StatusBadGateway, errorResponse("Could not update product"))
		return
	}

	h.cache.InvalidateMenu(ctx)
	c.JSON(http.StatusOK, successResponse("Product updated", product))
}

// UpdateStock adjusts stock and records the change in the stock history, the
// way the product screen does it: adjust first, then log old vs new.
func (h *ProductHTTPHandler) UpdateStock(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}

	var req StockUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	before, err := h.products.Get(ctx, productID)
	if err != nil {
		if api.IsNotFound(err) {
			c.JSON(http.StatusNotFound, errorResponse("Product not found"))
			return
		}
		c.JSON(http.StatusBadGateway, errorResponse("Could not load product"))
		return
	}

	product, err := h.products.UpdateStock(ctx, productID, api.StockUpdateRequest{
		Quantity: req.Quantity,
		Notes:    req.Notes,
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, errorResponse("Could not update stock"))
		return
	}

	changeType := "Adjustment"
	if product.Stock > before.Stock {
		changeType = "Restock"
	} else if product.Stock < before.Stock {
		changeType = "Reduction"
	}
	if _, err := h.products.RecordStockChange(ctx, api.StockChangeRequest{
		ProductID:     productID,
		PreviousStock: before.Stock,
		NewStock:      product.Stock,
		ChangeType:    changeType,
		Notes:         req.Notes,
	}); err != nil {
		// The adjustment itself went through; a missing history row is not
		// worth failing the action over.
		c.JSON(http.StatusOK, successWithMetaResponse("Stock updated, history not recorded", product, gin.H{
			"history_error": err.Error(),
		}))
		return
	}

	h.cache.InvalidateMenu(ctx)
	c.JSON(http.StatusOK, successResponse("Stock updated", product))
}

func (h *ProductHTTPHandler) Toggle(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	product, err := h.products.ToggleActive(ctx, productID)
	if err != nil {
		if api.IsNotFound(err) {
			c.JSON(http.StatusNotFound, errorResponse("Product not found"))
			return
		}
		c.JSON(http.StatusBadGateway, errorResponse("Could not toggle product status"))
		return
	}

	h.cache.InvalidateMenu(ctx)
	c.JSON(http.StatusOK, successResponse("Product status toggled", product))
}

func (h *ProductHTTPHandler) StockHistory(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	changes, err := h.products.StockHistory(ctx, productID)
	if err != nil {
		c.JSON(http.StatusBadGateway, errorResponse("Could not load stock history"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Stock history retrieved", changes))
}
