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

// MenuHTTPHandler serves the customer-facing menu: no session, rate limited.
type MenuHTTPHandler struct {
	cache  *menucache.Cache
	orders *api.OrderService
	tables *api.TableService
}

func NewMenuHTTPHandler(cache *menucache.Cache, orders *api.OrderService, tables *api.TableService) *MenuHTTPHandler {
	return &MenuHTTPHandler{
		cache:  cache,
		orders: orders,
		tables: tables,
	}
}

type CartItemRequest struct {
	ProductID   int64  `json:"product_id" binding:"required"`
	ProductName string `json:"product_name" binding:"required"`
	UnitPrice   string `json:"unit_price" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,min=1"`
	Notes       string `json:"notes,omitempty"`
}

type SubmitOrderRequest struct {
	TableID      int64             `json:"table_id" binding:"required"`
	CustomerName string            `json:"customer_name,omitempty"`
	Items        []CartItemRequest `json:"items" binding:"required,min=1"`
}

func (h *MenuHTTPHandler) Categories(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	categories, err := h.cache.ActiveCategories(ctx)
	if err != nil {
		c.JSON(http.StatusBadGateway, errorResponse("Could not load menu categories"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Categories retrieved", categories))
}

func (h *MenuHTTPHandler) Products(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	products, err := h.cache.ActiveProducts(ctx)
	if err != nil {
		c.JSON(http.StatusBadGateway, errorResponse("Could not load menu"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Products retrieved", products))
}

func (h *MenuHTTPHandler) ProductsByCategory(c *gin.Context) {
	categoryID, ok := pathID(c, "categoryId")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	products, err := h.cache.ProductsByCategory(ctx, categoryID)
	if err != nil {
		c.JSON(http.StatusBadGateway, errorResponse("Could not load menu"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Products retrieved", products))
}

// TableInfo tells the scanned-in customer which table their code points at.
func (h *MenuHTTPHandler) TableInfo(c *gin.Context) {
	tableID, ok := pathID(c, "tableId")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tables, err := h.tables.ListPublic(ctx)
	if err != nil {
		c.JSON(http.StatusBadGateway, errorResponse("Could not load table"))
		return
	}
	for _, table := range tables {
		if table.ID == tableID {
			c.JSON(http.StatusOK, successResponse("Table retrieved", table))
			return
		}
	}

	c.JSON(http.StatusNotFound, errorResponse("Table not found"))
}

// SubmitOrder turns a customer's cart into an order. Line prices arrive as
// strings and are handled as exact decimals; the computed total travels with
// the order so the backend can refuse a mismatch.
func (h *MenuHTTPHandler) SubmitOrder(c *gin.Context) {
	var req SubmitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	items := make([]api.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		price, err := decimal.NewFromString(item.UnitPrice)
		if err != nil || price.IsNegative() {
			c.JSON(http.StatusBadRequest, errorResponse("Invalid unit price"))
			return
		}
		items = append(items, api.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   price,
			Quantity:    item.Quantity,
			Notes:       item.Notes,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	order, err := h.orders.Create(ctx, api.CreateOrderRequest{
		TableID:      req.TableID,
		CustomerName: req.CustomerName,
		Items:        items,
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, errorResponse("Could not place order"))
		return
	}

	c.JSON(http.StatusCreated, successResponse("Order placed", order))
}
