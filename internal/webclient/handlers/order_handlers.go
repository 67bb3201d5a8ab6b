package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"mesacard/internal/account"
	"mesacard/internal/api"
)

type OrderHTTPHandler struct {
	orders      *api.OrderService
	coordinator *account.Coordinator
}

func NewOrderHTTPHandler(orders *api.OrderService, coordinator *account.Coordinator) *OrderHTTPHandler {
	return &OrderHTTPHandler{
		orders:      orders,
		coordinator: coordinator,
	}
}

type PayOrderRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
}

type CloseAccountRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
}

type ListOrdersQuery struct {
	StartDate string `form:"start_date,omitempty"`
	EndDate   string `form:"end_date,omitempty"`
	Status    string `form:"status,omitempty"`
}

// TableAccount returns the orders for one table along with the derived
// account summary and the close decision. This is what the order-list screen
// renders from; it is recomputed on every call, never cached.
func (h *OrderHTTPHandler) TableAccount(c *gin.Context) {
	tableID, ok := pathID(c, "tableId")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	view := account.NewView(h.orders, tableID)
	if err := view.Load(ctx); err != nil {
		c.JSON(http.StatusBadGateway, errorResponse("Could not load orders for this table"))
		return
	}

	summary := view.Summary()
	c.JSON(http.StatusOK, successWithMetaResponse("Account retrieved", summary, account.Decide(summary)))
}

// CompleteOrder marks one order Completed and returns the backend's version
// of the order plus a fresh summary of the table.
func (h *OrderHTTPHandler) CompleteOrder(c *gin.Context) {
	h.transition(c, func(ctx context.Context, view *account.View, orderID int64) (api.Order, error) {
		return view.Complete(ctx, orderID)
	})
}

func (h *OrderHTTPHandler) CancelOrder(c *gin.Context) {
	h.transition(c, func(ctx context.Context, view *account.View, orderID int64) (api.Order, error) {
		return view.Cancel(ctx, orderID)
	})
}

func (h *OrderHTTPHandler) PayOrder(c *gin.Context) {
	var req PayOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}
	if !api.ValidPaymentMethod(req.PaymentMethod) {
		c.JSON(http.StatusBadRequest, errorResponse("Unknown payment method"))
		return
	}

	h.transition(c, func(ctx context.Context, view *account.View, orderID int64) (api.Order, error) {
		return view.Pay(ctx, orderID, req.PaymentMethod)
	})
}

// transition runs one order transition inside a freshly loaded table view,
// so the legality guards see the backend's current state.
func (h *OrderHTTPHandler) transition(c *gin.Context, apply func(context.Context, *account.View, int64) (api.Order, error)) {
	tableID, ok := pathID(c, "tableId")
	if !ok {
		return
	}
	orderID, ok := pathID(c, "orderId")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	view := account.NewView(h.orders, tableID)
	if err := view.Load(ctx); err != nil {
		c.JSON(http.StatusBadGateway, errorResponse("Could not load orders for this table"))
		return
	}

	updated, err := apply(ctx, view, orderID)
	if err != nil {
		switch {
		case errors.Is(err, account.ErrUnknownOrder):
			c.JSON(http.StatusNotFound, errorResponse("Order does not belong to this table"))
		case errors.Is(err, account.ErrIllegalTransition):
			c.JSON(http.StatusConflict, errorResponse(err.Error()))
		default:
			c.JSON(http.StatusBadGateway, errorResponse(err.Error()))
		}
		return
	}

	c.JSON(http.StatusOK, successWithMetaResponse("Order updated", updated, view.Summary()))
}

// CloseAccount settles the table's outstanding payments, records the close
// and frees the table.
func (h *OrderHTTPHandler) CloseAccount(c *gin.Context) {
	tableID, ok := pathID(c, "tableId")
	if !ok {
		return
	}

	var req CloseAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}
	if !api.ValidPaymentMethod(req.PaymentMethod) {
		c.JSON(http.StatusBadRequest, errorResponse("Unknown payment method"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	receipt, err := h.coordinator.Close(ctx, tableID, req.PaymentMethod)
	if err != nil {
		var notCloseable *account.NotCloseableError
		var paymentErr *account.PaymentError
		switch {
		case errors.Is(err, account.ErrCloseInFlight):
			c.JSON(http.StatusConflict, errorResponse("A close is already running for this table"))
		case errors.As(err, &notCloseable):
			c.JSON(http.StatusConflict, APIResponse{
				Success: false,
				Message: notCloseable.Error(),
				Meta:    gin.H{"blocking": notCloseable.Blocking},
			})
		case errors.As(err, &paymentErr):
			c.JSON(http.StatusBadGateway, errorResponse(paymentErr.Error()))
		default:
			c.JSON(http.StatusBadGateway, errorResponse(err.Error()))
		}
		return
	}

	c.JSON(http.StatusOK, successResponse("Account closed, table freed", receipt))
}

func (h *OrderHTTPHandler) ListOrders(c *gin.Context) {
	var query ListOrdersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid query parameters"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	orders, err := h.orders.List(ctx, api.OrderFilters{
		StartDate: query.StartDate,
		EndDate:   query.EndDate,
		Status:    query.Status,
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, errorResponse("Could not load orders"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Orders retrieved", orders))
}

func (h *OrderHTTPHandler) GetOrder(c *gin.Context) {
	orderID, ok := pathID(c, "orderId")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	order, err := h.orders.Get(ctx, orderID)
	if err != nil {
		if api.IsNotFound(err) {
			c.JSON(http.StatusNotFound, errorResponse("Order not found"))
			return
		}
		c.JSON(http.StatusBadGateway, errorResponse("Could not load order"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Order retrieved", order))
}

func (h *OrderHTTPHandler) TableHistory(c *gin.Context) {
	tableID, ok := pathID(c, "tableId")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	orders, err := h.orders.TableHistory(ctx, tableID, c.Query("from_date"))
	if err != nil {
		c.JSON(http.StatusBadGateway, errorResponse("Could not load table history"))
		return
	}

	c.JSON(http.StatusOK, successResponse("History retrieved", orders))
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid "+name))
		return 0, false
	}
	return id, true
}
