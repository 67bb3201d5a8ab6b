package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mesacard/internal/api"
)

type DashboardHTTPHandler struct {
	dashboard *api.DashboardService
}

func NewDashboardHTTPHandler(dashboard *api.DashboardService) *DashboardHTTPHandler {
	return &DashboardHTTPHandler{dashboard: dashboard}
}

func (h *DashboardHTTPHandler) Summary(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	summary, err := h.dashboard.Summary(ctx)
	if err != nil {
		c.JSON(http.StatusBadGateway, errorResponse("Could not load dashboard summary"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Summary retrieved", summary))
}

func (h *DashboardHTTPHandler) TopProducts(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	products, err := h.dashboard.TopProducts(ctx)
	if err != nil {
		c.JSON(http.StatusBadGateway, errorResponse("Could not load top products"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Top products retrieved", products))
}

func (h *DashboardHTTPHandler) SalesReport(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	report, err := h.dashboard.SalesReport(ctx, c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		c.JSON(http.StatusBadGateway, errorResponse("Could not load sales report"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Sales report retrieved", report))
}
