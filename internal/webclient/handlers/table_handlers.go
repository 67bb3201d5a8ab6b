package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mesacard/internal/account"
	"mesacard/internal/api"
	"mesacard/internal/menucache"
	"mesacard/internal/tablestate"
)

type TableHTTPHandler struct {
	tables      *api.TableService
	cache       *menucache.Cache
	releases    *tablestate.Store
	coordinator *account.Coordinator
}

func NewTableHTTPHandler(tables *api.TableService, cache *menucache.Cache, releases *tablestate.Store, coordinator *account.Coordinator) *TableHTTPHandler {
	return &TableHTTPHandler{
		tables:      tables,
		cache:       cache,
		releases:    releases,
		coordinator: coordinator,
	}
}

type TableRequest struct {
	Number      int    `json:"number" binding:"required,min=1"`
	Capacity    int    `json:"capacity" binding:"required,min=1"`
	Description string `json:"description,omitempty"`
	IsActive    *bool  `json:"is_active,omitempty"`
}

func (r TableRequest) toAPI() api.TableRequest {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return api.TableRequest{
		Number:      r.Number,
		Capacity:    r.Capacity,
		Description: r.Description,
		IsActive:    active,
	}
}

// ListTables serves the staff table list. Releases recorded since the last
// render drop the cached snapshot first, so a just-freed table never shows
// as occupied.
func (h *TableHTTPHandler) ListTables(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if freed := h.releases.ConsumeAll(); len(freed) > 0 {
		h.cache.InvalidateTables(ctx)
	}

	tables, err := h.cache.Tables(ctx)
	if err != nil {
		c.JSON(http.StatusBadGateway, errorResponse("Could not load tables"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Tables retrieved", tables))
}

func (h *TableHTTPHandler) GetTable(c *gin.Context) {
	tableID, ok := pathID(c, "tableId")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	table, err := h.tables.Get(ctx, tableID)
	if err != nil {
		if api.IsNotFound(err) {
			c.JSON(http.StatusNotFound, errorResponse("Table not found"))
			return
		}
		c.JSON(http.StatusBadGateway, errorResponse("Could not load table"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Table retrieved", table))
}

func (h *TableHTTPHandler) CreateTable(c *gin.Context) {
	var req TableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	table, err := h.tables.Create(ctx, req.toAPI())
	if err != nil {
		c.JSON(http.StatusBadGateway, errorResponse("Could not create table"))
		return
	}

	h.cache.InvalidateTables(ctx)
	c.JSON(http.StatusCreated, successResponse("Table created", table))
}

func (h *TableHTTPHandler) UpdateTable(c *gin.Context) {
	tableID, ok := pathID(c, "tableId")
	if !ok {
		return
	}

	var req TableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	table, err := h.tables.Update(ctx, tableID, req.toAPI())
	if err != nil {
		if api.IsNotFound(err) {
			c.JSON(http.StatusNotFound, errorResponse("Table not found"))
			return
		}
		c.JSON(http.StatusBadGateway, errorResponse("Could not update table"))
		return
	}

	h.cache.InvalidateTables(ctx)
	c.JSON(http.StatusOK, successResponse("Table updated", table))
}

func (h *TableHTTPHandler) ToggleTable(c *gin.Context) {
	tableID, ok := pathID(c, "tableId")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	table, err := h.tables.ToggleActive(ctx, tableID)
	if err != nil {
		if api.IsNotFound(err) {
			c.JSON(http.StatusNotFound, errorResponse("Table not found"))
			return
		}
		c.JSON(http.StatusBadGateway, errorResponse("Could not toggle table status"))
		return
	}

	h.cache.InvalidateTables(ctx)
	c.JSON(http.StatusOK, successResponse("Table status toggled", table))
}

func (h *TableHTTPHandler) TableStatus(c *gin.Context) {
	tableID, ok := pathID(c, "tableId")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	status, err := h.tables.Status(ctx, tableID)
	if err != nil {
		c.JSON(http.StatusBadGateway, errorResponse("Could not load table status"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Table status retrieved", status))
}

// FreeTable is the staff "liberate table" action. It runs through the
// closure coordinator so a table with unresolved orders can never be freed
// behind the account's back.
func (h *TableHTTPHandler) FreeTable(c *gin.Context) {
	tableID, ok := pathID(c, "tableId")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	receipt, err := h.coordinator.Close(ctx, tableID, api.PaymentCash)
	if err != nil {
		var notCloseable *account.NotCloseableError
		switch {
		case errors.Is(err, account.ErrCloseInFlight):
			c.JSON(http.StatusConflict, errorResponse("A close is already running for this table"))
		case errors.As(err, &notCloseable):
			c.JSON(http.StatusConflict, APIResponse{
				Success: false,
				Message: notCloseable.Error(),
				Meta:    gin.H{"blocking": notCloseable.Blocking},
			})
		default:
			c.JSON(http.StatusBadGateway, errorResponse(err.Error()))
		}
		return
	}

	c.JSON(http.StatusOK, successResponse("Table freed", receipt))
}
