package api

import (
	"context"
	"net/url"

	"github.com/shopspring/decimal"
)

type DashboardService struct {
	client *Client
}

type DashboardSummary struct {
	TotalSales     decimal.Decimal `json:"totalSales"`
	OrderCount     int             `json:"orderCount"`
	OccupiedTables int             `json:"occupiedTables"`
	PendingOrders  int             `json:"pendingOrders"`
}

type TopProduct struct {
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
}

type SalesReportEntry struct {
	Date       string          `json:"date"`
	OrderCount int             `json:"orderCount"`
	Total      decimal.Decimal `json:"total"`
}

func (s *DashboardService) Summary(ctx context.Context) (DashboardSummary, error) {
	var summary DashboardSummary
	err := s.client.get(ctx, "/api/dashboard/summary", nil, &summary)
	return summary, err
}

func (s *DashboardService) TopProducts(ctx context.Context) ([]TopProduct, error) {
	var products []TopProduct
	if err := s.client.get(ctx, "/api/dashboard/top-products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *DashboardService) SalesReport(ctx context.Context, startDate, endDate string) ([]SalesReportEntry, error) {
	query := url.Values{}
	if startDate != "" {
		query.Set("startDate", startDate)
	}
	if endDate != "" {
		query.Set("endDate", endDate)
	}

	var entries []SalesReportEntry
	if err := s.client.get(ctx, "/api/dashboard/sales-report", query, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
