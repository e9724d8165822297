package backend

import (
	"context"
	"fmt"
	"time"
)

// AnalyticsDaySnapshot aggregates one day of sales.
type AnalyticsDaySnapshot struct {
	Date              string  `json:"date"`
	TotalOrders       int     `json:"totalOrders"`
	CompletedOrders   int     `json:"completedOrders"`
	CancelledOrders   int     `json:"cancelledOrders"`
	RejectedOrders    int     `json:"rejectedOrders"`
	TotalRevenue      float64 `json:"totalRevenue"`
	NetRevenue        float64 `json:"netRevenue"`
	PlatformFeeRate   float64 `json:"platformFeeRate"`
	AverageOrderValue float64 `json:"averageOrderValue"`
	DeliveryCharges   float64 `json:"deliveryCharges"`
	PackingCharges    float64 `json:"packingCharges"`
	PlatformFee       float64 `json:"platformFee"`
}

// CanteenAnalytics is the reports endpoint payload.
type CanteenAnalytics struct {
	Today                AnalyticsDaySnapshot   `json:"today"`
	Yesterday            AnalyticsDaySnapshot   `json:"yesterday"`
	RevenueChangePercent float64                `json:"revenueChangePercent"`
	OrdersChangePercent  float64                `json:"ordersChangePercent"`
	SevenDayTrend        []AnalyticsDaySnapshot `json:"sevenDayTrend"`
}

// envelope is the {success, message, data} wrapper the reports API uses.
type envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// Analytics fetches the canteen sales report.
func (c *Client) Analytics(ctx context.Context) (*CanteenAnalytics, error) {
	var resp envelope[CanteenAnalytics]
	if err := c.cachedGet(ctx, "reports:canteen", "/vendor/reports/canteen", time.Minute, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("backend: analytics request rejected: %s", resp.Message)
	}
	return &resp.Data, nil
}
