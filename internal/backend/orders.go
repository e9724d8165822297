package backend

import (
	"context"
	"fmt"

	"github.com/grandstand/vendorboard/internal/order"
	"github.com/grandstand/vendorboard/internal/printer"
)

// rejectRequest is the body of the reject endpoint.
type rejectRequest struct {
	Reason string `json:"reason"`
}

// availabilityRequest toggles the canteen's live availability.
type availabilityRequest struct {
	Active bool `json:"active"`
}

// AvailabilityResponse echoes the applied availability state.
type AvailabilityResponse struct {
	Active bool `json:"active"`
}

// LiveOrders fetches the current live order list.
func (c *Client) LiveOrders(ctx context.Context) ([]order.Order, error) {
	var orders []order.Order
	if err := c.get(ctx, "/vendor/canteen/orders/live", &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// AcceptOrder moves an order from ORDER_PLACED to ACCEPTED.
func (c *Client) AcceptOrder(ctx context.Context, orderID int64) error {
	return c.post(ctx, fmt.Sprintf("/vendor/canteen/orders/%d/accept", orderID), nil, nil)
}

// RejectOrder rejects an ORDER_PLACED order with a reason shown to the customer.
func (c *Client) RejectOrder(ctx context.Context, orderID int64, reason string) error {
	return c.post(ctx, fmt.Sprintf("/vendor/canteen/orders/%d/reject", orderID), rejectRequest{Reason: reason}, nil)
}

// MarkPreparing moves an ACCEPTED order to PREPARING.
func (c *Client) MarkPreparing(ctx context.Context, orderID int64) error {
	return c.post(ctx, fmt.Sprintf("/vendor/canteen/orders/%d/preparing", orderID), nil, nil)
}

// MarkReady moves a PREPARING order to READY.
func (c *Client) MarkReady(ctx context.Context, orderID int64) error {
	return c.post(ctx, fmt.Sprintf("/vendor/canteen/orders/%d/ready", orderID), nil, nil)
}

// SetAvailability toggles whether the outlet accepts new orders.
func (c *Client) SetAvailability(ctx context.Context, active bool) (bool, error) {
	var resp AvailabilityResponse
	if err := c.put(ctx, "/vendor/canteen/availability", availabilityRequest{Active: active}, &resp); err != nil {
		return false, err
	}
	return resp.Active, nil
}

// PendingPrints fetches the receipt-ready projections awaiting printing.
func (c *Client) PendingPrints(ctx context.Context) ([]printer.PrintOrder, error) {
	var pending []printer.PrintOrder
	if err := c.get(ctx, "/vendor/canteen/orders/print/pending", &pending); err != nil {
		return nil, err
	}
	return pending, nil
}

// MarkPrintComplete acknowledges a single order's receipt as printed,
// removing it from the pending queue.
func (c *Client) MarkPrintComplete(ctx context.Context, orderID int64) error {
	return c.post(ctx, fmt.Sprintf("/vendor/canteen/orders/%d/print-complete", orderID), nil, nil)
}
