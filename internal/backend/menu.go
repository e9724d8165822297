package backend

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// MenuItem is a catalog entry as returned by the menu endpoint.
type MenuItem struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Veg      bool    `json:"veg"`
	Section  string  `json:"section"`
	Active   bool    `json:"active"`
}

// MenuFilter narrows the menu listing. Zero values mean "all".
type MenuFilter struct {
	Section  string
	Category string
}

// Menu lists the catalog, optionally filtered by section and category.
func (c *Client) Menu(ctx context.Context, filter MenuFilter) ([]MenuItem, error) {
	params := url.Values{}
	if filter.Section != "" {
		params.Set("section", filter.Section)
	}
	if filter.Category != "" && filter.Category != "All" {
		params.Set("category", filter.Category)
	}
	path := "/vendor/canteen/menu"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}
	var items []MenuItem
	if err := c.cachedGet(ctx, "menu:"+params.Encode(), path, time.Minute, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// SetMenuItemAvailability flips a single item's active flag.
func (c *Client) SetMenuItemAvailability(ctx context.Context, itemID int64, active bool) error {
	return c.put(ctx, fmt.Sprintf("/vendor/canteen/menu/%d/availability?active=%t", itemID, active), nil, nil)
}

// AddMenuItemRequest carries the fields for a new catalog entry.
type AddMenuItemRequest struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Veg      bool    `json:"veg"`
	Section  string  `json:"section"`
}

// UpdateMenuItemRequest patches an existing entry; nil fields are untouched.
type UpdateMenuItemRequest struct {
	Name     *string  `json:"name,omitempty"`
	Category *string  `json:"category,omitempty"`
	Price    *float64 `json:"price,omitempty"`
	Veg      *bool    `json:"veg,omitempty"`
	Section  *string  `json:"section,omitempty"`
}

// AddMenuItem creates a catalog entry and returns it.
func (c *Client) AddMenuItem(ctx context.Context, req AddMenuItemRequest) (*MenuItem, error) {
	var item MenuItem
	if err := c.post(ctx, "/vendor/canteen/menu", req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateMenuItem applies a partial edit to a catalog entry.
func (c *Client) UpdateMenuItem(ctx context.Context, itemID int64, req UpdateMenuItemRequest) (*MenuItem, error) {
	var item MenuItem
	if err := c.put(ctx, fmt.Sprintf("/vendor/canteen/menu/%d", itemID), req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}
