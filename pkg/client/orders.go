package client

import (
	"context"
	"net/http"

	"github.com/marshallshelly/stockroom/pkg/inventory"
)

const ordersPath = "orders/"

// OrderInput is the writable part of an order.
type OrderInput struct {
	Product  int64                 `json:"product"`
	Quantity int                   `json:"quantity"`
	Status   inventory.OrderStatus `json:"status"`
}

// ListOrders fetches orders, narrowed by filter. The backend filters orders by
// their product's category.
func (c *Client) ListOrders(ctx context.Context, filter inventory.Filter) ([]inventory.Order, error) {
	var out []inventory.Order
	if err := c.Do(ctx, http.MethodGet, ordersPath, filterQuery(filter), nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []inventory.Order{}
	}
	return out, nil
}

// GetOrder fetches one order.
func (c *Client) GetOrder(ctx context.Context, id int64) (inventory.Order, error) {
	var out inventory.Order
	err := c.Do(ctx, http.MethodGet, idPath(ordersPath, id), nil, nil, &out)
	return out, err
}

// CreateOrder places an order.
func (c *Client) CreateOrder(ctx context.Context, in OrderInput) (inventory.Order, error) {
	var out inventory.Order
	err := c.Do(ctx, http.MethodPost, ordersPath, nil, in, &out)
	return out, err
}

// UpdateOrder replaces the writable fields of an order.
func (c *Client) UpdateOrder(ctx context.Context, id int64, in OrderInput) (inventory.Order, error) {
	var out inventory.Order
	err := c.Do(ctx, http.MethodPut, idPath(ordersPath, id), nil, in, &out)
	return out, err
}

// UpdateOrderStatus changes only the status of an order.
func (c *Client) UpdateOrderStatus(ctx context.Context, id int64, status inventory.OrderStatus) (inventory.Order, error) {
	var out inventory.Order
	body := map[string]inventory.OrderStatus{"status": status}
	err := c.Do(ctx, http.MethodPatch, idPath(ordersPath, id), nil, body, &out)
	return out, err
}

// DeleteOrder deletes an order.
func (c *Client) DeleteOrder(ctx context.Context, id int64) error {
	return c.Do(ctx, http.MethodDelete, idPath(ordersPath, id), nil, nil, nil)
}
