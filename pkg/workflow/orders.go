package workflow

import (
	"context"
	"fmt"

	"github.com/marshallshelly/stockroom/pkg/forms"
	"github.com/marshallshelly/stockroom/pkg/inventory"
	"github.com/marshallshelly/stockroom/pkg/store"
)

// Confirmation prompts.
const (
	PromptDeleteOrder    = "Are you sure you want to delete this order?"
	PromptDeleteProduct  = "Delete product?"
	PromptDeleteCategory = "Are you sure you want to delete this category?"
)

// OrderDesk runs the order screen: listing, placing, editing, advancing and
// deleting orders. Every mutation refetches the order list.
type OrderDesk struct {
	api API
	settings
	orders *store.Store[inventory.Order]
}

// NewOrderDesk creates an order desk backed by api.
func NewOrderDesk(api API, opts ...Option) *OrderDesk {
	s := newSettings(opts)
	return &OrderDesk{
		api:      api,
		settings: s,
		orders:   store.New("orders", api.ListOrders, s.logger),
	}
}

// Orders returns the order store.
func (d *OrderDesk) Orders() *store.Store[inventory.Order] {
	return d.orders
}

// Load fetches the orders for filter.
func (d *OrderDesk) Load(ctx context.Context, filter inventory.Filter) ([]inventory.Order, error) {
	return d.orders.Load(ctx, filter)
}

// Placed is the outcome of a new order.
type Placed struct {
	Order inventory.Order `json:"order"`

	// Remaining is the product stock after the order, or -1 when it could
	// not be read back.
	Remaining int `json:"remaining"`

	// SellingFast is set when Remaining dropped below the restock limit.
	SellingFast bool `json:"selling_fast"`
}

// Create validates form and places a pending order. The product is read
// back afterwards to flag low remaining stock; a failure there does not fail
// the order.
func (d *OrderDesk) Create(ctx context.Context, form forms.Order) (Placed, error) {
	if err := form.Validate(); err != nil {
		return Placed{}, err
	}

	order, err := d.api.CreateOrder(ctx, form.Input())
	if err != nil {
		return Placed{}, fmt.Errorf("failed to create order: %w", err)
	}

	placed := Placed{Order: order, Remaining: -1}
	product, err := d.api.GetProduct(ctx, form.Product)
	if err != nil {
		d.logger.Warn("failed to read back product stock", "product", form.Product, "error", err)
	} else {
		placed.Remaining = product.Quantity
		placed.SellingFast = product.Quantity < inventory.SellingFastBelow
	}

	refetch(ctx, d.orders, d.logger)
	return placed, nil
}

// Edit replaces the product and quantity of a pending order.
func (d *OrderDesk) Edit(ctx context.Context, id int64, form forms.Order) (inventory.Order, error) {
	if err := form.Validate(); err != nil {
		return inventory.Order{}, err
	}

	current, err := d.lookup(ctx, id)
	if err != nil {
		return inventory.Order{}, err
	}
	if err := current.CheckModifiable(); err != nil {
		return inventory.Order{}, err
	}

	order, err := d.api.UpdateOrder(ctx, id, form.Input())
	if err != nil {
		return inventory.Order{}, fmt.Errorf("failed to update order: %w", err)
	}

	refetch(ctx, d.orders, d.logger)
	return order, nil
}

// ChangeStatus moves a pending order forward to status.
func (d *OrderDesk) ChangeStatus(ctx context.Context, id int64, status inventory.OrderStatus) (inventory.Order, error) {
	to, err := inventory.ParseStatus(string(status))
	if err != nil {
		return inventory.Order{}, err
	}

	current, err := d.lookup(ctx, id)
	if err != nil {
		return inventory.Order{}, err
	}
	if err := current.CheckStatusChange(to); err != nil {
		return inventory.Order{}, err
	}

	order, err := d.api.UpdateOrderStatus(ctx, id, to)
	if err != nil {
		return inventory.Order{}, fmt.Errorf("failed to update order status: %w", err)
	}

	refetch(ctx, d.orders, d.logger)
	return order, nil
}

// Delete removes a pending order once c approves.
func (d *OrderDesk) Delete(ctx context.Context, id int64, c Confirmer) error {
	current, err := d.lookup(ctx, id)
	if err != nil {
		return err
	}
	if err := current.CheckModifiable(); err != nil {
		return err
	}
	if err := confirm(c, PromptDeleteOrder); err != nil {
		return err
	}

	if err := d.api.DeleteOrder(ctx, id); err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	refetch(ctx, d.orders, d.logger)
	return nil
}

// lookup returns the order from the current snapshot, or from the backend
// when the snapshot does not hold it.
func (d *OrderDesk) lookup(ctx context.Context, id int64) (inventory.Order, error) {
	if !d.orders.Stale() {
		for _, o := range d.orders.Items() {
			if o.ID == id {
				return o, nil
			}
		}
	}
	o, err := d.api.GetOrder(ctx, id)
	if err != nil {
		return inventory.Order{}, fmt.Errorf("failed to load order %d: %w", id, err)
	}
	return o, nil
}
