package forms

import (
	"strconv"
	"strings"

	"github.com/marshallshelly/stockroom/pkg/client"
	"github.com/marshallshelly/stockroom/pkg/inventory"
	"github.com/shopspring/decimal"
)

// Category is the new-category form.
type Category struct {
	Name string
}

// Validate checks the form.
func (f Category) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return invalid("name", "Category name is required.")
	}
	return nil
}

// Value returns the trimmed category name.
func (f Category) Value() string {
	return strings.TrimSpace(f.Name)
}

// Product is the product form. Quantity and Price hold the raw text the user
// typed.
type Product struct {
	// ID is zero when creating.
	ID          int64
	Name        string
	SKU         string
	Quantity    string
	Price       string
	Description string
	Category    int64
}

// ProductFromEntity prefills the form for editing p.
func ProductFromEntity(p inventory.Product) Product {
	return Product{
		ID:          p.ID,
		Name:        p.Name,
		SKU:         p.SKU,
		Quantity:    strconv.Itoa(p.Quantity),
		Price:       p.Price.StringFixed(2),
		Description: p.Description,
		Category:    p.Category,
	}
}

// Editing reports whether the form updates an existing product.
func (f Product) Editing() bool {
	return f.ID != 0
}

// Validate checks the form.
func (f Product) Validate() error {
	if strings.TrimSpace(f.SKU) == "" {
		return invalid("sku", "SKU is required")
	}
	if !f.Editing() && f.Category == 0 {
		return invalid("category", "Please select a category")
	}
	return nil
}

// Input normalizes the form into a request payload: text fields are trimmed,
// and quantity and price are clamped at zero. Unparseable numbers become zero.
func (f Product) Input() client.ProductInput {
	qty, err := strconv.Atoi(strings.TrimSpace(f.Quantity))
	if err != nil || qty < 0 {
		qty = 0
	}

	price, err := decimal.NewFromString(strings.TrimSpace(f.Price))
	if err != nil || price.IsNegative() {
		price = decimal.Zero
	}

	return client.ProductInput{
		Name:        strings.TrimSpace(f.Name),
		SKU:         strings.TrimSpace(f.SKU),
		Quantity:    qty,
		Price:       price,
		Description: f.Description,
		Category:    f.Category,
	}
}

// ProductFailure maps a failed save to the message shown on the form. A
// rejected SKU is reported on the sku field.
func ProductFailure(err error) *ValidationError {
	if e, ok := isBadRequest(err); ok {
		if msg := e.Field("sku"); msg != "" {
			return invalid("sku", msg)
		}
		return invalid("sku", "SKU already exists or is invalid.")
	}
	return invalid("", "Failed to save product")
}

// Order is the order form.
type Order struct {
	// ID is zero when creating.
	ID       int64
	Category int64
	Product  int64
	Quantity int
}

// OrderFromEntity prefills the form for editing o. The category is not part
// of an order and must be chosen again.
func OrderFromEntity(o inventory.Order, category int64) Order {
	return Order{ID: o.ID, Category: category, Product: o.Product, Quantity: o.Quantity}
}

// Editing reports whether the form updates an existing order.
func (f Order) Editing() bool {
	return f.ID != 0
}

// Validate checks the form.
func (f Order) Validate() error {
	if f.Category == 0 || f.Product == 0 || f.Quantity == 0 {
		return invalid("", "Please fill all fields properly")
	}
	if f.Quantity < 0 {
		return invalid("quantity", "Quantity must be greater than 0")
	}
	return nil
}

// Input returns the request payload. Saved orders are always pending.
func (f Order) Input() client.OrderInput {
	return client.OrderInput{
		Product:  f.Product,
		Quantity: f.Quantity,
		Status:   inventory.StatusPending,
	}
}

// OrderFailure returns the message shown when saving an order fails.
func OrderFailure(editing bool) string {
	if editing {
		return "Failed to update order"
	}
	return "Failed to add order"
}
