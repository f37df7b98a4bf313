// Package inventory defines the business entities shared by the client, the
// aggregator and the presentation layer.
package inventory

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Category represents a product category.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Product represents a stocked product as returned by the backend.
type Product struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	SKU          string          `json:"sku"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	Description  string          `json:"description,omitempty"`
	Category     int64           `json:"category"`
	CategoryName string          `json:"category_name,omitempty"`
}

// Order represents a customer order for a single product.
type Order struct {
	ID                  int64       `json:"id"`
	Product             int64       `json:"product"`
	Quantity            int         `json:"quantity"`
	Status              OrderStatus `json:"status"`
	ProductName         string      `json:"product_name,omitempty"`
	ProductCategoryName string      `json:"product_category_name,omitempty"`
}

// DisplayName returns the denormalized product name, or "Unknown" when the
// backend did not resolve one.
func (o Order) DisplayName() string {
	if o.ProductName == "" {
		return UnknownProduct
	}
	return o.ProductName
}

// UnknownProduct is shown for orders whose product name is not resolved.
const UnknownProduct = "Unknown"

// Filter narrows a collection fetch to one category. The zero value selects
// everything.
type Filter struct {
	CategoryID int64
}

// All reports whether the filter selects every category.
func (f Filter) All() bool {
	return f.CategoryID <= 0
}

// Query returns the query string value for the filter, or "" for All.
func (f Filter) Query() string {
	if f.All() {
		return ""
	}
	return strconv.FormatInt(f.CategoryID, 10)
}

// ForCategory returns a filter selecting a single category.
func ForCategory(id int64) Filter {
	return Filter{CategoryID: id}
}
