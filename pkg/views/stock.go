package views

import (
	"github.com/marshallshelly/stockroom/pkg/inventory"
)

// Alerts lists the products that need attention.
type Alerts struct {
	LowStock   []inventory.Product `json:"low_stock"`
	OutOfStock []inventory.Product `json:"out_of_stock"`
}

// Count returns the number of alerting products.
func (a Alerts) Count() int {
	return len(a.LowStock) + len(a.OutOfStock)
}

// StockAlerts collects low-stock and out-of-stock products, in input order.
func StockAlerts(products []inventory.Product, t inventory.Thresholds) Alerts {
	p := Partition(products, t)
	return Alerts{LowStock: p.LowStock, OutOfStock: p.OutOfStock}
}

// Partitioned splits products by stock status. Every product lands in exactly
// one bucket.
type Partitioned struct {
	InStock    []inventory.Product `json:"in_stock"`
	LowStock   []inventory.Product `json:"low_stock"`
	OutOfStock []inventory.Product `json:"out_of_stock"`
}

// Len returns the total number of products across buckets.
func (p Partitioned) Len() int {
	return len(p.InStock) + len(p.LowStock) + len(p.OutOfStock)
}

// Partition splits products by stock status under t.
func Partition(products []inventory.Product, t inventory.Thresholds) Partitioned {
	out := Partitioned{
		InStock:    []inventory.Product{},
		LowStock:   []inventory.Product{},
		OutOfStock: []inventory.Product{},
	}
	for _, p := range products {
		switch p.StockStatus(t) {
		case inventory.OutOfStock:
			out.OutOfStock = append(out.OutOfStock, p)
		case inventory.LowStock:
			out.LowStock = append(out.LowStock, p)
		default:
			out.InStock = append(out.InStock, p)
		}
	}
	return out
}

// InventoryRow is a product with its stock label.
type InventoryRow struct {
	inventory.Product
	Status inventory.StockStatus `json:"status"`
}

// InventoryRows labels each product with its stock status.
func InventoryRows(products []inventory.Product, t inventory.Thresholds) []InventoryRow {
	rows := make([]InventoryRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, InventoryRow{Product: p, Status: p.StockStatus(t)})
	}
	return rows
}

// CategoryNames returns the distinct category names of products in first-seen
// order. Products without a category name are skipped.
func CategoryNames(products []inventory.Product) []string {
	seen := make(map[string]bool)
	names := []string{}
	for _, p := range products {
		if p.CategoryName == "" || seen[p.CategoryName] {
			continue
		}
		seen[p.CategoryName] = true
		names = append(names, p.CategoryName)
	}
	return names
}

// AllCategories selects every product in FilterByCategoryName.
const AllCategories = "All"

// FilterByCategoryName keeps the products whose category name is name. An
// empty name or AllCategories keeps everything.
func FilterByCategoryName(products []inventory.Product, name string) []inventory.Product {
	out := make([]inventory.Product, 0, len(products))
	for _, p := range products {
		if name == "" || name == AllCategories || p.CategoryName == name {
			out = append(out, p)
		}
	}
	return out
}
