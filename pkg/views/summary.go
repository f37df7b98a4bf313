// Package views derives the read models shown on the dashboard, order and
// inventory screens from entity snapshots.
//
// Every function here is pure: inputs are never modified and the same inputs
// always yield the same rows in the same order.
package views

import (
	"github.com/marshallshelly/stockroom/pkg/inventory"
)

// SummaryRow is one row of the category summary card.
type SummaryRow struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Orders    int    `json:"orders"`
}

// CategorySummary sums ordered quantities per product. Rows follow the order
// of products. Orders for products outside the list are ignored.
func CategorySummary(products []inventory.Product, orders []inventory.Order) []SummaryRow {
	sold := soldByProduct(products, orders)

	rows := make([]SummaryRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, SummaryRow{
			ProductID: p.ID,
			Name:      productName(p),
			Orders:    sold[p.ID],
		})
	}
	return rows
}

// LevelRow is one bar of the stock movement charts.
type LevelRow struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Level     inventory.Level `json:"level"`
}

// InwardRows grades the on-hand quantity of each product.
func InwardRows(products []inventory.Product) []LevelRow {
	rows := make([]LevelRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, LevelRow{
			ProductID: p.ID,
			Name:      productName(p),
			Quantity:  p.Quantity,
			Level:     inventory.InwardLevel(p.Quantity),
		})
	}
	return rows
}

// OutwardRows grades the sold quantity of each product. Only orders whose
// product is in products are counted.
func OutwardRows(products []inventory.Product, orders []inventory.Order) []LevelRow {
	sold := soldByProduct(products, orders)

	rows := make([]LevelRow, 0, len(products))
	for _, p := range products {
		q := sold[p.ID]
		rows = append(rows, LevelRow{
			ProductID: p.ID,
			Name:      productName(p),
			Quantity:  q,
			Level:     inventory.OutwardLevel(q),
		})
	}
	return rows
}

func soldByProduct(products []inventory.Product, orders []inventory.Order) map[int64]int {
	known := make(map[int64]bool, len(products))
	for _, p := range products {
		known[p.ID] = true
	}

	sold := make(map[int64]int, len(products))
	for _, o := range orders {
		if !known[o.Product] || o.Quantity <= 0 {
			continue
		}
		sold[o.Product] += o.Quantity
	}
	return sold
}

func productName(p inventory.Product) string {
	if p.Name == "" {
		return inventory.UnknownProduct
	}
	return p.Name
}
