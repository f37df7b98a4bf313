package views

import (
	"github.com/marshallshelly/stockroom/pkg/inventory"
)

// PendingDigest keeps the orders whose status is pending, ignoring case.
// Applying it to its own output returns the same orders.
func PendingDigest(orders []inventory.Order) []inventory.Order {
	out := make([]inventory.Order, 0, len(orders))
	for _, o := range orders {
		if o.Status.IsPending() {
			out = append(out, o)
		}
	}
	return out
}

// StatusCount is one bar of the order status chart.
type StatusCount struct {
	Status inventory.OrderStatus `json:"status"`
	Count  int                   `json:"count"`
}

// StatusHistogram counts orders per canonical status, always in lifecycle
// order. Orders with an unknown or empty status are dropped.
func StatusHistogram(orders []inventory.Order) []StatusCount {
	counts := make(map[inventory.OrderStatus]int, len(inventory.Statuses))
	for _, o := range orders {
		if c, ok := o.Status.Canonical(); ok {
			counts[c]++
		}
	}

	out := make([]StatusCount, 0, len(inventory.Statuses))
	for _, s := range inventory.Statuses {
		out = append(out, StatusCount{Status: s, Count: counts[s]})
	}
	return out
}
