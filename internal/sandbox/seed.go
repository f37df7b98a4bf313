package sandbox

import (
	"github.com/marshallshelly/stockroom/pkg/inventory"
	"github.com/shopspring/decimal"
)

// Demo account created by Seed.
const (
	DemoUsername = "demo"
	DemoPassword = "Demo1234"
)

// Seed creates the demo account with a small catalog and a few orders in
// every status.
func (s *Server) Seed() {
	s.AddUser(DemoUsername, "demo@example.com", DemoPassword)

	s.mu.Lock()
	defer s.mu.Unlock()

	uid := s.users[DemoUsername].id

	addCategory := func(name string) int64 {
		c := &category{Category: inventory.Category{ID: s.nextID(), Name: name}, owner: uid}
		s.categories[c.ID] = c
		return c.ID
	}
	addProduct := func(cat int64, name, sku string, qty int, price string) int64 {
		p := &product{
			Product: inventory.Product{
				ID:       s.nextID(),
				Name:     name,
				SKU:      sku,
				Quantity: qty,
				Price:    decimal.RequireFromString(price),
				Category: cat,
			},
			owner: uid,
		}
		s.products[p.ID] = p
		s.record(uid, p.ID, qty)
		return p.ID
	}
	addOrder := func(productID int64, qty int, status inventory.OrderStatus) {
		o := &order{
			Order: inventory.Order{ID: s.nextID(), Product: productID, Quantity: qty, Status: status},
			owner: uid,
		}
		s.orders[o.ID] = o
	}

	stationery := addCategory("Stationery")
	electronics := addCategory("Electronics")

	pen := addProduct(stationery, "Pen", "ST-PEN", 120, "1.50")
	pad := addProduct(stationery, "Notepad", "ST-PAD", 15, "3.25")
	addProduct(stationery, "Stapler", "ST-STP", 0, "8.00")
	cable := addProduct(electronics, "USB Cable", "EL-USB", 45, "6.99")
	addProduct(electronics, "Headphones", "EL-HPH", 8, "49.00")

	addOrder(pen, 5, inventory.StatusPending)
	addOrder(pen, 12, inventory.StatusShipped)
	addOrder(pad, 3, inventory.StatusPending)
	addOrder(cable, 20, inventory.StatusCompleted)
}
