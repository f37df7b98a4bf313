package sandbox

import (
	"net/http"
	"time"

	"github.com/marshallshelly/stockroom/pkg/inventory"
)

// chartDays is the length of the stock chart window, today included.
const chartDays = 7

// record appends a stock change. Must be called with s.mu held.
func (s *Server) record(uid, productID int64, change int) {
	s.logs = append(s.logs, stockLog{owner: uid, product: productID, change: change, at: s.now()})
}

func (s *Server) dashboardStats(w http.ResponseWriter, r *http.Request) {
	uid := owner(r)
	th := inventory.DefaultThresholds()

	s.mu.Lock()
	defer s.mu.Unlock()

	var products, stock, low, out, orders, pending, categories int
	for _, p := range s.products {
		if p.owner != uid {
			continue
		}
		products++
		stock += p.Quantity
		switch p.StockStatus(th) {
		case inventory.LowStock:
			low++
		case inventory.OutOfStock:
			out++
		}
	}
	for _, o := range s.orders {
		if o.owner != uid {
			continue
		}
		orders++
		if o.Status.IsPending() {
			pending++
		}
	}
	for _, c := range s.categories {
		if c.owner == uid {
			categories++
		}
	}

	writeJSON(w, http.StatusOK, map[string]int{
		"total_products":     products,
		"total_stock":        stock,
		"low_stock_count":    low,
		"out_of_stock_count": out,
		"total_orders":       orders,
		"pending_orders":     pending,
		"total_categories":   categories,
	})
}

// stockChart reports total on-hand stock at the end of each of the last
// chartDays days.
func (s *Server) stockChart(w http.ResponseWriter, r *http.Request) {
	uid := owner(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	dates := make([]string, 0, chartDays)
	levels := make([]int, 0, chartDays)
	for i := chartDays - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		end := day.AddDate(0, 0, 1)

		total := 0
		for _, l := range s.logs {
			if l.owner == uid && l.at.Before(end) {
				total += l.change
			}
		}
		dates = append(dates, day.Format(time.DateOnly))
		levels = append(levels, total)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"dates":        dates,
		"stock_levels": levels,
	})
}
