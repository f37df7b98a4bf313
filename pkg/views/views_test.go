package views

import (
	"testing"

	"github.com/marshallshelly/stockroom/pkg/inventory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProducts() []inventory.Product {
	return []inventory.Product{
		{ID: 1, Name: "Pen", SKU: "A1", Quantity: 0, CategoryName: "Stationery"},
		{ID: 2, Name: "Pad", SKU: "A2", Quantity: 15, CategoryName: "Stationery"},
		{ID: 3, Name: "Lamp", SKU: "B1", Quantity: 45, CategoryName: "Home"},
		{ID: 4, Name: "Ink", SKU: "A3", Quantity: -2, CategoryName: "Stationery"},
		{ID: 5, Name: "", SKU: "C1", Quantity: 80},
	}
}

func TestCategorySummary(t *testing.T) {
	products := []inventory.Product{{ID: 1, Name: "Pen"}}
	orders := []inventory.Order{
		{Product: 1, Quantity: 3},
		{Product: 1, Quantity: 2},
	}

	rows := CategorySummary(products, orders)
	require.Len(t, rows, 1)
	assert.Equal(t, "Pen", rows[0].Name)
	assert.Equal(t, 5, rows[0].Orders)
}

func TestCategorySummary_JoinsByID(t *testing.T) {
	products := []inventory.Product{
		{ID: 1, Name: "Pen"},
		{ID: 2, Name: "Pen"},
		{ID: 3},
	}
	orders := []inventory.Order{
		{Product: 1, Quantity: 3, ProductName: "Pen"},
		{Product: 2, Quantity: 1, ProductName: "Pen"},
		{Product: 99, Quantity: 7, ProductName: "Pen"},
	}

	rows := CategorySummary(products, orders)
	assert.Equal(t, []SummaryRow{
		{ProductID: 1, Name: "Pen", Orders: 3},
		{ProductID: 2, Name: "Pen", Orders: 1},
		{ProductID: 3, Name: inventory.UnknownProduct, Orders: 0},
	}, rows)
}

func TestStockScenarios(t *testing.T) {
	rows := InventoryRows(sampleProducts()[:3], inventory.DefaultThresholds())
	require.Len(t, rows, 3)
	assert.Equal(t, inventory.OutOfStock, rows[0].Status)
	assert.Equal(t, inventory.LowStock, rows[1].Status)
	assert.Equal(t, inventory.InStock, rows[2].Status)
}

func TestPartition_ExhaustiveAndDisjoint(t *testing.T) {
	products := sampleProducts()
	for q := -3; q < 70; q += 4 {
		products = append(products, inventory.Product{ID: int64(100 + q), Quantity: q})
	}

	p := Partition(products, inventory.DefaultThresholds())
	assert.Equal(t, len(products), p.Len())

	seen := map[int64]int{}
	for _, bucket := range [][]inventory.Product{p.InStock, p.LowStock, p.OutOfStock} {
		for _, prod := range bucket {
			seen[prod.ID]++
		}
	}
	for _, prod := range products {
		assert.Equal(t, 1, seen[prod.ID], "product %d", prod.ID)
	}
}

func TestStockAlerts(t *testing.T) {
	a := StockAlerts(sampleProducts(), inventory.DefaultThresholds())
	assert.Equal(t, []int64{2}, ids(a.LowStock))
	assert.Equal(t, []int64{1, 4}, ids(a.OutOfStock))
	assert.Equal(t, 3, a.Count())

	a = StockAlerts(sampleProducts(), inventory.Thresholds{LowStock: 50})
	assert.Equal(t, []int64{2, 3}, ids(a.LowStock))
}

func TestPendingDigest(t *testing.T) {
	orders := []inventory.Order{
		{ID: 1, Status: "pending"},
		{ID: 2, Status: "PENDING"},
		{ID: 3, Status: "Shipped"},
	}

	digest := PendingDigest(orders)
	assert.Len(t, digest, 2)
	assert.Equal(t, digest, PendingDigest(digest))
}

func TestStatusHistogram(t *testing.T) {
	orders := []inventory.Order{
		{Status: "pending"},
		{Status: "Completed"},
		{Status: "SHIPPED"},
		{Status: "shipped"},
		{Status: ""},
		{Status: "cancelled"},
	}

	assert.Equal(t, []StatusCount{
		{Status: inventory.StatusPending, Count: 1},
		{Status: inventory.StatusShipped, Count: 2},
		{Status: inventory.StatusCompleted, Count: 1},
	}, StatusHistogram(orders))
}

func TestMovementRows(t *testing.T) {
	products := []inventory.Product{
		{ID: 1, Name: "Pen", Quantity: 10},
		{ID: 2, Name: "Pad", Quantity: 60},
		{ID: 3, Name: "Ink", Quantity: 61},
	}
	orders := []inventory.Order{
		{Product: 1, Quantity: 4},
		{Product: 2, Quantity: 10},
		{Product: 3, Quantity: 15},
		{Product: 42, Quantity: 100},
	}

	inward := InwardRows(products)
	assert.Equal(t, []inventory.Level{inventory.LevelCritical, inventory.LevelWarning, inventory.LevelHealthy}, levels(inward))

	outward := OutwardRows(products, orders)
	assert.Equal(t, []int{4, 10, 15}, quantities(outward))
	assert.Equal(t, []inventory.Level{inventory.LevelCritical, inventory.LevelWarning, inventory.LevelHealthy}, levels(outward))
}

func TestAggregationsArePure(t *testing.T) {
	products := sampleProducts()
	orders := []inventory.Order{{Product: 1, Quantity: 2, Status: "pending"}, {Product: 3, Quantity: 1, Status: "Shipped"}}
	before := append([]inventory.Product(nil), products...)
	beforeOrders := append([]inventory.Order(nil), orders...)
	th := inventory.DefaultThresholds()

	assert.Equal(t, CategorySummary(products, orders), CategorySummary(products, orders))
	assert.Equal(t, OutwardRows(products, orders), OutwardRows(products, orders))
	assert.Equal(t, InwardRows(products), InwardRows(products))
	assert.Equal(t, Partition(products, th), Partition(products, th))
	assert.Equal(t, StatusHistogram(orders), StatusHistogram(orders))
	assert.Equal(t, PendingDigest(orders), PendingDigest(orders))

	assert.Equal(t, before, products)
	assert.Equal(t, beforeOrders, orders)
}

func TestCategoryNamesAndFilter(t *testing.T) {
	products := sampleProducts()
	assert.Equal(t, []string{"Stationery", "Home"}, CategoryNames(products))

	assert.Equal(t, []int64{1, 2, 4}, ids(FilterByCategoryName(products, "Stationery")))
	assert.Len(t, FilterByCategoryName(products, AllCategories), len(products))
	assert.Len(t, FilterByCategoryName(products, ""), len(products))
	assert.Empty(t, FilterByCategoryName(products, "Garden"))
}

func TestStockSeries(t *testing.T) {
	points := StockSeries([]string{"d1", "d2", "d3"}, []float64{5, 7})
	assert.Equal(t, []StockPoint{{"d1", 5}, {"d2", 7}, {"d3", 0}}, points)
	assert.Empty(t, StockSeries(nil, []float64{1}))
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	tests := []struct {
		name      string
		page      int
		size      int
		want      []int
		wantPage  int
		wantPages int
		prev      bool
		next      bool
	}{
		{name: "first", page: 1, size: 5, want: []int{1, 2, 3, 4, 5}, wantPage: 1, wantPages: 2, next: true},
		{name: "last", page: 2, size: 5, want: []int{6, 7}, wantPage: 2, wantPages: 2, prev: true},
		{name: "past end clamps", page: 9, size: 5, want: []int{6, 7}, wantPage: 2, wantPages: 2, prev: true},
		{name: "below one clamps", page: 0, size: 2, want: []int{1, 2}, wantPage: 1, wantPages: 4, next: true},
		{name: "unbounded", page: 1, size: 0, want: items, wantPage: 1, wantPages: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(items, tt.page, tt.size)
			assert.Equal(t, tt.want, p.Items)
			assert.Equal(t, tt.wantPage, p.Number)
			assert.Equal(t, tt.wantPages, p.TotalPages)
			assert.Equal(t, tt.prev, p.HasPrev())
			assert.Equal(t, tt.next, p.HasNext())
			assert.Equal(t, len(items), p.Total)
		})
	}
}

func TestPaginate_Empty(t *testing.T) {
	p := Paginate([]string{}, 3, DefaultPageSize)
	assert.Equal(t, 1, p.Number)
	assert.Equal(t, 1, p.TotalPages)
	assert.Empty(t, p.Items)
	assert.False(t, p.HasNext())
}

func ids(products []inventory.Product) []int64 {
	out := []int64{}
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func levels(rows []LevelRow) []inventory.Level {
	out := []inventory.Level{}
	for _, r := range rows {
		out = append(out, r.Level)
	}
	return out
}

func quantities(rows []LevelRow) []int {
	out := []int{}
	for _, r := range rows {
		out = append(out, r.Quantity)
	}
	return out
}
