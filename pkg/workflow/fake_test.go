package workflow

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/marshallshelly/stockroom/pkg/client"
	"github.com/marshallshelly/stockroom/pkg/inventory"
)

var errBoom = errors.New("boom")

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeAPI is an in-memory API. Any method listed in errs fails with that
// error. Hooks, when set, replace the canned responses.
type fakeAPI struct {
	mu    sync.Mutex
	calls map[string]int
	errs  map[string]error

	categories []inventory.Category
	products   []inventory.Product
	orders     []inventory.Order
	stats      client.Stats
	chart      client.StockChart

	listProducts func(ctx context.Context, filter inventory.Filter) ([]inventory.Product, error)

	lastProduct client.ProductInput
	lastOrder   client.OrderInput
	lastStatus  inventory.OrderStatus
}

func newFake() *fakeAPI {
	return &fakeAPI{calls: map[string]int{}, errs: map[string]error{}}
}

func (f *fakeAPI) called(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) hit(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	return f.errs[name]
}

func (f *fakeAPI) ListCategories(ctx context.Context) ([]inventory.Category, error) {
	if err := f.hit("ListCategories"); err != nil {
		return nil, err
	}
	return f.categories, nil
}

func (f *fakeAPI) CreateCategory(ctx context.Context, name string) (inventory.Category, error) {
	if err := f.hit("CreateCategory"); err != nil {
		return inventory.Category{}, err
	}
	return inventory.Category{ID: 99, Name: name}, nil
}

func (f *fakeAPI) DeleteCategory(ctx context.Context, id int64) error {
	return f.hit("DeleteCategory")
}

func (f *fakeAPI) ListProducts(ctx context.Context, filter inventory.Filter) ([]inventory.Product, error) {
	if err := f.hit("ListProducts"); err != nil {
		return nil, err
	}
	if f.listProducts != nil {
		return f.listProducts(ctx, filter)
	}
	return f.products, nil
}

func (f *fakeAPI) GetProduct(ctx context.Context, id int64) (inventory.Product, error) {
	if err := f.hit("GetProduct"); err != nil {
		return inventory.Product{}, err
	}
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return inventory.Product{}, errBoom
}

func (f *fakeAPI) CreateProduct(ctx context.Context, in client.ProductInput) (inventory.Product, error) {
	f.mu.Lock()
	f.lastProduct = in
	f.mu.Unlock()
	if err := f.hit("CreateProduct"); err != nil {
		return inventory.Product{}, err
	}
	return inventory.Product{ID: 50, Name: in.Name, SKU: in.SKU, Category: in.Category}, nil
}

func (f *fakeAPI) UpdateProduct(ctx context.Context, id int64, in client.ProductInput) (inventory.Product, error) {
	f.mu.Lock()
	f.lastProduct = in
	f.mu.Unlock()
	if err := f.hit("UpdateProduct"); err != nil {
		return inventory.Product{}, err
	}
	return inventory.Product{ID: id, Name: in.Name, SKU: in.SKU, Category: in.Category}, nil
}

func (f *fakeAPI) DeleteProduct(ctx context.Context, id int64) error {
	return f.hit("DeleteProduct")
}

func (f *fakeAPI) ListOrders(ctx context.Context, filter inventory.Filter) ([]inventory.Order, error) {
	if err := f.hit("ListOrders"); err != nil {
		return nil, err
	}
	return f.orders, nil
}

func (f *fakeAPI) GetOrder(ctx context.Context, id int64) (inventory.Order, error) {
	if err := f.hit("GetOrder"); err != nil {
		return inventory.Order{}, err
	}
	for _, o := range f.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return inventory.Order{}, errBoom
}

func (f *fakeAPI) CreateOrder(ctx context.Context, in client.OrderInput) (inventory.Order, error) {
	f.mu.Lock()
	f.lastOrder = in
	f.mu.Unlock()
	if err := f.hit("CreateOrder"); err != nil {
		return inventory.Order{}, err
	}
	return inventory.Order{ID: 70, Product: in.Product, Quantity: in.Quantity, Status: in.Status}, nil
}

func (f *fakeAPI) UpdateOrder(ctx context.Context, id int64, in client.OrderInput) (inventory.Order, error) {
	f.mu.Lock()
	f.lastOrder = in
	f.mu.Unlock()
	if err := f.hit("UpdateOrder"); err != nil {
		return inventory.Order{}, err
	}
	return inventory.Order{ID: id, Product: in.Product, Quantity: in.Quantity, Status: in.Status}, nil
}

func (f *fakeAPI) UpdateOrderStatus(ctx context.Context, id int64, status inventory.OrderStatus) (inventory.Order, error) {
	f.mu.Lock()
	f.lastStatus = status
	f.mu.Unlock()
	if err := f.hit("UpdateOrderStatus"); err != nil {
		return inventory.Order{}, err
	}
	return inventory.Order{ID: id, Status: status}, nil
}

func (f *fakeAPI) DeleteOrder(ctx context.Context, id int64) error {
	return f.hit("DeleteOrder")
}

func (f *fakeAPI) DashboardStats(ctx context.Context) (client.Stats, error) {
	if err := f.hit("DashboardStats"); err != nil {
		return nil, err
	}
	return f.stats, nil
}

func (f *fakeAPI) StockChart(ctx context.Context) (client.StockChart, error) {
	if err := f.hit("StockChart"); err != nil {
		return client.StockChart{}, err
	}
	return f.chart, nil
}
