package workflow

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/marshallshelly/stockroom/pkg/client"
	"github.com/marshallshelly/stockroom/pkg/inventory"
	"github.com/marshallshelly/stockroom/pkg/store"
	"github.com/marshallshelly/stockroom/pkg/views"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dashboardFake() *fakeAPI {
	f := newFake()
	f.products = []inventory.Product{
		{ID: 1, Name: "Pen", Quantity: 120, Category: 1},
		{ID: 2, Name: "Notepad", Quantity: 15, Category: 1},
		{ID: 3, Name: "Stapler", Quantity: 0, Category: 1},
	}
	f.orders = []inventory.Order{
		{ID: 10, Product: 1, Quantity: 5, Status: inventory.StatusPending},
		{ID: 11, Product: 1, Quantity: 12, Status: inventory.StatusShipped},
		{ID: 12, Product: 2, Quantity: 3, Status: "pending"},
	}
	return f
}

func TestCategorySummary(t *testing.T) {
	f := dashboardFake()
	d := NewDashboard(f, WithLogger(quietLogger()))

	rows, err := d.CategorySummary(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []views.SummaryRow{
		{ProductID: 1, Name: "Pen", Orders: 17},
		{ProductID: 2, Name: "Notepad", Orders: 3},
		{ProductID: 3, Name: "Stapler", Orders: 0},
	}, rows)
}

func TestCategorySummaryWithoutSelection(t *testing.T) {
	f := dashboardFake()
	d := NewDashboard(f, WithLogger(quietLogger()))

	rows, err := d.CategorySummary(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.NotNil(t, rows)
	assert.Zero(t, f.called("ListProducts"))
	assert.Zero(t, f.called("ListOrders"))

	mv, err := d.StockMovement(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, mv.Inward)
	assert.Empty(t, mv.Outward)
	assert.Zero(t, f.called("ListProducts"))
}

func TestJointLoadsAreAllOrNothing(t *testing.T) {
	tests := []struct {
		name   string
		failOn string
	}{
		{name: "products fail", failOn: "ListProducts"},
		{name: "orders fail", failOn: "ListOrders"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := dashboardFake()
			f.errs[tt.failOn] = errBoom
			d := NewDashboard(f, WithLogger(quietLogger()))

			rows, err := d.CategorySummary(context.Background(), 1)
			assert.ErrorIs(t, err, errBoom)
			assert.Nil(t, rows)

			mv, err := d.StockMovement(context.Background(), 1)
			assert.ErrorIs(t, err, errBoom)
			assert.Empty(t, mv.Inward)
			assert.Empty(t, mv.Outward)

			n, err := d.Notifications(context.Background())
			assert.ErrorIs(t, err, errBoom)
			assert.Zero(t, n.Count())
		})
	}
}

func TestCategorySummarySuperseded(t *testing.T) {
	f := dashboardFake()
	started := make(chan struct{})
	var calls atomic.Int32
	f.listProducts = func(ctx context.Context, _ inventory.Filter) ([]inventory.Product, error) {
		if calls.Add(1) == 1 {
			close(started)
			<-ctx.Done()
			return nil, ctx.Err()
		}
		return f.products, nil
	}
	d := NewDashboard(f, WithLogger(quietLogger()))

	var (
		wg       sync.WaitGroup
		firstErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = d.CategorySummary(context.Background(), 1)
	}()

	<-started
	rows, err := d.CategorySummary(context.Background(), 1)
	wg.Wait()

	require.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.ErrorIs(t, firstErr, store.ErrSuperseded)
}

func TestStockMovement(t *testing.T) {
	d := NewDashboard(dashboardFake(), WithLogger(quietLogger()))

	mv, err := d.StockMovement(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, mv.Inward, 3)
	require.Len(t, mv.Outward, 3)
	assert.Equal(t, 120, mv.Inward[0].Quantity)
	assert.Equal(t, 17, mv.Outward[0].Quantity)
}

func TestOrderStatus(t *testing.T) {
	d := NewDashboard(dashboardFake(), WithLogger(quietLogger()))

	counts, err := d.OrderStatus(context.Background(), inventory.Filter{})
	require.NoError(t, err)
	assert.Equal(t, []views.StatusCount{
		{Status: inventory.StatusPending, Count: 2},
		{Status: inventory.StatusShipped, Count: 1},
		{Status: inventory.StatusCompleted, Count: 0},
	}, counts)
}

func TestNotifications(t *testing.T) {
	f := dashboardFake()
	d := NewDashboard(f, WithLogger(quietLogger()))

	n, err := d.Notifications(context.Background())
	require.NoError(t, err)

	require.Len(t, n.Alerts.LowStock, 1)
	assert.Equal(t, "Notepad", n.Alerts.LowStock[0].Name)
	require.Len(t, n.Alerts.OutOfStock, 1)
	assert.Equal(t, "Stapler", n.Alerts.OutOfStock[0].Name)
	assert.Len(t, n.Pending, 2)
	assert.Equal(t, 4, n.Count())
}

func TestNotificationsUseThresholds(t *testing.T) {
	d := NewDashboard(dashboardFake(), WithLogger(quietLogger()), WithThresholds(inventory.Thresholds{LowStock: 200}))

	n, err := d.Notifications(context.Background())
	require.NoError(t, err)
	assert.Len(t, n.Alerts.LowStock, 2)
}

func TestOverview(t *testing.T) {
	t.Run("both load", func(t *testing.T) {
		f := newFake()
		f.stats = client.Stats{"total_products": float64(3)}
		f.chart = client.StockChart{Dates: []string{"2024-01-01", "2024-01-02"}, Levels: []float64{4, 9}}
		d := NewDashboard(f, WithLogger(quietLogger()))

		ov, err := d.Overview(context.Background())
		require.NoError(t, err)
		assert.Equal(t, float64(3), ov.Stats["total_products"])
		assert.Equal(t, []views.StockPoint{{Date: "2024-01-01", Stock: 4}, {Date: "2024-01-02", Stock: 9}}, ov.Series)
	})

	t.Run("stats fail", func(t *testing.T) {
		f := newFake()
		f.errs["DashboardStats"] = errBoom
		f.chart = client.StockChart{Dates: []string{"2024-01-01"}, Levels: []float64{4}}
		d := NewDashboard(f, WithLogger(quietLogger()))

		ov, err := d.Overview(context.Background())
		assert.ErrorIs(t, err, errBoom)
		assert.NotNil(t, ov.Stats)
		assert.Empty(t, ov.Stats)
		assert.Len(t, ov.Series, 1)
	})

	t.Run("chart fail", func(t *testing.T) {
		f := newFake()
		f.errs["StockChart"] = errBoom
		f.stats = client.Stats{"total_stock": float64(10)}
		d := NewDashboard(f, WithLogger(quietLogger()))

		ov, err := d.Overview(context.Background())
		assert.ErrorIs(t, err, errBoom)
		assert.Equal(t, float64(10), ov.Stats["total_stock"])
		assert.NotNil(t, ov.Series)
		assert.Empty(t, ov.Series)
	})
}

func TestWatcher(t *testing.T) {
	polls := make(chan struct{}, 10)
	w := NewWatcher(time.Hour, func(context.Context) { polls <- struct{}{} }, quietLogger())

	require.NoError(t, w.Start(context.Background()))
	assert.True(t, w.Running())
	assert.ErrorIs(t, w.Start(context.Background()), ErrWatcherRunning)

	select {
	case <-polls:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not poll on start")
	}

	w.Stop()
	assert.False(t, w.Running())
	w.Stop()

	require.NoError(t, w.Start(context.Background()))
	w.Stop()
}

func TestWatcherPollsOnInterval(t *testing.T) {
	var count atomic.Int32
	w := NewWatcher(10*time.Millisecond, func(context.Context) { count.Add(1) }, quietLogger())

	require.NoError(t, w.Start(context.Background()))
	assert.Eventually(t, func() bool { return count.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	w.Stop()
}

func TestWatchNotifications(t *testing.T) {
	d := NewDashboard(dashboardFake(), WithLogger(quietLogger()))

	updates := make(chan Notifications, 1)
	w := d.WatchNotifications(time.Hour, func(n Notifications, err error) {
		if err == nil {
			updates <- n
		}
	})
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	select {
	case n := <-updates:
		assert.Equal(t, 4, n.Count())
	case <-time.After(2 * time.Second):
		t.Fatal("no notification update")
	}
}
