package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/marshallshelly/stockroom/pkg/client"
	"github.com/marshallshelly/stockroom/pkg/inventory"
	"github.com/marshallshelly/stockroom/pkg/store"
	"github.com/marshallshelly/stockroom/pkg/views"
	"golang.org/x/sync/errgroup"
)

// Dashboard computes the dashboard views. Each view is sequenced on its own:
// a call that is overtaken by a newer call to the same view returns
// store.ErrSuperseded.
type Dashboard struct {
	api API
	settings

	summarySeq  store.Sequencer
	movementSeq store.Sequencer
	statusSeq   store.Sequencer
	notifySeq   store.Sequencer
}

// NewDashboard creates a dashboard backed by api.
func NewDashboard(api API, opts ...Option) *Dashboard {
	return &Dashboard{api: api, settings: newSettings(opts)}
}

// Movement holds both stock movement charts of a category.
type Movement struct {
	Inward  []views.LevelRow `json:"inward"`
	Outward []views.LevelRow `json:"outward"`
}

// Notifications is the content of the alerts card.
type Notifications struct {
	Alerts  views.Alerts      `json:"alerts"`
	Pending []inventory.Order `json:"pending_orders"`
}

// Count returns the number of notifications.
func (n Notifications) Count() int {
	return n.Alerts.Count() + len(n.Pending)
}

// Overview is the statistics header with the stock chart. A part that failed
// to load is left empty.
type Overview struct {
	Stats  client.Stats       `json:"stats"`
	Series []views.StockPoint `json:"stock_chart"`
}

// Categories lists the categories offered by the view selectors.
func (d *Dashboard) Categories(ctx context.Context) ([]inventory.Category, error) {
	cats, err := d.api.ListCategories(ctx)
	if err != nil {
		d.logger.Warn("failed to load categories", "error", err)
		return []inventory.Category{}, err
	}
	return cats, nil
}

// CategorySummary returns the ordered quantity of every product in the
// category. Category 0 means nothing is selected and yields no rows.
func (d *Dashboard) CategorySummary(ctx context.Context, categoryID int64) ([]views.SummaryRow, error) {
	if categoryID <= 0 {
		return []views.SummaryRow{}, nil
	}

	ctx, ticket, done := d.summarySeq.Next(ctx)
	defer done()
	ctx, span := d.tracer.StartView(ctx, "category-summary")
	defer span.End()

	products, orders, err := d.joint(ctx, inventory.ForCategory(categoryID))
	if err := ticket.Check(); err != nil {
		return nil, err
	}
	if err != nil {
		d.logger.Warn("category summary skipped", "category", categoryID, "error", err)
		return nil, err
	}
	return views.CategorySummary(products, orders), nil
}

// StockMovement returns the inward and outward stock charts of a category.
func (d *Dashboard) StockMovement(ctx context.Context, categoryID int64) (Movement, error) {
	empty := Movement{Inward: []views.LevelRow{}, Outward: []views.LevelRow{}}
	if categoryID <= 0 {
		return empty, nil
	}

	ctx, ticket, done := d.movementSeq.Next(ctx)
	defer done()
	ctx, span := d.tracer.StartView(ctx, "stock-movement")
	defer span.End()

	products, orders, err := d.joint(ctx, inventory.ForCategory(categoryID))
	if err := ticket.Check(); err != nil {
		return empty, err
	}
	if err != nil {
		d.logger.Warn("stock movement skipped", "category", categoryID, "error", err)
		return empty, err
	}
	return Movement{
		Inward:  views.InwardRows(products),
		Outward: views.OutwardRows(products, orders),
	}, nil
}

// OrderStatus returns the order count per status, optionally narrowed to a
// category.
func (d *Dashboard) OrderStatus(ctx context.Context, filter inventory.Filter) ([]views.StatusCount, error) {
	ctx, ticket, done := d.statusSeq.Next(ctx)
	defer done()
	ctx, span := d.tracer.StartView(ctx, "order-status")
	defer span.End()

	orders, err := d.api.ListOrders(ctx, filter)
	if err := ticket.Check(); err != nil {
		return nil, err
	}
	if err != nil {
		d.logger.Warn("order status chart skipped", "category", filter.CategoryID, "error", err)
		return nil, err
	}
	return views.StatusHistogram(orders), nil
}

// Notifications returns the stock alerts and pending orders across all
// categories.
func (d *Dashboard) Notifications(ctx context.Context) (Notifications, error) {
	ctx, ticket, done := d.notifySeq.Next(ctx)
	defer done()
	ctx, span := d.tracer.StartView(ctx, "notifications")
	defer span.End()

	products, orders, err := d.joint(ctx, inventory.Filter{})
	if err := ticket.Check(); err != nil {
		return Notifications{}, err
	}
	if err != nil {
		d.logger.Warn("notifications skipped", "error", err)
		return Notifications{}, err
	}
	return Notifications{
		Alerts:  views.StockAlerts(products, d.thresholds),
		Pending: views.PendingDigest(orders),
	}, nil
}

// Overview loads the statistics and the stock chart independently. When one
// of them fails the other is still returned, together with the error.
func (d *Dashboard) Overview(ctx context.Context) (Overview, error) {
	ctx, span := d.tracer.StartView(ctx, "overview")
	defer span.End()

	var (
		out                Overview
		statsErr, chartErr error
		g                  errgroup.Group
	)
	g.Go(func() error {
		out.Stats, statsErr = d.api.DashboardStats(ctx)
		if statsErr != nil {
			d.logger.Warn("failed to load stats", "error", statsErr)
		}
		return nil
	})
	g.Go(func() error {
		chart, err := d.api.StockChart(ctx)
		if err != nil {
			chartErr = err
			d.logger.Warn("failed to load stock chart", "error", err)
			return nil
		}
		out.Series = views.StockSeries(chart.Dates, chart.Levels)
		return nil
	})
	_ = g.Wait()

	if out.Stats == nil {
		out.Stats = client.Stats{}
	}
	if out.Series == nil {
		out.Series = []views.StockPoint{}
	}
	return out, errors.Join(statsErr, chartErr)
}

// joint fetches products and orders concurrently. Either both succeed or the
// first error is returned and the other request is cancelled.
func (d *Dashboard) joint(ctx context.Context, filter inventory.Filter) ([]inventory.Product, []inventory.Order, error) {
	var (
		products []inventory.Product
		orders   []inventory.Order
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = d.api.ListProducts(gctx, filter)
		if err != nil {
			return fmt.Errorf("failed to load products: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		orders, err = d.api.ListOrders(gctx, filter)
		if err != nil {
			return fmt.Errorf("failed to load orders: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return products, orders, nil
}
