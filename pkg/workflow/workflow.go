// Package workflow coordinates the multi-entity operations of the screens:
// joint fetches for dashboard views, background polling, and order and
// catalog mutations guarded by the order state machine.
package workflow

import (
	"context"
	"errors"
	"log/slog"

	"github.com/marshallshelly/stockroom/pkg/client"
	"github.com/marshallshelly/stockroom/pkg/inventory"
	"github.com/marshallshelly/stockroom/pkg/observability"
	"github.com/marshallshelly/stockroom/pkg/store"
)

// ErrCancelled is returned when the user declines a confirmation.
var ErrCancelled = errors.New("cancelled by user")

// API is the subset of the backend client used by the workflows.
type API interface {
	ListCategories(ctx context.Context) ([]inventory.Category, error)
	CreateCategory(ctx context.Context, name string) (inventory.Category, error)
	DeleteCategory(ctx context.Context, id int64) error

	ListProducts(ctx context.Context, filter inventory.Filter) ([]inventory.Product, error)
	GetProduct(ctx context.Context, id int64) (inventory.Product, error)
	CreateProduct(ctx context.Context, in client.ProductInput) (inventory.Product, error)
	UpdateProduct(ctx context.Context, id int64, in client.ProductInput) (inventory.Product, error)
	DeleteProduct(ctx context.Context, id int64) error

	ListOrders(ctx context.Context, filter inventory.Filter) ([]inventory.Order, error)
	GetOrder(ctx context.Context, id int64) (inventory.Order, error)
	CreateOrder(ctx context.Context, in client.OrderInput) (inventory.Order, error)
	UpdateOrder(ctx context.Context, id int64, in client.OrderInput) (inventory.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status inventory.OrderStatus) (inventory.Order, error)
	DeleteOrder(ctx context.Context, id int64) error

	DashboardStats(ctx context.Context) (client.Stats, error)
	StockChart(ctx context.Context) (client.StockChart, error)
}

var _ API = (*client.Client)(nil)

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(prompt string) bool {
	return f(prompt)
}

// AlwaysConfirm approves every prompt. It backs the --yes flag.
var AlwaysConfirm = ConfirmFunc(func(string) bool { return true })

func confirm(c Confirmer, prompt string) error {
	if c == nil || !c.Confirm(prompt) {
		return ErrCancelled
	}
	return nil
}

type settings struct {
	logger     *slog.Logger
	thresholds inventory.Thresholds
	tracer     *observability.Tracer
}

// Option configures a workflow component.
type Option func(*settings)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		s.logger = l
	}
}

// WithThresholds sets the stock thresholds used for alerts.
func WithThresholds(t inventory.Thresholds) Option {
	return func(s *settings) {
		s.thresholds = t
	}
}

// WithTracer sets the tracer wrapping each view computation.
func WithTracer(t *observability.Tracer) Option {
	return func(s *settings) {
		s.tracer = t
	}
}

func newSettings(opts []Option) settings {
	s := settings{
		logger:     slog.Default(),
		thresholds: inventory.DefaultThresholds(),
		tracer:     observability.NewTracer(nil),
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// refetch reloads s after a mutation. The mutation already succeeded, so a
// failed reload is only logged.
func refetch[T any](ctx context.Context, s *store.Store[T], logger *slog.Logger) {
	s.Invalidate()
	if _, err := s.Refresh(ctx); err != nil {
		logger.Warn("failed to refresh after change", "store", s.Name(), "error", err)
	}
}
