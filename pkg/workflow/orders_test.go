package workflow

import (
	"context"
	"testing"

	"github.com/marshallshelly/stockroom/pkg/forms"
	"github.com/marshallshelly/stockroom/pkg/inventory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderFake() *fakeAPI {
	f := newFake()
	f.products = []inventory.Product{
		{ID: 1, Name: "Pen", Quantity: 8, Category: 1},
		{ID: 2, Name: "Notepad", Quantity: 40, Category: 1},
	}
	f.orders = []inventory.Order{
		{ID: 10, Product: 1, Quantity: 5, Status: inventory.StatusPending},
		{ID: 11, Product: 2, Quantity: 2, Status: inventory.StatusShipped},
	}
	return f
}

func loadedDesk(t *testing.T, f *fakeAPI) *OrderDesk {
	t.Helper()
	d := NewOrderDesk(f, WithLogger(quietLogger()))
	_, err := d.Load(context.Background(), inventory.Filter{})
	require.NoError(t, err)
	return d
}

func TestOrderDeskCreate(t *testing.T) {
	tests := []struct {
		name        string
		product     int64
		failGet     bool
		remaining   int
		sellingFast bool
	}{
		{name: "low remaining stock", product: 1, remaining: 8, sellingFast: true},
		{name: "plenty left", product: 2, remaining: 40},
		{name: "read back fails", product: 2, failGet: true, remaining: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := orderFake()
			if tt.failGet {
				f.errs["GetProduct"] = errBoom
			}
			d := loadedDesk(t, f)

			placed, err := d.Create(context.Background(), forms.Order{Category: 1, Product: tt.product, Quantity: 2})
			require.NoError(t, err)
			assert.Equal(t, tt.remaining, placed.Remaining)
			assert.Equal(t, tt.sellingFast, placed.SellingFast)
			assert.Equal(t, inventory.StatusPending, f.lastOrder.Status)
			assert.Equal(t, 2, f.called("ListOrders"))
			assert.False(t, d.Orders().Stale())
		})
	}
}

func TestOrderDeskCreateValidates(t *testing.T) {
	f := orderFake()
	d := loadedDesk(t, f)

	_, err := d.Create(context.Background(), forms.Order{Category: 1, Product: 1})
	assert.ErrorIs(t, err, forms.ErrInvalid)
	assert.EqualError(t, err, "Please fill all fields properly")

	_, err = d.Create(context.Background(), forms.Order{Category: 1, Product: 1, Quantity: -2})
	var ve *forms.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "quantity", ve.Field)
	assert.Equal(t, "Quantity must be greater than 0", ve.Message)

	assert.Zero(t, f.called("CreateOrder"))
}

func TestOrderDeskCreateFailure(t *testing.T) {
	f := orderFake()
	f.errs["CreateOrder"] = errBoom
	d := loadedDesk(t, f)

	_, err := d.Create(context.Background(), forms.Order{Category: 1, Product: 1, Quantity: 1})
	assert.ErrorIs(t, err, errBoom)
	assert.Zero(t, f.called("GetProduct"))
	assert.Equal(t, 1, f.called("ListOrders"))
}

func TestOrderDeskGuards(t *testing.T) {
	tests := []struct {
		name    string
		call    func(d *OrderDesk) error
		wantErr error
		api     string
	}{
		{
			name: "edit shipped order",
			call: func(d *OrderDesk) error {
				_, err := d.Edit(context.Background(), 11, forms.Order{ID: 11, Category: 1, Product: 2, Quantity: 1})
				return err
			},
			wantErr: inventory.ErrOrderLocked,
			api:     "UpdateOrder",
		},
		{
			name: "advance shipped order",
			call: func(d *OrderDesk) error {
				_, err := d.ChangeStatus(context.Background(), 11, inventory.StatusCompleted)
				return err
			},
			wantErr: inventory.ErrOrderLocked,
			api:     "UpdateOrderStatus",
		},
		{
			name: "pending to pending",
			call: func(d *OrderDesk) error {
				_, err := d.ChangeStatus(context.Background(), 10, inventory.StatusPending)
				return err
			},
			wantErr: inventory.ErrInvalidTransition,
			api:     "UpdateOrderStatus",
		},
		{
			name: "unknown status",
			call: func(d *OrderDesk) error {
				_, err := d.ChangeStatus(context.Background(), 10, "Lost")
				return err
			},
			wantErr: inventory.ErrUnknownStatus,
			api:     "UpdateOrderStatus",
		},
		{
			name: "delete shipped order",
			call: func(d *OrderDesk) error {
				return d.Delete(context.Background(), 11, AlwaysConfirm)
			},
			wantErr: inventory.ErrOrderLocked,
			api:     "DeleteOrder",
		},
		{
			name: "delete declined",
			call: func(d *OrderDesk) error {
				return d.Delete(context.Background(), 10, ConfirmFunc(func(string) bool { return false }))
			},
			wantErr: ErrCancelled,
			api:     "DeleteOrder",
		},
		{
			name: "delete without confirmer",
			call: func(d *OrderDesk) error {
				return d.Delete(context.Background(), 10, nil)
			},
			wantErr: ErrCancelled,
			api:     "DeleteOrder",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := orderFake()
			d := loadedDesk(t, f)

			err := tt.call(d)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, f.called(tt.api))
		})
	}
}

func TestOrderDeskChangeStatus(t *testing.T) {
	f := orderFake()
	d := loadedDesk(t, f)

	order, err := d.ChangeStatus(context.Background(), 10, "shipped")
	require.NoError(t, err)
	assert.Equal(t, inventory.StatusShipped, order.Status)
	assert.Equal(t, inventory.StatusShipped, f.lastStatus)
	assert.Zero(t, f.called("GetOrder"))
}

func TestOrderDeskDeletePrompts(t *testing.T) {
	f := orderFake()
	d := loadedDesk(t, f)

	var prompt string
	err := d.Delete(context.Background(), 10, ConfirmFunc(func(p string) bool {
		prompt = p
		return true
	}))
	require.NoError(t, err)
	assert.Equal(t, PromptDeleteOrder, prompt)
	assert.Equal(t, 1, f.called("DeleteOrder"))
	assert.Equal(t, 2, f.called("ListOrders"))
}

func TestOrderDeskLookupFallsBackToBackend(t *testing.T) {
	f := orderFake()
	d := NewOrderDesk(f, WithLogger(quietLogger()))

	_, err := d.Edit(context.Background(), 10, forms.Order{ID: 10, Category: 1, Product: 1, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, 1, f.called("GetOrder"))
	assert.Equal(t, 3, f.lastOrder.Quantity)
}
