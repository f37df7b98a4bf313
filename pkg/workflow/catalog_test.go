package workflow

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/marshallshelly/stockroom/internal/sandbox"
	"github.com/marshallshelly/stockroom/pkg/client"
	"github.com/marshallshelly/stockroom/pkg/forms"
	"github.com/marshallshelly/stockroom/pkg/inventory"
	"github.com/marshallshelly/stockroom/pkg/session"
	"github.com/marshallshelly/stockroom/pkg/views"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveProductKeepsCategoryOnEdit(t *testing.T) {
	f := newFake()
	f.products = []inventory.Product{{ID: 5, Name: "Pen", SKU: "A1", Category: 7}}
	d := NewCatalogDesk(f, WithLogger(quietLogger()))

	saved, err := d.SaveProduct(context.Background(), forms.Product{
		ID: 5, Name: " Pen ", SKU: "A1", Quantity: "12", Price: "1.50", Category: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), saved.Category)
	assert.Equal(t, int64(7), f.lastProduct.Category)
	assert.Equal(t, "Pen", f.lastProduct.Name)
	assert.Equal(t, 12, f.lastProduct.Quantity)
	assert.Equal(t, 1, f.called("UpdateProduct"))
	assert.Equal(t, 1, f.called("ListProducts"))
}

func TestSaveProductCreate(t *testing.T) {
	f := newFake()
	d := NewCatalogDesk(f, WithLogger(quietLogger()))

	_, err := d.SaveProduct(context.Background(), forms.Product{Name: "Pen", SKU: "A1", Quantity: "-4", Price: "abc", Category: 3})
	require.NoError(t, err)
	assert.Equal(t, 0, f.lastProduct.Quantity)
	assert.True(t, f.lastProduct.Price.IsZero())
	assert.Equal(t, int64(3), f.lastProduct.Category)
	assert.Zero(t, f.called("GetProduct"))
}

func TestSaveProductValidates(t *testing.T) {
	tests := []struct {
		name  string
		form  forms.Product
		field string
	}{
		{name: "missing sku", form: forms.Product{Name: "Pen", Category: 1}, field: "sku"},
		{name: "missing category", form: forms.Product{Name: "Pen", SKU: "A1"}, field: "category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFake()
			d := NewCatalogDesk(f, WithLogger(quietLogger()))

			_, err := d.SaveProduct(context.Background(), tt.form)
			var ve *forms.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			assert.Zero(t, f.called("CreateProduct"))
		})
	}
}

func TestCatalogDeletesAskFirst(t *testing.T) {
	decline := ConfirmFunc(func(string) bool { return false })

	f := newFake()
	d := NewCatalogDesk(f, WithLogger(quietLogger()))

	assert.ErrorIs(t, d.DeleteProduct(context.Background(), 1, decline), ErrCancelled)
	assert.ErrorIs(t, d.DeleteCategory(context.Background(), 1, decline), ErrCancelled)
	assert.Zero(t, f.called("DeleteProduct"))
	assert.Zero(t, f.called("DeleteCategory"))

	var prompts []string
	record := ConfirmFunc(func(p string) bool {
		prompts = append(prompts, p)
		return true
	})
	require.NoError(t, d.DeleteProduct(context.Background(), 1, record))
	require.NoError(t, d.DeleteCategory(context.Background(), 1, record))
	assert.Equal(t, []string{PromptDeleteProduct, PromptDeleteCategory}, prompts)
}

func TestCreateCategory(t *testing.T) {
	f := newFake()
	d := NewCatalogDesk(f, WithLogger(quietLogger()))

	_, err := d.CreateCategory(context.Background(), forms.Category{Name: "  "})
	assert.ErrorIs(t, err, forms.ErrInvalid)
	assert.Zero(t, f.called("CreateCategory"))

	cat, err := d.CreateCategory(context.Background(), forms.Category{Name: " Tools "})
	require.NoError(t, err)
	assert.Equal(t, "Tools", cat.Name)
	assert.Equal(t, 1, f.called("ListCategories"))
}

func TestInventory(t *testing.T) {
	f := newFake()
	f.products = []inventory.Product{
		{ID: 1, Name: "Pen", Quantity: 50, CategoryName: "Stationery"},
		{ID: 2, Name: "Cable", Quantity: 0, CategoryName: "Electronics"},
		{ID: 3, Name: "Pad", Quantity: 5, CategoryName: "Stationery"},
	}
	d := NewCatalogDesk(f, WithLogger(quietLogger()))

	rows, names, err := d.Inventory(context.Background(), views.AllCategories)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.Equal(t, []string{"Stationery", "Electronics"}, names)

	rows, _, err = d.Inventory(context.Background(), "Stationery")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, inventory.InStock, rows[0].Status)
	assert.Equal(t, inventory.LowStock, rows[1].Status)
}

func TestWorkflowsAgainstSandbox(t *testing.T) {
	sb := sandbox.New(quietLogger())
	sb.Seed()
	srv := httptest.NewServer(sb.Handler())
	defer srv.Close()

	sess := session.New(nil)
	c, err := client.New(srv.URL+"/api/", sess, client.WithLogger(quietLogger()))
	require.NoError(t, err)

	ctx := context.Background()
	tokens, err := c.Login(ctx, client.Credentials{Username: sandbox.DemoUsername, Password: sandbox.DemoPassword})
	require.NoError(t, err)
	require.NoError(t, sess.Start(tokens))

	catalog := NewCatalogDesk(c, WithLogger(quietLogger()))
	cats, err := catalog.LoadCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	electronics := cats[0]
	require.Equal(t, "Electronics", electronics.Name)

	products, err := catalog.LoadProducts(ctx, inventory.ForCategory(electronics.ID))
	require.NoError(t, err)
	require.Len(t, products, 2)
	headphones := products[1]
	require.Equal(t, "Headphones", headphones.Name)

	desk := NewOrderDesk(c, WithLogger(quietLogger()))
	placed, err := desk.Create(ctx, forms.Order{Category: electronics.ID, Product: headphones.ID, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, 5, placed.Remaining)
	assert.True(t, placed.SellingFast)

	_, err = desk.Create(ctx, forms.Order{Category: electronics.ID, Product: headphones.ID, Quantity: 50})
	assert.Error(t, err)

	_, err = desk.ChangeStatus(ctx, placed.Order.ID, inventory.StatusShipped)
	require.NoError(t, err)
	err = desk.Delete(ctx, placed.Order.ID, AlwaysConfirm)
	assert.ErrorIs(t, err, inventory.ErrOrderLocked)

	dash := NewDashboard(c, WithLogger(quietLogger()))
	rows, err := dash.CategorySummary(ctx, electronics.ID)
	require.NoError(t, err)
	assert.Equal(t, []views.SummaryRow{
		{ProductID: products[0].ID, Name: "USB Cable", Orders: 20},
		{ProductID: headphones.ID, Name: "Headphones", Orders: 3},
	}, rows)

	ov, err := dash.Overview(ctx)
	require.NoError(t, err)
	assert.Len(t, ov.Series, 7)
	assert.Equal(t, float64(185), ov.Stats["total_stock"])
}
