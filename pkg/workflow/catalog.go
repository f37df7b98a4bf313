package workflow

import (
	"context"
	"fmt"

	"github.com/marshallshelly/stockroom/pkg/forms"
	"github.com/marshallshelly/stockroom/pkg/inventory"
	"github.com/marshallshelly/stockroom/pkg/store"
	"github.com/marshallshelly/stockroom/pkg/views"
)

// CatalogDesk runs the category, product and inventory screens.
type CatalogDesk struct {
	api API
	settings
	categories *store.Store[inventory.Category]
	products   *store.Store[inventory.Product]
}

// NewCatalogDesk creates a catalog desk backed by api.
func NewCatalogDesk(api API, opts ...Option) *CatalogDesk {
	s := newSettings(opts)
	listCategories := func(ctx context.Context, _ inventory.Filter) ([]inventory.Category, error) {
		return api.ListCategories(ctx)
	}
	return &CatalogDesk{
		api:        api,
		settings:   s,
		categories: store.New("categories", listCategories, s.logger),
		products:   store.New("products", api.ListProducts, s.logger),
	}
}

// Categories returns the category store.
func (d *CatalogDesk) Categories() *store.Store[inventory.Category] {
	return d.categories
}

// Products returns the product store.
func (d *CatalogDesk) Products() *store.Store[inventory.Product] {
	return d.products
}

// LoadCategories fetches every category.
func (d *CatalogDesk) LoadCategories(ctx context.Context) ([]inventory.Category, error) {
	return d.categories.Load(ctx, inventory.Filter{})
}

// LoadProducts fetches the products for filter.
func (d *CatalogDesk) LoadProducts(ctx context.Context, filter inventory.Filter) ([]inventory.Product, error) {
	return d.products.Load(ctx, filter)
}

// Inventory returns every product labelled with its stock status, narrowed
// to categoryName when it is set, plus the category names to choose from.
func (d *CatalogDesk) Inventory(ctx context.Context, categoryName string) ([]views.InventoryRow, []string, error) {
	products, err := d.products.Load(ctx, inventory.Filter{})
	if err != nil {
		return []views.InventoryRow{}, []string{}, err
	}
	names := views.CategoryNames(products)
	rows := views.InventoryRows(views.FilterByCategoryName(products, categoryName), d.thresholds)
	return rows, names, nil
}

// CreateCategory validates form and creates the category.
func (d *CatalogDesk) CreateCategory(ctx context.Context, form forms.Category) (inventory.Category, error) {
	if err := form.Validate(); err != nil {
		return inventory.Category{}, err
	}
	cat, err := d.api.CreateCategory(ctx, form.Value())
	if err != nil {
		return inventory.Category{}, fmt.Errorf("failed to create category: %w", err)
	}
	refetch(ctx, d.categories, d.logger)
	return cat, nil
}

// DeleteCategory deletes a category once c approves.
func (d *CatalogDesk) DeleteCategory(ctx context.Context, id int64, c Confirmer) error {
	if err := confirm(c, PromptDeleteCategory); err != nil {
		return err
	}
	if err := d.api.DeleteCategory(ctx, id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	refetch(ctx, d.categories, d.logger)
	return nil
}

// SaveProduct creates or updates a product. On update the category of the
// stored product is kept whatever the form says.
func (d *CatalogDesk) SaveProduct(ctx context.Context, form forms.Product) (inventory.Product, error) {
	if err := form.Validate(); err != nil {
		return inventory.Product{}, err
	}
	in := form.Input()

	var (
		saved inventory.Product
		err   error
	)
	if form.Editing() {
		current, lerr := d.api.GetProduct(ctx, form.ID)
		if lerr != nil {
			return inventory.Product{}, fmt.Errorf("failed to load product %d: %w", form.ID, lerr)
		}
		in.Category = current.Category
		saved, err = d.api.UpdateProduct(ctx, form.ID, in)
	} else {
		saved, err = d.api.CreateProduct(ctx, in)
	}
	if err != nil {
		return inventory.Product{}, fmt.Errorf("failed to save product: %w", err)
	}

	refetch(ctx, d.products, d.logger)
	return saved, nil
}

// DeleteProduct deletes a product once c approves.
func (d *CatalogDesk) DeleteProduct(ctx context.Context, id int64, c Confirmer) error {
	if err := confirm(c, PromptDeleteProduct); err != nil {
		return err
	}
	if err := d.api.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	refetch(ctx, d.products, d.logger)
	return nil
}
