package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/marshallshelly/stockroom/pkg/inventory"
	"github.com/shopspring/decimal"
)

const (
	categoriesPath = "categories/"
	productsPath   = "products/"
)

// ProductInput is the writable part of a product.
type ProductInput struct {
	Name        string          `json:"name"`
	SKU         string          `json:"sku"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    int64           `json:"category,omitempty"`
}

// ListCategories fetches every category of the current user.
func (c *Client) ListCategories(ctx context.Context) ([]inventory.Category, error) {
	var out []inventory.Category
	if err := c.Do(ctx, http.MethodGet, categoriesPath, nil, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []inventory.Category{}
	}
	return out, nil
}

// CreateCategory creates a category named name.
func (c *Client) CreateCategory(ctx context.Context, name string) (inventory.Category, error) {
	var out inventory.Category
	err := c.Do(ctx, http.MethodPost, categoriesPath, nil, map[string]string{"name": name}, &out)
	return out, err
}

// DeleteCategory deletes the category with the given id.
func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	return c.Do(ctx, http.MethodDelete, idPath(categoriesPath, id), nil, nil, nil)
}

// ListProducts fetches products, narrowed by filter.
func (c *Client) ListProducts(ctx context.Context, filter inventory.Filter) ([]inventory.Product, error) {
	var out []inventory.Product
	if err := c.Do(ctx, http.MethodGet, productsPath, filterQuery(filter), nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []inventory.Product{}
	}
	return out, nil
}

// GetProduct fetches one product.
func (c *Client) GetProduct(ctx context.Context, id int64) (inventory.Product, error) {
	var out inventory.Product
	err := c.Do(ctx, http.MethodGet, idPath(productsPath, id), nil, nil, &out)
	return out, err
}

// CreateProduct creates a product.
func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (inventory.Product, error) {
	var out inventory.Product
	err := c.Do(ctx, http.MethodPost, productsPath, nil, in, &out)
	return out, err
}

// UpdateProduct replaces the writable fields of a product.
func (c *Client) UpdateProduct(ctx context.Context, id int64, in ProductInput) (inventory.Product, error) {
	var out inventory.Product
	err := c.Do(ctx, http.MethodPut, idPath(productsPath, id), nil, in, &out)
	return out, err
}

// DeleteProduct deletes a product.
func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.Do(ctx, http.MethodDelete, idPath(productsPath, id), nil, nil, nil)
}

func filterQuery(f inventory.Filter) url.Values {
	if f.All() {
		return nil
	}
	return url.Values{"category": {f.Query()}}
}
