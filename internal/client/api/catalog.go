package api

import (
	"context"

	"github.com/dmitrijs2005/gophshop/internal/client/listsync"
	"github.com/dmitrijs2005/gophshop/internal/client/models"
)

// Product list filters understood by the server.
const (
	FilterSearch          = "search"
	FilterCategoryID      = "category_id"
	FilterMinPrice        = "min_price"
	FilterMaxPrice        = "max_price"
	FilterInStock         = "in_stock"
	FilterIncludeInactive = "include_inactive"
)

func (c *Client) ListProducts(ctx context.Context, q listsync.Query) (listsync.Result[models.Product], error) {
	return list[models.Product](ctx, c, "/products/", q)
}

func (c *Client) GetProduct(ctx context.Context, productID int64) (models.Product, error) {
	var p models.Product
	if err := c.get(ctx, "/products/"+id(productID), nil, &p); err != nil {
		return models.Product{}, err
	}
	return p, nil
}

func (c *Client) CreateProduct(ctx context.Context, in models.ProductInput) (models.Product, error) {
	var p models.Product
	if err := c.post(ctx, "/products/", in, &p); err != nil {
		return models.Product{}, err
	}
	return p, nil
}

func (c *Client) UpdateProduct(ctx context.Context, productID int64, in models.ProductInput) (models.Product, error) {
	var p models.Product
	if err := c.put(ctx, "/products/"+id(productID), in, &p); err != nil {
		return models.Product{}, err
	}
	return p, nil
}

// DeleteProduct fails with a 409 (transport.ErrValidation) when the product
// is referenced by orders.
func (c *Client) DeleteProduct(ctx context.Context, productID int64) error {
	return c.delete(ctx, "/products/"+id(productID))
}

func (c *Client) ListCategories(ctx context.Context, q listsync.Query) (listsync.Result[models.Category], error) {
	return list[models.Category](ctx, c, "/categories/", q)
}

func (c *Client) CreateCategory(ctx context.Context, in models.CategoryInput) (models.Category, error) {
	var cat models.Category
	if err := c.post(ctx, "/categories/", in, &cat); err != nil {
		return models.Category{}, err
	}
	return cat, nil
}

func (c *Client) UpdateCategory(ctx context.Context, categoryID int64, in models.CategoryInput) (models.Category, error) {
	var cat models.Category
	if err := c.put(ctx, "/categories/"+id(categoryID), in, &cat); err != nil {
		return models.Category{}, err
	}
	return cat, nil
}

func (c *Client) DeleteCategory(ctx context.Context, categoryID int64) error {
	return c.delete(ctx, "/categories/"+id(categoryID))
}
