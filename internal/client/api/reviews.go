package api

import (
	"context"

	"github.com/dmitrijs2005/gophshop/internal/client/listsync"
	"github.com/dmitrijs2005/gophshop/internal/client/models"
)

// ProductReviews returns a fetcher for the reviews of one product.
func (c *Client) ProductReviews(productID int64) listsync.Fetcher[models.Review] {
	path := "/reviews/product/" + id(productID)
	return func(ctx context.Context, q listsync.Query) (listsync.Result[models.Review], error) {
		return list[models.Review](ctx, c, path, q)
	}
}

func (c *Client) ListMyReviews(ctx context.Context, q listsync.Query) (listsync.Result[models.Review], error) {
	return list[models.Review](ctx, c, "/reviews/my", q)
}

func (c *Client) CreateReview(ctx context.Context, in models.ReviewInput) (models.Review, error) {
	var r models.Review
	if err := c.post(ctx, "/reviews", in, &r); err != nil {
		return models.Review{}, err
	}
	return r, nil
}

func (c *Client) UpdateReview(ctx context.Context, reviewID int64, in models.ReviewInput) (models.Review, error) {
	in.ProductID = 0
	var r models.Review
	if err := c.put(ctx, "/reviews/"+id(reviewID), in, &r); err != nil {
		return models.Review{}, err
	}
	return r, nil
}

func (c *Client) DeleteReview(ctx context.Context, reviewID int64) error {
	return c.delete(ctx, "/reviews/"+id(reviewID))
}
