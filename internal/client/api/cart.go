package api

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophshop/internal/client/listsync"
	"github.com/dmitrijs2005/gophshop/internal/client/models"
)

type cartItemRequest struct {
	ProductID int64 `json:"product_id,omitempty"`
	Quantity  int   `json:"quantity"`
}

func (c *Client) GetCart(ctx context.Context) (models.Cart, error) {
	var cart models.Cart
	if err := c.get(ctx, "/cart", nil, &cart); err != nil {
		return models.Cart{}, err
	}
	return cart, nil
}

func (c *Client) AddToCart(ctx context.Context, productID int64, quantity int) (models.CartItem, error) {
	var item models.CartItem
	if err := c.post(ctx, "/cart/items", cartItemRequest{ProductID: productID, Quantity: quantity}, &item); err != nil {
		return models.CartItem{}, err
	}
	return item, nil
}

func (c *Client) UpdateCartItem(ctx context.Context, itemID int64, quantity int) (models.CartItem, error) {
	var item models.CartItem
	if err := c.put(ctx, "/cart/items/"+id(itemID), cartItemRequest{Quantity: quantity}, &item); err != nil {
		return models.CartItem{}, err
	}
	return item, nil
}

func (c *Client) RemoveFromCart(ctx context.Context, itemID int64) error {
	return c.delete(ctx, "/cart/items/"+id(itemID))
}

func (c *Client) ClearCart(ctx context.Context) error {
	return c.delete(ctx, "/cart")
}

func (c *Client) ListOrders(ctx context.Context, q listsync.Query) (listsync.Result[models.Order], error) {
	return list[models.Order](ctx, c, "/orders", q)
}

func (c *Client) GetOrder(ctx context.Context, orderID int64) (models.Order, error) {
	var o models.Order
	if err := c.get(ctx, "/orders/"+id(orderID), nil, &o); err != nil {
		return models.Order{}, err
	}
	return o, nil
}

func (c *Client) CreateOrder(ctx context.Context, req models.OrderRequest) (models.Order, error) {
	var o models.Order
	if err := c.post(ctx, "/orders", req, &o); err != nil {
		return models.Order{}, err
	}
	return o, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, orderID int64, status models.OrderStatus) (models.Order, error) {
	if !status.Valid() {
		return models.Order{}, fmt.Errorf("unknown order status %q", status)
	}
	var o models.Order
	body := struct {
		Status models.OrderStatus `json:"status"`
	}{status}
	if err := c.put(ctx, "/orders/"+id(orderID), body, &o); err != nil {
		return models.Order{}, err
	}
	return o, nil
}

// Checkout places an order for the cart and then empties the cart. The two
// calls are independent: once the order exists, a failure to clear the cart
// is logged and the order is still returned.
func (c *Client) Checkout(ctx context.Context, req models.OrderRequest) (models.Order, error) {
	order, err := c.CreateOrder(ctx, req)
	if err != nil {
		return models.Order{}, fmt.Errorf("create order: %w", err)
	}
	if err := c.ClearCart(ctx); err != nil {
		c.logger.Warn(ctx, "cart not cleared after checkout", "order_id", order.ID, "error", err)
	}
	return order, nil
}
