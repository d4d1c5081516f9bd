package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/gophshop/internal/client/models"
)

var errEmptyCart = errors.New("your cart is empty")

func (a *App) Cart(ctx context.Context, _ []string) error {
	cart, err := a.api.GetCart(ctx)
	if err != nil {
		return err
	}

	a.printer.Header("Cart")
	if len(cart.Items) == 0 {
		a.printer.Print("Your cart is empty.")
		return nil
	}
	rows := make([][]string, 0, len(cart.Items))
	for _, it := range cart.Items {
		rows = append(rows, []string{
			formatID(it.ID), it.Product.Name, strconv.Itoa(it.Quantity), it.Product.Price.String(),
		})
	}
	a.printer.Table([]string{"item", "product", "qty", "price"}, rows)
	a.printer.Print("Total: %s", cart.Total)
	return nil
}

// Add puts a product into the cart, one unit unless a quantity is given.
func (a *App) Add(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errUsage
	}
	productID, err := parseID(args[0])
	if err != nil {
		return err
	}
	qty := 1
	if len(args) == 2 {
		if qty, err = strconv.Atoi(args[1]); err != nil || qty < 1 {
			return errUsage
		}
	}

	item, err := a.api.AddToCart(ctx, productID, qty)
	if err != nil {
		return err
	}
	name := item.Product.Name
	if name == "" {
		name = "product " + formatID(productID)
	}
	a.printer.Success("Added %d x %s to the cart.", qty, name)
	return nil
}

func (a *App) Remove(ctx context.Context, args []string) error {
	itemID, err := oneID(args)
	if err != nil {
		return err
	}
	if err := a.api.RemoveFromCart(ctx, itemID); err != nil {
		return err
	}
	a.printer.Success("Removed item %d from the cart.", itemID)
	return nil
}

// Checkout places an order for the whole cart. The shipping address
// defaults to the one on the account.
func (a *App) Checkout(ctx context.Context, _ []string) error {
	cart, err := a.api.GetCart(ctx)
	if err != nil {
		return err
	}
	if len(cart.Items) == 0 {
		return errEmptyCart
	}

	req := models.OrderRequest{}
	if req.ShippingAddress, err = getSimpleText(a.reader, "Shipping address (empty for your account address)", a.out); err != nil {
		return err
	}
	if req.ShippingAddress == "" {
		if id := a.session.Snapshot().Identity; id != nil {
			req.ShippingAddress = id.Address
		}
	}
	if req.ShippingAddress == "" {
		return fmt.Errorf("shipping address: %w", errRequired)
	}
	if req.PaymentMethod, err = getSimpleText(a.reader, "Payment method (optional)", a.out); err != nil {
		return err
	}

	order, err := a.api.Checkout(ctx, req)
	if err != nil {
		return err
	}
	a.printer.Success("Order #%d placed. Total: %s", order.ID, order.TotalAmount)

	if a.orders != nil {
		a.orders.refresh()
	}
	return nil
}

// Orders lists the caller's orders; administrators see every order.
func (a *App) Orders(_ context.Context, _ []string) error {
	if a.orders == nil {
		v, err := newView(a, "Orders", a.api.ListOrders,
			[]string{"id", "status", "total", "items", "placed"}, orderRow)
		if err != nil {
			return err
		}
		a.orders = v
		v.sync.Start(a.ctx)
	}
	a.current = a.orders
	return a.orders.show(a.printer)
}

func orderRow(o models.Order) []string {
	return []string{
		formatID(o.ID), string(o.Status), o.TotalAmount.String(), strconv.Itoa(len(o.Items)), formatDate(o.CreatedAt),
	}
}

// Review rates a product from 1 to 5 with an optional comment.
func (a *App) Review(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errUsage
	}
	productID, err := parseID(args[0])
	if err != nil {
		return err
	}
	rating, err := strconv.Atoi(args[1])
	if err != nil || rating < 1 || rating > 5 {
		return errors.New("rating must be a whole number from 1 to 5")
	}

	in := models.ReviewInput{ProductID: productID, Rating: rating}
	if comment := strings.Join(args[2:], " "); comment != "" {
		in.Comment = &comment
	}
	if _, err := a.api.CreateReview(ctx, in); err != nil {
		return err
	}
	a.printer.Success("Thanks for your review.")

	if a.reviews != nil && a.reviewsFor == productID {
		a.reviews.refresh()
	}
	return nil
}
