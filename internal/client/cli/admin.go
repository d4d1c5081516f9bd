package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/gophshop/internal/client/models"
)

func (a *App) Users(_ context.Context, _ []string) error {
	if a.users == nil {
		v, err := newView(a, "Users", a.api.ListUsers,
			[]string{"id", "name", "email", "admin", "active"}, userRow)
		if err != nil {
			return err
		}
		a.users = v
		v.sync.Start(a.ctx)
	}
	a.current = a.users
	return a.users.show(a.printer)
}

func userRow(u models.User) []string {
	return []string{formatID(u.ID), u.Name, u.Email, yesNo(bool(u.IsAdmin)), yesNo(bool(u.IsActive))}
}

func (a *App) SetOrderStatus(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	orderID, err := parseID(args[0])
	if err != nil {
		return err
	}

	order, err := a.api.UpdateOrderStatus(ctx, orderID, models.OrderStatus(args[1]))
	if err != nil {
		return err
	}
	a.printer.Success("Order #%d is now %s.", order.ID, order.Status)

	if a.orders != nil {
		a.orders.refresh()
	}
	return nil
}

func (a *App) NewCategory(ctx context.Context, _ []string) error {
	name, err := getSimpleText(a.reader, "Category name", a.out)
	if err != nil {
		return err
	}
	if name == "" {
		return errRequired
	}
	desc, err := getSimpleText(a.reader, "Description (optional)", a.out)
	if err != nil {
		return err
	}

	in := models.CategoryInput{Name: &name}
	if desc != "" {
		in.Description = &desc
	}
	c, err := a.api.CreateCategory(ctx, in)
	if err != nil {
		return err
	}
	a.categories = append(a.categories, c)
	a.printer.Success("Category %q created with id %d.", c.Name, c.ID)
	return nil
}

func (a *App) NewProduct(ctx context.Context, _ []string) error {
	var in models.ProductInput

	name, err := getSimpleText(a.reader, "Product name", a.out)
	if err != nil {
		return err
	}
	if name == "" {
		return errRequired
	}
	in.Name = &name

	desc, err := getSimpleText(a.reader, "Description (optional)", a.out)
	if err != nil {
		return err
	}
	if desc != "" {
		in.Description = &desc
	}

	raw, err := getSimpleText(a.reader, "Price", a.out)
	if err != nil {
		return err
	}
	if p, err := strconv.ParseFloat(raw, 64); err != nil || p <= 0 {
		return fmt.Errorf("price must be a positive number, got %q", raw)
	}
	price := models.Money(raw)
	in.Price = &price

	raw, err = getSimpleText(a.reader, "Stock", a.out)
	if err != nil {
		return err
	}
	stock, err := strconv.Atoi(raw)
	if err != nil || stock < 0 {
		return fmt.Errorf("stock must be a whole number, got %q", raw)
	}
	in.Stock = &stock

	raw, err = getSimpleText(a.reader, "Category id (optional)", a.out)
	if err != nil {
		return err
	}
	if raw != "" {
		categoryID, err := parseID(raw)
		if err != nil {
			return fmt.Errorf("category id must be a positive number, got %q", raw)
		}
		in.CategoryID = &categoryID
	}

	p, err := a.api.CreateProduct(ctx, in)
	if err != nil {
		return err
	}
	a.printer.Success("Product %q created with id %d.", p.Name, p.ID)

	if a.products != nil {
		a.products.refresh()
	}
	return nil
}

func (a *App) DeleteProduct(ctx context.Context, args []string) error {
	productID, err := oneID(args)
	if err != nil {
		return err
	}
	if err := a.api.DeleteProduct(ctx, productID); err != nil {
		return err
	}
	a.printer.Success("Product %d deleted.", productID)

	if a.products != nil {
		a.products.refresh()
	}
	return nil
}
