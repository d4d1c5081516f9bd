package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/gophshop/internal/client/api"
	"github.com/dmitrijs2005/gophshop/internal/client/listsync"
	"github.com/dmitrijs2005/gophshop/internal/client/models"
)

// categoryPageSize is enough to hold the whole category list in one page.
const categoryPageSize = 100

var productFilters = []string{
	api.FilterSearch,
	api.FilterCategoryID,
	api.FilterMinPrice,
	api.FilterMaxPrice,
	api.FilterInStock,
	api.FilterIncludeInactive,
}

// Products opens the catalog. The first call loads the categories and the
// first page of products concurrently.
func (a *App) Products(ctx context.Context, _ []string) error {
	if err := a.openProducts(ctx); err != nil {
		return err
	}
	a.current = a.products
	return a.products.show(a.printer)
}

func (a *App) openProducts(ctx context.Context) error {
	if a.products != nil {
		return nil
	}

	v, err := newView(a, "Products", a.api.ListProducts,
		[]string{"id", "name", "price", "stock", "category"}, a.productRow)
	if err != nil {
		return err
	}

	var categories []models.Category
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := a.api.ListCategories(gctx, listsync.NewQuery(categoryPageSize))
		if err != nil {
			return fmt.Errorf("load categories: %w", err)
		}
		categories = res.Items
		return nil
	})
	g.Go(func() error {
		return v.load(a.ctx)
	})
	if err := g.Wait(); err != nil {
		v.close()
		return err
	}

	a.categories = categories
	a.products = v
	return nil
}

func (a *App) productRow(p models.Product) []string {
	stock := strconv.Itoa(p.Stock)
	if p.Stock == 0 {
		stock = "out of stock"
	}
	if !p.IsActive {
		stock += " (inactive)"
	}
	return []string{formatID(p.ID), p.Name, p.Price.String(), stock, a.categoryName(p)}
}

func (a *App) categoryName(p models.Product) string {
	if p.Category != nil && p.Category.Name != "" {
		return p.Category.Name
	}
	if p.CategoryID == nil {
		return ""
	}
	for _, c := range a.categories {
		if c.ID == *p.CategoryID {
			return c.Name
		}
	}
	return "#" + formatID(*p.CategoryID)
}

// Filter narrows the product list and shows its first page.
func (a *App) Filter(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	var filters map[string]any
	if len(args) == 1 && args[0] == "clear" {
		filters = make(map[string]any, len(productFilters))
		for _, name := range productFilters {
			filters[name] = nil
		}
	} else {
		var err error
		if filters, err = parseFilters(args); err != nil {
			return err
		}
	}

	if err := a.openProducts(ctx); err != nil {
		return err
	}
	if err := a.products.sync.SetFilters(filters); err != nil {
		return err
	}
	a.current = a.products
	return a.products.show(a.printer)
}

// parseFilters reads name=value pairs. An empty value removes the filter.
// Words without "=" continue the preceding search term.
func parseFilters(args []string) (map[string]any, error) {
	out := make(map[string]any, len(args))
	last := ""
	for _, arg := range args {
		name, raw, ok := strings.Cut(arg, "=")
		if !ok {
			if last != api.FilterSearch {
				return nil, errUsage
			}
			prev, _ := out[last].(string)
			out[last] = strings.TrimSpace(prev + " " + arg)
			continue
		}
		last = name
		if raw == "" {
			out[name] = nil
			continue
		}

		var (
			v   any
			err error
		)
		switch name {
		case api.FilterSearch:
			v = raw
		case api.FilterCategoryID:
			v, err = strconv.ParseInt(raw, 10, 64)
		case api.FilterMinPrice, api.FilterMaxPrice:
			v, err = strconv.ParseFloat(raw, 64)
		case api.FilterInStock, api.FilterIncludeInactive:
			v, err = strconv.ParseBool(raw)
		default:
			return nil, fmt.Errorf("unknown filter %q, known filters: %s", name, strings.Join(productFilters, ", "))
		}
		if err != nil {
			return nil, fmt.Errorf("bad value %q for %s", raw, name)
		}
		out[name] = v
	}
	return out, nil
}

func (a *App) Categories(ctx context.Context, _ []string) error {
	res, err := a.api.ListCategories(ctx, listsync.NewQuery(categoryPageSize))
	if err != nil {
		return err
	}
	a.categories = res.Items

	a.printer.Header("Categories")
	rows := make([][]string, 0, len(res.Items))
	for _, c := range res.Items {
		rows = append(rows, []string{formatID(c.ID), c.Name, c.Description})
	}
	a.printer.Table([]string{"id", "name", "description"}, rows)
	return nil
}

func (a *App) Product(ctx context.Context, args []string) error {
	productID, err := oneID(args)
	if err != nil {
		return err
	}
	p, err := a.api.GetProduct(ctx, productID)
	if err != nil {
		return err
	}

	a.printer.Header(p.Name)
	a.printer.Table([]string{"field", "value"}, [][]string{
		{"id", formatID(p.ID)},
		{"price", p.Price.String()},
		{"stock", strconv.Itoa(p.Stock)},
		{"category", a.categoryName(p)},
		{"active", yesNo(bool(p.IsActive))},
		{"description", p.Description},
	})
	return nil
}

// Reviews opens the review list of one product.
func (a *App) Reviews(ctx context.Context, args []string) error {
	productID, err := oneID(args)
	if err != nil {
		return err
	}

	if a.reviews == nil || a.reviewsFor != productID {
		v, err := newView(a, fmt.Sprintf("Reviews of product %d", productID), a.api.ProductReviews(productID),
			[]string{"rating", "comment", "user", "date"}, reviewRow)
		if err != nil {
			return err
		}
		if a.reviews != nil {
			a.forget(a.reviews)
		}
		a.reviews, a.reviewsFor = v, productID
		v.sync.Start(a.ctx)
	}

	a.current = a.reviews
	return a.reviews.show(a.printer)
}

func reviewRow(r models.Review) []string {
	stars := strings.Repeat("*", r.Rating) + strings.Repeat(".", max(5-r.Rating, 0))
	return []string{stars, r.Comment, formatID(r.UserID), formatDate(r.CreatedAt)}
}
