package cli

import (
	"context"
	"errors"
	"strconv"

	"github.com/dmitrijs2005/gophshop/internal/client/listsync"
)

var errNoList = errors.New("no list is open, try 'products' first")

// pager is the part of a list view the paging commands act on.
type pager interface {
	setPage(n int) error
	next() error
	prev() error
	refresh()
	show(p *Printer) error
	close()
}

// view renders one synchronized list as a table.
type view[T any] struct {
	title   string
	sync    *listsync.Synchronizer[T]
	headers []string
	row     func(T) []string
}

func newView[T any](a *App, title string, fetch listsync.Fetcher[T], headers []string, row func(T) []string) (*view[T], error) {
	s, err := listsync.New(fetch,
		listsync.WithName(title),
		listsync.WithPageSize(a.config.PageSize),
		listsync.WithLogger(a.logger.With("list", title)),
	)
	if err != nil {
		return nil, err
	}
	return &view[T]{title: title, sync: s, headers: headers, row: row}, nil
}

// load starts the list and waits for the first page.
func (v *view[T]) load(ctx context.Context) error {
	v.sync.Start(ctx)
	v.sync.Wait()
	return v.sync.State().Err
}

func (v *view[T]) setPage(n int) error { return v.sync.SetPage(n) }
func (v *view[T]) next() error         { return v.sync.NextPage() }
func (v *view[T]) prev() error         { return v.sync.PrevPage() }
func (v *view[T]) refresh()            { v.sync.Refresh() }
func (v *view[T]) close()              { v.sync.Close() }

// show waits for outstanding fetches and prints the visible page. When the
// latest fetch failed, the page loaded before it is still printed and the
// failure is returned.
func (v *view[T]) show(p *Printer) error {
	v.sync.Wait()
	st := v.sync.State()
	if st.Err != nil && st.Result.Items == nil {
		return st.Err
	}

	p.Header(v.title)
	if len(st.Result.Items) == 0 {
		p.Print("Nothing to show.")
		return st.Err
	}
	rows := make([][]string, 0, len(st.Result.Items))
	for _, item := range st.Result.Items {
		rows = append(rows, v.row(item))
	}
	p.Table(v.headers, rows)

	pg := st.Result.Pagination
	p.Print("Page %d of %d, %d total", pg.Page, max(pg.TotalPages, 1), pg.Total)
	return st.Err
}

func (a *App) Page(_ context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return errUsage
	}
	if a.current == nil {
		return errNoList
	}
	if err := a.current.setPage(n); err != nil {
		return err
	}
	return a.current.show(a.printer)
}

func (a *App) Next(_ context.Context, _ []string) error {
	if a.current == nil {
		return errNoList
	}
	if err := a.current.next(); err != nil {
		return err
	}
	return a.current.show(a.printer)
}

func (a *App) Prev(_ context.Context, _ []string) error {
	if a.current == nil {
		return errNoList
	}
	if err := a.current.prev(); err != nil {
		return err
	}
	return a.current.show(a.printer)
}

func (a *App) Refresh(_ context.Context, _ []string) error {
	if a.current == nil {
		return errNoList
	}
	a.current.refresh()
	return a.current.show(a.printer)
}
