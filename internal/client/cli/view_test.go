package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophshop/internal/client/config"
	"github.com/dmitrijs2005/gophshop/internal/client/listsync"
	"github.com/dmitrijs2005/gophshop/internal/logging"
)

func TestView_FailedRefreshKeepsItemsOnScreen(t *testing.T) {
	errOffline := errors.New("offline")
	fail := false
	fetch := func(_ context.Context, q listsync.Query) (listsync.Result[string], error) {
		if fail {
			return listsync.Result[string]{}, errOffline
		}
		return listsync.Result[string]{
			Items:      []string{"Desk Lamp", "Floor Lamp"},
			Pagination: listsync.Pagination{Total: 2, Page: 1, PageSize: q.PageSize(), TotalPages: 1},
		}, nil
	}

	a := &App{config: &config.Config{PageSize: 2}, logger: logging.Nop()}
	v, err := newView(a, "Products", fetch, []string{"name"}, func(s string) []string { return []string{s} })
	require.NoError(t, err)
	t.Cleanup(v.close)

	require.NoError(t, v.load(context.Background()))

	fail = true
	v.refresh()

	var out bytes.Buffer
	err = v.show(NewPrinter(&out, &out, false))
	require.ErrorIs(t, err, errOffline)
	assert.Contains(t, out.String(), "Desk Lamp")
	assert.Contains(t, out.String(), "Page 1 of 1, 2 total")
}

func TestView_FirstLoadFailurePrintsNothing(t *testing.T) {
	errOffline := errors.New("offline")
	fetch := func(context.Context, listsync.Query) (listsync.Result[string], error) {
		return listsync.Result[string]{}, errOffline
	}

	a := &App{config: &config.Config{PageSize: 2}, logger: logging.Nop()}
	v, err := newView(a, "Products", fetch, []string{"name"}, func(s string) []string { return []string{s} })
	require.NoError(t, err)
	t.Cleanup(v.close)

	require.ErrorIs(t, v.load(context.Background()), errOffline)

	var out bytes.Buffer
	require.ErrorIs(t, v.show(NewPrinter(&out, &out, false)), errOffline)
	assert.Empty(t, out.String())
}
