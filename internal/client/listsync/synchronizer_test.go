package listsync

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type response struct {
	res Result[string]
	err error
}

type call struct {
	q    Query
	resp chan response
}

// fakeFetcher parks every fetch until the test answers it, so tests choose
// the order in which responses arrive.
type fakeFetcher struct {
	calls chan *call
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{calls: make(chan *call, 64)}
}

func (f *fakeFetcher) fetch(ctx context.Context, q Query) (Result[string], error) {
	c := &call{q: q, resp: make(chan response, 1)}
	f.calls <- c
	select {
	case r := <-c.resp:
		return r.res, r.err
	case <-ctx.Done():
		return Result[string]{}, ctx.Err()
	}
}

func (f *fakeFetcher) next(t *testing.T) *call {
	t.Helper()
	select {
	case c := <-f.calls:
		return c
	case <-time.After(time.Second):
		t.Fatal("expected a fetch")
		return nil
	}
}

func (f *fakeFetcher) assertIdle(t *testing.T) {
	t.Helper()
	select {
	case c := <-f.calls:
		t.Fatalf("unexpected fetch for %s", c.q)
	default:
	}
}

// echo answers with a single item naming the query it was issued for.
func (c *call) echo() {
	c.resp <- response{res: Result[string]{
		Items:      []string{c.q.String()},
		Pagination: Pagination{Page: c.q.Page(), PageSize: c.q.PageSize(), HasNext: true, HasPrevious: c.q.Page() > 1},
	}}
}

func (c *call) fail(err error) {
	c.resp <- response{err: err}
}

func newTestSync(t *testing.T, opts ...Option) (*Synchronizer[string], *fakeFetcher) {
	t.Helper()
	f := newFakeFetcher()
	s, err := New(f.fetch, append([]Option{WithPageSize(10)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s, f
}

func TestStart_FetchesInitialQuery(t *testing.T) {
	s, f := newTestSync(t, WithFilters(map[string]any{"in_stock": true}))
	s.Start(context.Background())

	c := f.next(t)
	assert.Equal(t, 1, c.q.Page())
	v, _ := c.q.Filter("in_stock")
	assert.Equal(t, true, v)
	assert.True(t, s.State().Loading)

	c.echo()
	s.Wait()

	st := s.State()
	assert.False(t, st.Loading)
	require.NoError(t, st.Err)
	assert.Equal(t, []string{c.q.String()}, st.Result.Items)
}

func TestStart_Twice_SingleFetch(t *testing.T) {
	s, f := newTestSync(t)
	s.Start(context.Background())
	s.Start(context.Background())

	f.next(t).echo()
	s.Wait()
	f.assertIdle(t)
}

func TestTriggersBeforeStart_OnlyShapeQuery(t *testing.T) {
	s, f := newTestSync(t)

	require.NoError(t, s.SetFilters(map[string]any{"category_id": 2}))
	require.NoError(t, s.SetPage(3))
	s.Refresh()
	f.assertIdle(t)

	s.Start(context.Background())
	c := f.next(t)
	assert.Equal(t, 3, c.q.Page())
	c.echo()
	s.Wait()
	f.assertIdle(t)
}

func TestSetPage_CurrentPage_NoRequest(t *testing.T) {
	s, f := newTestSync(t)
	s.Start(context.Background())
	f.next(t).echo()
	s.Wait()

	require.NoError(t, s.SetPage(1))
	f.assertIdle(t)

	require.NoError(t, s.SetFilters(map[string]any{"search": ""}))
	f.assertIdle(t)
}

func TestSetPage_Invalid(t *testing.T) {
	s, f := newTestSync(t)
	s.Start(context.Background())
	f.next(t).echo()
	s.Wait()

	require.ErrorIs(t, s.SetPage(0), ErrInvalidPage)
	require.ErrorIs(t, s.SetPage(-4), ErrInvalidPage)
	f.assertIdle(t)
	assert.Equal(t, 1, s.State().Query.Page())
}

func TestSetFilters_ResetsPage(t *testing.T) {
	s, f := newTestSync(t)
	s.Start(context.Background())
	f.next(t).echo()

	require.NoError(t, s.SetPage(3))
	f.next(t).echo()
	s.Wait()
	require.Equal(t, 3, s.State().Query.Page())

	require.NoError(t, s.SetFilters(map[string]any{"search": "desk"}))
	c := f.next(t)
	assert.Equal(t, 1, c.q.Page())
	v, _ := c.q.Filter("search")
	assert.Equal(t, "desk", v)
	c.echo()
	s.Wait()
}

func TestOutOfOrderResponses_LatestWins(t *testing.T) {
	s, f := newTestSync(t)
	s.Start(context.Background())
	f.next(t).echo()
	s.Wait()

	require.NoError(t, s.SetFilters(map[string]any{"category_id": 5}))
	first := f.next(t)
	require.NoError(t, s.SetPage(2))
	second := f.next(t)

	second.echo()
	first.echo()
	s.Wait()

	st := s.State()
	assert.Equal(t, 2, st.Query.Page())
	v, _ := st.Query.Filter("category_id")
	assert.Equal(t, int64(5), v)
	assert.Equal(t, []string{second.q.String()}, st.Result.Items)
	assert.False(t, st.Loading)
}

func TestStaleFailure_Ignored(t *testing.T) {
	s, f := newTestSync(t)
	s.Start(context.Background())
	stale := f.next(t)

	require.NoError(t, s.SetPage(2))
	fresh := f.next(t)

	fresh.echo()
	stale.fail(errors.New("boom"))
	s.Wait()

	st := s.State()
	require.NoError(t, st.Err)
	assert.Equal(t, []string{fresh.q.String()}, st.Result.Items)
}

func TestFailure_KeepsResultAndRefreshRetries(t *testing.T) {
	s, f := newTestSync(t)
	s.Start(context.Background())
	ok := f.next(t)
	ok.echo()
	s.Wait()

	s.Refresh()
	netErr := errors.New("connection refused")
	f.next(t).fail(netErr)
	s.Wait()

	st := s.State()
	require.ErrorIs(t, st.Err, netErr)
	assert.Equal(t, []string{ok.q.String()}, st.Result.Items)
	assert.False(t, st.Loading)

	s.Refresh()
	retry := f.next(t)
	assert.True(t, retry.q.Equal(ok.q))
	retry.echo()
	s.Wait()
	assert.NoError(t, s.State().Err)
}

func TestNextPrevPage(t *testing.T) {
	s, f := newTestSync(t)

	require.ErrorIs(t, s.NextPage(), ErrInvalidPage)

	s.Start(context.Background())
	f.next(t).echo()
	s.Wait()

	require.ErrorIs(t, s.PrevPage(), ErrInvalidPage)
	require.NoError(t, s.NextPage())
	c := f.next(t)
	assert.Equal(t, 2, c.q.Page())
	c.echo()
	s.Wait()

	require.NoError(t, s.PrevPage())
	c = f.next(t)
	assert.Equal(t, 1, c.q.Page())
	c.echo()
	s.Wait()
}

func TestNextPage_RefusedUntilFilteredQueryAnswers(t *testing.T) {
	s, f := newTestSync(t)
	s.Start(context.Background())
	f.next(t).echo()
	s.Wait()

	require.NoError(t, s.SetFilters(map[string]any{"category_id": 5}))
	pending := f.next(t)

	require.ErrorIs(t, s.NextPage(), ErrInvalidPage)
	require.ErrorIs(t, s.PrevPage(), ErrInvalidPage)
	f.assertIdle(t)

	pending.echo()
	s.Wait()

	require.NoError(t, s.NextPage())
	c := f.next(t)
	assert.Equal(t, 2, c.q.Page())
	v, _ := c.q.Filter("category_id")
	assert.Equal(t, int64(5), v)
	c.echo()
	s.Wait()
}

func TestNextPage_AllowedAfterFailedRefresh(t *testing.T) {
	s, f := newTestSync(t)
	s.Start(context.Background())
	f.next(t).echo()
	s.Wait()

	s.Refresh()
	f.next(t).fail(errors.New("offline"))
	s.Wait()

	require.NoError(t, s.NextPage(), "the visible page still answers the current query")
	f.next(t).echo()
	s.Wait()
}

func TestSubscribe_SeesLoadingThenResult(t *testing.T) {
	s, f := newTestSync(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates := s.Subscribe(ctx)
	initial := <-updates
	assert.False(t, initial.Loading)

	s.Start(ctx)
	c := f.next(t)

	loading := <-updates
	assert.True(t, loading.Loading)

	c.echo()
	s.Wait()

	done := <-updates
	assert.False(t, done.Loading)
	assert.Equal(t, []string{c.q.String()}, done.Result.Items)
}

func TestRandomTriggerOrder_LastQueryAlwaysVisible(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for round := 0; round < 50; round++ {
		s, f := newTestSync(t)
		s.Start(context.Background())
		calls := []*call{f.next(t)}

		for i := 0; i < 1+rng.Intn(6); i++ {
			before := s.State().Query
			if rng.Intn(2) == 0 {
				require.NoError(t, s.SetPage(1+rng.Intn(4)))
			} else {
				require.NoError(t, s.SetFilters(map[string]any{"category_id": rng.Intn(3)}))
			}
			if !s.State().Query.Equal(before) {
				calls = append(calls, f.next(t))
			}
		}
		f.assertIdle(t)

		rng.Shuffle(len(calls), func(i, j int) { calls[i], calls[j] = calls[j], calls[i] })
		for _, c := range calls {
			c.echo()
		}
		s.Wait()

		st := s.State()
		require.Equal(t, []string{st.Query.String()}, st.Result.Items, "round %d", round)
		require.False(t, st.Loading)
	}
}
