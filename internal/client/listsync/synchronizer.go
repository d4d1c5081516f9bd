package listsync

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophshop/internal/client/observe"
	"github.com/dmitrijs2005/gophshop/internal/logging"
)

// Fetcher loads one page for q.
type Fetcher[T any] func(ctx context.Context, q Query) (Result[T], error)

type settings struct {
	name     string
	pageSize int
	filters  map[string]any
	logger   logging.Logger
}

type Option func(*settings)

// WithName labels the synchronizer in log records.
func WithName(name string) Option {
	return func(s *settings) { s.name = name }
}

func WithPageSize(n int) Option {
	return func(s *settings) { s.pageSize = n }
}

// WithFilters sets the filters of the initial query.
func WithFilters(f map[string]any) Option {
	return func(s *settings) { s.filters = f }
}

func WithLogger(l logging.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

type Synchronizer[T any] struct {
	fetch  Fetcher[T]
	logger logging.Logger
	hub    *observe.Hub[State[T]]
	wg     sync.WaitGroup

	mu      sync.Mutex
	ctx     context.Context
	started bool
	query   Query
	result  Result[T]
	err     error
	loading bool
	latest  uint64 // last dispatched epoch
	applied uint64 // epoch of the visible result
	shown   Query  // query the visible result answers
}

// New builds a synchronizer around fetch. Nothing is requested until Start.
// Initial filters that cannot be normalized are reported as an error.
func New[T any](fetch Fetcher[T], opts ...Option) (*Synchronizer[T], error) {
	cfg := settings{name: "list", logger: logging.Nop()}
	for _, o := range opts {
		o(&cfg)
	}

	q := NewQuery(cfg.pageSize)
	if len(cfg.filters) > 0 {
		var err error
		if q, err = q.WithFilters(cfg.filters); err != nil {
			return nil, fmt.Errorf("initial query: %w", err)
		}
	}

	return &Synchronizer[T]{
		fetch:  fetch,
		logger: cfg.logger.With("list", cfg.name),
		hub:    observe.NewHub[State[T]](),
		query:  q,
	}, nil
}

// Start performs the initial fetch. ctx bounds every fetch the synchronizer
// dispatches from now on. Calling Start again has no effect.
//
// Before Start, SetFilters and SetPage only adjust the query that Start will
// load, and Refresh does nothing.
func (s *Synchronizer[T]) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}
	s.started = true
	s.ctx = ctx
	s.dispatchLocked()
}

// SetFilters merges partial into the current filters and returns to page 1.
// It is a no-op when the resulting query equals the current one.
func (s *Synchronizer[T]) SetFilters(partial map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.query.WithFilters(partial)
	if err != nil {
		return err
	}
	s.moveLocked(next)
	return nil
}

// SetPage moves to page n with the filters unchanged. Moving to the current
// page is a no-op.
func (s *Synchronizer[T]) SetPage(n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.query.WithPage(n)
	if err != nil {
		return err
	}
	s.moveLocked(next)
	return nil
}

// NextPage advances one page when the visible result reports a next page.
// While the current query is still unanswered it returns ErrInvalidPage.
func (s *Synchronizer[T]) NextPage() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.pageableLocked(); err != nil {
		return err
	}
	if !s.result.Pagination.HasNext {
		return fmt.Errorf("%w: no page after %d", ErrInvalidPage, s.query.page)
	}
	next, err := s.query.WithPage(s.query.page + 1)
	if err != nil {
		return err
	}
	s.moveLocked(next)
	return nil
}

// PrevPage goes back one page when the visible result reports a previous one.
func (s *Synchronizer[T]) PrevPage() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.pageableLocked(); err != nil {
		return err
	}
	if !s.result.Pagination.HasPrevious {
		return fmt.Errorf("%w: no page before %d", ErrInvalidPage, s.query.page)
	}
	next, err := s.query.WithPage(s.query.page - 1)
	if err != nil {
		return err
	}
	s.moveLocked(next)
	return nil
}

// Refresh fetches the current query again, even if nothing changed.
func (s *Synchronizer[T]) Refresh() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.dispatchLocked()
}

func (s *Synchronizer[T]) State() State[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// Subscribe streams state changes until ctx is done or Close is called.
// The first value is the current state.
func (s *Synchronizer[T]) Subscribe(ctx context.Context) <-chan State[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hub.Subscribe(ctx, s.stateLocked())
}

// Wait blocks until every dispatched fetch has settled.
func (s *Synchronizer[T]) Wait() {
	s.wg.Wait()
}

// Close ends all subscriptions. In-flight fetches still settle.
func (s *Synchronizer[T]) Close() {
	s.hub.Close()
}

func (s *Synchronizer[T]) moveLocked(next Query) {
	if next.Equal(s.query) {
		return
	}
	s.query = next
	if !s.started {
		return
	}
	s.dispatchLocked()
}

func (s *Synchronizer[T]) dispatchLocked() {
	s.latest++
	epoch, q := s.latest, s.query
	s.loading = true
	s.hub.Publish(s.stateLocked())

	s.logger.Debug(s.ctx, "fetch dispatched", "epoch", epoch, "query", q.String())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		res, err := s.fetch(s.ctx, q)
		s.settle(epoch, q, res, err)
	}()
}

func (s *Synchronizer[T]) settle(epoch uint64, q Query, res Result[T], err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if epoch != s.latest {
		s.logger.Debug(s.ctx, "stale response discarded", "epoch", epoch, "latest", s.latest)
		return
	}

	s.loading = false
	if err != nil {
		s.err = err
		s.logger.Warn(s.ctx, "fetch failed", "epoch", epoch, "visible_epoch", s.applied, "error", err)
	} else {
		s.result = res
		s.err = nil
		s.applied = epoch
		s.shown = q
	}
	s.hub.Publish(s.stateLocked())
}

// pageableLocked reports whether the visible pagination belongs to the
// current query, so has_next and has_previous can be trusted for it.
func (s *Synchronizer[T]) pageableLocked() error {
	if s.applied == 0 || !s.shown.Equal(s.query) {
		return fmt.Errorf("%w: page %d is not loaded yet", ErrInvalidPage, s.query.page)
	}
	return nil
}

func (s *Synchronizer[T]) stateLocked() State[T] {
	return State[T]{
		Query:   s.query,
		Result:  s.result,
		Loading: s.loading,
		Err:     s.err,
	}
}
