package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/gophshop/internal/client/models"
	"github.com/dmitrijs2005/gophshop/internal/client/observe"
	"github.com/dmitrijs2005/gophshop/internal/client/transport"
	"github.com/dmitrijs2005/gophshop/internal/logging"
)

// AuthAPI is the part of the remote API the manager needs. Me must use the
// credential carried by transport.WithCredential when one is present.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (string, error)
	Register(ctx context.Context, req models.RegisterRequest) (models.User, error)
	Me(ctx context.Context) (models.Identity, error)
}

// Snapshot is the published view of the session. Identity is set only in
// the Authenticated state.
type Snapshot struct {
	State    State
	Identity *models.Identity
}

func (s Snapshot) Authenticated() bool { return s.State == Authenticated }

func (s Snapshot) IsAdmin() bool {
	return s.State == Authenticated && s.Identity != nil && bool(s.Identity.IsAdmin)
}

type Option func(*Manager)

func WithLogger(l logging.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

type Manager struct {
	api    AuthAPI
	store  Store
	logger logging.Logger
	hub    *observe.Hub[Snapshot]

	busy atomic.Bool

	mu         sync.Mutex
	state      State
	credential string
	identity   *models.Identity
	generation uint64
	hooks      []func()
}

// New returns a manager in the Anonymous state. Call Restore to pick up a
// session saved by a previous run.
func New(api AuthAPI, store Store, opts ...Option) *Manager {
	m := &Manager{
		api:    api,
		store:  store,
		logger: logging.Nop(),
		hub:    observe.NewHub[Snapshot](),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With("component", "session")
	return m
}

// Restore verifies a stored credential against the server. On success the
// session becomes Authenticated with a fresh identity; on any failure the
// stored data is wiped and the session stays Anonymous. Only ErrSessionBusy
// is ever returned.
func (m *Manager) Restore(ctx context.Context) error {
	if !m.busy.CompareAndSwap(false, true) {
		return ErrSessionBusy
	}
	defer m.busy.Store(false)

	rec, ok, err := m.store.Load(ctx)
	if err != nil {
		m.logger.Warn(ctx, "stored session unreadable, discarding", "error", err)
		m.clearStore(ctx)
		return nil
	}
	if !ok {
		return nil
	}

	m.mu.Lock()
	if m.state != Anonymous {
		m.mu.Unlock()
		return nil
	}
	if err := m.transitionLocked(ctx, eventRestore); err != nil {
		m.mu.Unlock()
		return nil
	}
	m.credential = rec.Credential
	m.identity = &rec.Identity
	gen := m.generation
	m.publishLocked()
	m.mu.Unlock()

	id, err := m.api.Me(transport.WithCredential(ctx, rec.Credential))

	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.generation {
		m.logger.Debug(ctx, "restore result discarded, session was cleared meanwhile")
		return nil
	}
	if err != nil {
		m.logger.Info(ctx, "stored credential not accepted", "error", err)
		m.resetLocked(ctx)
		return nil
	}

	if err := m.store.Save(ctx, Record{Credential: rec.Credential, Identity: id}); err != nil {
		m.logger.Warn(ctx, "refreshed identity not persisted", "error", err)
	}
	if err := m.transitionLocked(ctx, eventVerified); err != nil {
		return nil
	}
	m.identity = &id
	m.publishLocked()
	return nil
}

// Login exchanges email and password for a credential, loads the identity
// and persists both. Nothing changes when any step fails.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	if !m.busy.CompareAndSwap(false, true) {
		return ErrSessionBusy
	}
	defer m.busy.Store(false)

	return m.login(ctx, email, password)
}

// Register creates the account and signs in with the same credentials.
// Field rejections surface as transport.ErrValidation; a failed sign-in
// after a successful registration is wrapped in ErrAutoLoginFailed.
func (m *Manager) Register(ctx context.Context, req models.RegisterRequest) error {
	if !m.busy.CompareAndSwap(false, true) {
		return ErrSessionBusy
	}
	defer m.busy.Store(false)

	if _, err := m.api.Register(ctx, req); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	m.logger.Info(ctx, "account registered", "email", req.Email)

	if err := m.login(ctx, req.Email, req.Password); err != nil {
		return fmt.Errorf("%w: %w", ErrAutoLoginFailed, err)
	}
	return nil
}

func (m *Manager) login(ctx context.Context, email, password string) error {
	m.mu.Lock()
	gen := m.generation
	m.mu.Unlock()

	token, err := m.api.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, transport.ErrUnauthorized) {
			return fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
		}
		return fmt.Errorf("login: %w", err)
	}

	id, err := m.api.Me(transport.WithCredential(ctx, token))
	if err != nil {
		return fmt.Errorf("fetch identity: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.generation {
		return ErrInterrupted
	}
	if _, err := nextState(m.state, eventLogin); err != nil {
		return err
	}
	if err := m.store.Save(ctx, Record{Credential: token, Identity: id}); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	if err := m.transitionLocked(ctx, eventLogin); err != nil {
		return err
	}
	m.credential = token
	m.identity = &id
	m.publishLocked()
	return nil
}

// Logout drops the session and the stored record. It never fails; a storage
// error is logged. Any operation in flight is discarded.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetLocked(ctx)
}

// HandleRejected reacts to the server refusing the current credential. It
// is meant to be registered with transport.Gateway.OnSessionRejected. When
// an authenticated session is dropped, the OnRejected hooks run afterwards.
func (m *Manager) HandleRejected() {
	ctx := context.Background()

	m.mu.Lock()
	if m.state == Anonymous {
		m.mu.Unlock()
		return
	}
	wasAuthenticated := m.state == Authenticated
	m.logger.Info(ctx, "credential rejected by server", "state", m.state)
	m.resetLocked(ctx)
	hooks := append([]func(){}, m.hooks...)
	m.mu.Unlock()

	if !wasAuthenticated {
		return
	}
	for _, fn := range hooks {
		fn()
	}
}

// OnRejected registers fn to run after an authenticated session was dropped
// because the server rejected its credential.
func (m *Manager) OnRejected(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = append(m.hooks, fn)
}

// Credential returns the credential to send, or "" when anonymous. It
// satisfies transport.CredentialSource.
func (m *Manager) Credential() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.credential
}

func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Subscribe streams snapshots, starting with the current one, until ctx is
// done or the manager is closed.
func (m *Manager) Subscribe(ctx context.Context) <-chan Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hub.Subscribe(ctx, m.snapshotLocked())
}

func (m *Manager) Close() {
	m.hub.Close()
}

func (m *Manager) resetLocked(ctx context.Context) {
	m.generation++
	m.credential = ""
	m.identity = nil
	m.clearStore(ctx)

	if m.state != Anonymous {
		_ = m.transitionLocked(ctx, eventClear)
	}
	m.publishLocked()
}

func (m *Manager) clearStore(ctx context.Context) {
	if err := m.store.Clear(ctx); err != nil {
		m.logger.Error(ctx, "failed to clear stored session", "error", err)
	}
}

func (m *Manager) transitionLocked(ctx context.Context, on event) error {
	to, err := nextState(m.state, on)
	if err != nil {
		m.logger.Error(ctx, "undeclared session transition", "error", err)
		return err
	}
	m.logger.Info(ctx, "session transition", "from", m.state.String(), "to", to.String(), "event", string(on))
	m.state = to
	return nil
}

func (m *Manager) snapshotLocked() Snapshot {
	s := Snapshot{State: m.state}
	if m.state == Authenticated && m.identity != nil {
		id := *m.identity
		s.Identity = &id
	}
	return s
}

func (m *Manager) publishLocked() {
	m.hub.Publish(m.snapshotLocked())
}
