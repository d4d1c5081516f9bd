package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/dmitrijs2005/gophshop/internal/client/api"
	"github.com/dmitrijs2005/gophshop/internal/client/config"
	"github.com/dmitrijs2005/gophshop/internal/client/models"
	"github.com/dmitrijs2005/gophshop/internal/client/session"
	"github.com/dmitrijs2005/gophshop/internal/client/storage"
	"github.com/dmitrijs2005/gophshop/internal/client/transport"
	"github.com/dmitrijs2005/gophshop/internal/logging"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	api     *api.Client
	session *session.Manager
	printer *Printer
	reader  *bufio.Reader
	out     io.Writer

	// ctx bounds every list fetch; set by Run.
	ctx context.Context

	products   *view[models.Product]
	categories []models.Category
	orders     *view[models.Order]
	users      *view[models.User]
	reviews    *view[models.Review]
	reviewsFor int64

	// current is the list that page, next, prev and refresh act on.
	current pager

	// expired is raised by the rejection hook, which may run on a fetch
	// goroutine, and consumed by the REPL between commands.
	expired atomic.Bool
}

// NewApp opens the session database and wires the transport, API client and
// session manager together.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	db, err := storage.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open session database: %w", err)
	}

	gw, err := transport.New(cfg.ServerURL,
		transport.WithTimeout(cfg.RequestTimeout),
		transport.WithLogger(logger.With("component", "transport")),
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return newApp(cfg, logger, db, gw, os.Stdin, NewPrinter(os.Stdout, os.Stderr, ResolveColors()), os.Stdout), nil
}

func newApp(cfg *config.Config, logger logging.Logger, db *sql.DB, gw *transport.Gateway, in io.Reader, p *Printer, out io.Writer) *App {
	client := api.New(gw, api.WithLogger(logger.With("component", "api")))
	mgr := session.New(client, session.NewSQLiteStore(db), session.WithLogger(logger))

	gw.SetCredentialSource(mgr)
	gw.OnSessionRejected(mgr.HandleRejected)

	a := &App{
		config:  cfg,
		logger:  logger,
		db:      db,
		api:     client,
		session: mgr,
		printer: p,
		reader:  bufio.NewReader(in),
		out:     out,
		ctx:     context.Background(),
	}
	mgr.OnRejected(a.onSessionExpired)
	return a
}

// Run restores a saved session and runs the REPL until the user exits or
// input ends.
func (a *App) Run(ctx context.Context) {
	a.ctx = ctx
	defer a.Close()

	_ = a.session.Restore(ctx)
	if snap := a.session.Snapshot(); snap.Authenticated() {
		a.printer.Info("Welcome back, %s", snap.Identity.Name)
	}

	a.printer.Print("gophshop (type 'help' for commands)")
	runREPL(ctx, a)
}

func (a *App) Close() {
	if a.products != nil {
		a.products.close()
	}
	if a.reviews != nil {
		a.reviews.close()
	}
	a.dropUserViews()
	a.session.Close()
	if err := a.db.Close(); err != nil {
		a.logger.Warn(context.Background(), "closing session database", "error", err)
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.Snapshot().Authenticated()
}

func (a *App) isAdmin() bool {
	return a.session.Snapshot().IsAdmin()
}

func (a *App) status() string {
	snap := a.session.Snapshot()
	if !snap.Authenticated() {
		return ""
	}
	if snap.IsAdmin() {
		return fmt.Sprintf("(%s, admin)", snap.Identity.Email)
	}
	return fmt.Sprintf("(%s)", snap.Identity.Email)
}

// onSessionExpired runs when the server rejected an authenticated session.
func (a *App) onSessionExpired() {
	a.expired.Store(true)
	a.printer.Warning("Your session has expired. Please log in again.")
}

// dropUserViews forgets every list that belongs to the signed-in user.
func (a *App) dropUserViews() {
	if a.orders != nil {
		a.forget(a.orders)
		a.orders = nil
	}
	if a.users != nil {
		a.forget(a.users)
		a.users = nil
	}
}

func (a *App) afterCommand() {
	if a.expired.Swap(false) {
		a.dropUserViews()
	}
}

func (a *App) forget(v pager) {
	v.close()
	if a.current == v {
		a.current = nil
	}
}
