package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophshop/internal/client/models"
)

var errRequired = errors.New("this field is required")

// Login asks for credentials and signs in.
func (a *App) Login(ctx context.Context, _ []string) error {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	if email == "" || password == "" {
		return errRequired
	}

	if err := a.session.Login(ctx, email, password); err != nil {
		return err
	}
	a.dropUserViews()
	a.printer.Success("Signed in as %s", a.session.Snapshot().Identity.Name)
	return nil
}

// Register creates an account and signs in with it.
func (a *App) Register(ctx context.Context, _ []string) error {
	var req models.RegisterRequest
	var err error

	if req.Name, err = getSimpleText(a.reader, "Name", a.out); err != nil {
		return err
	}
	if req.Email, err = getSimpleText(a.reader, "Email", a.out); err != nil {
		return err
	}
	if req.Password, err = getPassword(a.out); err != nil {
		return err
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return errRequired
	}
	if req.Phone, err = getSimpleText(a.reader, "Phone (optional)", a.out); err != nil {
		return err
	}
	if req.Address, err = getSimpleText(a.reader, "Address (optional)", a.out); err != nil {
		return err
	}

	if err := a.session.Register(ctx, req); err != nil {
		return err
	}
	a.dropUserViews()
	a.printer.Success("Account created. Signed in as %s", a.session.Snapshot().Identity.Name)
	return nil
}

func (a *App) Logout(ctx context.Context, _ []string) error {
	a.session.Logout(ctx)
	a.dropUserViews()
	a.printer.Success("Signed out.")
	return nil
}

func (a *App) Whoami(_ context.Context, _ []string) error {
	id := a.session.Snapshot().Identity
	role := "customer"
	if id.IsAdmin {
		role = "administrator"
	}
	a.printer.Table([]string{"field", "value"}, [][]string{
		{"id", formatID(id.ID)},
		{"name", id.Name},
		{"email", id.Email},
		{"phone", id.Phone},
		{"address", id.Address},
		{"role", role},
	})
	return nil
}
