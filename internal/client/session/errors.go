package session

import "errors"

var (
	// ErrSessionBusy is returned when a restore, login or registration is
	// already in flight on the same manager.
	ErrSessionBusy = errors.New("another session operation is in progress")

	// ErrInvalidCredentials means the server refused the email/password pair.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAutoLoginFailed wraps a failure of the login that follows a
	// successful registration. The account exists at that point.
	ErrAutoLoginFailed = errors.New("account created but automatic login failed")

	// ErrInterrupted is returned by an operation whose result was discarded
	// because the session was cleared while it ran.
	ErrInterrupted = errors.New("session cleared while operation was in flight")
)
