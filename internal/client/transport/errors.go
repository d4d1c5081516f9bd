package transport

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrTransport    = errors.New("transport failure")
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("request rejected")
	ErrNotFound     = errors.New("not found")
	ErrServer       = errors.New("server error")
)

// FallbackMessage is shown when the server gives no usable detail.
const FallbackMessage = "Something went wrong. Please try again."

// TransportError is a failure to reach the server at all: DNS, refused
// connection, timeout, cancelled context.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int
	// Detail is the server's "detail" message, empty when absent.
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Detail)
	}
	return fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrValidation:
		return e.StatusCode >= 400 && e.StatusCode < 500 && e.StatusCode != http.StatusUnauthorized
	case ErrServer:
		return e.StatusCode >= 500
	}
	return false
}

// UserMessage returns the text a view should show for err: the server's
// detail when there is one, otherwise FallbackMessage.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return FallbackMessage
}
