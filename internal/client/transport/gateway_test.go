package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGateway(t *testing.T, h http.HandlerFunc, opts ...Option) *Gateway {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	g, err := New(srv.URL, opts...)
	require.NoError(t, err)
	return g
}

func TestNew_RejectsBadBaseURL(t *testing.T) {
	_, err := New("localhost:8000")
	require.Error(t, err)

	_, err = New("ftp://example.com")
	require.Error(t, err)
}

func TestSend_AttachesCredentialWhenHeld(t *testing.T) {
	var gotAuth, gotRequestID string
	g := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.WriteHeader(http.StatusNoContent)
	}, WithCredentialSource(CredentialFunc(func() string { return "tok-1" })))

	require.NoError(t, g.Send(context.Background(), Request{Method: http.MethodGet, Path: "/cart"}, nil))
	assert.Equal(t, "Bearer tok-1", gotAuth)
	assert.NotEmpty(t, gotRequestID)
}

func TestSend_AnonymousWithoutCredential(t *testing.T) {
	var gotAuth string
	called := false
	g := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		gotAuth = r.Header.Get("Authorization")
		_, _ = io.WriteString(w, `{}`)
	}, WithCredentialSource(CredentialFunc(func() string { return "" })))

	require.NoError(t, g.Send(context.Background(), Request{Method: http.MethodGet, Path: "/products/"}, &struct{}{}))
	assert.True(t, called)
	assert.Empty(t, gotAuth)
}

func TestSend_ContextCredentialOverridesSource(t *testing.T) {
	var gotAuth string
	g := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	})
	g.SetCredentialSource(CredentialFunc(func() string { return "old" }))

	ctx := WithCredential(context.Background(), "fresh")
	require.NoError(t, g.Send(ctx, Request{Method: http.MethodGet, Path: "/auth/me"}, nil))
	assert.Equal(t, "Bearer fresh", gotAuth)
}

func TestSend_EncodesQueryJSONAndForm(t *testing.T) {
	var (
		gotPath, gotQuery, gotCT string
		gotBody                  []byte
	)
	g := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotCT = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		_, _ = io.WriteString(w, `{"ok":true}`)
	})
	ctx := context.Background()

	var out struct {
		OK bool `json:"ok"`
	}
	err := g.Send(ctx, Request{
		Method: http.MethodGet,
		Path:   "/products/",
		Query:  url.Values{"page": {"2"}, "category_id": {"5"}},
	}, &out)
	require.NoError(t, err)
	assert.True(t, out.OK)
	assert.Equal(t, "/products/", gotPath, "trailing slash must be preserved")
	assert.Equal(t, "category_id=5&page=2", gotQuery)

	require.NoError(t, g.Send(ctx, Request{Method: http.MethodPost, Path: "cart/items", Body: map[string]int{"quantity": 2}}, nil))
	assert.Equal(t, "/cart/items", gotPath)
	assert.Equal(t, "application/json", gotCT)
	assert.JSONEq(t, `{"quantity":2}`, string(gotBody))

	form := url.Values{"username": {"a@b.com"}, "password": {"secret"}}
	require.NoError(t, g.Send(ctx, Request{Method: http.MethodPost, Path: "/auth/login", Form: form, Body: "ignored"}, nil))
	assert.Equal(t, "application/x-www-form-urlencoded", gotCT)
	assert.Equal(t, "password=secret&username=a%40b.com", string(gotBody))
}

func TestSend_BasePathIsKept(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	g, err := New(srv.URL + "/api/")
	require.NoError(t, err)

	require.NoError(t, g.Send(context.Background(), Request{Method: http.MethodGet, Path: "/orders"}, nil))
	assert.Equal(t, "/api/orders", gotPath)
}

func TestSend_401EmitsRejectedBeforeReturning(t *testing.T) {
	g := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"detail":"Could not validate credentials"}`)
	})

	var fired atomic.Int32
	g.OnSessionRejected(func() { fired.Add(1) })
	g.OnSessionRejected(func() { fired.Add(1) })

	err := g.Send(context.Background(), Request{Method: http.MethodGet, Path: "/auth/me"}, nil)
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, int32(2), fired.Load(), "every listener runs before Send returns")
	assert.False(t, errors.Is(err, ErrValidation))
	assert.False(t, errors.Is(err, ErrTransport))
	assert.Equal(t, "Could not validate credentials", UserMessage(err))
}

func TestSend_CredentialExchange401DoesNotEmit(t *testing.T) {
	var gotAuth string
	g := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"detail":"Incorrect email or password"}`)
	}, WithCredentialSource(CredentialFunc(func() string { return "held" })))

	var fired atomic.Int32
	g.OnSessionRejected(func() { fired.Add(1) })

	ctx := AsCredentialExchange(context.Background())
	err := g.Send(ctx, Request{Method: http.MethodPost, Path: "/auth/login", Form: url.Values{"username": {"a"}}}, nil)
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Empty(t, gotAuth, "the exchange carries no credential")
	assert.Zero(t, fired.Load())

	err = g.Send(context.Background(), Request{Method: http.MethodGet, Path: "/cart"}, nil)
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, int32(1), fired.Load(), "ordinary requests still report rejection")
}

func TestSend_ErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		is     error
		msg    string
	}{
		{name: "validation with detail", status: 400, body: `{"detail":"Not enough stock"}`, is: ErrValidation, msg: "Not enough stock"},
		{name: "fastapi field errors", status: 422, body: `{"detail":[{"loc":["body","email"],"msg":"bad"}]}`, is: ErrValidation, msg: FallbackMessage},
		{name: "not found", status: 404, body: `{"detail":"Product not found"}`, is: ErrNotFound, msg: "Product not found"},
		{name: "server", status: 500, body: `oops`, is: ErrServer, msg: FallbackMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rejected := false
			g := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})
			g.OnSessionRejected(func() { rejected = true })

			err := g.Send(context.Background(), Request{Method: http.MethodPost, Path: "/orders"}, nil)
			require.ErrorIs(t, err, tt.is)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.msg, UserMessage(err))
			assert.False(t, rejected, "only 401 rejects the session")
		})
	}
}

func TestSend_NetworkFailureIsTransportError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	g, err := New("http://" + addr)
	require.NoError(t, err)

	rejected := false
	g.OnSessionRejected(func() { rejected = true })

	err = g.Send(context.Background(), Request{Method: http.MethodGet, Path: "/products/"}, nil)
	require.ErrorIs(t, err, ErrTransport)
	assert.False(t, errors.Is(err, ErrUnauthorized))
	assert.False(t, rejected)

	var tErr *TransportError
	require.ErrorAs(t, err, &tErr)
	assert.Equal(t, "/products/", tErr.Path)
	assert.Equal(t, FallbackMessage, UserMessage(err))
}

func TestSend_TimeoutIsTransportError(t *testing.T) {
	g := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}, WithTimeout(50*time.Millisecond))

	err := g.Send(context.Background(), Request{Method: http.MethodGet, Path: "/slow"}, nil)
	require.ErrorIs(t, err, ErrTransport)
}

func TestSend_DecodeError(t *testing.T) {
	g := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `not json`)
	})

	var out map[string]any
	err := g.Send(context.Background(), Request{Method: http.MethodGet, Path: "/x"}, &out)
	require.Error(t, err)

	var syntaxErr *json.SyntaxError
	assert.ErrorAs(t, err, &syntaxErr)
}
