package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/gophshop/internal/logging"
)

const (
	authorizationHeader = "Authorization"
	requestIDHeader     = "X-Request-ID"

	maxErrorBody = 1 << 20
)

// Request describes one API call. Form, when set, is sent form-encoded and
// takes precedence over Body, which is otherwise sent as JSON.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	Form   url.Values
}

type Gateway struct {
	baseURL *url.URL
	client  *http.Client
	logger  logging.Logger

	mu        sync.RWMutex
	creds     CredentialSource
	listeners []func()
}

type Option func(*Gateway)

func WithHTTPClient(c *http.Client) Option {
	return func(g *Gateway) {
		if c != nil {
			g.client = c
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) { g.client.Timeout = d }
}

func WithLogger(l logging.Logger) Option {
	return func(g *Gateway) {
		if l != nil {
			g.logger = l
		}
	}
}

func WithCredentialSource(src CredentialSource) Option {
	return func(g *Gateway) { g.creds = src }
}

// New creates a gateway for the API rooted at baseURL.
func New(baseURL string, opts ...Option) (*Gateway, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}

	g := &Gateway{
		baseURL: u,
		client:  &http.Client{Timeout: 30 * time.Second},
		logger:  logging.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// SetCredentialSource installs the source consulted before every request.
func (g *Gateway) SetCredentialSource(src CredentialSource) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.creds = src
}

// OnSessionRejected registers fn to be called whenever the server answers 401,
// except to requests made with AsCredentialExchange. Listeners run
// synchronously on the goroutine that issued the request.
func (g *Gateway) OnSessionRejected(fn func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listeners = append(g.listeners, fn)
}

// Send performs req and decodes a successful JSON response into out
// (skipped when out is nil or the response has no content).
func (g *Gateway) Send(ctx context.Context, req Request, out any) error {
	httpReq, err := g.newRequest(ctx, req)
	if err != nil {
		return err
	}

	requestID := httpReq.Header.Get(requestIDHeader)
	started := time.Now()

	resp, err := g.client.Do(httpReq)
	if err != nil {
		g.logger.Warn(ctx, "request failed",
			"request_id", requestID, "method", req.Method, "path", req.Path, "error", err)
		return &TransportError{Method: req.Method, Path: req.Path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	g.logger.Debug(ctx, "request completed",
		"request_id", requestID, "method", req.Method, "path", req.Path,
		"status", resp.StatusCode, "duration", time.Since(started))

	if resp.StatusCode == http.StatusUnauthorized && !isCredentialExchange(ctx) {
		g.emitRejected()
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Detail: readDetail(resp.Body)}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode %s %s response: %w", req.Method, req.Path, err)
	}
	return nil
}

func (g *Gateway) newRequest(ctx context.Context, req Request) (*http.Request, error) {
	u := *g.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(req.Path, "/")
	u.RawPath = ""
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case req.Form != nil:
		body = strings.NewReader(req.Form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case req.Body != nil:
		b, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s body: %w", req.Method, req.Path, err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s request: %w", req.Method, req.Path, err)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(requestIDHeader, uuid.NewString())

	if token := g.credential(ctx); token != "" {
		httpReq.Header.Set(authorizationHeader, "Bearer "+token)
	}
	return httpReq, nil
}

func (g *Gateway) credential(ctx context.Context) string {
	if token, ok := CredentialFromContext(ctx); ok {
		return token
	}
	g.mu.RLock()
	src := g.creds
	g.mu.RUnlock()
	if src == nil {
		return ""
	}
	return src.Credential()
}

func (g *Gateway) emitRejected() {
	g.mu.RLock()
	listeners := make([]func(), len(g.listeners))
	copy(listeners, g.listeners)
	g.mu.RUnlock()

	for _, fn := range listeners {
		fn()
	}
}

// readDetail extracts a string "detail" from an error body. FastAPI sends a
// list of field errors under the same key for 422s; that counts as absent.
func readDetail(r io.Reader) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.NewDecoder(io.LimitReader(r, maxErrorBody)).Decode(&envelope); err != nil {
		return ""
	}
	var detail string
	if err := json.Unmarshal(envelope.Detail, &detail); err != nil {
		return ""
	}
	return detail
}
