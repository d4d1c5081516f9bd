// Package api binds the storefront REST endpoints to typed Go calls.
//
// Every call goes through a transport Sender, so credentials, request ids
// and rejection handling stay in one place. List endpoints have the shape
// of listsync.Fetcher and can drive a Synchronizer directly.
package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/gophshop/internal/client/listsync"
	"github.com/dmitrijs2005/gophshop/internal/client/transport"
	"github.com/dmitrijs2005/gophshop/internal/logging"
)

// Sender performs one API request; *transport.Gateway implements it.
type Sender interface {
	Send(ctx context.Context, req transport.Request, out any) error
}

type Option func(*Client)

func WithLogger(l logging.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

type Client struct {
	sender Sender
	logger logging.Logger
}

func New(sender Sender, opts ...Option) *Client {
	c := &Client{sender: sender, logger: logging.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.sender.Send(ctx, transport.Request{Method: "GET", Path: path, Query: query}, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.sender.Send(ctx, transport.Request{Method: "POST", Path: path, Body: body}, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.sender.Send(ctx, transport.Request{Method: "PUT", Path: path, Body: body}, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.sender.Send(ctx, transport.Request{Method: "DELETE", Path: path}, nil)
}

func list[T any](ctx context.Context, c *Client, path string, q listsync.Query) (listsync.Result[T], error) {
	var res listsync.Result[T]
	if err := c.get(ctx, path, q.Values(), &res); err != nil {
		return listsync.Result[T]{}, err
	}
	if res.Items == nil {
		res.Items = []T{}
	}
	return res, nil
}

func id(n int64) string {
	return strconv.FormatInt(n, 10)
}
