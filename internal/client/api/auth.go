package api

import (
	"context"
	"errors"
	"net/url"

	"github.com/dmitrijs2005/gophshop/internal/client/models"
	"github.com/dmitrijs2005/gophshop/internal/client/transport"
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login exchanges email and password for an access token. The exchange is
// form-encoded with the email sent as "username". A wrong password is
// reported as transport.ErrUnauthorized without invalidating the session
// that may already be held.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	ctx = transport.AsCredentialExchange(ctx)

	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	var tok tokenResponse
	err := c.sender.Send(ctx, transport.Request{Method: "POST", Path: "/auth/login", Form: form}, &tok)
	if err != nil {
		return "", err
	}
	if tok.AccessToken == "" {
		return "", errors.New("login response carries no access token")
	}
	return tok.AccessToken, nil
}

func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	var u models.User
	if err := c.post(ctx, "/auth/register", req, &u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// Me returns the identity behind the credential in use.
func (c *Client) Me(ctx context.Context) (models.Identity, error) {
	var me models.Identity
	if err := c.get(ctx, "/auth/me", nil, &me); err != nil {
		return models.Identity{}, err
	}
	return me, nil
}
