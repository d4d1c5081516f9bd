package api

import (
	"context"

	"github.com/dmitrijs2005/gophshop/internal/client/listsync"
	"github.com/dmitrijs2005/gophshop/internal/client/models"
)

func (c *Client) Profile(ctx context.Context) (models.Identity, error) {
	var me models.Identity
	if err := c.get(ctx, "/users/me", nil, &me); err != nil {
		return models.Identity{}, err
	}
	return me, nil
}

func (c *Client) UpdateProfile(ctx context.Context, in models.ProfileUpdate) (models.Identity, error) {
	var me models.Identity
	if err := c.put(ctx, "/users/me", in, &me); err != nil {
		return models.Identity{}, err
	}
	return me, nil
}

func (c *Client) ChangePassword(ctx context.Context, in models.PasswordChange) error {
	return c.post(ctx, "/users/me/change-password", in, nil)
}

// ListUsers is admin only.
func (c *Client) ListUsers(ctx context.Context, q listsync.Query) (listsync.Result[models.User], error) {
	return list[models.User](ctx, c, "/users", q)
}

func (c *Client) UpdateUser(ctx context.Context, userID int64, in models.UserUpdate) (models.User, error) {
	var u models.User
	if err := c.put(ctx, "/users/"+id(userID), in, &u); err != nil {
		return models.User{}, err
	}
	return u, nil
}
