package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/monochrome/portal/internal/core/domain"
	"github.com/monochrome/portal/internal/core/ports"
)

// UserClient implements ports.UserAPI.
type UserClient struct {
	c *Client
}

var _ ports.UserAPI = (*UserClient)(nil)

func NewUserClient(c *Client) *UserClient {
	return &UserClient{c: c}
}

func (u *UserClient) List(ctx context.Context, token string) ([]domain.ManagedUser, error) {
	var out []domain.ManagedUser
	if err := u.c.doJSON(ctx, "users_list", http.MethodGet, "/api/users", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (u *UserClient) Update(ctx context.Context, token, id string, update ports.UserUpdate) (domain.ManagedUser, error) {
	var out domain.ManagedUser
	path := "/api/users/" + url.PathEscape(id)
	if err := u.c.doJSON(ctx, "users_update", http.MethodPut, path, token, update, &out); err != nil {
		return domain.ManagedUser{}, err
	}
	return out, nil
}

func (u *UserClient) Delete(ctx context.Context, token, id string) error {
	path := "/api/users/" + url.PathEscape(id)
	return u.c.doJSON(ctx, "users_delete", http.MethodDelete, path, token, nil, nil)
}
