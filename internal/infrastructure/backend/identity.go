package backend

import (
	"context"
	"net/http"

	"github.com/monochrome/portal/internal/core/domain"
	"github.com/monochrome/portal/internal/core/ports"
)

// IdentityClient implements ports.IdentityAPI.
type IdentityClient struct {
	c *Client
}

var _ ports.IdentityAPI = (*IdentityClient)(nil)

func NewIdentityClient(c *Client) *IdentityClient {
	return &IdentityClient{c: c}
}

// profilePayload accepts both "id" and "_id" for the user identifier.
type profilePayload struct {
	Token   string      `json:"token"`
	ID      string      `json:"id"`
	MongoID string      `json:"_id"`
	Name    string      `json:"name"`
	Email   string      `json:"email"`
	Role    domain.Role `json:"role"`
	Contact string      `json:"contact"`
}

func (p profilePayload) profile() domain.Profile {
	id := p.ID
	if id == "" {
		id = p.MongoID
	}
	return domain.Profile{
		ID:      id,
		Name:    p.Name,
		Email:   p.Email,
		Role:    p.Role,
		Contact: p.Contact,
	}
}

func (p profilePayload) session() domain.Session {
	return domain.Session{Token: p.Token, Profile: p.profile()}
}

// Login calls POST /api/auth/login.
func (i *IdentityClient) Login(ctx context.Context, email, password string) (domain.Session, error) {
	payload := map[string]string{"email": email, "password": password}
	var out profilePayload
	if err := i.c.doJSON(ctx, "auth_login", http.MethodPost, "/api/auth/login", "", payload, &out); err != nil {
		return domain.Session{}, err
	}
	return out.session(), nil
}

// Register calls POST /api/auth/register.
func (i *IdentityClient) Register(ctx context.Context, name, email, password string) (domain.Session, error) {
	payload := map[string]string{"name": name, "email": email, "password": password}
	var out profilePayload
	if err := i.c.doJSON(ctx, "auth_register", http.MethodPost, "/api/auth/register", "", payload, &out); err != nil {
		return domain.Session{}, err
	}
	return out.session(), nil
}

// Me calls GET /api/auth/me with the bearer token.
func (i *IdentityClient) Me(ctx context.Context, token string) (domain.Profile, error) {
	var out profilePayload
	if err := i.c.doJSON(ctx, "auth_me", http.MethodGet, "/api/auth/me", token, nil, &out); err != nil {
		return domain.Profile{}, err
	}
	return out.profile(), nil
}
