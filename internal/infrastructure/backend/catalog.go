package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/monochrome/portal/internal/core/domain"
	"github.com/monochrome/portal/internal/core/ports"
)

// CatalogClient implements ports.CatalogAPI.
type CatalogClient struct {
	c *Client
}

var _ ports.CatalogAPI = (*CatalogClient)(nil)

func NewCatalogClient(c *Client) *CatalogClient {
	return &CatalogClient{c: c}
}

// List calls GET /api/services, filtered by category unless it is empty or "all".
func (s *CatalogClient) List(ctx context.Context, category string) ([]domain.Service, error) {
	path := "/api/services"
	if category != "" && category != "all" {
		path += "?" + url.Values{"category": {category}}.Encode()
	}
	var out []domain.Service
	if err := s.c.doJSON(ctx, "services_list", http.MethodGet, path, "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *CatalogClient) BySlug(ctx context.Context, slug string) (domain.Service, error) {
	var out domain.Service
	path := "/api/services/slug/" + url.PathEscape(slug)
	if err := s.c.doJSON(ctx, "services_slug", http.MethodGet, path, "", nil, &out); err != nil {
		return domain.Service{}, err
	}
	return out, nil
}

func (s *CatalogClient) Create(ctx context.Context, token string, svc domain.Service) (domain.Service, error) {
	var out domain.Service
	if err := s.c.doJSON(ctx, "services_create", http.MethodPost, "/api/services", token, svc, &out); err != nil {
		return domain.Service{}, err
	}
	return out, nil
}

func (s *CatalogClient) Update(ctx context.Context, token, id string, svc domain.Service) (domain.Service, error) {
	var out domain.Service
	path := "/api/services/" + url.PathEscape(id)
	if err := s.c.doJSON(ctx, "services_update", http.MethodPut, path, token, svc, &out); err != nil {
		return domain.Service{}, err
	}
	return out, nil
}

func (s *CatalogClient) Delete(ctx context.Context, token, id string) error {
	path := "/api/services/" + url.PathEscape(id)
	return s.c.doJSON(ctx, "services_delete", http.MethodDelete, path, token, nil, nil)
}
