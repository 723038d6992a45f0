package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/monochrome/portal/internal/api/middleware"
	"github.com/monochrome/portal/internal/core/domain"
	"github.com/monochrome/portal/internal/core/ports"
)

// ctxAuth returns the session facade bound by the Session middleware.
func ctxAuth(c echo.Context) (ports.Authenticator, error) {
	auth := middleware.Authenticator(c)
	if auth == nil {
		return nil, domain.ErrNotAuthenticated
	}
	return auth, nil
}

// ctxViewer returns the logged-in caller. Routes behind the guard always
// have one; the check here fails fast when a route is wired without it.
func ctxViewer(c echo.Context) (ports.Viewer, error) {
	auth, err := ctxAuth(c)
	if err != nil {
		return ports.Viewer{}, err
	}
	v, ok := viewerOf(auth)
	if !ok {
		return ports.Viewer{}, domain.ErrNotAuthenticated
	}
	return *v, nil
}

// ctxOptionalViewer is ctxViewer for routes open to anonymous callers.
func ctxOptionalViewer(c echo.Context) *ports.Viewer {
	auth := middleware.Authenticator(c)
	if auth == nil {
		return nil
	}
	v, _ := viewerOf(auth)
	return v
}

func viewerOf(auth ports.Authenticator) (*ports.Viewer, bool) {
	snap := auth.Snapshot()
	token, ok := auth.Token()
	if !ok || !snap.Authenticated() {
		return nil, false
	}
	return &ports.Viewer{Token: token, Profile: *snap.Profile}, true
}
