package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/monochrome/portal/internal/core/domain"
	"github.com/monochrome/portal/internal/core/ports"
)

// Context keys set by Session.
const (
	ContextAuth    = "auth"
	ContextCookies = "cookies"
)

// Session binds each request to its application session. The browser is
// identified by the sid cookie; a new one is issued when it is missing or
// not a UUID. The session's facade is started on first use and the cookie
// representation is brought back in line with it. When the API refuses the
// session's token on a data call the session is logged out and the request
// is redirected to the login page.
func Session(sessions ports.SessionProvider, opts CookieOptions, logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid := sessionID(c, opts)
			auth := sessions.Acquire(sid)
			cookies := NewCookieWriter(c, opts, logger)

			// The facade outlives this request; so does its first verification.
			auth.Start(context.WithoutCancel(c.Request().Context()), cookies)
			reconcile(c.Request(), auth, cookies)

			c.Set(ContextAuth, auth)
			c.Set(ContextCookies, cookies)

			token, _ := auth.Token()
			err := next(c)
			if token == "" || !refusedByAPI(err) || c.Response().Committed {
				return err
			}
			if !auth.Demote(context.WithoutCancel(c.Request().Context()), cookies, token) {
				return err
			}
			logger.Info().Err(err).Str("path", c.Path()).Msg("api refused session token")
			return c.Redirect(http.StatusSeeOther, domain.LoginPath)
		}
	}
}

// refusedByAPI reports whether err carries a 401 or 403 from the API that
// is not part of a login or registration attempt.
func refusedByAPI(err error) bool {
	if err == nil {
		return false
	}
	var failure *domain.AuthFailure
	if errors.As(err, &failure) {
		return false
	}
	var apiErr *domain.APIError
	return errors.As(err, &apiErr) && apiErr.Rejected()
}

// Authenticator returns the facade bound by Session, or nil outside it.
func Authenticator(c echo.Context) ports.Authenticator {
	auth, _ := c.Get(ContextAuth).(ports.Authenticator)
	return auth
}

// Cookies returns the cookie sink bound by Session, or nil outside it.
func Cookies(c echo.Context) ports.CookieSink {
	sink, _ := c.Get(ContextCookies).(ports.CookieSink)
	return sink
}

func sessionID(c echo.Context, opts CookieOptions) string {
	if ck, err := c.Cookie(SessionCookie); err == nil {
		if id, err := uuid.Parse(ck.Value); err == nil {
			return id.String()
		}
	}
	sid := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return sid
}

// reconcile rewrites the browser's session cookies when they disagree with
// the facade, unless this response already carries them.
func reconcile(r *http.Request, auth ports.Authenticator, cookies *CookieWriter) {
	if cookies.Written() {
		return
	}
	snap := auth.Snapshot()
	switch snap.State {
	case domain.StateAuthenticated:
		token, ok := auth.Token()
		if !ok || snap.Profile == nil {
			return
		}
		current := domain.Session{Token: token, Profile: *snap.Profile}
		if sent, ok := SessionFromCookies(r); !ok || sent != current {
			cookies.SetSession(current)
		}
	case domain.StateAnonymous:
		if hasSessionCookies(r) {
			cookies.ClearSession()
		}
	}
}
