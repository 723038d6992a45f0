package middleware

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/monochrome/portal/internal/core/domain"
	"github.com/monochrome/portal/internal/core/ports"
)

const (
	SessionCookie = "sid"
	TokenCookie   = domain.RecordTokenKey
	UserCookie    = domain.RecordUserKey
)

// CookieOptions are the attributes shared by the session cookies.
type CookieOptions struct {
	MaxAge int
	Secure bool
}

// CookieWriter is the cookie representation of a session: a "token" cookie
// and a "user" cookie holding the serialized profile. It writes to the
// response of one request.
type CookieWriter struct {
	c       echo.Context
	opts    CookieOptions
	logger  zerolog.Logger
	written bool
}

var _ ports.CookieSink = (*CookieWriter)(nil)

func NewCookieWriter(c echo.Context, opts CookieOptions, logger zerolog.Logger) *CookieWriter {
	return &CookieWriter{c: c, opts: opts, logger: logger}
}

func (w *CookieWriter) SetSession(session domain.Session) {
	user, err := domain.EncodeProfile(session.Profile)
	if err != nil {
		w.logger.Error().Err(err).Msg("cannot encode user cookie")
		return
	}
	w.set(TokenCookie, session.Token, w.opts.MaxAge, true)
	w.set(UserCookie, url.QueryEscape(user), w.opts.MaxAge, false)
	w.written = true
}

func (w *CookieWriter) ClearSession() {
	w.set(TokenCookie, "", -1, true)
	w.set(UserCookie, "", -1, false)
	w.written = true
}

// Written reports whether this response already carries session cookies.
func (w *CookieWriter) Written() bool { return w.written }

func (w *CookieWriter) set(name, value string, maxAge int, httpOnly bool) {
	w.c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: httpOnly,
		Secure:   w.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionFromCookies reads the cookie representation sent by the browser.
// Anything short of a complete session reads as absent.
func SessionFromCookies(r *http.Request) (domain.Session, bool) {
	token, err := r.Cookie(TokenCookie)
	if err != nil {
		return domain.Session{}, false
	}
	user, err := r.Cookie(UserCookie)
	if err != nil {
		return domain.Session{}, false
	}
	raw, err := url.QueryUnescape(user.Value)
	if err != nil {
		return domain.Session{}, false
	}
	return domain.DecodeRecord(token.Value, raw)
}

// hasSessionCookies reports whether the browser sent either session cookie.
func hasSessionCookies(r *http.Request) bool {
	for _, name := range []string{TokenCookie, UserCookie} {
		if ck, err := r.Cookie(name); err == nil && ck.Value != "" {
			return true
		}
	}
	return false
}
