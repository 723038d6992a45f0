package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/monochrome/portal/internal/core/domain"
	"github.com/monochrome/portal/internal/core/ports"
)

type stubAuth struct {
	snap     domain.Snapshot
	token    string
	started  int
	startFn  func(sink ports.CookieSink)
	demoted  []string
	demoteFn func(sink ports.CookieSink, token string) bool
}

func (s *stubAuth) Start(_ context.Context, sink ports.CookieSink) {
	s.started++
	if s.startFn != nil {
		s.startFn(sink)
	}
}
func (s *stubAuth) Snapshot() domain.Snapshot { return s.snap }
func (s *stubAuth) Token() (string, bool)     { return s.token, s.snap.Authenticated() }
func (s *stubAuth) Login(context.Context, ports.CookieSink, string, string) (domain.Profile, error) {
	return domain.Profile{}, nil
}
func (s *stubAuth) Register(context.Context, ports.CookieSink, string, string, string) (domain.Profile, error) {
	return domain.Profile{}, nil
}
func (s *stubAuth) Logout(context.Context, ports.CookieSink) error { return nil }
func (s *stubAuth) Demote(_ context.Context, sink ports.CookieSink, token string) bool {
	s.demoted = append(s.demoted, token)
	if s.demoteFn == nil {
		return false
	}
	return s.demoteFn(sink, token)
}
func (s *stubAuth) UpdateProfile(context.Context, ports.CookieSink, string, string) (domain.Profile, error) {
	return domain.Profile{}, nil
}

type stubSessions struct {
	auth *stubAuth
	sids []string
}

func (s *stubSessions) Acquire(sid string) ports.Authenticator {
	s.sids = append(s.sids, sid)
	return s.auth
}
func (s *stubSessions) Release(string) {}

func userProfile() *domain.Profile {
	return &domain.Profile{ID: "u1", Name: "Ada", Email: "ada@example.com", Role: domain.RoleUser}
}

func cookieByName(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Guard
// ---------------------------------------------------------------------------

func runGuard(t *testing.T, auth ports.Authenticator, req domain.Requirement) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/dashboard/users", nil), rec)
	if auth != nil {
		c.Set(ContextAuth, auth)
	}

	called := false
	h := Guard(req)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec, called
}

func TestGuard_Admits(t *testing.T) {
	admin := &domain.Profile{ID: "a1", Name: "Root", Email: "root@example.com", Role: domain.RoleAdmin}
	rec, called := runGuard(t, &stubAuth{snap: domain.Snapshot{State: domain.StateAuthenticated, Profile: admin}}, domain.RequireAdmin)
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected admin to be admitted, got %d", rec.Code)
	}
}

func TestGuard_WaitsWhileLoading(t *testing.T) {
	rec, called := runGuard(t, &stubAuth{snap: domain.Snapshot{State: domain.StateLoading}}, domain.RequireAuthenticated)
	if called {
		t.Fatalf("should not reach next handler while loading")
	}
	if rec.Code != http.StatusServiceUnavailable || rec.Header().Get("Retry-After") != "1" {
		t.Fatalf("expected 503 with Retry-After, got %d %q", rec.Code, rec.Header().Get("Retry-After"))
	}
	if rec.Header().Get(echo.HeaderLocation) != "" {
		t.Fatalf("loading must not redirect")
	}
}

func TestGuard_AnonymousRedirectsToLogin(t *testing.T) {
	for name, auth := range map[string]ports.Authenticator{
		"anonymous":  &stubAuth{snap: domain.Snapshot{State: domain.StateAnonymous}},
		"no session": nil,
	} {
		t.Run(name, func(t *testing.T) {
			rec, called := runGuard(t, auth, domain.RequireAdmin)
			if called || rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != domain.LoginPath {
				t.Fatalf("expected redirect to login, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
			}
		})
	}
}

func TestGuard_UserOnAdminPageRedirectsToDashboard(t *testing.T) {
	rec, called := runGuard(t, &stubAuth{snap: domain.Snapshot{State: domain.StateAuthenticated, Profile: userProfile()}}, domain.RequireAdmin)
	if called || rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != domain.DefaultDashboardPath {
		t.Fatalf("expected redirect to dashboard, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
}

// ---------------------------------------------------------------------------
// Session
// ---------------------------------------------------------------------------

func runSession(t *testing.T, sessions *stubSessions, req *http.Request) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := Session(sessions, CookieOptions{MaxAge: 3600}, zerolog.Nop())(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec, c
}

func TestSession_IssuesSessionID(t *testing.T) {
	sessions := &stubSessions{auth: &stubAuth{snap: domain.Snapshot{State: domain.StateAnonymous}}}

	rec, c := runSession(t, sessions, httptest.NewRequest(http.MethodGet, "/", nil))

	ck := cookieByName(rec, SessionCookie)
	if ck == nil || ck.Value == "" || !ck.HttpOnly {
		t.Fatalf("expected a new sid cookie, got %+v", ck)
	}
	if len(sessions.sids) != 1 || sessions.sids[0] != ck.Value {
		t.Fatalf("expected the new sid to be acquired, got %q", sessions.sids)
	}
	if sessions.auth.started != 1 {
		t.Fatalf("expected facade to be started")
	}
	if Authenticator(c) == nil || Cookies(c) == nil {
		t.Fatalf("expected auth and cookies in context")
	}
}

func TestSession_ReusesValidSessionID(t *testing.T) {
	const sid = "3f1f2a9e-6c1d-4f7a-9b0e-1c2d3e4f5a6b"
	sessions := &stubSessions{auth: &stubAuth{snap: domain.Snapshot{State: domain.StateAnonymous}}}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: sid})

	rec, _ := runSession(t, sessions, req)

	if cookieByName(rec, SessionCookie) != nil {
		t.Fatalf("must not reissue a valid sid")
	}
	if sessions.sids[0] != sid {
		t.Fatalf("expected sid %s, got %s", sid, sessions.sids[0])
	}

	bad := httptest.NewRequest(http.MethodGet, "/", nil)
	bad.AddCookie(&http.Cookie{Name: SessionCookie, Value: "../../etc"})
	rec, _ = runSession(t, sessions, bad)
	if ck := cookieByName(rec, SessionCookie); ck == nil || ck.Value == "../../etc" {
		t.Fatalf("expected malformed sid to be replaced")
	}
}

func TestSession_ReconcilesMissingCookies(t *testing.T) {
	sessions := &stubSessions{auth: &stubAuth{
		snap:  domain.Snapshot{State: domain.StateAuthenticated, Profile: userProfile()},
		token: "tok-1",
	}}

	rec, _ := runSession(t, sessions, httptest.NewRequest(http.MethodGet, "/", nil))

	token := cookieByName(rec, TokenCookie)
	if token == nil || token.Value != "tok-1" || !token.HttpOnly {
		t.Fatalf("expected token cookie to be written, got %+v", token)
	}

	// Feeding the cookies back reads the same session.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range rec.Result().Cookies() {
		req.AddCookie(ck)
	}
	got, ok := SessionFromCookies(req)
	if !ok || got.Token != "tok-1" || got.Profile != *userProfile() {
		t.Fatalf("cookie round trip failed: %+v ok=%v", got, ok)
	}

	rec, _ = runSession(t, sessions, req)
	if cookieByName(rec, TokenCookie) != nil {
		t.Fatalf("matching cookies must not be rewritten")
	}
}

func TestSession_ClearsStaleCookiesWhenAnonymous(t *testing.T) {
	sessions := &stubSessions{auth: &stubAuth{snap: domain.Snapshot{State: domain.StateAnonymous}}}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: "stale"})

	rec, _ := runSession(t, sessions, req)

	ck := cookieByName(rec, TokenCookie)
	if ck == nil || ck.MaxAge >= 0 {
		t.Fatalf("expected stale token cookie to be expired, got %+v", ck)
	}
}

func TestSession_StartWritesCookiesOnce(t *testing.T) {
	auth := &stubAuth{snap: domain.Snapshot{State: domain.StateAnonymous}}
	auth.startFn = func(sink ports.CookieSink) { sink.ClearSession() }
	sessions := &stubSessions{auth: auth}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: UserCookie, Value: "stale"})

	rec, _ := runSession(t, sessions, req)

	n := 0
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == UserCookie {
			n++
		}
	}
	if n != 1 {
		t.Fatalf("expected a single user cookie header, got %d", n)
	}
}

func TestSession_DemotesWhenAPIRefusesToken(t *testing.T) {
	auth := &stubAuth{
		snap:  domain.Snapshot{State: domain.StateAuthenticated, Profile: userProfile()},
		token: "tok-1",
	}
	auth.demoteFn = func(sink ports.CookieSink, token string) bool {
		sink.ClearSession()
		auth.snap = domain.Snapshot{State: domain.StateAnonymous}
		return true
	}
	sessions := &stubSessions{auth: auth}
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/dashboard", nil), rec)

	h := Session(sessions, CookieOptions{MaxAge: 3600}, zerolog.Nop())(func(echo.Context) error {
		return fmt.Errorf("bookings_mine: %w", &domain.APIError{Status: http.StatusUnauthorized, Message: "jwt expired"})
	})
	if err := h(c); err != nil {
		t.Fatalf("expected the refusal to be answered, got %v", err)
	}

	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != domain.LoginPath {
		t.Fatalf("expected redirect to login, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
	if len(auth.demoted) != 1 || auth.demoted[0] != "tok-1" {
		t.Fatalf("expected demotion of tok-1, got %q", auth.demoted)
	}
	if ck := cookieByName(rec, TokenCookie); ck == nil || ck.MaxAge >= 0 {
		t.Fatalf("expected token cookie to be expired, got %+v", ck)
	}
}

func TestSession_KeepsSessionOnOtherErrors(t *testing.T) {
	tests := []struct {
		name  string
		token string
		err   error
	}{
		{name: "failed login", token: "tok-1", err: domain.NewAuthFailure(domain.FailureCredentials, "Invalid credentials", "", &domain.APIError{Status: http.StatusUnauthorized})},
		{name: "not found", token: "tok-1", err: &domain.APIError{Status: http.StatusNotFound}},
		{name: "upstream down", token: "tok-1", err: domain.ErrBackendUnavailable},
		{name: "anonymous", token: "", err: &domain.APIError{Status: http.StatusUnauthorized}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := domain.Snapshot{State: domain.StateAnonymous}
			if tt.token != "" {
				snap = domain.Snapshot{State: domain.StateAuthenticated, Profile: userProfile()}
			}
			auth := &stubAuth{snap: snap, token: tt.token}
			e := echo.New()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/dashboard", nil), httptest.NewRecorder())

			h := Session(&stubSessions{auth: auth}, CookieOptions{}, zerolog.Nop())(func(echo.Context) error {
				return tt.err
			})
			if err := h(c); err != tt.err {
				t.Fatalf("expected the handler error to pass through, got %v", err)
			}
			if len(auth.demoted) != 0 {
				t.Fatalf("expected no demotion, got %q", auth.demoted)
			}
		})
	}
}

func TestSession_StaleTokenIsNotRedirected(t *testing.T) {
	auth := &stubAuth{
		snap:     domain.Snapshot{State: domain.StateAuthenticated, Profile: userProfile()},
		token:    "tok-1",
		demoteFn: func(ports.CookieSink, string) bool { return false },
	}
	apiErr := &domain.APIError{Status: http.StatusForbidden}
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/dashboard/orders", nil), rec)

	h := Session(&stubSessions{auth: auth}, CookieOptions{}, zerolog.Nop())(func(echo.Context) error {
		return apiErr
	})
	if err := h(c); err != apiErr {
		t.Fatalf("expected the refusal to pass through once the token changed, got %v", err)
	}
	if rec.Header().Get(echo.HeaderLocation) != "" {
		t.Fatalf("expected no redirect")
	}
}
