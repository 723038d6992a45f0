package ports

import (
	"context"

	"github.com/monochrome/portal/internal/core/domain"
)

// IdentityAPI is the slice of the marketplace API that establishes identity.
type IdentityAPI interface {
	Login(ctx context.Context, email, password string) (domain.Session, error)
	Register(ctx context.Context, name, email, password string) (domain.Session, error)
	Me(ctx context.Context, token string) (domain.Profile, error)
}

// Authenticator is the per-application-session auth facade as seen by the
// HTTP layer.
type Authenticator interface {
	Start(ctx context.Context, sink CookieSink)
	Snapshot() domain.Snapshot
	Token() (string, bool)
	Login(ctx context.Context, sink CookieSink, email, password string) (domain.Profile, error)
	Register(ctx context.Context, sink CookieSink, name, email, password string) (domain.Profile, error)
	Logout(ctx context.Context, sink CookieSink) error
	// Demote logs out a session whose token the API refused. It does nothing
	// and returns false when token is no longer the current one.
	Demote(ctx context.Context, sink CookieSink, token string) bool
	UpdateProfile(ctx context.Context, sink CookieSink, name, contact string) (domain.Profile, error)
}

// SessionProvider hands out the Authenticator of an application session.
type SessionProvider interface {
	Acquire(sid string) Authenticator
	Release(sid string)
}
