package ports

import (
	"context"

	"github.com/monochrome/portal/internal/core/domain"
)

// CredentialStore is the persistent key-value store holding one application
// session's token and profile.
type CredentialStore interface {
	// Write persists the token and serialized profile. It never touches the
	// cookie representation.
	Write(ctx context.Context, session domain.Session) error
	// Read returns the last written session. Malformed or partial entries are
	// cleared and reported as absent (ok == false, err == nil).
	Read(ctx context.Context) (session domain.Session, ok bool, err error)
	// Clear removes token and profile. Clearing an empty store is a no-op.
	Clear(ctx context.Context) error
}

// CredentialStoreFactory binds a CredentialStore to an application session id.
type CredentialStoreFactory interface {
	ForSession(sid string) CredentialStore
}

// CookieSink receives the cookie representation of the session for the
// response currently being written.
type CookieSink interface {
	SetSession(session domain.Session)
	ClearSession()
}
