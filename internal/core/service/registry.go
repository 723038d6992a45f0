package service

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	"github.com/monochrome/portal/internal/api/metrics"
	"github.com/monochrome/portal/internal/core/ports"
)

// SessionRegistry holds one AuthFacade per application session id. It is
// bounded; the least recently used session is torn down when full.
type SessionRegistry struct {
	mu       sync.Mutex
	facades  *lru.Cache[string, *AuthFacade]
	stores   ports.CredentialStoreFactory
	identity ports.IdentityAPI
	verifier *Verifier
	logger   zerolog.Logger
}

func NewSessionRegistry(size int, stores ports.CredentialStoreFactory, identity ports.IdentityAPI, verifier *Verifier, logger zerolog.Logger) (*SessionRegistry, error) {
	r := &SessionRegistry{
		stores:   stores,
		identity: identity,
		verifier: verifier,
		logger:   logger,
	}
	cache, err := lru.NewWithEvict[string, *AuthFacade](size, r.onEvict)
	if err != nil {
		return nil, fmt.Errorf("session registry: %w", err)
	}
	r.facades = cache
	return r, nil
}

var _ ports.SessionProvider = (*SessionRegistry)(nil)

// Acquire returns the facade of sid, creating it on first use. The new
// facade is not started.
func (r *SessionRegistry) Acquire(sid string) ports.Authenticator {
	return r.acquire(sid)
}

func (r *SessionRegistry) acquire(sid string) *AuthFacade {
	r.mu.Lock()
	defer r.mu.Unlock()

	if f, ok := r.facades.Get(sid); ok {
		return f
	}
	f := NewAuthFacade(r.stores.ForSession(sid), r.identity, r.verifier, r.logger.With().Str("sid", shortID(sid)).Logger())
	r.facades.Add(sid, f)
	metrics.SessionRegistrySize.Inc()
	return f
}

// Release drops the facade of sid. The credential store is left as is, so
// the next Acquire starts from the persisted session.
func (r *SessionRegistry) Release(sid string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.facades.Remove(sid)
}

// Len is the number of sessions currently held.
func (r *SessionRegistry) Len() int {
	return r.facades.Len()
}

func (r *SessionRegistry) onEvict(sid string, _ *AuthFacade) {
	metrics.SessionRegistrySize.Dec()
	r.logger.Debug().Str("sid", shortID(sid)).Msg("session released")
}

func shortID(sid string) string {
	if len(sid) > 8 {
		return sid[:8]
	}
	return sid
}
