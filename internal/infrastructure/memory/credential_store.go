// Package memory implements an in-process credential store for development
// and tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/monochrome/portal/internal/core/domain"
	"github.com/monochrome/portal/internal/core/ports"
)

// Store keeps raw credential records keyed by application session id.
type Store struct {
	mu      sync.Mutex
	records map[string]map[string]string
}

var _ ports.CredentialStoreFactory = (*Store)(nil)

func New() *Store {
	return &Store{records: make(map[string]map[string]string)}
}

func (s *Store) ForSession(sid string) ports.CredentialStore {
	return &CredentialStore{db: s, sid: sid}
}

// Put stores raw entries for sid. It bypasses validation and lets tests
// plant corrupt records.
func (s *Store) Put(sid, token, user string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[sid] = map[string]string{domain.RecordTokenKey: token, domain.RecordUserKey: user}
}

// Has reports whether any record exists for sid.
func (s *Store) Has(sid string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.records[sid]
	return ok
}

// CredentialStore is the memory-backed record of one application session.
type CredentialStore struct {
	db  *Store
	sid string
}

func (c *CredentialStore) Write(_ context.Context, session domain.Session) error {
	if !session.Complete() {
		return fmt.Errorf("credential store write: incomplete session")
	}
	user, err := domain.EncodeProfile(session.Profile)
	if err != nil {
		return fmt.Errorf("credential store write: %w", err)
	}
	c.db.Put(c.sid, session.Token, user)
	return nil
}

func (c *CredentialStore) Read(_ context.Context) (domain.Session, bool, error) {
	c.db.mu.Lock()
	defer c.db.mu.Unlock()

	rec, ok := c.db.records[c.sid]
	if !ok {
		return domain.Session{}, false, nil
	}
	session, ok := domain.DecodeRecord(rec[domain.RecordTokenKey], rec[domain.RecordUserKey])
	if !ok {
		delete(c.db.records, c.sid)
		return domain.Session{}, false, nil
	}
	return session, true, nil
}

func (c *CredentialStore) Clear(_ context.Context) error {
	c.db.mu.Lock()
	defer c.db.mu.Unlock()
	delete(c.db.records, c.sid)
	return nil
}
