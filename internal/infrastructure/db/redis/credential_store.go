package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/monochrome/portal/internal/core/domain"
	"github.com/monochrome/portal/internal/core/ports"
)

const keyPrefix = "portal:session:"

// CredentialStoreFactory hands out Redis-backed credential stores.
// Key format: portal:session:<sid> (hash with fields "token" and "user").
type CredentialStoreFactory struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

var _ ports.CredentialStoreFactory = (*CredentialStoreFactory)(nil)

// NewCredentialStoreFactory wraps client. A positive ttl is refreshed on every write.
func NewCredentialStoreFactory(client *redis.Client, ttl time.Duration, log zerolog.Logger) *CredentialStoreFactory {
	return &CredentialStoreFactory{client: client, ttl: ttl, log: log}
}

func (f *CredentialStoreFactory) ForSession(sid string) ports.CredentialStore {
	return &CredentialStore{client: f.client, key: keyPrefix + sid, ttl: f.ttl, log: f.log}
}

// CredentialStore is the persistent record of one application session.
type CredentialStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	log    zerolog.Logger
}

// Write stores token and profile in a single transaction.
func (s *CredentialStore) Write(ctx context.Context, session domain.Session) error {
	if !session.Complete() {
		return fmt.Errorf("credential store write: incomplete session")
	}
	user, err := domain.EncodeProfile(session.Profile)
	if err != nil {
		return fmt.Errorf("credential store write: %w", err)
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.key, domain.RecordTokenKey, session.Token, domain.RecordUserKey, user)
		if s.ttl > 0 {
			pipe.Expire(ctx, s.key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("credential store write: %w", err)
	}
	return nil
}

func (s *CredentialStore) Read(ctx context.Context) (domain.Session, bool, error) {
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return domain.Session{}, false, fmt.Errorf("credential store read: %w", err)
	}
	if len(fields) == 0 {
		return domain.Session{}, false, nil
	}

	session, ok := domain.DecodeRecord(fields[domain.RecordTokenKey], fields[domain.RecordUserKey])
	if !ok {
		s.log.Warn().Str("key", s.key).Msg("discarding corrupt credential record")
		if err := s.Clear(ctx); err != nil {
			return domain.Session{}, false, err
		}
		return domain.Session{}, false, nil
	}
	return session, true, nil
}

// Clear deletes the record. Deleting a missing key is not an error.
func (s *CredentialStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("credential store clear: %w", err)
	}
	return nil
}
