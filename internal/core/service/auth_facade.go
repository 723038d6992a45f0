package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/monochrome/portal/internal/api/metrics"
	"github.com/monochrome/portal/internal/core/domain"
	"github.com/monochrome/portal/internal/core/ports"
)

const (
	loginFailed        = "Login failed"
	registrationFailed = "Registration failed"
)

// AuthFacade is the single in-memory source of truth for who is logged in
// on one application session. It owns the state machine and is the only
// writer of the credential store and of the cookie representation.
type AuthFacade struct {
	store    ports.CredentialStore
	identity ports.IdentityAPI
	verifier *Verifier
	logger   zerolog.Logger

	// writeMu serializes changes to the store, the cookies and the state.
	writeMu sync.Mutex

	mu      sync.RWMutex
	state   domain.AuthState
	session domain.Session
	gen     uint64
	started bool

	flights singleflight.Group
}

var _ ports.Authenticator = (*AuthFacade)(nil)

func NewAuthFacade(store ports.CredentialStore, identity ports.IdentityAPI, verifier *Verifier, logger zerolog.Logger) *AuthFacade {
	return &AuthFacade{
		store:    store,
		identity: identity,
		verifier: verifier,
		logger:   logger,
		state:    domain.StateLoading,
	}
}

// Start runs the startup sequence once: an optimistic read of the cached
// session, verification against the API and reconciliation of the result.
// Later calls return immediately; callers that arrive while the first one
// is still verifying observe Loading or the optimistic Authenticated state.
func (f *AuthFacade) Start(ctx context.Context, sink ports.CookieSink) {
	f.mu.Lock()
	if f.started {
		f.mu.Unlock()
		return
	}
	f.started = true
	f.mu.Unlock()

	sink = sinkOrNop(sink)
	gen := f.generation()

	cached, ok, err := f.store.Read(ctx)
	if err != nil {
		f.logger.Error().Err(err).Msg("credential store read failed")
		ok = false
	}

	var cachedProfile *domain.Profile
	if ok {
		cachedProfile = &cached.Profile
		if gen, ok = f.transitionIf(gen, domain.StateAuthenticated, cached); !ok {
			f.logger.Debug().Msg("cached session superseded")
			return
		}
	}

	result := f.verifier.Verify(ctx, cached.Token, cachedProfile)

	f.writeMu.Lock()
	defer f.writeMu.Unlock()
	if f.generation() != gen {
		// Another operation changed the state while the API was answering.
		f.logger.Debug().Str("outcome", string(result.Outcome)).Msg("verification superseded")
		return
	}

	switch result.Outcome {
	case OutcomeVerified:
		session := domain.Session{Token: cached.Token, Profile: result.Profile}
		if err := f.persistLocked(ctx, sink, session); err != nil {
			f.logger.Error().Err(err).Msg("persisting verified session failed")
			f.transition(domain.StateAuthenticated, session)
		}
	case OutcomeUnverified:
		sink.SetSession(cached)
		f.transition(domain.StateAuthenticated, cached)
	case OutcomeRejected:
		f.logger.Info().Str("reason", result.Reason).Msg("cached session rejected")
		if err := f.discardLocked(ctx, sink); err != nil {
			f.logger.Error().Err(err).Msg("clearing rejected session failed")
		}
	default:
		if !ok {
			sink.ClearSession()
		}
		f.transition(domain.StateAnonymous, domain.Session{})
	}
}

// Snapshot returns a copy of the current state.
func (f *AuthFacade) Snapshot() domain.Snapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()

	snap := domain.Snapshot{State: f.state}
	if f.state == domain.StateAuthenticated {
		profile := f.session.Profile
		snap.Profile = &profile
	}
	return snap
}

// Token returns the bearer token while authenticated.
func (f *AuthFacade) Token() (string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.state != domain.StateAuthenticated {
		return "", false
	}
	return f.session.Token, true
}

// Login authenticates against the API. Expected failures come back as
// *domain.AuthFailure and leave the state unchanged.
func (f *AuthFacade) Login(ctx context.Context, sink ports.CookieSink, email, password string) (domain.Profile, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return domain.Profile{}, domain.NewAuthFailure(domain.FailureValidation, "Email and password are required", loginFailed, nil)
	}

	key := "login\x00" + strings.ToLower(email) + "\x00" + password
	v, err, _ := f.flights.Do(key, func() (any, error) {
		// Shared by every collapsed caller.
		return f.identity.Login(context.WithoutCancel(ctx), email, password)
	})
	if err != nil {
		return domain.Profile{}, f.failure(err, loginFailed)
	}
	return f.establish(ctx, sink, v.(domain.Session), loginFailed)
}

// Register creates an account and authenticates it in the same step.
func (f *AuthFacade) Register(ctx context.Context, sink ports.CookieSink, name, email, password string) (domain.Profile, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return domain.Profile{}, domain.NewAuthFailure(domain.FailureValidation, "Name, email and password are required", registrationFailed, nil)
	}

	key := "register\x00" + strings.ToLower(email) + "\x00" + name + "\x00" + password
	v, err, _ := f.flights.Do(key, func() (any, error) {
		return f.identity.Register(context.WithoutCancel(ctx), name, email, password)
	})
	if err != nil {
		return domain.Profile{}, f.failure(err, registrationFailed)
	}
	return f.establish(ctx, sink, v.(domain.Session), registrationFailed)
}

// Logout clears both representations and moves to Anonymous from any state.
func (f *AuthFacade) Logout(ctx context.Context, sink ports.CookieSink) error {
	return f.discard(ctx, sinkOrNop(sink))
}

// Demote logs the session out after the API refused token on a data call.
// It reports false and changes nothing when token is no longer the current
// one, such as after a newer login.
func (f *AuthFacade) Demote(ctx context.Context, sink ports.CookieSink, token string) bool {
	f.writeMu.Lock()
	defer f.writeMu.Unlock()

	f.mu.RLock()
	current := f.state == domain.StateAuthenticated && token != "" && f.session.Token == token
	f.mu.RUnlock()
	if !current {
		return false
	}

	if err := f.discardLocked(ctx, sinkOrNop(sink)); err != nil {
		f.logger.Error().Err(err).Msg("clearing revoked session failed")
	}
	f.logger.Info().Msg("session revoked by api")
	return true
}

// UpdateProfile edits the name and contact of the logged-in user and
// persists the result to both representations.
func (f *AuthFacade) UpdateProfile(ctx context.Context, sink ports.CookieSink, name, contact string) (domain.Profile, error) {
	f.writeMu.Lock()
	defer f.writeMu.Unlock()

	f.mu.RLock()
	state, session := f.state, f.session
	f.mu.RUnlock()

	if state != domain.StateAuthenticated {
		return domain.Profile{}, domain.ErrNotAuthenticated
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Profile{}, domain.NewAuthFailure(domain.FailureValidation, "Name is required", "", nil)
	}

	session.Profile.Name = name
	session.Profile.Contact = strings.TrimSpace(contact)
	if err := f.persistLocked(ctx, sinkOrNop(sink), session); err != nil {
		return domain.Profile{}, err
	}
	return session.Profile, nil
}

func (f *AuthFacade) establish(ctx context.Context, sink ports.CookieSink, session domain.Session, fallback string) (domain.Profile, error) {
	if !session.Complete() {
		return domain.Profile{}, domain.NewAuthFailure(domain.FailureCredentials, "", fallback, errors.New("incomplete session in response"))
	}
	if err := f.persist(ctx, sinkOrNop(sink), session); err != nil {
		return domain.Profile{}, err
	}
	f.logger.Info().Str("user_id", session.Profile.ID).Str("role", string(session.Profile.Role)).Msg("user authenticated")
	return session.Profile, nil
}

// persist writes the credential store and the cookies in one step, then
// moves to Authenticated. Nothing changes when the store write fails.
func (f *AuthFacade) persist(ctx context.Context, sink ports.CookieSink, session domain.Session) error {
	f.writeMu.Lock()
	defer f.writeMu.Unlock()
	return f.persistLocked(ctx, sink, session)
}

func (f *AuthFacade) persistLocked(ctx context.Context, sink ports.CookieSink, session domain.Session) error {
	if err := f.store.Write(ctx, session); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	sink.SetSession(session)
	f.transition(domain.StateAuthenticated, session)
	return nil
}

// discard clears both representations and moves to Anonymous. The state
// changes even when the store cannot be cleared.
func (f *AuthFacade) discard(ctx context.Context, sink ports.CookieSink) error {
	f.writeMu.Lock()
	defer f.writeMu.Unlock()
	return f.discardLocked(ctx, sink)
}

func (f *AuthFacade) discardLocked(ctx context.Context, sink ports.CookieSink) error {
	err := f.store.Clear(ctx)
	sink.ClearSession()
	f.transition(domain.StateAnonymous, domain.Session{})
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (f *AuthFacade) transition(to domain.AuthState, session domain.Session) {
	f.mu.Lock()
	from := f.state
	f.state = to
	f.session = session
	f.gen++
	f.mu.Unlock()

	if from == to {
		return
	}
	metrics.AuthTransitionsTotal.WithLabelValues(string(from), string(to)).Inc()
	f.logger.Debug().Str("from", string(from)).Str("to", string(to)).Msg("auth state transition")
}

// transitionIf moves to the given state unless another operation changed
// it since gen was read, and returns the new generation.
func (f *AuthFacade) transitionIf(gen uint64, to domain.AuthState, session domain.Session) (uint64, bool) {
	f.writeMu.Lock()
	defer f.writeMu.Unlock()
	if f.generation() != gen {
		return gen, false
	}
	f.transition(to, session)
	return f.generation(), true
}

// generation counts transitions; a changed value means another operation
// has rewritten the state.
func (f *AuthFacade) generation() uint64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.gen
}

// failure maps an API error to an AuthFailure with a message fit for display.
func (f *AuthFacade) failure(err error, fallback string) error {
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		kind := domain.FailureCredentials
		if apiErr.Status >= http.StatusInternalServerError {
			kind = domain.FailureNetwork
		}
		return domain.NewAuthFailure(kind, apiErr.Message, fallback, err)
	}
	if errors.Is(err, domain.ErrBackendUnavailable) {
		return domain.NewAuthFailure(domain.FailureNetwork, domain.ConnectionErrorMessage, fallback, err)
	}
	f.logger.Error().Err(err).Msg("unexpected authentication error")
	return domain.NewAuthFailure(domain.FailureNetwork, "", fallback, err)
}

type nopSink struct{}

func (nopSink) SetSession(domain.Session) {}
func (nopSink) ClearSession()             {}

func sinkOrNop(sink ports.CookieSink) ports.CookieSink {
	if sink == nil {
		return nopSink{}
	}
	return sink
}
