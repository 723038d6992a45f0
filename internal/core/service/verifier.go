package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/monochrome/portal/internal/api/metrics"
	"github.com/monochrome/portal/internal/core/domain"
	"github.com/monochrome/portal/internal/core/ports"
)

// Outcome is the result class of a session verification.
type Outcome string

const (
	// OutcomeAnonymous: there was no token, or it could not be checked and
	// the cached profile may not be trusted.
	OutcomeAnonymous Outcome = "anonymous"
	// OutcomeVerified: the API confirmed the token and returned a complete profile.
	OutcomeVerified Outcome = "verified"
	// OutcomeRejected: the token is invalid, expired or the profile is incomplete.
	OutcomeRejected Outcome = "rejected"
	// OutcomeUnverified: the API could not be reached and the cached profile is trusted.
	OutcomeUnverified Outcome = "unverified"
)

// Verification is what the Verifier concluded about a cached token. Profile
// is set for OutcomeVerified and OutcomeUnverified.
type Verification struct {
	Outcome Outcome
	Profile domain.Profile
	Reason  string
}

// Verifier decides whether a cached token still identifies a user. It only
// reports; the caller applies the effects on the credential store and cookies.
type Verifier struct {
	identity   ports.IdentityAPI
	trustCache bool
	now        func() time.Time
	log        zerolog.Logger
}

// NewVerifier builds a Verifier. trustCache keeps the cached profile when the
// identity check gets no usable response from the API.
func NewVerifier(identity ports.IdentityAPI, trustCache bool, log zerolog.Logger) *Verifier {
	return &Verifier{identity: identity, trustCache: trustCache, now: time.Now, log: log}
}

// Verify checks token against the API. cached is the profile read from the
// credential store alongside the token, or nil.
func (v *Verifier) Verify(ctx context.Context, token string, cached *domain.Profile) Verification {
	result := v.verify(ctx, token, cached)
	metrics.SessionVerificationsTotal.WithLabelValues(string(result.Outcome)).Inc()
	return result
}

func (v *Verifier) verify(ctx context.Context, token string, cached *domain.Profile) Verification {
	if strings.TrimSpace(token) == "" {
		return Verification{Outcome: OutcomeAnonymous, Reason: "no token"}
	}
	if reason, ok := v.rejectLocally(token); ok {
		return Verification{Outcome: OutcomeRejected, Reason: reason}
	}

	profile, err := v.identity.Me(ctx, token)
	if err == nil {
		if !profile.Complete() {
			return Verification{Outcome: OutcomeRejected, Reason: "incomplete profile"}
		}
		return Verification{Outcome: OutcomeVerified, Profile: profile}
	}

	if !errors.Is(err, domain.ErrBackendUnavailable) {
		return Verification{Outcome: OutcomeRejected, Reason: err.Error()}
	}
	if !v.trustCache || cached == nil || !cached.Complete() {
		// Not a rejection: the stored credentials stay for the next start.
		return Verification{Outcome: OutcomeAnonymous, Reason: "identity check unavailable"}
	}

	metrics.SessionTrustCacheTotal.Inc()
	v.log.Warn().Err(err).Str("user_id", cached.ID).Msg("identity check unavailable, trusting cached profile")
	return Verification{Outcome: OutcomeUnverified, Profile: *cached, Reason: "identity check unavailable"}
}

// rejectLocally catches JWT-shaped tokens that are malformed or already
// expired without a round trip. Opaque tokens are left to the API.
func (v *Verifier) rejectLocally(token string) (string, bool) {
	if strings.Count(token, ".") != 2 {
		return "", false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "malformed token", true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return "malformed token", true
	}
	if exp != nil && !exp.After(v.now()) {
		return "token expired", true
	}
	return "", false
}
