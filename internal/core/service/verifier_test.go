package service

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/monochrome/portal/internal/core/domain"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": exp.Unix(),
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

func TestVerifier_Outcomes(t *testing.T) {
	cached := sampleProfile()
	fresh := sampleProfile()
	fresh.Role = domain.RoleAdmin

	tests := []struct {
		name       string
		token      string
		cached     *domain.Profile
		trustCache bool
		meProfile  domain.Profile
		meErr      error
		want       Outcome
		wantCalls  int
	}{
		{name: "no token", token: "", want: OutcomeAnonymous},
		{name: "verified", token: "opaque", cached: &cached, meProfile: fresh, want: OutcomeVerified, wantCalls: 1},
		{name: "unauthorized", token: "opaque", cached: &cached, meErr: &domain.APIError{Status: http.StatusUnauthorized}, want: OutcomeRejected, wantCalls: 1},
		{name: "forbidden", token: "opaque", cached: &cached, meErr: &domain.APIError{Status: http.StatusForbidden}, want: OutcomeRejected, wantCalls: 1},
		{name: "other client error", token: "opaque", cached: &cached, meErr: &domain.APIError{Status: http.StatusNotFound}, want: OutcomeRejected, wantCalls: 1},
		{name: "incomplete profile", token: "opaque", cached: &cached, meProfile: domain.Profile{ID: "u1"}, want: OutcomeRejected, wantCalls: 1},
		{name: "network failure trusted", token: "opaque", cached: &cached, trustCache: true, meErr: fmt.Errorf("me: %w", domain.ErrBackendUnavailable), want: OutcomeUnverified, wantCalls: 1},
		{name: "server error trusted", token: "opaque", cached: &cached, trustCache: true, meErr: &domain.APIError{Status: http.StatusBadGateway}, want: OutcomeUnverified, wantCalls: 1},
		{name: "network failure untrusted", token: "opaque", cached: &cached, trustCache: false, meErr: domain.ErrBackendUnavailable, want: OutcomeAnonymous, wantCalls: 1},
		{name: "network failure without cache", token: "opaque", trustCache: true, meErr: domain.ErrBackendUnavailable, want: OutcomeAnonymous, wantCalls: 1},
		{name: "malformed jwt", token: "aaa.bbb.ccc", cached: &cached, want: OutcomeRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity := &stubIdentity{meFn: func(context.Context, string) (domain.Profile, error) {
				return tt.meProfile, tt.meErr
			}}
			v := NewVerifier(identity, tt.trustCache, zerolog.Nop())

			got := v.Verify(context.Background(), tt.token, tt.cached)
			if got.Outcome != tt.want {
				t.Fatalf("expected %s, got %s (%s)", tt.want, got.Outcome, got.Reason)
			}
			if calls := identity.meCalls.Load(); int(calls) != tt.wantCalls {
				t.Fatalf("expected %d identity calls, got %d", tt.wantCalls, calls)
			}
			switch got.Outcome {
			case OutcomeVerified:
				if got.Profile != fresh {
					t.Fatalf("expected server profile, got %+v", got.Profile)
				}
			case OutcomeUnverified:
				if got.Profile != cached {
					t.Fatalf("expected cached profile, got %+v", got.Profile)
				}
			}
		})
	}
}

func TestVerifier_ExpiredJWTRejectedLocally(t *testing.T) {
	identity := &stubIdentity{meFn: func(context.Context, string) (domain.Profile, error) {
		return sampleProfile(), nil
	}}
	v := NewVerifier(identity, true, zerolog.Nop())
	cached := sampleProfile()

	got := v.Verify(context.Background(), signedToken(t, time.Now().Add(-time.Minute)), &cached)
	if got.Outcome != OutcomeRejected || got.Reason != "token expired" {
		t.Fatalf("expected expired rejection, got %+v", got)
	}
	if identity.meCalls.Load() != 0 {
		t.Fatalf("expired token must not reach the API")
	}

	got = v.Verify(context.Background(), signedToken(t, time.Now().Add(time.Hour)), &cached)
	if got.Outcome != OutcomeVerified {
		t.Fatalf("expected live token to be verified, got %+v", got)
	}
	if identity.meCalls.Load() != 1 {
		t.Fatalf("expected one identity call for a live token")
	}
}
