package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// AuthState is a state of the per-application-session auth machine.
type AuthState string

const (
	StateLoading       AuthState = "loading"
	StateAnonymous     AuthState = "anonymous"
	StateAuthenticated AuthState = "authenticated"
)

// Snapshot is a read-only copy of the auth state handed to consumers.
// Profile is nil unless State is StateAuthenticated.
type Snapshot struct {
	State   AuthState `json:"state"`
	Profile *Profile  `json:"user,omitempty"`
}

// Authenticated reports whether the snapshot carries a profile.
func (s Snapshot) Authenticated() bool {
	return s.State == StateAuthenticated && s.Profile != nil
}

var (
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrForbidden          = errors.New("access forbidden")
	ErrOwnRole            = errors.New("you cannot change your own role")
	ErrDeleteSelf         = errors.New("you cannot delete your own account")
)

// FailureKind classifies an expected authentication failure.
type FailureKind string

const (
	FailureValidation  FailureKind = "validation"
	FailureCredentials FailureKind = "credentials"
	FailureNetwork     FailureKind = "network"
)

// ConnectionErrorMessage is shown whenever the marketplace API cannot be reached.
const ConnectionErrorMessage = "Connection error. Please try again."

// AuthFailure is the expected-failure result of login, register and profile
// edits. Message is always human readable and non-empty.
type AuthFailure struct {
	Kind    FailureKind
	Message string
	Err     error
}

func (f *AuthFailure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %s: %v", f.Kind, f.Message, f.Err)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

func (f *AuthFailure) Unwrap() error { return f.Err }

// NewAuthFailure builds an AuthFailure, substituting fallback for an empty message.
func NewAuthFailure(kind FailureKind, message, fallback string, err error) *AuthFailure {
	if message == "" {
		message = fallback
	}
	return &AuthFailure{Kind: kind, Message: message, Err: err}
}

// APIError is a response from the marketplace API that signals failure,
// either by HTTP status or by {"success": false}.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("marketplace api: %d: %s", e.Status, e.Message)
}

// Is matches API errors against the domain sentinels. A 5xx counts as the
// backend being unavailable.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotAuthenticated:
		return e.Status == http.StatusUnauthorized
	case ErrForbidden:
		return e.Status == http.StatusForbidden
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrBackendUnavailable:
		return e.Status >= http.StatusInternalServerError
	}
	return false
}

// Rejected reports whether the API refused the credentials (401/403).
func (e *APIError) Rejected() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}
