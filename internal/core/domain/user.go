package domain

import (
	"strings"
	"time"
)

// Role is the coarse permission class returned by the marketplace API.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Profile is the identity half of a Session, as served by /api/auth/me.
type Profile struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    Role   `json:"role"`
	Contact string `json:"contact,omitempty"`
}

// Complete reports whether every required field is present.
func (p Profile) Complete() bool {
	return strings.TrimSpace(p.ID) != "" &&
		strings.TrimSpace(p.Name) != "" &&
		strings.TrimSpace(p.Email) != "" &&
		p.Role.Valid()
}

// IsAdmin is a convenience for role checks in views.
func (p Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// Session is the client's belief about the authenticated identity.
// A Session is either absent or complete; see Complete.
type Session struct {
	Token   string
	Profile Profile
}

// Complete reports whether the session carries a token and a complete profile.
func (s Session) Complete() bool {
	return strings.TrimSpace(s.Token) != "" && s.Profile.Complete()
}

// ManagedUser is a user record as listed in the admin users view.
type ManagedUser struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Contact   string    `json:"contact,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
