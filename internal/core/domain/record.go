package domain

import (
	"encoding/json"
	"fmt"
)

// Field names of the cached credential record. They are shared by the
// persistent store and the cookie representation.
const (
	RecordTokenKey = "token"
	RecordUserKey  = "user"
)

// EncodeProfile serializes a profile for the "user" entry.
func EncodeProfile(p Profile) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode profile: %w", err)
	}
	return string(data), nil
}

// DecodeRecord rebuilds a Session from the raw token and user entries. It
// returns ok == false for anything short of a complete session: missing
// token, malformed JSON or an incomplete profile.
func DecodeRecord(token, user string) (Session, bool) {
	if token == "" || user == "" {
		return Session{}, false
	}
	var p Profile
	if err := json.Unmarshal([]byte(user), &p); err != nil {
		return Session{}, false
	}
	s := Session{Token: token, Profile: p}
	if !s.Complete() {
		return Session{}, false
	}
	return s, true
}
