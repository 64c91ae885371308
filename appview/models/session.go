package models

import "time"

// Session is one app-password session against a PDS. The id is an
// opaque value stored in the user's cookie; the JWTs never leave the
// appview.
type Session struct {
	ID     string
	Did    string
	Handle string
	PdsUrl string

	AccessJwt  string
	RefreshJwt string
	Expiry     time.Time

	Created time.Time
}

func (s *Session) Expired() bool {
	return time.Now().After(s.Expiry)
}
