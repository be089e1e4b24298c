package refreshtokens

import "time"

// RefreshToken is a stored rotation token record. The opaque Token string is
// the unique lookup key; a record is active iff it is not revoked and has not
// expired.
type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	Expires   time.Time
	Revoked   bool
	CreatedAt time.Time
}
