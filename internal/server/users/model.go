package users

import "time"

// User is the live account record the reconciler checks token claims against.
type User struct {
	ID         string
	Email      string
	Username   string
	IsActive   bool
	IsVerified bool
	Groups     []string
	CreatedAt  time.Time
}
