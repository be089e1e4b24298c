// Package common defines shared constants and sentinel errors used across
// the identity server. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound     = errors.New("not found")
	ErrDuplicateToken = errors.New("duplicate refresh token")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Verifier errors (stateless access token checks).
	ErrTokenMalformed        = errors.New("token malformed")
	ErrTokenSignatureInvalid = errors.New("token signature invalid")
	ErrTokenExpired          = errors.New("token expired")

	// Rotation errors. Unknown, revoked and expired refresh tokens are
	// deliberately indistinguishable to callers.
	ErrRefreshTokenInvalid = errors.New("invalid or expired refresh token")

	// Reconciler errors. Logged internally and collapsed to
	// ErrorUnauthorized at the authentication boundary.
	ErrUserInactive = errors.New("user inactive or absent")
	ErrStaleClaims  = errors.New("token claims stale against live user state")
)
