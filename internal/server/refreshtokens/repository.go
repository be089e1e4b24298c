// Package refreshtokens owns persistence of refresh token records. Other
// components only observe or mutate records through the Repository interface,
// never directly.
package refreshtokens

import (
	"context"
	"time"
)

// Repository defines operations for issuing, retrieving, revoking and purging
// refresh tokens.
type Repository interface {
	// Create stores a new active refresh token for userID with an expiry of
	// now+validity. Returns common.ErrDuplicateToken if the token string is
	// already present.
	Create(ctx context.Context, userID string, token string, validity time.Duration) error

	// FindActive looks up a refresh token by its opaque token string and
	// returns the record only while it is active. Revoked, expired and
	// unknown tokens all yield common.ErrorNotFound, so callers cannot
	// distinguish them.
	FindActive(ctx context.Context, token string) (*RefreshToken, error)

	// Revoke marks the token revoked. Revoking an unknown or already revoked
	// token is not an error.
	Revoke(ctx context.Context, token string) error

	// RevokeAllForUser marks every token owned by userID revoked. Idempotent.
	RevokeAllForUser(ctx context.Context, userID string) error

	// PurgeExpiredOrRevoked deletes every record that has expired or been
	// revoked and returns the number of deleted rows.
	PurgeExpiredOrRevoked(ctx context.Context) (int64, error)
}
