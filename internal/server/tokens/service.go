// Package tokens contains the session-credential core: issuing access/refresh
// pairs, rotating refresh tokens, revoking them, and reconciling access-token
// claims against live account state.
package tokens

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mbaumgart/identity-server/internal/common"
	"github.com/mbaumgart/identity-server/internal/cryptox"
	"github.com/mbaumgart/identity-server/internal/logging"
	"github.com/mbaumgart/identity-server/internal/server/auth"
	"github.com/mbaumgart/identity-server/internal/server/config"
	"github.com/mbaumgart/identity-server/internal/server/refreshtokens"
	"github.com/mbaumgart/identity-server/internal/server/users"
)

// signingKeyPurpose separates the access-token HMAC key from any other key
// derived from the same configured secret.
const signingKeyPurpose = "access-token-signing"

// TokenPair bundles a short-lived access token, a long-lived opaque refresh
// token, and the access token lifetime in seconds. The pair is always handed
// out together; an access token is never returned without its refresh record
// being durably stored first.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// Service provides the credential operations consumed by login flows and
// protected routes:
//   - Issue: mint a pair from an identity snapshot
//   - VerifyStateless: cryptographic check only
//   - Authenticate: cryptographic check plus live-state reconciliation
//   - Refresh: use-once rotation of a refresh token
//   - Revoke / RevokeAllForUser: idempotent invalidation
type Service struct {
	users                        users.Repository
	refreshTokens                refreshtokens.Repository
	logger                       logging.Logger
	signingKey                   []byte
	issuer                       string
	audience                     string
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

// NewService constructs a Service. The HMAC signing key is derived once from
// the configured secret material.
func NewService(userRepo users.Repository, refreshTokenRepo refreshtokens.Repository, cfg *config.Config, logger logging.Logger) (*Service, error) {
	key, err := cryptox.DeriveSigningKey([]byte(cfg.SecretKey), signingKeyPurpose)
	if err != nil {
		return nil, fmt.Errorf("error deriving signing key: %w", err)
	}

	return &Service{
		users:                        userRepo,
		refreshTokens:                refreshTokenRepo,
		logger:                       logger.With("module", "tokens"),
		signingKey:                   key,
		issuer:                       cfg.Issuer,
		audience:                     cfg.Audience,
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}, nil
}

// Issue mints an access token carrying the snapshot and a fresh opaque
// refresh token, persisting the refresh record before anything is returned.
// If persistence fails the whole call fails and no partial pair escapes. A
// random-collision on the refresh token string is retried once with a new
// token.
func (s *Service) Issue(ctx context.Context, payload auth.Payload) (*TokenPair, error) {
	accessToken, err := auth.GenerateToken(payload, s.signingKey, s.issuer, s.audience, s.accessTokenValidityDuration)
	if err != nil {
		s.logger.Error(ctx, "error generating access token", "error", err)
		return nil, common.ErrorInternal
	}

	for attempt := 0; attempt < 2; attempt++ {
		refreshToken, err := common.MakeRandHexString(common.RefreshTokenByteLength)
		if err != nil {
			s.logger.Error(ctx, "error generating refresh token", "error", err)
			return nil, common.ErrorInternal
		}

		err = s.refreshTokens.Create(ctx, payload.UserID, refreshToken, s.refreshTokenValidityDuration)
		if errors.Is(err, common.ErrDuplicateToken) {
			// astronomically unlikely with 64 random bytes, but handled
			s.logger.Warn(ctx, "refresh token collision, regenerating")
			continue
		}
		if err != nil {
			s.logger.Error(ctx, "error storing refresh token", "error", err)
			return nil, common.ErrorInternal
		}

		return &TokenPair{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresIn:    int64(s.accessTokenValidityDuration.Seconds()),
		}, nil
	}

	return nil, common.ErrorInternal
}

// VerifyStateless checks signature, expiry, issuer and audience of the access
// token and returns the embedded snapshot. No I/O; sufficient only where
// cryptographic freshness alone is acceptable.
func (s *Service) VerifyStateless(ctx context.Context, token string) (*auth.Payload, error) {
	return auth.ParseToken(token, s.signingKey, s.issuer, s.audience)
}

// Authenticate is the gate every protected operation calls. It verifies the
// token cryptographically and then reconciles its cached claims against the
// live account record. Every failure collapses to ErrorUnauthorized; the
// specific cause is logged but never surfaced, so callers get no oracle
// distinguishing a bad signature from a deactivated account or stale claims.
//
// The returned payload is rebuilt from the live record, so downstream checks
// in the same request see the current group set even though the bearer
// credential itself still carries the cached one.
func (s *Service) Authenticate(ctx context.Context, token string) (*auth.Payload, error) {
	payload, err := auth.ParseToken(token, s.signingKey, s.issuer, s.audience)
	if err != nil {
		s.logger.Warn(ctx, "authentication rejected", "reason", err)
		return nil, common.ErrorUnauthorized
	}

	user, err := s.users.GetByID(ctx, payload.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Warn(ctx, "authentication rejected", "reason", common.ErrUserInactive, "user_id", payload.UserID)
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "error loading user", "error", err, "user_id", payload.UserID)
		return nil, common.ErrorUnauthorized
	}

	if err := reconcile(payload, user); err != nil {
		s.logger.Warn(ctx, "authentication rejected", "reason", err, "user_id", payload.UserID)
		return nil, common.ErrorUnauthorized
	}

	return snapshot(user), nil
}

// Refresh consumes oldToken and produces a new pair. The old token is revoked
// before the replacement is issued, so it is never simultaneously valid with
// its successor. If issuance fails after the revoke committed, the old token
// stays dead and the caller has to re-authenticate; fail-closed is the chosen
// outcome, there is no compensating rollback.
func (s *Service) Refresh(ctx context.Context, oldToken string) (*TokenPair, error) {
	rec, err := s.refreshTokens.FindActive(ctx, oldToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrRefreshTokenInvalid
		}
		s.logger.Error(ctx, "error searching refresh token", "error", err)
		return nil, common.ErrorInternal
	}

	// Re-resolve the owner's current state. The snapshot inside the old
	// access token may already be stale, so it is never reused here.
	user, err := s.users.GetByID(ctx, rec.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Warn(ctx, "refresh rejected: owner absent", "user_id", rec.UserID)
			return nil, common.ErrRefreshTokenInvalid
		}
		s.logger.Error(ctx, "error loading user", "error", err, "user_id", rec.UserID)
		return nil, common.ErrorInternal
	}
	if !user.IsActive {
		s.logger.Warn(ctx, "refresh rejected: owner inactive", "user_id", rec.UserID)
		return nil, common.ErrRefreshTokenInvalid
	}

	if err := s.refreshTokens.Revoke(ctx, oldToken); err != nil {
		s.logger.Error(ctx, "error revoking refresh token", "error", err)
		return nil, common.ErrorInternal
	}

	return s.Issue(ctx, *snapshot(user))
}

// Revoke invalidates a single refresh token. Unknown and already revoked
// tokens are treated the same, so the call is idempotent.
func (s *Service) Revoke(ctx context.Context, token string) error {
	if err := s.refreshTokens.Revoke(ctx, token); err != nil {
		s.logger.Error(ctx, "error revoking refresh token", "error", err)
		return common.ErrorInternal
	}
	return nil
}

// RevokeAllForUser invalidates every refresh token owned by userID.
// Idempotent; tokens of other users are untouched.
func (s *Service) RevokeAllForUser(ctx context.Context, userID string) error {
	if err := s.refreshTokens.RevokeAllForUser(ctx, userID); err != nil {
		s.logger.Error(ctx, "error revoking user refresh tokens", "error", err, "user_id", userID)
		return common.ErrorInternal
	}
	return nil
}

// reconcile compares the token's cached claims with the live record. Email,
// username and verified flag must match exactly. Every group cached in the
// token must still be present live: the account may have gained groups since
// issuance, and those are intentionally not granted to this credential until
// it is refreshed or re-issued.
func reconcile(payload *auth.Payload, user *users.User) error {
	if !user.IsActive {
		return common.ErrUserInactive
	}

	if payload.Email != user.Email ||
		payload.Username != user.Username ||
		payload.IsVerified != user.IsVerified {
		return common.ErrStaleClaims
	}

	live := make(map[string]struct{}, len(user.Groups))
	for _, g := range user.Groups {
		live[g] = struct{}{}
	}
	for _, g := range payload.Groups {
		if _, ok := live[g]; !ok {
			return common.ErrStaleClaims
		}
	}

	return nil
}

// snapshot builds a payload from the live user record.
func snapshot(user *users.User) *auth.Payload {
	return &auth.Payload{
		UserID:     user.ID,
		Email:      user.Email,
		Username:   user.Username,
		IsVerified: user.IsVerified,
		Groups:     append([]string(nil), user.Groups...),
	}
}
