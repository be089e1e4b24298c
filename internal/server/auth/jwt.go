// Package auth implements the stateless access-token layer: signing identity
// snapshots into compact JWTs and verifying them without touching storage.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mbaumgart/identity-server/internal/common"
)

// Payload is the identity snapshot embedded in every access token. It is
// cached at issuance time and may become stale relative to live account
// state; the reconciler in the tokens service is responsible for detecting
// that.
type Payload struct {
	UserID     string   `json:"userId"`
	Email      string   `json:"email"`
	Username   string   `json:"username"`
	IsVerified bool     `json:"isVerified"`
	Groups     []string `json:"groups,omitempty"`
}

// Claims combines the registered JWT claims with the identity snapshot.
type Claims struct {
	jwt.RegisteredClaims
	Payload
}

// GenerateToken signs the payload into an HS256 JWT with the given issuer,
// audience and validity window.
func GenerateToken(payload Payload, secretKey []byte, issuer, audience string, validityDuration time.Duration) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		Payload: payload,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies signature, expiry, issuer and audience, and returns the
// embedded payload. Failures map onto the sentinel errors in common:
// ErrTokenExpired, ErrTokenSignatureInvalid, ErrTokenMalformed.
func ParseToken(tokenString string, secretKey []byte, issuer, audience string) (*Payload, error) {
	claims := &Claims{}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
	)

	token, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, common.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, common.ErrTokenSignatureInvalid
		default:
			return nil, common.ErrTokenMalformed
		}
	}

	if !token.Valid {
		return nil, common.ErrTokenSignatureInvalid
	}

	return &claims.Payload, nil
}
