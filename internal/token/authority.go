// Package token implements the service token authority: issuing and
// verifying the short-lived, audience-scoped tokens that services attach
// to every call. Tokens are a second authorization layer on top of the
// channel-level mutual TLS handled by the pki package.
package token

import (
	"errors"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"finledger/internal/common"
)

// DefaultLifetime is the token validity period used when the
// configuration does not override it.
const DefaultLifetime = 30 * time.Minute

// Claims is the verified content of a service token: who issued it, which
// service it may be presented to, and which operations it authorizes.
type Claims struct {
	jwt.RegisteredClaims
	Scope []string `json:"scope"`
}

// HasScope reports whether the token carries the given permission.
func (c *Claims) HasScope(scope string) bool {
	return slices.Contains(c.Scope, scope)
}

// Authority issues and verifies service tokens for one service identity.
// The signing key is process-wide trusted configuration shared by all
// services, not per-request state.
type Authority struct {
	service  string
	secret   []byte
	lifetime time.Duration
}

// NewAuthority creates an Authority for the given service identity. A
// non-positive lifetime falls back to DefaultLifetime.
func NewAuthority(service string, secret []byte, lifetime time.Duration) *Authority {
	if lifetime <= 0 {
		lifetime = DefaultLifetime
	}
	return &Authority{service: service, secret: secret, lifetime: lifetime}
}

// Lifetime returns the validity period of issued tokens.
func (a *Authority) Lifetime() time.Duration {
	return a.lifetime
}

// Issue produces a signed token authorizing this service to call the
// audience service with the given scopes. issued_at is now, expiry is
// now plus the configured lifetime.
func (a *Authority) Issue(audience string, scopes []string, now time.Time) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    a.service,
			Subject:   a.service,
			Audience:  jwt.ClaimStrings{audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.lifetime)),
		},
		Scope: scopes,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Verify parses and validates a token presented to this service. The
// expected audience is the callee's own identity; now is the verification
// time. Failures map to the sentinel errors in the common package:
// ErrMalformedToken for parse or signature problems, ErrAudienceMismatch
// and ErrTokenExpired for claim violations.
func (a *Authority) Verify(tokenString, expectedAudience string, now time.Time) (*Claims, error) {
	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return a.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(expectedAudience),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed),
			errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, common.ErrMalformedToken
		case errors.Is(err, jwt.ErrTokenInvalidAudience):
			return nil, common.ErrAudienceMismatch
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, common.ErrTokenExpired
		default:
			return nil, common.ErrMalformedToken
		}
	}

	if !parsed.Valid {
		return nil, common.ErrMalformedToken
	}

	return claims, nil
}
