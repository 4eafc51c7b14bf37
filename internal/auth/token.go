// Package auth issues, verifies and revokes bearer tokens and hashes passwords.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"bloghub/internal/cache"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	Issuer   = "bloghub-api"
	Audience = "bloghub-client"

	revokedKeyPrefix = "blacklist:"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrTokenRevoked = errors.New("token has been revoked")
)

// Claims are the registered JWT claims carried by a bearer token.
type Claims struct {
	jwt.RegisteredClaims
}

// UserID returns the subject as a user id.
func (c *Claims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 32)
	if err != nil || id == 0 {
		return 0, ErrInvalidToken
	}
	return uint(id), nil
}

// TokenManager signs HS256 tokens and tracks revoked token ids in a cache.Store.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	store  cache.Store
	now    func() time.Time
}

// NewTokenManager returns a TokenManager. store holds revocations until each token's own expiry.
func NewTokenManager(secret string, ttl time.Duration, store cache.Store) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		store:  store,
		now:    time.Now,
	}
}

// Issue returns a signed token for userID.
func (m *TokenManager) Issue(userID uint) (string, error) {
	if len(m.secret) == 0 {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := m.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			Issuer:    Issuer,
			Audience:  jwt.ClaimStrings{Audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify parses tokenString, checks signature, issuer, audience and expiry,
// then rejects tokens whose id has been revoked. A revocation lookup failure rejects the token.
func (m *TokenManager) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithAudience(Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if _, err := claims.UserID(); err != nil {
		return nil, err
	}
	if claims.ID == "" {
		return nil, ErrInvalidToken
	}

	if m.store != nil {
		_, revoked, err := m.store.Get(ctx, revokedKeyPrefix+claims.ID)
		if err != nil {
			return nil, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			return nil, ErrTokenRevoked
		}
	}

	return claims, nil
}

// Revoke records claims.ID as revoked until the token would have expired anyway.
func (m *TokenManager) Revoke(ctx context.Context, claims *Claims) error {
	if m.store == nil || claims == nil || claims.ID == "" {
		return nil
	}
	ttl := time.Minute
	if claims.ExpiresAt != nil {
		if remaining := claims.ExpiresAt.Sub(m.now()); remaining > 0 {
			ttl = remaining
		}
	}
	return m.store.Set(ctx, revokedKeyPrefix+claims.ID, []byte("1"), ttl)
}
