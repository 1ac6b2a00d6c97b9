package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hastakala/hastakala-api/internal/core/domain"
	"github.com/hastakala/hastakala-api/internal/core/ports"
)

// DefaultTokenTTL is the lifetime of an access token.
const DefaultTokenTTL = time.Hour

type tokenClaims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 access tokens. Tokens carry the
// subject id and role; expiry is always exactly ttl after issuance.
type TokenIssuer struct {
	secret  []byte
	ttl     time.Duration
	now     func() time.Time
	revoked ports.RevocationList
	log     zerolog.Logger
}

// NewTokenIssuer builds an issuer. revoked may be nil, in which case tokens
// stay valid until they expire.
func NewTokenIssuer(secret string, ttl time.Duration, revoked ports.RevocationList, log zerolog.Logger) *TokenIssuer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now, revoked: revoked, log: log}
}

// WithClock replaces the time source used for issuing and verifying.
func (t *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	t.now = now
	return t
}

// TTL reports the fixed token lifetime.
func (t *TokenIssuer) TTL() time.Duration { return t.ttl }

// Issue returns a signed token for user.
func (t *TokenIssuer) Issue(user *domain.User) (string, error) {
	// JWT dates have second precision; truncating keeps exp-iat == ttl exactly.
	issued := t.now().UTC().Truncate(time.Second)
	claims := tokenClaims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(t.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Verify validates signature, algorithm, expiry and revocation, and returns
// the identity the token was issued for.
func (t *TokenIssuer) Verify(ctx context.Context, raw string) (domain.Identity, error) {
	claims := &tokenClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)
	tkn, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	})
	if err != nil || !tkn.Valid {
		return domain.Identity{}, domain.ErrInvalidToken
	}
	if claims.Subject == "" || !claims.Role.Valid() {
		return domain.Identity{}, domain.ErrInvalidToken
	}

	if t.revoked != nil && claims.ID != "" {
		revoked, err := t.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			t.log.Warn().Err(err).Str("jti", claims.ID).Msg("revocation check failed, accepting token")
		} else if revoked {
			return domain.Identity{}, domain.ErrInvalidToken
		}
	}

	return domain.Identity{
		SubjectID: claims.Subject,
		Role:      claims.Role,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Revoke blacklists the caller's token for the rest of its lifetime.
func (t *TokenIssuer) Revoke(ctx context.Context, who domain.Identity) error {
	if t.revoked == nil || who.TokenID == "" {
		return nil
	}
	remaining := who.ExpiresAt.Sub(t.now())
	if remaining <= 0 {
		return nil
	}
	if err := t.revoked.Revoke(ctx, who.TokenID, remaining); err != nil {
		return domain.StorageFailure("revoke token", err)
	}
	return nil
}
