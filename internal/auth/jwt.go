package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carried by a session token. The jti claim is minted for every
// token so a revocation list can be added later without a format change;
// no such list exists today, so a minted token stays valid for its full
// lifetime unless the signing secret changes.
type Claims struct {
	jwt.RegisteredClaims
}

type TokenCodec struct {
	secret   []byte
	ttl      time.Duration
	issuer   string
	audience string
}

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
)

func NewTokenCodec(secret string, ttl time.Duration, issuer, audience string) *TokenCodec {
	return &TokenCodec{
		secret:   []byte(secret),
		ttl:      ttl,
		issuer:   issuer,
		audience: audience,
	}
}

// TTL returns the configured token lifetime, which is also the session
// cookie max-age.
func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Mint signs a session token for the given account ID.
func (c *TokenCodec) Mint(accountID string) (string, error) {
	if accountID == "" {
		return "", ErrInvalidToken
	}

	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			Issuer:    c.issuer,
			Audience:  jwt.ClaimStrings{c.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Verify checks signature, issuer, audience, and expiry. Every failure
// collapses to ErrInvalidToken: callers treat a bad token as "no session",
// never as an error to propagate.
func (c *TokenCodec) Verify(tokenString string) (*Claims, error) {
	if strings.TrimSpace(tokenString) == "" {
		return nil, ErrMissingToken
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return c.secret, nil
	},
		jwt.WithIssuer(c.issuer),
		jwt.WithAudience(c.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// TokenFromCookie extracts the bearer token from the session cookie value,
// which carries the "Bearer <token>" form.
func TokenFromCookie(cookieValue string) (string, error) {
	parts := strings.Fields(cookieValue)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", ErrMissingToken
	}
	return strings.TrimSpace(parts[1]), nil
}
