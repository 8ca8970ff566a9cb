package auth

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/golang-jwt/jwt/v5"

	"github.com/finexpress/storefront/internal/domain/admin"
)

var _ admin.TokenIssuer = (*JWTIssuer)(nil)

// JWTIssuer issues and verifies HS256-signed session tokens carrying the
// admin account ID as the subject claim.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTIssuer creates an issuer. A non-positive ttl defaults to 7 days,
// matching the admin session cookie lifetime.
func NewJWTIssuer(secret []byte, ttl time.Duration) *JWTIssuer {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &JWTIssuer{secret: secret, ttl: ttl, now: time.Now}
}

// Issue signs a token for the given account ID.
func (i *JWTIssuer) Issue(accountID string) (string, error) {
	now := i.now()
	claims := jwt.RegisteredClaims{
		Subject:   accountID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return signed, nil
}

// Verify parses and validates a token, returning the account ID it was
// issued for. Expired, malformed, or foreign-signed tokens all fail.
func (i *JWTIssuer) Verify(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.Errorf("unexpected signing method %q", t.Method.Alg())
			}
			return i.secret, nil
		},
		jwt.WithTimeFunc(func() time.Time { return i.now() }),
	)
	if err != nil {
		return "", errors.Wrap(err, "parse token")
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", errors.New("token has no subject")
	}
	return claims.Subject, nil
}
