// Package accesstoken verifies the HS256 access tokens minted by the identity
// service in front of the catalog API.
package accesstoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "catalog/pkg/domain-errors"
	authmw "catalog/pkg/platform/middleware/auth"
)

// Claims carries the caller identity. Older tokens put the user id only in
// "sub"; newer ones also set "user_id".
type Claims struct {
	UserID string   `json:"user_id,omitempty"`
	Roles  []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// Subject returns the caller's user id.
func (c *Claims) Subject() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.RegisteredClaims.Subject
}

// Verifier checks signature, issuer, audience and expiry.
type Verifier struct {
	key      []byte
	issuer   string
	audience string
	leeway   time.Duration
	now      func() time.Time
}

type Option func(*Verifier)

// WithLeeway tolerates clock skew between the issuer and this service.
func WithLeeway(d time.Duration) Option {
	return func(v *Verifier) { v.leeway = d }
}

func WithClock(now func() time.Time) Option {
	return func(v *Verifier) { v.now = now }
}

func NewVerifier(key, issuer, audience string, opts ...Option) *Verifier {
	v := &Verifier{
		key:      []byte(key),
		issuer:   issuer,
		audience: audience,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify parses raw and returns its claims. Every failure maps to
// CodeUnauthorized.
func (v *Verifier) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, v.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
		jwt.WithTimeFunc(v.now),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
	case err != nil:
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	if _, err := uuid.Parse(claims.Subject()); err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token subject is not a user id")
	}
	return claims, nil
}

// ValidateToken satisfies the auth middleware's validator.
func (v *Verifier) ValidateToken(raw string) (*authmw.JWTClaims, error) {
	claims, err := v.Verify(raw)
	if err != nil {
		return nil, err
	}
	return &authmw.JWTClaims{UserID: claims.Subject(), Roles: claims.Roles}, nil
}

// Sign mints a token this verifier accepts. Used by tests and local tooling.
func (v *Verifier) Sign(userID uuid.UUID, roles []string, ttl time.Duration) (string, error) {
	now := v.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID.String(),
		Roles:  roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    v.issuer,
			Audience:  jwt.ClaimStrings{v.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(v.key)
}

func (v *Verifier) keyFunc(*jwt.Token) (any, error) {
	return v.key, nil
}
