package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier verifies a raw token string and returns its claims.
type Verifier interface {
	Verify(raw string) (Claims, error)
}

// Codec signs and verifies HS256 tokens of a single use ("access" or
// "refresh"). Access and refresh codecs are constructed with separate
// secrets so a leaked access secret cannot mint refresh tokens.
type Codec struct {
	secret []byte
	issuer string
	use    string
	now    func() time.Time
}

// NewCodec constructs a codec for one token use. The secret must be
// non-empty; there is no unsigned fallback.
func NewCodec(secret []byte, issuer, use string) (*Codec, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwtx: empty signing secret")
	}
	if use != UseAccess && use != UseRefresh {
		return nil, errors.New("jwtx: unknown token use " + use)
	}
	return &Codec{secret: secret, issuer: issuer, use: use, now: time.Now}, nil
}

// WithClock overrides the codec's time source. Test hook.
func (c *Codec) WithClock(now func() time.Time) *Codec {
	c.now = now
	return c
}

// Sign issues a signed token for the given subject with the provided TTL.
func (c *Codec) Sign(subject, email string, ttl time.Duration) (string, error) {
	claims := NewClaims(subject, email, c.use, c.issuer, ttl, c.now().UTC())
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Verify checks signature, expiry, issuer and use together. Every failure
// mode collapses into ErrInvalidToken.
func (c *Codec) Verify(raw string) (Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(t *jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithTimeFunc(func() time.Time { return c.now().UTC() }),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Claims{}, ErrInvalidToken
	}
	if claims.Use != c.use || claims.Subject == "" {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}
