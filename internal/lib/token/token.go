// Package token issues and parses the signed bearer tokens handed out on login.
//
// A token is an HS512 JWT carrying the subject login, issue time, expiry and a
// random ID. Parse always verifies the signature before it looks at the expiry,
// so a forged "not yet expired" claim is reported as malformed.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	uuid "github.com/satori/go.uuid"
)

const MinSecretLength = 32

var (
	ErrMalformedToken = errors.New("malformed token")
	ErrTokenExpired   = errors.New("token has expired")
	ErrShortSecret    = fmt.Errorf("token secret must be at least %d bytes", MinSecretLength)
	ErrInvalidTTL     = errors.New("token ttl must be positive")
)

var signingMethod = jwt.SigningMethodHS512

type Claims struct {
	jwt.RegisteredClaims
}

// Token is an issued token together with the claims it carries.
type Token struct {
	Value     string
	ID        string
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type Option func(*Codec)

// WithClock replaces time.Now for issuing and validating tokens.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		c.now = now
	}
}

func NewCodec(secret string, ttl time.Duration, opts ...Option) (*Codec, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrShortSecret
	}
	if ttl <= 0 {
		return nil, ErrInvalidTTL
	}

	c := &Codec{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (c *Codec) TTL() time.Duration {
	return c.ttl
}

func (c *Codec) Issue(subject string) (Token, error) {
	// JWT timestamps have second precision.
	issuedAt := c.now().Truncate(time.Second)
	expiresAt := issuedAt.Add(c.ttl)
	id := uuid.NewV4().String()

	t := jwt.NewWithClaims(signingMethod, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	value, err := t.SignedString(c.secret)
	if err != nil {
		return Token{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return Token{
		Value:     value,
		ID:        id,
		Subject:   subject,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}

func (c *Codec) Parse(value string) (*Claims, error) {
	claims := &Claims{}

	t, err := jwt.ParseWithClaims(value, claims,
		func(*jwt.Token) (interface{}, error) {
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	if !t.Valid || claims.Subject == "" {
		return nil, ErrMalformedToken
	}

	return claims, nil
}
