// Package token issues and verifies the signed identity tokens carried as
// bearer credentials.
package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"palettefolio/internal/apperror"
)

// DefaultTTL is the lifetime of an issued token.
const DefaultTTL = 7 * 24 * time.Hour

var (
	// ErrExpired is returned for tokens past their expiry.
	ErrExpired = apperror.Auth("token expired")
	// ErrInvalid is returned for malformed, tampered or wrongly signed tokens.
	ErrInvalid = apperror.Auth("invalid token")
	// ErrMissing is returned when no token was supplied.
	ErrMissing = apperror.Auth("not authorized, no token")
)

// Config describes how tokens are signed. The secret must be non-empty.
type Config struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
	Now    func() time.Time
}

// Issuer signs and verifies HS256 tokens. It is immutable after construction
// and safe for concurrent use.
type Issuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer validates cfg and returns an Issuer.
func NewIssuer(cfg Config) (*Issuer, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("token secret must not be empty")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)
	return &Issuer{
		secret: secret,
		issuer: strings.TrimSpace(cfg.Issuer),
		ttl:    cfg.TTL,
		now:    cfg.Now,
	}, nil
}

// TTL reports the lifetime applied to issued tokens.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue returns a signed token whose subject is userID.
func (i *Issuer) Issue(userID string) (string, error) {
	if strings.TrimSpace(userID) == "" {
		return "", errors.New("token subject must not be empty")
	}
	now := i.now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    i.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, algorithm and expiry of raw and returns the
// user id it carries.
func (i *Issuer) Verify(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrMissing
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	}
	if i.issuer != "" {
		opts = append(opts, jwt.WithIssuer(i.issuer))
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	}, opts...)
	if err != nil {
		return "", mapJWTError(err)
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", ErrInvalid
	}
	return claims.Subject, nil
}

func mapJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return apperror.Wrap(apperror.KindAuth, ErrExpired.Message, err)
	}
	return apperror.Wrap(apperror.KindAuth, ErrInvalid.Message, err)
}
