// Package jwtauth validates bearer tokens with a static HMAC secret. It is
// the entire auth surface of this server: no discovery, no key rotation, one
// shared secret exchanged out of band.
package jwtauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrUnauthorized indicates the token failed validation (signature, issuer,
// audience, exp/nbf) and the request must be treated as unauthenticated.
var ErrUnauthorized = errors.New("jwtauth: unauthorized")

// Config controls token validation policy.
type Config struct {
	// Secret is the HMAC signing secret. Required.
	Secret []byte
	// Issuer, when non-empty, must match the token's iss claim.
	Issuer string
	// Audience, when non-empty, must appear in the token's aud claim.
	Audience string
	// Leeway tolerates clock skew on time-based claims. Default 60s.
	Leeway time.Duration
}

// Authenticator validates HS256 bearer tokens against a static secret.
type Authenticator struct {
	cfg    Config
	parser *jwt.Parser
}

// New constructs an Authenticator. The secret is required.
func New(cfg Config) (*Authenticator, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("jwtauth: secret is required")
	}
	if cfg.Leeway <= 0 {
		cfg.Leeway = 60 * time.Second
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(cfg.Leeway),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}
	return &Authenticator{cfg: cfg, parser: jwt.NewParser(opts...)}, nil
}

// CheckAuthentication validates the token. Any validation failure maps to
// ErrUnauthorized so transports can translate it to a 401 uniformly.
func (a *Authenticator) CheckAuthentication(_ context.Context, tok string) error {
	_, err := a.parser.Parse(tok, func(t *jwt.Token) (any, error) {
		return a.cfg.Secret, nil
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	return nil
}
