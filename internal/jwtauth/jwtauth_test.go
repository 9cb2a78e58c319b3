package jwtauth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("0123456789abcdef")

func signToken(t *testing.T, key []byte, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString(key)
	require.NoError(t, err)
	return s
}

func TestNewRequiresSecret(t *testing.T) {
	t.Parallel()

	_, err := New(Config{})
	require.Error(t, err)
}

func TestValidToken(t *testing.T) {
	t.Parallel()

	a, err := New(Config{Secret: secret, Issuer: "websearch", Audience: "mcp"})
	require.NoError(t, err)

	tok := signToken(t, secret, jwt.MapClaims{
		"iss": "websearch",
		"aud": "mcp",
		"sub": "client-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	assert.NoError(t, a.CheckAuthentication(context.Background(), tok))
}

func TestRejections(t *testing.T) {
	t.Parallel()

	a, err := New(Config{Secret: secret, Issuer: "websearch"})
	require.NoError(t, err)

	cases := map[string]string{
		"wrong secret": signToken(t, []byte("another-secret-value"), jwt.MapClaims{
			"iss": "websearch", "exp": time.Now().Add(time.Hour).Unix(),
		}),
		"wrong issuer": signToken(t, secret, jwt.MapClaims{
			"iss": "someone-else", "exp": time.Now().Add(time.Hour).Unix(),
		}),
		"expired": signToken(t, secret, jwt.MapClaims{
			"iss": "websearch", "exp": time.Now().Add(-time.Hour).Unix(),
		}),
		"no expiry": signToken(t, secret, jwt.MapClaims{
			"iss": "websearch",
		}),
		"garbage": "not.a.jwt",
	}
	for name, tok := range cases {
		err := a.CheckAuthentication(context.Background(), tok)
		assert.ErrorIs(t, err, ErrUnauthorized, name)
	}
}
