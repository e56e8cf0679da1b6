package jwtx_test

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/aussiebroadwan/storefront/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func mint(t *testing.T, claims jwt.Claims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func rawToken(payload string) string {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	body := base64.RawURLEncoding.EncodeToString([]byte(payload))
	return header + "." + body + ".c2ln"
}

func TestDecodeRoundTrip(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := mint(t, jwt.MapClaims{"exp": exp.Unix(), "sub": "u1", "role": "ROLE_USER"})

	claims, ok := jwtx.Decode(token)
	require.True(t, ok)
	require.Equal(t, "u1", claims.Subject)
	require.Equal(t, "ROLE_USER", claims.PrimaryRole())

	got, ok := claims.ExpiresAtTime()
	require.True(t, ok)
	require.Equal(t, exp.Unix(), got.Unix())
}

func TestDecodeMalformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"one segment", "abc"},
		{"two segments", "abc.def"},
		{"four segments", "a.b.c.d"},
		{"payload not base64", "eyJhbGciOiJIUzI1NiJ9.!!!.sig"},
		{"payload not json", rawToken("not json")},
		{"payload json array", rawToken(`[1,2,3]`)},
		{"exp wrong type", rawToken(`{"exp":"tomorrow"}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotPanics(t, func() {
				claims, ok := jwtx.Decode(tt.token)
				require.False(t, ok)
				require.Nil(t, claims)
			})
		})
	}
}

func TestDecodeIgnoresSignature(t *testing.T) {
	claims, ok := jwtx.Decode(rawToken(`{"sub":"u2","exp":4102444800}`))
	require.True(t, ok)
	require.Equal(t, "u2", claims.Subject)
}

func TestIsExpired(t *testing.T) {
	now := time.Now()

	t.Run("future exp", func(t *testing.T) {
		token := mint(t, jwt.MapClaims{"exp": now.Add(time.Hour).Unix()})
		require.False(t, jwtx.IsExpired(token, now))
	})

	t.Run("past exp", func(t *testing.T) {
		token := mint(t, jwt.MapClaims{"exp": 1})
		require.True(t, jwtx.IsExpired(token, now))
	})

	t.Run("no exp is expired", func(t *testing.T) {
		token := mint(t, jwt.MapClaims{"sub": "u1"})
		require.True(t, jwtx.IsExpired(token, now))
	})

	t.Run("malformed is expired", func(t *testing.T) {
		require.True(t, jwtx.IsExpired("garbage", now))
	})

	t.Run("exactly at exp", func(t *testing.T) {
		at := time.Unix(now.Unix(), 0)
		token := mint(t, jwt.MapClaims{"exp": at.Unix()})
		require.True(t, jwtx.IsExpired(token, at))
	})
}

func TestIsExpiringSoon(t *testing.T) {
	now := time.Now()

	t.Run("default threshold", func(t *testing.T) {
		soon := mint(t, jwt.MapClaims{"exp": now.Add(4 * time.Minute).Unix()})
		later := mint(t, jwt.MapClaims{"exp": now.Add(10 * time.Minute).Unix()})

		require.True(t, jwtx.IsExpiringSoon(soon, 0, now))
		require.False(t, jwtx.IsExpiringSoon(later, 0, now))
	})

	t.Run("custom threshold", func(t *testing.T) {
		token := mint(t, jwt.MapClaims{"exp": now.Add(10 * time.Minute).Unix()})
		require.True(t, jwtx.IsExpiringSoon(token, 15*time.Minute, now))
	})

	t.Run("no exp", func(t *testing.T) {
		token := mint(t, jwt.MapClaims{"sub": "u1"})
		require.True(t, jwtx.IsExpiringSoon(token, time.Minute, now))
	})
}

func TestSecondsUntilExpiry(t *testing.T) {
	now := time.Unix(1_700_000_000, 500_000_000)

	token := mint(t, jwt.MapClaims{"exp": now.Unix() + 90})
	require.Equal(t, int64(89), jwtx.SecondsUntilExpiry(token, now))

	expired := mint(t, jwt.MapClaims{"exp": now.Unix() - 90})
	require.Equal(t, int64(0), jwtx.SecondsUntilExpiry(expired, now))

	require.Equal(t, int64(0), jwtx.SecondsUntilExpiry("nope", now))
}

func TestCheckExpiryCause(t *testing.T) {
	now := time.Now()

	require.ErrorIs(t, jwtx.CheckExpiry("abc.def", now), jwtx.ErrMalformed)
	require.ErrorIs(t, jwtx.CheckExpiry(rawToken(`{"sub":"u1"}`), now), jwtx.ErrNoExpiry)
	require.ErrorIs(t, jwtx.CheckExpiry(rawToken(`{"exp":1}`), now), jwtx.ErrExpired)
	require.NoError(t, jwtx.CheckExpiry(mint(t, jwt.MapClaims{"exp": now.Add(time.Minute).Unix()}), now))
}
