package jwtx

import (
	"encoding/json"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// segmentParser only ever decodes segments, it never verifies anything.
var segmentParser = jwt.NewParser()

// Decode extracts the claims segment of a bearer token without verifying the
// signature. The client has no key material, the backend remains the only
// party that can say a token is genuine.
//
// It returns false when the token does not have exactly three dot-separated
// segments or when the middle segment is not base64url encoded JSON.
func Decode(token string) (*Claims, bool) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		slog.Debug("jwt decode failed", "error", ErrMalformed, "segments", len(parts))
		return nil, false
	}

	payload, err := segmentParser.DecodeSegment(parts[1])
	if err != nil {
		slog.Debug("jwt decode failed", "error", err)
		return nil, false
	}

	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		slog.Debug("jwt decode failed", "error", err)
		return nil, false
	}

	return &claims, true
}

// CheckExpiry explains an expired verdict: ErrMalformed when the token does
// not decode, ErrNoExpiry when it has no exp claim, ErrExpired when exp has
// passed. It returns nil for a token that is still fresh at now.
func CheckExpiry(token string, now time.Time) error {
	claims, ok := Decode(token)
	if !ok {
		return ErrMalformed
	}

	exp, ok := claims.ExpiresAtTime()
	if !ok {
		return ErrNoExpiry
	}

	if !now.Before(exp) {
		return ErrExpired
	}
	return nil
}

// IsExpired reports whether the token is expired at now. Tokens that fail to
// decode or carry no exp claim count as expired.
func IsExpired(token string, now time.Time) bool {
	return CheckExpiry(token, now) != nil
}

// IsExpiringSoon reports whether the token expires within threshold of now.
// A threshold of zero or less uses DefaultExpiryThreshold.
func IsExpiringSoon(token string, threshold time.Duration, now time.Time) bool {
	if threshold <= 0 {
		threshold = DefaultExpiryThreshold
	}

	claims, ok := Decode(token)
	if !ok {
		return true
	}

	exp, ok := claims.ExpiresAtTime()
	if !ok {
		return true
	}

	return exp.Sub(now) <= threshold
}

// SecondsUntilExpiry returns the whole seconds left before the token expires,
// never negative. Undecodable tokens have zero seconds left.
func SecondsUntilExpiry(token string, now time.Time) int64 {
	claims, ok := Decode(token)
	if !ok {
		return 0
	}

	exp, ok := claims.ExpiresAtTime()
	if !ok {
		return 0
	}

	remaining := math.Floor(exp.Sub(now).Seconds())
	if remaining < 0 {
		return 0
	}
	return int64(remaining)
}
