package auth

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// IsExpired reports whether an access token should be treated as expired
// at the current time. The signature is not verified.
func IsExpired(token string) bool {
	return IsExpiredAt(token, time.Now())
}

// IsExpiredAt is IsExpired with an explicit clock.
//
// Only the payload segment is inspected; the header and signature are
// ignored. A token whose payload cannot be decoded is expired. A decoded
// payload that carries no numeric exp claim is treated as still valid and
// left for the server to reject.
func IsExpiredAt(token string, now time.Time) bool {
	parts := strings.Split(token, ".")
	if len(parts) < 2 {
		return true
	}

	raw, err := jwt.NewParser().DecodeSegment(parts[1])
	if err != nil {
		return true
	}
	claims := jwt.MapClaims{}
	if err := json.Unmarshal(raw, &claims); err != nil {
		return true
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.After(now)
}
