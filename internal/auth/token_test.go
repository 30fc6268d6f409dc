package auth

import (
	"encoding/base64"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func TestIsExpiredAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seg := func(s string) string { return base64.RawURLEncoding.EncodeToString([]byte(s)) }
	header := seg(`{"alg":"HS256","typ":"JWT"}`)
	futureExp := seg(fmt.Sprintf(`{"exp":%d}`, now.Add(time.Hour).Unix()))
	pastExp := seg(fmt.Sprintf(`{"exp":%d}`, now.Add(-time.Hour).Unix()))

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"empty", "", true},
		{"no dots", "abcdef", true},
		{"header only", header, true},
		{"garbage payload", header + ".!!!.sig", true},
		{"payload not json", header + "." + base64.RawURLEncoding.EncodeToString([]byte("hello")) + ".sig", true},
		{"no exp", signed(t, jwt.MapClaims{"sub": "42"}), false},
		{"string exp", signed(t, jwt.MapClaims{"exp": "tomorrow"}), false},
		{"exp in past", signed(t, jwt.MapClaims{"exp": now.Add(-time.Minute).Unix()}), true},
		{"exp equals now", signed(t, jwt.MapClaims{"exp": now.Unix()}), true},
		{"exp in future", signed(t, jwt.MapClaims{"exp": now.Add(time.Hour).Unix()}), false},
		{"two segments, future exp", header + "." + futureExp, false},
		{"two segments, past exp", header + "." + pastExp, true},
		{"header without alg", seg(`{"typ":"JWT"}`) + "." + futureExp + ".sig", false},
		{"unknown alg, no exp", seg(`{"alg":"ES256K"}`) + "." + seg(`{"sub":"42"}`) + ".sig", false},
		{"opaque header", "xxx." + futureExp + ".sig", false},
		{"extra segments", header + "." + futureExp + ".sig.more", false},
		{"empty payload segment", header + "..sig", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsExpiredAt(tt.token, now); got != tt.want {
				t.Errorf("IsExpiredAt(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

func TestIsExpiredUsesWallClock(t *testing.T) {
	past := signed(t, jwt.MapClaims{"exp": time.Now().Add(-time.Hour).Unix()})
	future := signed(t, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
	if !IsExpired(past) {
		t.Error("past token not expired")
	}
	if IsExpired(future) {
		t.Error("future token expired")
	}
}
