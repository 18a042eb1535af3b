package auth

import (
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestHMACStrategy_IssueAndParse(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{TTL: time.Minute})
	token, err := strategy.IssueToken(42)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if strings.ContainsAny(token, "+/=:") {
		t.Fatalf("token must be cookie safe, got %q", token)
	}
	userID, err := strategy.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if userID != 42 {
		t.Fatalf("unexpected user id: %d", userID)
	}
}

func TestHMACStrategy_IssueRejectsInvalidUser(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{})
	if _, err := strategy.IssueToken(0); err == nil {
		t.Fatal("expected error for zero user id")
	}
}

func TestHMACStrategy_ParseMalformed(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{})
	forge := func(claims string) string {
		encoded := tokenEncoding.EncodeToString([]byte(claims))
		return encoded + "." + strategy.sign(encoded)
	}
	future := time.Now().Add(time.Hour).Unix()

	cases := map[string]string{
		"empty":           "",
		"no separator":    "abcdef",
		"empty signature": "abc.",
		"bad claims":      forge("no-dot"),
		"bad user":        forge("abc." + itoa(future)),
		"negative user":   forge("-3." + itoa(future)),
		"bad expiry":      forge("10.soon"),
		"foreign secret":  mustIssue(t, NewHMACStrategy("other", Options{}), 10),
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := strategy.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestHMACStrategy_ParseTamperedClaims(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{})
	token := mustIssue(t, strategy, 7)
	_, sig, _ := strings.Cut(token, ".")
	forged := tokenEncoding.EncodeToString([]byte("8."+itoa(time.Now().Add(time.Hour).Unix()))) + "." + sig
	if _, err := strategy.ParseToken(forged); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestHMACStrategy_ParseExpired(t *testing.T) {
	issuedAt := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	issuer := NewHMACStrategy("secret", Options{TTL: time.Hour, Now: fixedClock(issuedAt)})
	token := mustIssue(t, issuer, 10)

	before := NewHMACStrategy("secret", Options{Now: fixedClock(issuedAt.Add(59 * time.Minute))})
	if _, err := before.ParseToken(token); err != nil {
		t.Fatalf("expected token valid before expiry, got %v", err)
	}

	after := NewHMACStrategy("secret", Options{Now: fixedClock(issuedAt.Add(time.Hour))})
	_, err := after.ParseToken(token)
	if !errors.Is(err, ErrTokenExpired) || !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestHMACStrategy_Name(t *testing.T) {
	if name := NewHMACStrategy("secret", Options{}).Name(); name != "hmac-sha256" {
		t.Fatalf("unexpected name: %s", name)
	}
}

func mustIssue(t *testing.T, s *HMACStrategy, userID int64) string {
	t.Helper()
	token, err := s.IssueToken(userID)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
