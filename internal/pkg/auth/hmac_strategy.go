package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const defaultTokenTTL = 24 * time.Hour

var (
	ErrInvalidToken = errors.New("invalid auth token")
	ErrTokenExpired = fmt.Errorf("%w: expired", ErrInvalidToken)
)

var tokenEncoding = base64.RawURLEncoding

// HMACStrategy signs "<user id>.<expiry>" claims with HMAC-SHA256.
// Tokens have the form <claims>.<signature>, both URL safe base64, so
// they travel unchanged in cookies and headers.
type HMACStrategy struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewHMACStrategy builds HMACStrategy with provided secret and options.
func NewHMACStrategy(secret string, opts Options) *HMACStrategy {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &HMACStrategy{secret: []byte(secret), ttl: ttl, now: now}
}

// IssueToken generates signed auth token for the user.
func (s *HMACStrategy) IssueToken(userID int64) (string, error) {
	if userID <= 0 {
		return "", fmt.Errorf("issue token: invalid user id %d", userID)
	}
	expires := s.now().Add(s.ttl).Unix()
	claims := tokenEncoding.EncodeToString([]byte(strconv.FormatInt(userID, 10) + "." + strconv.FormatInt(expires, 10)))
	return claims + "." + s.sign(claims), nil
}

// ParseToken verifies signature and expiry and returns the user id.
func (s *HMACStrategy) ParseToken(token string) (int64, error) {
	claims, sig, ok := strings.Cut(token, ".")
	if !ok || claims == "" || sig == "" {
		return 0, ErrInvalidToken
	}
	if !hmac.Equal([]byte(s.sign(claims)), []byte(sig)) {
		return 0, ErrInvalidToken
	}

	raw, err := tokenEncoding.DecodeString(claims)
	if err != nil {
		return 0, ErrInvalidToken
	}
	idPart, expPart, ok := strings.Cut(string(raw), ".")
	if !ok {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil || userID <= 0 {
		return 0, ErrInvalidToken
	}
	expires, err := strconv.ParseInt(expPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	if !s.now().Before(time.Unix(expires, 0)) {
		return 0, ErrTokenExpired
	}

	return userID, nil
}

func (s *HMACStrategy) Name() string {
	return "hmac-sha256"
}

func (s *HMACStrategy) sign(claims string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(claims))
	return tokenEncoding.EncodeToString(mac.Sum(nil))
}
