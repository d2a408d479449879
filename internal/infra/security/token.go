package security

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/avanishkumar5035/jobsphere-identity/internal/core/domain"
)

// ErrInvalidToken is returned for every verification failure. Malformed
// signature, wrong algorithm, and expired timestamp are indistinguishable to
// the caller.
var ErrInvalidToken = errors.New("invalid token")

// SessionClaims carries the identity context embedded in a session token.
type SessionClaims struct {
	Role domain.Role `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and validates stateless session tokens with a server-held
// secret. There is no refresh mechanism and no revocation list; expiry forces
// re-authentication.
type TokenIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer constructs a TokenIssuer. A zero or negative ttl falls back
// to 30 days.
func NewTokenIssuer(secret, issuer string, ttl time.Duration) (*TokenIssuer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("token issuer: secret is required")
	}
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}

	return &TokenIssuer{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue signs a token for the supplied identity.
func (t *TokenIssuer) Issue(identityID string, role domain.Role) (string, error) {
	if identityID == "" {
		return "", fmt.Errorf("token issuer: identity id is required")
	}

	now := t.now().UTC()
	claims := SessionClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identityID,
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// Verify validates the token and returns its claims. Verification fails
// closed: every failure mode collapses to ErrInvalidToken.
func (t *TokenIssuer) Verify(token string) (*SessionClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}

	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return t.now() }))
	if err != nil || parsed == nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	if strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// TTL reports the configured token lifetime.
func (t *TokenIssuer) TTL() time.Duration {
	return t.ttl
}

// WithClock overrides the internal clock, used in tests.
func (t *TokenIssuer) WithClock(clock func() time.Time) {
	if clock != nil {
		t.now = clock
	}
}

var otpCodeSpace = big.NewInt(900000)

// GenerateOTPCode returns a 6-digit code drawn uniformly from 100000-999999.
// The lower bound keeps the visual code at six digits; a leading zero would
// shorten it.
func GenerateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, otpCodeSpace)
	if err != nil {
		return "", fmt.Errorf("generate otp code: %w", err)
	}

	return fmt.Sprintf("%d", n.Int64()+100000), nil
}
