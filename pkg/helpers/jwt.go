package helpers

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTManager handles issuance and verification of bearer tokens.
// The secret and signing method are fixed for the lifetime of the process.
type JWTManager struct {
	Secret []byte
	Method jwt.SigningMethod
	TTL    time.Duration
}

var defaultManager *JWTManager

// NewJWTManager builds a manager for the named HMAC algorithm (HS256, HS384
// or HS512). Anything else is rejected so a misconfigured process refuses to
// start instead of issuing unverifiable tokens.
func NewJWTManager(secret, algorithm string, ttl time.Duration) (*JWTManager, error) {
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	m := &JWTManager{
		Secret: []byte(secret),
		Method: method,
		TTL:    ttl,
	}
	defaultManager = m
	return m, nil
}

// DefaultJWT returns the last constructed JWTManager (used for auto-wiring routes)
func DefaultJWT() *JWTManager { return defaultManager }

// Issue creates a signed token carrying subject with the default TTL.
func (m *JWTManager) Issue(subject string) (string, time.Time, error) {
	return m.IssueWithTTL(subject, m.TTL)
}

// IssueWithTTL creates a signed token carrying subject that expires at now+ttl.
func (m *JWTManager) IssueWithTTL(subject string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(ttl)
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(exp),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	t := jwt.NewWithClaims(m.Method, claims)
	s, err := t.SignedString(m.Secret)
	return s, exp, err
}

// Verify checks the signature and expiry of tokenStr and returns the subject.
// Every failure mode (malformed token, bad signature, expired, wrong method,
// missing subject) collapses into a non-nil error.
func (m *JWTManager) Verify(tokenStr string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.Secret, nil
	})
	if err != nil {
		return "", err
	}
	if !tkn.Valid {
		return "", errors.New("invalid token")
	}
	if claims.Subject == "" {
		return "", errors.New("token has no subject")
	}
	return claims.Subject, nil
}
