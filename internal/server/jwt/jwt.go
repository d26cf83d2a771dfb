// Package jwt issues and validates the bearer tokens accepted by the development server.
package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// Issuer записывается в claim iss и проверяется при валидации
const Issuer = "rulekeeper-server"

var (
	// ErrInvalidToken indicates a token that is malformed, expired or signed with another key
	ErrInvalidToken = errors.New("invalid token")

	// ErrEmptySecret indicates a signer created without a key
	ErrEmptySecret = errors.New("jwt secret cannot be empty")
)

// Claims представляет claims токена: subject и стандартные поля
type Claims struct {
	Scope string `json:"scope,omitempty"`
	gojwt.RegisteredClaims
}

// Signer issues and validates HS256 tokens
type Signer struct {
	now    func() time.Time
	secret []byte
	ttl    time.Duration
}

// NewSigner creates a signer. A zero ttl issues tokens without expiry.
func NewSigner(secret []byte, ttl time.Duration) (*Signer, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	return &Signer{secret: secret, ttl: ttl, now: time.Now}, nil
}

// Issue creates a signed token for subject
func (s *Signer) Issue(subject, scope string) (string, error) {
	now := s.now()

	claims := Claims{
		Scope: scope,
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    Issuer,
			IssuedAt:  gojwt.NewNumericDate(now),
			NotBefore: gojwt.NewNumericDate(now),
		},
	}
	if s.ttl > 0 {
		claims.ExpiresAt = gojwt.NewNumericDate(now.Add(s.ttl))
	}

	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// Validate parses a token and checks signature, issuer and time claims
func (s *Signer) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := gojwt.ParseWithClaims(tokenString, claims, func(*gojwt.Token) (any, error) {
		return s.secret, nil
	},
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithIssuer(Issuer),
		gojwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
