package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidSessionToken = errors.New("invalid session token")

// SessionClaims is the payload of a session cookie. It only names the
// server-side session; all state lives in the session store.
type SessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// SessionTokenSigner issues and validates the opaque tokens that key
// server-side sessions.
type SessionTokenSigner struct {
	secret   []byte
	issuer   string
	audience string
}

// NewSessionTokenSigner creates a new SessionTokenSigner instance.
func NewSessionTokenSigner(secret, issuer, audience string) *SessionTokenSigner {
	return &SessionTokenSigner{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
	}
}

// Sign returns a token naming sessionID that expires at expiresAt.
func (s *SessionTokenSigner) Sign(sessionID string, expiresAt time.Time) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Parse validates raw and returns the session id it carries.
func (s *SessionTokenSigner) Parse(raw string) (string, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return s.secret, nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithAudience(s.audience),
		jwt.WithIssuer(s.issuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidSessionToken, err)
	}

	if !token.Valid || claims.SessionID == "" {
		return "", ErrInvalidSessionToken
	}

	return claims.SessionID, nil
}
