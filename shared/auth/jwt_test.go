package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenSigner(t *testing.T) {
	signer := NewSessionTokenSigner("secret", "portal-service", "portal-web")

	token, err := signer.Sign("session-1", time.Now().Add(time.Hour))
	require.NoError(t, err)

	sid, err := signer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "session-1", sid)
}

func TestSessionTokenSignerRejects(t *testing.T) {
	signer := NewSessionTokenSigner("secret", "portal-service", "portal-web")

	expired, err := signer.Sign("session-1", time.Now().Add(-time.Minute))
	require.NoError(t, err)

	otherSecret, err := NewSessionTokenSigner("other", "portal-service", "portal-web").
		Sign("session-1", time.Now().Add(time.Hour))
	require.NoError(t, err)

	otherAudience, err := NewSessionTokenSigner("secret", "portal-service", "admin-web").
		Sign("session-1", time.Now().Add(time.Hour))
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, SessionClaims{SessionID: "session-1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.token"},
		{"expired", expired},
		{"wrong secret", otherSecret},
		{"wrong audience", otherAudience},
		{"alg none", none},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := signer.Parse(tt.token)
			assert.ErrorIs(t, err, ErrInvalidSessionToken)
		})
	}
}
