package session_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitpulse/fitpulse/internal/session"
)

func signedToken(t *testing.T, sub string, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestStore_TokenLifecycle(t *testing.T) {
	store := session.NewStore("")

	_, err := store.Token()
	assert.ErrorIs(t, err, session.ErrNoToken)

	store.Set("tok_abc")
	token, err := store.Token()
	require.NoError(t, err)
	assert.Equal(t, "tok_abc", token)

	store.Clear()
	_, err = store.Token()
	assert.ErrorIs(t, err, session.ErrNoToken)
}

func TestStore_ClaimsFromJWT(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	store := session.NewStore(signedToken(t, "usr_42", exp))

	claims, err := store.Claims()
	require.NoError(t, err)
	assert.Equal(t, "usr_42", claims.Subject)
	assert.True(t, claims.ExpiresAt.Equal(exp))
}

func TestStore_OpaqueTokenYieldsEmptyClaims(t *testing.T) {
	store := session.NewStore("not-a-jwt")

	claims, err := store.Claims()
	require.NoError(t, err)
	assert.Empty(t, claims.Subject)
	assert.True(t, claims.ExpiresAt.IsZero())
}

func TestStore_Expired(t *testing.T) {
	now := time.Now()

	expired := session.NewStore(signedToken(t, "usr_42", now.Add(-time.Minute)))
	assert.True(t, expired.Expired(now))

	fresh := session.NewStore(signedToken(t, "usr_42", now.Add(time.Hour)))
	assert.False(t, fresh.Expired(now))

	// Opaque tokens have no readable expiry and never expire client-side.
	opaque := session.NewStore("tok_opaque")
	assert.False(t, opaque.Expired(now))

	// Missing token is "unauthenticated", not "expired".
	empty := session.NewStore("")
	assert.False(t, empty.Expired(now))
}
