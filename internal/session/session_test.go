package session

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velocityparts/storefront/internal/persist"
)

func signedToken(t *testing.T, subject string, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{"sub": subject}
	if !expiresAt.IsZero() {
		claims["exp"] = expiresAt.Unix()
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestSetTokenReadsClaims(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	exp := time.Now().Add(time.Hour)
	sess := New(Options{Snapshots: persist.NewMemoryStore()})
	sess.SetToken(ctx, signedToken(t, "user-42", exp))

	assert.Equal(t, "user-42", sess.Subject())
	assert.Equal(t, "user-42", sess.ID())
	assert.False(t, sess.IsExpired(time.Now()))
	assert.True(t, sess.IsExpired(exp.Add(time.Minute)))
}

func TestExpiredTokenDetected(t *testing.T) {
	t.Parallel()

	sess := New(Options{})
	sess.SetToken(context.Background(), signedToken(t, "user-1", time.Now().Add(-time.Minute)))

	assert.True(t, sess.IsExpired(time.Now()))
}

func TestOpaqueTokenGetsDerivedID(t *testing.T) {
	t.Parallel()

	sess := New(Options{})
	sess.SetToken(context.Background(), "not-a-jwt")

	assert.Equal(t, "not-a-jwt", sess.Token())
	assert.NotEmpty(t, sess.ID())
	assert.Empty(t, sess.Subject())
	// No readable expiry: treat as live.
	assert.False(t, sess.IsExpired(time.Now()))
}

func TestAnonymousSessionIsExpired(t *testing.T) {
	t.Parallel()

	sess := New(Options{})
	assert.True(t, sess.IsExpired(time.Now()))
	assert.Empty(t, sess.Token())
}

func TestClearDropsPersistedLoginFlag(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := persist.NewMemoryStore()
	sess := New(Options{Snapshots: store})
	sess.SetToken(ctx, signedToken(t, "user-9", time.Now().Add(time.Hour)))

	flag, err := store.Load(ctx, "user-9", loginFlagName)
	require.NoError(t, err)
	assert.Equal(t, "true", string(flag))

	sess.Clear(ctx)
	assert.Empty(t, sess.Token())
	assert.Empty(t, sess.ID())

	flag, err = store.Load(ctx, "user-9", loginFlagName)
	require.NoError(t, err)
	assert.Nil(t, flag)
}

func TestLoginRedirect(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/login", LoginRedirect("", ""))
	assert.Equal(t, "/login?callbackUrl=%2Fcart", LoginRedirect("/login", "/cart"))
	assert.Equal(t,
		"https://id.example.com/login?callbackUrl=%2Fcheckout%3Fstep%3D2",
		LoginRedirect("https://id.example.com/login", "/checkout?step=2"))
}
