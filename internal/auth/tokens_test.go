package auth

import (
	"encoding/hex"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwellapp/inkwell-server/internal/domain"
)

func testKeyHex() string {
	return strings.Repeat("ab", 32)
}

func testUser() *domain.User {
	u := &domain.User{Username: "margaret"}
	u.ID = "user-test123"
	return u
}

func TestNewTokenService_InvalidKey(t *testing.T) {
	_, err := NewTokenService("too-short", time.Hour)
	assert.Error(t, err)

	_, err = NewTokenService(strings.Repeat("z", 64), time.Hour)
	assert.Error(t, err) // not valid hex
}

func TestSessionToken_RoundTrip(t *testing.T) {
	svc, err := NewTokenService(testKeyHex(), time.Hour)
	require.NoError(t, err)

	token, err := svc.GenerateSessionToken(testUser(), "sess-abc")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(token, "v4.local."))

	claims, err := svc.VerifySessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-test123", claims.UserID)
	assert.Equal(t, "margaret", claims.Username)
	assert.Equal(t, "sess-abc", claims.SessionID)
	assert.Equal(t, "user-test123", claims.Subject)
}

func TestVerifySessionToken_Expired(t *testing.T) {
	svc, err := NewTokenService(testKeyHex(), -time.Minute)
	require.NoError(t, err)

	token, err := svc.GenerateSessionToken(testUser(), "sess-abc")
	require.NoError(t, err)

	_, err = svc.VerifySessionToken(token)
	assert.Error(t, err)
}

func TestVerifySessionToken_WrongKey(t *testing.T) {
	svc1, err := NewTokenService(testKeyHex(), time.Hour)
	require.NoError(t, err)
	svc2, err := NewTokenService(strings.Repeat("cd", 32), time.Hour)
	require.NoError(t, err)

	token, err := svc1.GenerateSessionToken(testUser(), "sess-abc")
	require.NoError(t, err)

	_, err = svc2.VerifySessionToken(token)
	assert.Error(t, err)
}

func TestGenerateSecret(t *testing.T) {
	s1, err := GenerateSecret()
	require.NoError(t, err)
	s2, err := GenerateSecret()
	require.NoError(t, err)

	assert.NotEqual(t, s1, s2)
	assert.NotEmpty(t, s1)
}

func TestHashSecret_Deterministic(t *testing.T) {
	h1 := HashSecret("some-secret")
	h2 := HashSecret("some-secret")
	assert.Equal(t, h1, h2)

	_, err := hex.DecodeString(h1)
	assert.NoError(t, err)
	assert.Len(t, h1, 64)
}

func TestVerifySecret(t *testing.T) {
	secret, err := GenerateSecret()
	require.NoError(t, err)
	stored := HashSecret(secret)

	assert.True(t, VerifySecret(stored, secret))
	assert.False(t, VerifySecret(stored, secret+"x"))
	assert.False(t, VerifySecret(stored, ""))
}

func TestLoadOrGenerateKey(t *testing.T) {
	dir := t.TempDir()

	key1, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Len(t, key1, 32)

	// Second load returns the same key.
	key2, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Equal(t, key1, key2)
}
