package service

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwellapp/inkwell-server/internal/auth"
	domainerrors "github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

func newTestAuthService(t *testing.T) (*AuthService, *store.Store) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := store.New(t.TempDir(), logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, st.Close())
	})

	tokens, err := auth.NewTokenService(strings.Repeat("ab", 32), 24*time.Hour)
	require.NoError(t, err)

	sessions := NewSessionService(st, tokens, logger)
	return NewAuthService(st, tokens, sessions, logger), st
}

func TestRegister(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterRequest{Username: "ada", Password: "password123"})
	require.NoError(t, err)

	assert.Equal(t, "ada", resp.User.Username)
	assert.NotEmpty(t, resp.Token)
	assert.NotEmpty(t, resp.RecoveryKey)
	assert.NotEmpty(t, resp.EncryptionKey)
	assert.NotEqual(t, resp.RecoveryKey, resp.EncryptionKey)
	assert.NotEqual(t, "password123", resp.User.PasswordHash)
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Username: "", Password: "password123"})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = svc.Register(ctx, RegisterRequest{Username: "ada", Password: "short"})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Username: "ada", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterRequest{Username: "ada", Password: "different456"})
	assert.ErrorIs(t, err, domainerrors.ErrDuplicateUsername)

	// Case-sensitive usernames: this is a different account.
	_, err = svc.Register(ctx, RegisterRequest{Username: "Ada", Password: "different456"})
	assert.NoError(t, err)
}

func TestLogin(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterRequest{Username: "ada", Password: "password123"})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, LoginRequest{Username: "ada", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, resp.User.ID)
	assert.NotEmpty(t, resp.Token)
	assert.NotEqual(t, reg.Token, resp.Token)

	// The encryption key is stable across authentications.
	assert.Equal(t, reg.EncryptionKey, resp.EncryptionKey)
}

func TestLogin_UniformErrors(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Username: "ada", Password: "password123"})
	require.NoError(t, err)

	// Unknown username and wrong password are indistinguishable.
	_, unknownErr := svc.Login(ctx, LoginRequest{Username: "nobody", Password: "password123"})
	_, wrongErr := svc.Login(ctx, LoginRequest{Username: "ada", Password: "wrongpass"})

	assert.ErrorIs(t, unknownErr, domainerrors.ErrInvalidCredentials)
	assert.ErrorIs(t, wrongErr, domainerrors.ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestVerifySessionToken(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterRequest{Username: "ada", Password: "password123"})
	require.NoError(t, err)

	user, session, err := svc.VerifySessionToken(ctx, reg.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, user.ID)
	assert.Equal(t, reg.User.ID, session.UserID)
}

func TestVerifySessionToken_Garbage(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, _, err := svc.VerifySessionToken(context.Background(), "v4.local.garbage")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthenticated)
}

func TestLogout_InvalidatesToken(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterRequest{Username: "ada", Password: "password123"})
	require.NoError(t, err)

	_, session, err := svc.VerifySessionToken(ctx, reg.Token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, session.ID))

	// The PASETO token hasn't expired, but the session record is gone.
	_, _, err = svc.VerifySessionToken(ctx, reg.Token)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthenticated)

	// Logout is idempotent.
	require.NoError(t, svc.Logout(ctx, session.ID))
}

func TestRecover(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterRequest{Username: "ada", Password: "password123"})
	require.NoError(t, err)

	resp, err := svc.Recover(ctx, RecoverRequest{
		Username:    "ada",
		RecoveryKey: reg.RecoveryKey,
		NewPassword: "freshpassword",
	})
	require.NoError(t, err)
	assert.Equal(t, reg.EncryptionKey, resp.EncryptionKey)

	// Old password no longer works, new one does.
	_, err = svc.Login(ctx, LoginRequest{Username: "ada", Password: "password123"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginRequest{Username: "ada", Password: "freshpassword"})
	assert.NoError(t, err)

	// The pre-recovery session was revoked.
	_, _, err = svc.VerifySessionToken(ctx, reg.Token)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthenticated)

	// The session minted by the recovery itself works.
	_, _, err = svc.VerifySessionToken(ctx, resp.Token)
	assert.NoError(t, err)
}

func TestRecover_UniformErrors(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterRequest{Username: "ada", Password: "password123"})
	require.NoError(t, err)

	_, unknownErr := svc.Recover(ctx, RecoverRequest{
		Username:    "nobody",
		RecoveryKey: reg.RecoveryKey,
		NewPassword: "freshpassword",
	})
	_, wrongErr := svc.Recover(ctx, RecoverRequest{
		Username:    "ada",
		RecoveryKey: "not-the-key",
		NewPassword: "freshpassword",
	})

	assert.ErrorIs(t, unknownErr, domainerrors.ErrInvalidRecovery)
	assert.ErrorIs(t, wrongErr, domainerrors.ErrInvalidRecovery)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())

	// A failed recovery changes nothing.
	_, err = svc.Login(ctx, LoginRequest{Username: "ada", Password: "password123"})
	assert.NoError(t, err)
}
