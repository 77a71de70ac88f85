package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwellapp/inkwell-server/internal/ratelimit"
)

func TestRegister_Success(t *testing.T) {
	server := setupTestServer(t)

	resp := registerTestUser(t, server, "margaret")

	assert.NotEmpty(t, resp.Token)
	assert.NotEmpty(t, resp.RecoveryKey)
	assert.NotEmpty(t, resp.EncryptionKey)
	assert.Equal(t, "margaret", resp.User.Username)
	assert.False(t, resp.ExpiresAt.IsZero())
}

func TestRegister_DuplicateUsername(t *testing.T) {
	server := setupTestServer(t)
	registerTestUser(t, server, "margaret")

	rec := doRequest(t, server, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"username": "margaret",
		"password": "another fine password",
	})

	assert.Equal(t, http.StatusConflict, rec.Code)

	apiErr := decodeBody[APIError](t, rec)
	assert.Equal(t, "DUPLICATE_USERNAME", apiErr.Code)
}

func TestRegister_Validation(t *testing.T) {
	server := setupTestServer(t)

	tests := []struct {
		name       string
		body       map[string]any
		wantStatus int
	}{
		{
			name:       "missing username",
			body:       map[string]any{"password": "correct horse battery staple"},
			wantStatus: http.StatusUnprocessableEntity, // Huma rejects missing required fields
		},
		{
			name:       "username too short",
			body:       map[string]any{"username": "ab", "password": "correct horse battery staple"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "password too short",
			body:       map[string]any{"username": "margaret", "password": "short"},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, server, http.MethodPost, "/api/v1/auth/register", "", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, "body: %s", rec.Body.String())
		})
	}
}

func TestLogin_Success(t *testing.T) {
	server := setupTestServer(t)
	reg := registerTestUser(t, server, "margaret")

	rec := doRequest(t, server, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"username": "margaret",
		"password": "correct horse battery staple",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody[AuthResponse](t, rec)
	assert.NotEmpty(t, resp.Token)
	assert.NotEqual(t, reg.Token, resp.Token) // a fresh session
	assert.Equal(t, reg.EncryptionKey, resp.EncryptionKey)
}

func TestLogin_UniformFailure(t *testing.T) {
	server := setupTestServer(t)
	registerTestUser(t, server, "margaret")

	wrongPassword := doRequest(t, server, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"username": "margaret",
		"password": "not her password at all",
	})
	unknownUser := doRequest(t, server, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"username": "nobody",
		"password": "not her password at all",
	})

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownUser.Code)

	// The two failure modes must be indistinguishable.
	a := decodeBody[APIError](t, wrongPassword)
	b := decodeBody[APIError](t, unknownUser)
	assert.Equal(t, a.Code, b.Code)
	assert.Equal(t, a.Message, b.Message)
}

func TestCurrentUser(t *testing.T) {
	server := setupTestServer(t)
	reg := registerTestUser(t, server, "margaret")

	rec := doRequest(t, server, http.MethodGet, "/api/v1/auth/me", reg.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody[CurrentUserResponse](t, rec)
	assert.Equal(t, "margaret", resp.User.Username)
	assert.Equal(t, reg.EncryptionKey, resp.EncryptionKey)
}

func TestCurrentUser_NoToken(t *testing.T) {
	server := setupTestServer(t)

	rec := doRequest(t, server, http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCurrentUser_GarbageToken(t *testing.T) {
	server := setupTestServer(t)

	rec := doRequest(t, server, http.MethodGet, "/api/v1/auth/me", "v4.local.garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogout_InvalidatesToken(t *testing.T) {
	server := setupTestServer(t)
	reg := registerTestUser(t, server, "margaret")

	rec := doRequest(t, server, http.MethodPost, "/api/v1/auth/logout", reg.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// The token dies with the session, well before its PASETO expiry.
	rec = doRequest(t, server, http.MethodGet, "/api/v1/auth/me", reg.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRecover_FullFlow(t *testing.T) {
	server := setupTestServer(t)
	reg := registerTestUser(t, server, "margaret")

	rec := doRequest(t, server, http.MethodPost, "/api/v1/auth/recover", "", map[string]any{
		"username":     "margaret",
		"recovery_key": reg.RecoveryKey,
		"new_password": "an entirely new password",
	})
	require.Equal(t, http.StatusOK, rec.Code, "recover failed: %s", rec.Body.String())

	resp := decodeBody[AuthResponse](t, rec)
	assert.Equal(t, reg.EncryptionKey, resp.EncryptionKey)

	// Old password no longer works.
	rec = doRequest(t, server, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"username": "margaret",
		"password": "correct horse battery staple",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// The pre-recovery session was revoked.
	rec = doRequest(t, server, http.MethodGet, "/api/v1/auth/me", reg.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// New password and new session both work.
	rec = doRequest(t, server, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"username": "margaret",
		"password": "an entirely new password",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, server, http.MethodGet, "/api/v1/auth/me", resp.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRecover_UniformFailure(t *testing.T) {
	server := setupTestServer(t)
	registerTestUser(t, server, "margaret")

	wrongKey := doRequest(t, server, http.MethodPost, "/api/v1/auth/recover", "", map[string]any{
		"username":     "margaret",
		"recovery_key": "definitely-not-the-key",
		"new_password": "an entirely new password",
	})
	unknownUser := doRequest(t, server, http.MethodPost, "/api/v1/auth/recover", "", map[string]any{
		"username":     "nobody",
		"recovery_key": "definitely-not-the-key",
		"new_password": "an entirely new password",
	})

	assert.Equal(t, http.StatusUnauthorized, wrongKey.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownUser.Code)

	a := decodeBody[APIError](t, wrongKey)
	b := decodeBody[APIError](t, unknownUser)
	assert.Equal(t, a.Message, b.Message)
}

func TestCredentialRateLimit(t *testing.T) {
	limiter := ratelimit.New(0.001, 3) // 3 attempts, effectively no refill
	defer limiter.Stop()
	server := setupTestServerWithLimiter(t, limiter)

	body := map[string]any{"username": "margaret", "password": "wrong every time"}

	for i := 0; i < 3; i++ {
		rec := doRequest(t, server, http.MethodPost, "/api/v1/auth/login", "", body)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	rec := doRequest(t, server, http.MethodPost, "/api/v1/auth/login", "", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// Authenticated routes are never rate limited.
	rec = doRequest(t, server, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
