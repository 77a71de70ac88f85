package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/auth"
	"github.com/inkwellapp/inkwell-server/internal/domain"
	domainerrors "github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/id"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

// AuthService handles registration, login, recovery, and token verification.
// Session bookkeeping is delegated to SessionService.
type AuthService struct {
	store          *store.Store
	tokenService   *auth.TokenService
	sessionService *SessionService
	logger         *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	store *store.Store,
	tokenService *auth.TokenService,
	sessionService *SessionService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		store:          store,
		tokenService:   tokenService,
		sessionService: sessionService,
		logger:         logger,
	}
}

// RegisterRequest contains new account data.
type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=64"`
	Password  string `json:"password" validate:"required,min=8,max=1024"`
	IPAddress string `json:"-"` // Extracted from request by handler
}

// LoginRequest contains user credentials.
type LoginRequest struct {
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required"`
	IPAddress string `json:"-"` // Extracted from request by handler
}

// RecoverRequest contains a recovery-key password reset.
type RecoverRequest struct {
	Username    string `json:"username" validate:"required"`
	RecoveryKey string `json:"recovery_key" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=1024"`
	IPAddress   string `json:"-"` // Extracted from request by handler
}

// AuthResponse contains the authenticated user, their session token, and the
// content-encryption key the client needs to read its own notes.
type AuthResponse struct {
	User          *domain.User `json:"user"`
	EncryptionKey string       `json:"encryption_key"`
	SessionResponse
}

// RegisterResponse is an AuthResponse plus the one-time recovery key.
type RegisterResponse struct {
	AuthResponse
	RecoveryKey string `json:"recovery_key"`
}

// Register creates a new account. The response carries the recovery key in
// plaintext; this is the only time it is ever shown.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	recoveryKey, err := auth.GenerateSecret()
	if err != nil {
		return nil, fmt.Errorf("generate recovery key: %w", err)
	}

	encryptionKey, err := auth.GenerateSecret()
	if err != nil {
		return nil, fmt.Errorf("generate encryption key: %w", err)
	}

	userID, err := id.Generate("user")
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	user := &domain.User{
		Record: domain.Record{
			ID: userID,
		},
		Username:        req.Username,
		PasswordHash:    passwordHash,
		RecoveryKeyHash: auth.HashSecret(recoveryKey),
		EncryptionKey:   encryptionKey,
		LastLoginAt:     time.Now(),
	}
	user.InitTimestamps()

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrUsernameExists) {
			return nil, domainerrors.DuplicateUsername("username already in use")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	sessionResp, err := s.sessionService.CreateSession(ctx, user, req.IPAddress)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("User registered",
			"user_id", userID,
			"username", user.Username,
		)
	}

	return &RegisterResponse{
		AuthResponse: AuthResponse{
			User:            user,
			EncryptionKey:   encryptionKey,
			SessionResponse: *sessionResp,
		},
		RecoveryKey: recoveryKey,
	}, nil
}

// Login authenticates a user and creates a new session.
// Unknown usernames and wrong passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	user, err := s.store.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// Don't leak whether the username exists
			return nil, domainerrors.InvalidCredentials("invalid username or password")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	valid, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return nil, domainerrors.InvalidCredentials("invalid username or password")
	}

	user.LastLoginAt = time.Now()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		// Log but don't fail login
		if s.logger != nil {
			s.logger.Warn("Failed to update last login time",
				"user_id", user.ID,
				"error", err,
			)
		}
	}

	sessionResp, err := s.sessionService.CreateSession(ctx, user, req.IPAddress)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("User logged in", "user_id", user.ID)
	}

	return &AuthResponse{
		User:            user,
		EncryptionKey:   user.EncryptionKey,
		SessionResponse: *sessionResp,
	}, nil
}

// Recover resets a user's password using their recovery key, revokes every
// existing session, and starts a fresh one. Unknown usernames and wrong keys
// produce the same error.
func (s *AuthService) Recover(ctx context.Context, req RecoverRequest) (*AuthResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	user, err := s.store.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// Don't leak whether the username exists
			return nil, domainerrors.InvalidRecovery("invalid username or recovery key")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !auth.VerifySecret(user.RecoveryKeyHash, req.RecoveryKey) {
		return nil, domainerrors.InvalidRecovery("invalid username or recovery key")
	}

	passwordHash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = passwordHash
	user.LastLoginAt = time.Now()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	// Force re-authentication everywhere else.
	if err := s.sessionService.RevokeUserSessions(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("revoke sessions: %w", err)
	}

	sessionResp, err := s.sessionService.CreateSession(ctx, user, req.IPAddress)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("User recovered account", "user_id", user.ID)
	}

	return &AuthResponse{
		User:            user,
		EncryptionKey:   user.EncryptionKey,
		SessionResponse: *sessionResp,
	}, nil
}

// Logout revokes a session. Logging out twice is fine.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.sessionService.DeleteSession(ctx, sessionID)
}

// VerifySessionToken validates a bearer token against both its PASETO claims
// and the backing session record, so a logged-out token dies immediately.
// Used by the authentication middleware.
func (s *AuthService) VerifySessionToken(ctx context.Context, tokenString string) (*domain.User, *domain.Session, error) {
	claims, err := s.tokenService.VerifySessionToken(tokenString)
	if err != nil {
		return nil, nil, domainerrors.Unauthenticated("invalid or expired token")
	}

	session, err := s.sessionService.ResolveToken(ctx, tokenString)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) || errors.Is(err, store.ErrSessionExpired) {
			return nil, nil, domainerrors.Unauthenticated("session revoked or expired")
		}
		return nil, nil, fmt.Errorf("resolve session: %w", err)
	}

	user, err := s.store.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, nil, domainerrors.Unauthenticated("user no longer exists")
		}
		return nil, nil, fmt.Errorf("get user: %w", err)
	}

	s.sessionService.TouchSession(ctx, session)

	return user, session, nil
}
