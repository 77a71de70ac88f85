package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/auth"
	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/id"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

// SessionService manages session records and their lifecycle.
type SessionService struct {
	store        *store.Store
	tokenService *auth.TokenService
	logger       *slog.Logger
}

// NewSessionService creates a new session service.
func NewSessionService(store *store.Store, tokenService *auth.TokenService, logger *slog.Logger) *SessionService {
	return &SessionService{
		store:        store,
		tokenService: tokenService,
		logger:       logger,
	}
}

// SessionResponse contains the session token handed to the client.
type SessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CreateSession mints a session token for the user and persists the backing
// session record. The record stores only the token's hash.
func (s *SessionService) CreateSession(ctx context.Context, user *domain.User, ipAddress string) (*SessionResponse, error) {
	sessionID, err := id.Generate("sess")
	if err != nil {
		return nil, fmt.Errorf("generate session ID: %w", err)
	}

	token, err := s.tokenService.GenerateSessionToken(user, sessionID)
	if err != nil {
		return nil, fmt.Errorf("generate session token: %w", err)
	}

	now := time.Now()
	session := &domain.Session{
		ID:         sessionID,
		UserID:     user.ID,
		TokenHash:  auth.HashSecret(token),
		ExpiresAt:  now.Add(s.tokenService.SessionDuration()),
		CreatedAt:  now,
		LastSeenAt: now,
		IPAddress:  ipAddress,
	}

	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &SessionResponse{
		Token:     token,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// ResolveToken maps a bearer token to its live session record.
// Returns store.ErrSessionNotFound / store.ErrSessionExpired as appropriate.
func (s *SessionService) ResolveToken(ctx context.Context, token string) (*domain.Session, error) {
	return s.store.GetSessionByTokenHash(ctx, auth.HashSecret(token))
}

// TouchSession updates the session's last-seen timestamp. Failures are
// logged, never surfaced; last-seen is best effort.
func (s *SessionService) TouchSession(ctx context.Context, session *domain.Session) {
	session.Touch()
	if err := s.store.UpdateSession(ctx, session); err != nil && s.logger != nil {
		s.logger.Warn("Failed to update session last seen",
			"session_id", session.ID,
			"error", err,
		)
	}
}

// DeleteSession revokes a single session. Deleting a missing session succeeds.
func (s *SessionService) DeleteSession(ctx context.Context, sessionID string) error {
	return s.store.DeleteSession(ctx, sessionID)
}

// RevokeUserSessions revokes every session belonging to a user.
// Called after a recovery-key password reset.
func (s *SessionService) RevokeUserSessions(ctx context.Context, userID string) error {
	return s.store.DeleteAllUserSessions(ctx, userID)
}

// StartJanitor runs an hourly cleanup of expired session records until the
// context is canceled.
func (s *SessionService) StartJanitor(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				deleted, err := s.store.DeleteExpiredSessions(ctx)
				if err != nil {
					if s.logger != nil {
						s.logger.Warn("Session cleanup failed", "error", err)
					}
					continue
				}
				if deleted > 0 && s.logger != nil {
					s.logger.Info("Cleaned up expired sessions", "count", deleted)
				}
			}
		}
	}()
}
