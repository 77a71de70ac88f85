package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "register",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/register",
		Summary:     "Register new account",
		Description: "Creates a new account. The response contains the recovery key in plaintext; it is never shown again.",
		Tags:        []string{"Authentication"},
	}, s.handleRegister)

	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/login",
		Summary:     "User login",
		Description: "Authenticates a user and returns a session token plus the content-encryption key",
		Tags:        []string{"Authentication"},
	}, s.handleLogin)

	huma.Register(s.api, huma.Operation{
		OperationID: "recover",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/recover",
		Summary:     "Recover account",
		Description: "Resets the password using the recovery key and returns a fresh session. Other sessions are revoked.",
		Tags:        []string{"Authentication"},
	}, s.handleRecover)

	huma.Register(s.api, huma.Operation{
		OperationID: "logout",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/logout",
		Summary:     "Logout",
		Description: "Revokes the current session. Idempotent.",
		Tags:        []string{"Authentication"},
	}, s.handleLogout)

	huma.Register(s.api, huma.Operation{
		OperationID: "currentUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/auth/me",
		Summary:     "Current user",
		Description: "Returns the authenticated user and their content-encryption key",
		Tags:        []string{"Authentication"},
	}, s.handleCurrentUser)
}

// === DTOs ===

// RegisterRequest is the request body for account registration.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64" doc:"Unique username (case-sensitive)"`
	Password string `json:"password" validate:"required,min=8,max=1024" doc:"Account password"`
}

// RegisterInput wraps the register request with headers for Huma.
type RegisterInput struct {
	Body          RegisterRequest
	XForwardedFor string `header:"X-Forwarded-For"`
	XRealIP       string `header:"X-Real-IP"`
}

// LoginRequest is the request body for user login.
type LoginRequest struct {
	Username string `json:"username" validate:"required" doc:"Username"`
	Password string `json:"password" validate:"required,max=1024" doc:"Account password"`
}

// LoginInput wraps the login request with headers for Huma.
type LoginInput struct {
	Body          LoginRequest
	XForwardedFor string `header:"X-Forwarded-For"`
	XRealIP       string `header:"X-Real-IP"`
}

// RecoverRequest is the request body for a recovery-key password reset.
type RecoverRequest struct {
	Username    string `json:"username" validate:"required" doc:"Username"`
	RecoveryKey string `json:"recovery_key" validate:"required" doc:"Recovery key issued at registration"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=1024" doc:"Replacement password"`
}

// RecoverInput wraps the recover request with headers for Huma.
type RecoverInput struct {
	Body          RecoverRequest
	XForwardedFor string `header:"X-Forwarded-For"`
	XRealIP       string `header:"X-Real-IP"`
}

// UserResponse contains user information in auth responses.
type UserResponse struct {
	ID          string    `json:"id" doc:"User ID"`
	Username    string    `json:"username" doc:"Username"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt   time.Time `json:"updated_at" doc:"Last update timestamp"`
	LastLoginAt time.Time `json:"last_login_at" doc:"Last login timestamp"`
}

// AuthResponse contains the session token, encryption key, and user info.
type AuthResponse struct {
	Token         string       `json:"token" doc:"PASETO session token"`
	ExpiresAt     time.Time    `json:"expires_at" doc:"Session expiry"`
	EncryptionKey string       `json:"encryption_key" doc:"Content-encryption key for the client"`
	User          UserResponse `json:"user" doc:"Authenticated user"`
}

// AuthOutput wraps the auth response for Huma.
type AuthOutput struct {
	Body AuthResponse
}

// RegisterResponse is an AuthResponse plus the one-time recovery key.
type RegisterResponse struct {
	AuthResponse
	RecoveryKey string `json:"recovery_key" doc:"One-time recovery key. Store it safely; it is never shown again."`
}

// RegisterOutput wraps the register response for Huma.
type RegisterOutput struct {
	Body RegisterResponse
}

// MessageResponse contains a simple message.
type MessageResponse struct {
	Message string `json:"message" doc:"Success message"`
}

// MessageOutput wraps the message response for Huma.
type MessageOutput struct {
	Body MessageResponse
}

// === Handlers ===

func (s *Server) handleRegister(ctx context.Context, input *RegisterInput) (*RegisterOutput, error) {
	req := service.RegisterRequest{
		Username:  input.Body.Username,
		Password:  input.Body.Password,
		IPAddress: extractIP(input.XForwardedFor, input.XRealIP),
	}

	resp, err := s.services.Auth.Register(ctx, req)
	if err != nil {
		return nil, err
	}

	return &RegisterOutput{
		Body: RegisterResponse{
			AuthResponse: mapAuthResponse(&resp.AuthResponse),
			RecoveryKey:  resp.RecoveryKey,
		},
	}, nil
}

func (s *Server) handleLogin(ctx context.Context, input *LoginInput) (*AuthOutput, error) {
	req := service.LoginRequest{
		Username:  input.Body.Username,
		Password:  input.Body.Password,
		IPAddress: extractIP(input.XForwardedFor, input.XRealIP),
	}

	resp, err := s.services.Auth.Login(ctx, req)
	if err != nil {
		return nil, err
	}

	return &AuthOutput{Body: mapAuthResponse(resp)}, nil
}

func (s *Server) handleRecover(ctx context.Context, input *RecoverInput) (*AuthOutput, error) {
	req := service.RecoverRequest{
		Username:    input.Body.Username,
		RecoveryKey: input.Body.RecoveryKey,
		NewPassword: input.Body.NewPassword,
		IPAddress:   extractIP(input.XForwardedFor, input.XRealIP),
	}

	resp, err := s.services.Auth.Recover(ctx, req)
	if err != nil {
		return nil, err
	}

	return &AuthOutput{Body: mapAuthResponse(resp)}, nil
}

func (s *Server) handleLogout(ctx context.Context, _ *struct{}) (*MessageOutput, error) {
	sessionID, err := GetSessionID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Auth.Logout(ctx, sessionID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Logged out successfully"}}, nil
}

func (s *Server) handleCurrentUser(ctx context.Context, _ *struct{}) (*CurrentUserOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, huma.Error401Unauthorized("User not found")
	}

	return &CurrentUserOutput{
		Body: CurrentUserResponse{
			User:          mapUser(user),
			EncryptionKey: user.EncryptionKey,
		},
	}, nil
}

// CurrentUserResponse contains the whoami payload.
type CurrentUserResponse struct {
	User          UserResponse `json:"user" doc:"Authenticated user"`
	EncryptionKey string       `json:"encryption_key" doc:"Content-encryption key for the client"`
}

// CurrentUserOutput wraps the whoami response for Huma.
type CurrentUserOutput struct {
	Body CurrentUserResponse
}

// === Helpers ===

func mapAuthResponse(resp *service.AuthResponse) AuthResponse {
	return AuthResponse{
		Token:         resp.Token,
		ExpiresAt:     resp.ExpiresAt,
		EncryptionKey: resp.EncryptionKey,
		User:          mapUser(resp.User),
	}
}

func mapUser(user *domain.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
		LastLoginAt: user.LastLoginAt,
	}
}

func extractIP(xForwardedFor, xRealIP string) string {
	if xForwardedFor != "" {
		for i := 0; i < len(xForwardedFor); i++ {
			if xForwardedFor[i] == ',' {
				return xForwardedFor[:i]
			}
		}
		return xForwardedFor
	}
	return xRealIP
}
