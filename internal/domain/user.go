package domain

import "time"

// User represents an authenticated user account in the system.
type User struct {
	Record
	Username        string    `json:"username"`
	PasswordHash    string    `json:"password_hash,omitempty"`     // Stored hashed, filter from API responses
	RecoveryKeyHash string    `json:"recovery_key_hash,omitempty"` // SHA-256 digest, the plaintext is shown once at registration
	EncryptionKey   string    `json:"encryption_key,omitempty"`    // Content-encryption key, returned to the owner on auth
	LastLoginAt     time.Time `json:"last_login_at"`
}

// Session represents an active user session.
// Each login gets its own session record; logout deletes it.
type Session struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	TokenHash  string    `json:"token_hash,omitempty"` // Stored hashed, filter from API responses
	ExpiresAt  time.Time `json:"expires_at"`
	CreatedAt  time.Time `json:"created_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
	IPAddress  string    `json:"ip_address,omitempty"`
}

// Touch updates the session's last seen timestamp.
func (s *Session) Touch() {
	s.LastSeenAt = time.Now()
}

// IsExpired checks if the session has passed its expiration time.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
