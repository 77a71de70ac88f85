package store

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/inkwellapp/inkwell-server/internal/domain"
)

// setupTestStore creates a store backed by a temp directory that is cleaned
// up with the test.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := New(t.TempDir(), logger)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})

	return s
}

func makeUser(t *testing.T, s *Store, id, username string) *domain.User {
	t.Helper()

	u := &domain.User{Username: username, PasswordHash: "$argon2id$fake"}
	u.ID = id
	u.InitTimestamps()
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func makeNote(t *testing.T, s *Store, id, userID, folderID, title, content string) *domain.Note {
	t.Helper()

	n := &domain.Note{UserID: userID, FolderID: folderID, Title: title}
	n.ID = id
	n.SetContent(content)
	n.InitTimestamps()
	require.NoError(t, s.CreateNote(context.Background(), n))
	return n
}

func makeFolder(t *testing.T, s *Store, id, userID, name string) *domain.Folder {
	t.Helper()

	f := &domain.Folder{UserID: userID, Name: name}
	f.ID = id
	f.InitTimestamps()
	require.NoError(t, s.CreateFolder(context.Background(), f))
	return f
}

func makeSession(t *testing.T, s *Store, id, userID, tokenHash string, ttl time.Duration) *domain.Session {
	t.Helper()

	sess := &domain.Session{
		ID:         id,
		UserID:     userID,
		TokenHash:  tokenHash,
		ExpiresAt:  time.Now().Add(ttl),
		CreatedAt:  time.Now(),
		LastSeenAt: time.Now(),
	}
	require.NoError(t, s.CreateSession(context.Background(), sess))
	return sess
}
