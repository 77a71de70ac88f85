package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateNote_And_GetNote(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	makeNote(t, s, "note-1", "user-1", "", "Groceries", "milk eggs bread")

	got, err := s.GetNote(ctx, "note-1")
	require.NoError(t, err)
	assert.Equal(t, "Groceries", got.Title)
	assert.Equal(t, 3, got.WordCount)
}

func TestGetNote_NotFound(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.GetNote(context.Background(), "note-missing")
	assert.ErrorIs(t, err, ErrNoteNotFound)
}

func TestDeleteNote_Idempotent(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	makeNote(t, s, "note-1", "user-1", "folder-1", "Title", "content")

	require.NoError(t, s.DeleteNote(ctx, "note-1"))
	_, err := s.GetNote(ctx, "note-1")
	assert.ErrorIs(t, err, ErrNoteNotFound)

	// Deleting again is a no-op.
	require.NoError(t, s.DeleteNote(ctx, "note-1"))

	// Index entries are cleaned up with the note.
	notes, err := s.ListNotesByFolder(ctx, "user-1", "folder-1")
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestListNotes_OrderedByUpdatedAtDesc(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	a := makeNote(t, s, "note-a", "user-1", "", "first", "")
	time.Sleep(2 * time.Millisecond)
	makeNote(t, s, "note-b", "user-1", "", "second", "")
	time.Sleep(2 * time.Millisecond)
	makeNote(t, s, "note-c", "user-1", "", "third", "")

	notes, err := s.ListNotes(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, notes, 3)
	assert.Equal(t, "note-c", notes[0].ID)
	assert.Equal(t, "note-b", notes[1].ID)
	assert.Equal(t, "note-a", notes[2].ID)

	// Updating the oldest note moves it to the front.
	time.Sleep(2 * time.Millisecond)
	a.Tags = []string{"bumped"}
	require.NoError(t, s.UpdateNote(ctx, a))

	notes, err = s.ListNotes(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "note-a", notes[0].ID)
}

func TestListNotes_ScopedToOwner(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	makeNote(t, s, "note-1", "user-1", "", "mine", "")
	makeNote(t, s, "note-2", "user-2", "", "theirs", "")

	notes, err := s.ListNotes(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "note-1", notes[0].ID)
}

func TestListNotesByFolder(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	makeNote(t, s, "note-1", "user-1", "folder-1", "in folder", "")
	makeNote(t, s, "note-2", "user-1", "", "unfiled", "")
	makeNote(t, s, "note-3", "user-1", "folder-2", "elsewhere", "")

	notes, err := s.ListNotesByFolder(ctx, "user-1", "folder-1")
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "note-1", notes[0].ID)

	// Unknown folder yields an empty list, not an error.
	notes, err = s.ListNotesByFolder(ctx, "user-1", "folder-ghost")
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestUpdateNote_MovesFolderIndex(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	n := makeNote(t, s, "note-1", "user-1", "folder-1", "roaming", "")

	n.FolderID = "folder-2"
	require.NoError(t, s.UpdateNote(ctx, n))

	old, err := s.ListNotesByFolder(ctx, "user-1", "folder-1")
	require.NoError(t, err)
	assert.Empty(t, old)

	moved, err := s.ListNotesByFolder(ctx, "user-1", "folder-2")
	require.NoError(t, err)
	require.Len(t, moved, 1)
	assert.Equal(t, "note-1", moved[0].ID)
}

func TestListPinnedNotes(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	n := makeNote(t, s, "note-1", "user-1", "", "pin me", "")
	makeNote(t, s, "note-2", "user-1", "", "ordinary", "")

	pinned, err := s.ListPinnedNotes(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, pinned)

	n.IsPinned = true
	require.NoError(t, s.UpdateNote(ctx, n))

	pinned, err = s.ListPinnedNotes(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, pinned, 1)
	assert.Equal(t, "note-1", pinned[0].ID)

	// Unpinning removes the index entry again.
	n.IsPinned = false
	require.NoError(t, s.UpdateNote(ctx, n))

	pinned, err = s.ListPinnedNotes(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, pinned)
}

func TestSearchNotes(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	makeNote(t, s, "note-1", "user-1", "", "Meeting agenda", "discuss roadmap")
	n2 := makeNote(t, s, "note-2", "user-1", "", "Shopping", "milk and eggs")
	n2.Tags = []string{"errands", "weekend"}
	require.NoError(t, s.UpdateNote(ctx, n2))
	makeNote(t, s, "note-3", "user-2", "", "Agenda", "other user's note")

	// Case-insensitive title match, scoped to owner.
	notes, err := s.SearchNotes(ctx, "user-1", "AGENDA")
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "note-1", notes[0].ID)

	// Content match.
	notes, err = s.SearchNotes(ctx, "user-1", "milk")
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "note-2", notes[0].ID)

	// Tag match.
	notes, err = s.SearchNotes(ctx, "user-1", "errand")
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "note-2", notes[0].ID)

	// No match.
	notes, err = s.SearchNotes(ctx, "user-1", "zebra")
	require.NoError(t, err)
	assert.Empty(t, notes)

	// Empty query matches everything the user owns.
	notes, err = s.SearchNotes(ctx, "user-1", "")
	require.NoError(t, err)
	assert.Len(t, notes, 2)
}
