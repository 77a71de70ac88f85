package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFolder_And_GetFolder(t *testing.T) {
	s := setupTestStore(t)

	makeFolder(t, s, "folder-1", "user-1", "Projects")

	got, err := s.GetFolder(context.Background(), "folder-1")
	require.NoError(t, err)
	assert.Equal(t, "Projects", got.Name)
	assert.Equal(t, "user-1", got.UserID)
}

func TestGetFolder_NotFound(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.GetFolder(context.Background(), "folder-missing")
	assert.ErrorIs(t, err, ErrFolderNotFound)
}

func TestListFolders_ScopedToOwner(t *testing.T) {
	s := setupTestStore(t)

	makeFolder(t, s, "folder-1", "user-1", "Mine")
	makeFolder(t, s, "folder-2", "user-2", "Theirs")

	folders, err := s.ListFolders(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, folders, 1)
	assert.Equal(t, "folder-1", folders[0].ID)
}

func TestUpdateFolder(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	f := makeFolder(t, s, "folder-1", "user-1", "Old Name")

	f.Name = "New Name"
	f.Label = "NN"
	require.NoError(t, s.UpdateFolder(ctx, f))

	got, err := s.GetFolder(ctx, "folder-1")
	require.NoError(t, err)
	assert.Equal(t, "New Name", got.Name)
	assert.Equal(t, "NN", got.Label)
}

func TestDeleteFolder_CascadesToDirectNotes(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	makeFolder(t, s, "folder-1", "user-1", "Doomed")
	makeFolder(t, s, "folder-2", "user-1", "Child")

	// Child folder points at the doomed folder.
	child, err := s.GetFolder(ctx, "folder-2")
	require.NoError(t, err)
	child.ParentID = "folder-1"
	require.NoError(t, s.UpdateFolder(ctx, child))

	inDoomed := makeNote(t, s, "note-1", "user-1", "folder-1", "goes away", "")
	inDoomed.IsPinned = true
	require.NoError(t, s.UpdateNote(ctx, inDoomed))
	makeNote(t, s, "note-2", "user-1", "folder-2", "survives", "")
	makeNote(t, s, "note-3", "user-1", "", "unfiled survives", "")

	require.NoError(t, s.DeleteFolder(ctx, "folder-1"))

	// The folder and its direct notes are gone.
	_, err = s.GetFolder(ctx, "folder-1")
	assert.ErrorIs(t, err, ErrFolderNotFound)
	_, err = s.GetNote(ctx, "note-1")
	assert.ErrorIs(t, err, ErrNoteNotFound)

	// The pinned index entry went with the cascaded note.
	pinned, err := s.ListPinnedNotes(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, pinned)

	// Child folder survives, orphaned, with its note intact.
	survivor, err := s.GetFolder(ctx, "folder-2")
	require.NoError(t, err)
	assert.Equal(t, "folder-1", survivor.ParentID) // dangling, deliberately
	_, err = s.GetNote(ctx, "note-2")
	assert.NoError(t, err)
	_, err = s.GetNote(ctx, "note-3")
	assert.NoError(t, err)
}

func TestDeleteFolder_Idempotent(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	makeFolder(t, s, "folder-1", "user-1", "Fleeting")

	require.NoError(t, s.DeleteFolder(ctx, "folder-1"))
	require.NoError(t, s.DeleteFolder(ctx, "folder-1"))
	require.NoError(t, s.DeleteFolder(ctx, "folder-never-existed"))
}

func TestListFolders_OrderedByUpdatedAtDesc(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	a := makeFolder(t, s, "folder-a", "user-1", "first")
	time.Sleep(2 * time.Millisecond)
	makeFolder(t, s, "folder-b", "user-1", "second")

	folders, err := s.ListFolders(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, folders, 2)
	assert.Equal(t, "folder-b", folders[0].ID)

	time.Sleep(2 * time.Millisecond)
	a.Name = "renamed"
	require.NoError(t, s.UpdateFolder(ctx, a))

	folders, err = s.ListFolders(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "folder-a", folders[0].ID)
}
