package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

func newTestImportService(t *testing.T) (*ImportService, *NoteService) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := store.New(t.TempDir(), logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, st.Close())
	})

	notes := NewNoteService(st, logger)
	return NewImportService(notes, logger), notes
}

func TestImportHTML(t *testing.T) {
	importer, notes := newTestImportService(t)
	ctx := context.Background()

	note, err := importer.ImportHTML(ctx, "user-1", ImportHTMLRequest{
		HTML:  "<h1>Reading List</h1><p>Some <strong>bold</strong> text.</p>",
		Title: "Clipped page",
		Tags:  []string{"clippings"},
	})
	require.NoError(t, err)

	assert.Contains(t, note.Content, "# Reading List")
	assert.Contains(t, note.Content, "**bold**")
	assert.NotContains(t, note.Content, "<h1>")
	assert.Positive(t, note.WordCount)

	// The imported note goes through the normal path and is listed like any other.
	all, err := notes.ListNotes(ctx, "user-1", ListNotesOptions{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, note.ID, all[0].ID)
}

func TestImportHTML_Validation(t *testing.T) {
	importer, _ := newTestImportService(t)

	_, err := importer.ImportHTML(context.Background(), "user-1", ImportHTMLRequest{HTML: ""})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}
