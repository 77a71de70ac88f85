package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	domainerrors "github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/id"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

// NoteService handles note CRUD and the ordered list queries.
type NoteService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewNoteService creates a new note service.
func NewNoteService(store *store.Store, logger *slog.Logger) *NoteService {
	return &NoteService{store: store, logger: logger}
}

// CreateNoteRequest contains new note data. FolderID is accepted verbatim;
// a dangling reference just leaves the note out of folder listings.
type CreateNoteRequest struct {
	Title            string   `json:"title" validate:"max=200"`
	Content          string   `json:"content"`
	EncryptedContent string   `json:"encrypted_content"`
	Tags             []string `json:"tags" validate:"max=50,dive,min=1,max=64"`
	FolderID         string   `json:"folder_id"`
	IsPinned         bool     `json:"is_pinned"`
}

// UpdateNoteRequest contains partial note updates. Nil fields are left
// untouched; a non-nil empty FolderID moves the note out of its folder.
type UpdateNoteRequest struct {
	Title            *string   `json:"title" validate:"omitempty,max=200"`
	Content          *string   `json:"content"`
	EncryptedContent *string   `json:"encrypted_content"`
	Tags             *[]string `json:"tags" validate:"omitempty,max=50,dive,min=1,max=64"`
	FolderID         *string   `json:"folder_id"`
	IsPinned         *bool     `json:"is_pinned"`
}

// ListNotesOptions narrows a note listing. At most one of FolderID, Pinned,
// and Query is honored, in that order; with none set, all notes are listed.
type ListNotesOptions struct {
	FolderID string
	Pinned   bool
	Query    string
	HasQuery bool
}

// CreateNote creates a note owned by the user.
func (s *NoteService) CreateNote(ctx context.Context, userID string, req CreateNoteRequest) (*domain.Note, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	noteID, err := id.Generate("note")
	if err != nil {
		return nil, fmt.Errorf("generate note ID: %w", err)
	}

	note := &domain.Note{
		Record: domain.Record{
			ID: noteID,
		},
		UserID:           userID,
		FolderID:         req.FolderID,
		Title:            req.Title,
		EncryptedContent: req.EncryptedContent,
		Tags:             req.Tags,
		IsPinned:         req.IsPinned,
	}
	note.SetContent(req.Content)
	note.InitTimestamps()

	if err := s.store.CreateNote(ctx, note); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}

	return note, nil
}

// GetNote fetches one of the user's notes.
// Someone else's note looks exactly like a missing one.
func (s *NoteService) GetNote(ctx context.Context, userID, noteID string) (*domain.Note, error) {
	note, err := s.store.GetNote(ctx, noteID)
	if err != nil {
		if errors.Is(err, store.ErrNoteNotFound) {
			return nil, domainerrors.NotFound("note not found")
		}
		return nil, fmt.Errorf("get note: %w", err)
	}

	if note.UserID != userID {
		return nil, domainerrors.NotFound("note not found")
	}

	return note, nil
}

// UpdateNote applies a partial update to one of the user's notes.
// Touching anything refreshes UpdatedAt and reorders listings.
func (s *NoteService) UpdateNote(ctx context.Context, userID, noteID string, req UpdateNoteRequest) (*domain.Note, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	// The read-apply-write runs inside one store transaction so two
	// concurrent partial updates never drop each other's fields.
	note, err := s.store.UpdateNoteWith(ctx, noteID, func(note *domain.Note) error {
		if note.UserID != userID {
			return store.ErrNoteNotFound
		}

		if req.Title != nil {
			note.Title = *req.Title
		}
		if req.Content != nil {
			note.SetContent(*req.Content)
		}
		if req.EncryptedContent != nil {
			note.EncryptedContent = *req.EncryptedContent
		}
		if req.Tags != nil {
			note.Tags = *req.Tags
		}
		if req.FolderID != nil {
			note.FolderID = *req.FolderID
		}
		if req.IsPinned != nil {
			note.IsPinned = *req.IsPinned
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNoteNotFound) {
			return nil, domainerrors.NotFound("note not found")
		}
		return nil, fmt.Errorf("update note: %w", err)
	}

	return note, nil
}

// DeleteNote removes one of the user's notes. Deleting a note that is
// already gone succeeds; someone else's note is left untouched.
func (s *NoteService) DeleteNote(ctx context.Context, userID, noteID string) error {
	note, err := s.store.GetNote(ctx, noteID)
	if err != nil {
		if errors.Is(err, store.ErrNoteNotFound) {
			return nil // Already gone
		}
		return fmt.Errorf("get note: %w", err)
	}

	if note.UserID != userID {
		return nil
	}

	if err := s.store.DeleteNote(ctx, noteID); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}

	return nil
}

// ListNotes returns the user's notes, most recently updated first, narrowed
// by the options.
func (s *NoteService) ListNotes(ctx context.Context, userID string, opts ListNotesOptions) ([]*domain.Note, error) {
	var notes []*domain.Note
	var err error

	switch {
	case opts.FolderID != "":
		notes, err = s.store.ListNotesByFolder(ctx, userID, opts.FolderID)
	case opts.Pinned:
		notes, err = s.store.ListPinnedNotes(ctx, userID)
	case opts.HasQuery:
		notes, err = s.store.SearchNotes(ctx, userID, opts.Query)
	default:
		notes, err = s.store.ListNotes(ctx, userID)
	}

	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	return notes, nil
}
