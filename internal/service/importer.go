package service

import (
	"context"
	"log/slog"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	domainerrors "github.com/inkwellapp/inkwell-server/internal/errors"
)

// ImportService turns pasted HTML into ordinary notes.
// Notes render as markdown, so imported pages are converted on the way in.
type ImportService struct {
	notes  *NoteService
	logger *slog.Logger
}

// NewImportService creates a new import service.
func NewImportService(notes *NoteService, logger *slog.Logger) *ImportService {
	return &ImportService{notes: notes, logger: logger}
}

// ImportHTMLRequest contains an HTML fragment or page to import.
type ImportHTMLRequest struct {
	HTML     string   `json:"html" validate:"required"`
	Title    string   `json:"title" validate:"max=200"`
	FolderID string   `json:"folder_id"`
	Tags     []string `json:"tags" validate:"max=50,dive,min=1,max=64"`
}

// ImportHTML converts the HTML to markdown and creates a note through the
// normal path, so indexes and word count behave like any other note.
func (s *ImportService) ImportHTML(ctx context.Context, userID string, req ImportHTMLRequest) (*domain.Note, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	markdown, err := htmltomarkdown.ConvertString(req.HTML)
	if err != nil {
		return nil, domainerrors.Validation("could not convert HTML").WithCause(err)
	}

	note, err := s.notes.CreateNote(ctx, userID, CreateNoteRequest{
		Title:    req.Title,
		Content:  markdown,
		Tags:     req.Tags,
		FolderID: req.FolderID,
	})
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("Imported HTML note",
			"note_id", note.ID,
			"user_id", userID,
			"word_count", note.WordCount,
		)
	}

	return note, nil
}
