package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/service"
)

func (s *Server) registerNoteRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listNotes",
		Method:      http.MethodGet,
		Path:        "/api/v1/notes",
		Summary:     "List notes",
		Description: "Lists the user's notes ordered by most recently updated. Supports folder, pinned, and substring-search filters.",
		Tags:        []string{"Notes"},
	}, s.handleListNotes)

	huma.Register(s.api, huma.Operation{
		OperationID: "createNote",
		Method:      http.MethodPost,
		Path:        "/api/v1/notes",
		Summary:     "Create note",
		Tags:        []string{"Notes"},
	}, s.handleCreateNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "getNote",
		Method:      http.MethodGet,
		Path:        "/api/v1/notes/{id}",
		Summary:     "Get note",
		Tags:        []string{"Notes"},
	}, s.handleGetNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateNote",
		Method:      http.MethodPatch,
		Path:        "/api/v1/notes/{id}",
		Summary:     "Update note",
		Description: "Partial update; absent fields are left untouched. Setting folder_id to the empty string moves the note out of its folder.",
		Tags:        []string{"Notes"},
	}, s.handleUpdateNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteNote",
		Method:      http.MethodDelete,
		Path:        "/api/v1/notes/{id}",
		Summary:     "Delete note",
		Description: "Deletes the note. Idempotent; deleting an unknown note succeeds.",
		Tags:        []string{"Notes"},
	}, s.handleDeleteNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "importNote",
		Method:      http.MethodPost,
		Path:        "/api/v1/notes/import",
		Summary:     "Import HTML as note",
		Description: "Converts pasted HTML to markdown and creates a note from it",
		Tags:        []string{"Notes"},
	}, s.handleImportNote)
}

// === DTOs ===

// ListNotesInput carries the list filters.
type ListNotesInput struct {
	Folder string `query:"folder" doc:"Only notes directly in this folder"`
	Pinned bool   `query:"pinned" doc:"Only pinned notes"`
	Query  string `query:"q" doc:"Case-insensitive substring over title, content, and tags"`
}

// NotesOutput wraps a note listing for Huma.
type NotesOutput struct {
	Body NotesResponse
}

// NotesResponse contains a note listing.
type NotesResponse struct {
	Notes []*domain.Note `json:"notes" doc:"Notes ordered by most recently updated"`
	Total int            `json:"total" doc:"Number of notes returned"`
}

// NoteInput identifies a note by path parameter.
type NoteInput struct {
	ID string `path:"id" doc:"Note ID"`
}

// NoteOutput wraps a single note for Huma.
type NoteOutput struct {
	Body *domain.Note
}

// CreateNoteRequest is the request body for note creation.
type CreateNoteRequest struct {
	Title            string   `json:"title,omitempty" validate:"max=200" doc:"Note title"`
	Content          string   `json:"content,omitempty" doc:"Markdown content"`
	EncryptedContent string   `json:"encrypted_content,omitempty" doc:"Opaque ciphertext for clients that encrypt"`
	Tags             []string `json:"tags,omitempty" doc:"Tags"`
	FolderID         string   `json:"folder_id,omitempty" doc:"Folder to file the note under; not validated"`
	IsPinned         bool     `json:"is_pinned,omitempty" doc:"Pin the note"`
}

// CreateNoteInput wraps the create request for Huma.
type CreateNoteInput struct {
	Body CreateNoteRequest
}

// UpdateNoteRequest is the request body for a partial note update.
type UpdateNoteRequest struct {
	Title            *string   `json:"title,omitempty" doc:"New title"`
	Content          *string   `json:"content,omitempty" doc:"New markdown content; word count is recomputed"`
	EncryptedContent *string   `json:"encrypted_content,omitempty" doc:"New ciphertext"`
	Tags             *[]string `json:"tags,omitempty" doc:"Replacement tag set"`
	FolderID         *string   `json:"folder_id,omitempty" doc:"New folder; empty string unfiles the note"`
	IsPinned         *bool     `json:"is_pinned,omitempty" doc:"Pin or unpin"`
}

// UpdateNoteInput wraps the update request for Huma.
type UpdateNoteInput struct {
	ID   string `path:"id" doc:"Note ID"`
	Body UpdateNoteRequest
}

// ImportNoteRequest is the request body for HTML import.
type ImportNoteRequest struct {
	HTML     string   `json:"html" validate:"required" doc:"HTML to convert to markdown"`
	Title    string   `json:"title,omitempty" validate:"max=200" doc:"Note title"`
	FolderID string   `json:"folder_id,omitempty" doc:"Folder to file the note under"`
	Tags     []string `json:"tags,omitempty" doc:"Tags"`
}

// ImportNoteInput wraps the import request for Huma.
type ImportNoteInput struct {
	Body ImportNoteRequest
}

// === Handlers ===

func (s *Server) handleListNotes(ctx context.Context, input *ListNotesInput) (*NotesOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	opts := service.ListNotesOptions{
		FolderID: input.Folder,
		Pinned:   input.Pinned,
		Query:    input.Query,
		HasQuery: input.Query != "",
	}

	notes, err := s.services.Note.ListNotes(ctx, userID, opts)
	if err != nil {
		return nil, err
	}

	return &NotesOutput{Body: NotesResponse{Notes: notes, Total: len(notes)}}, nil
}

func (s *Server) handleCreateNote(ctx context.Context, input *CreateNoteInput) (*NoteOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	note, err := s.services.Note.CreateNote(ctx, userID, service.CreateNoteRequest{
		Title:            input.Body.Title,
		Content:          input.Body.Content,
		EncryptedContent: input.Body.EncryptedContent,
		Tags:             input.Body.Tags,
		FolderID:         input.Body.FolderID,
		IsPinned:         input.Body.IsPinned,
	})
	if err != nil {
		return nil, err
	}

	return &NoteOutput{Body: note}, nil
}

func (s *Server) handleGetNote(ctx context.Context, input *NoteInput) (*NoteOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	note, err := s.services.Note.GetNote(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &NoteOutput{Body: note}, nil
}

func (s *Server) handleUpdateNote(ctx context.Context, input *UpdateNoteInput) (*NoteOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	note, err := s.services.Note.UpdateNote(ctx, userID, input.ID, service.UpdateNoteRequest{
		Title:            input.Body.Title,
		Content:          input.Body.Content,
		EncryptedContent: input.Body.EncryptedContent,
		Tags:             input.Body.Tags,
		FolderID:         input.Body.FolderID,
		IsPinned:         input.Body.IsPinned,
	})
	if err != nil {
		return nil, err
	}

	return &NoteOutput{Body: note}, nil
}

func (s *Server) handleDeleteNote(ctx context.Context, input *NoteInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Note.DeleteNote(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Note deleted"}}, nil
}

func (s *Server) handleImportNote(ctx context.Context, input *ImportNoteInput) (*NoteOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	note, err := s.services.Import.ImportHTML(ctx, userID, service.ImportHTMLRequest{
		HTML:     input.Body.HTML,
		Title:    input.Body.Title,
		FolderID: input.Body.FolderID,
		Tags:     input.Body.Tags,
	})
	if err != nil {
		return nil, err
	}

	return &NoteOutput{Body: note}, nil
}
