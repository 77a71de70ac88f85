package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/service"
)

func (s *Server) registerFolderRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listFolders",
		Method:      http.MethodGet,
		Path:        "/api/v1/folders",
		Summary:     "List folders",
		Tags:        []string{"Folders"},
	}, s.handleListFolders)

	huma.Register(s.api, huma.Operation{
		OperationID: "createFolder",
		Method:      http.MethodPost,
		Path:        "/api/v1/folders",
		Summary:     "Create folder",
		Tags:        []string{"Folders"},
	}, s.handleCreateFolder)

	huma.Register(s.api, huma.Operation{
		OperationID: "getFolder",
		Method:      http.MethodGet,
		Path:        "/api/v1/folders/{id}",
		Summary:     "Get folder",
		Tags:        []string{"Folders"},
	}, s.handleGetFolder)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateFolder",
		Method:      http.MethodPatch,
		Path:        "/api/v1/folders/{id}",
		Summary:     "Update folder",
		Tags:        []string{"Folders"},
	}, s.handleUpdateFolder)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteFolder",
		Method:      http.MethodDelete,
		Path:        "/api/v1/folders/{id}",
		Summary:     "Delete folder",
		Description: "Deletes the folder and the notes directly inside it. Child folders survive. Idempotent.",
		Tags:        []string{"Folders"},
	}, s.handleDeleteFolder)
}

// === DTOs ===

// FoldersOutput wraps a folder listing for Huma.
type FoldersOutput struct {
	Body FoldersResponse
}

// FoldersResponse contains a folder listing.
type FoldersResponse struct {
	Folders []*domain.Folder `json:"folders" doc:"Folders ordered by most recently updated"`
	Total   int              `json:"total" doc:"Number of folders returned"`
}

// FolderInput identifies a folder by path parameter.
type FolderInput struct {
	ID string `path:"id" doc:"Folder ID"`
}

// FolderOutput wraps a single folder for Huma.
type FolderOutput struct {
	Body *domain.Folder
}

// CreateFolderRequest is the request body for folder creation.
type CreateFolderRequest struct {
	Name     string `json:"name" validate:"required,max=120" doc:"Folder name"`
	Label    string `json:"label,omitempty" validate:"max=2" doc:"Short glyph shown next to the name, at most two characters"`
	ParentID string `json:"parent_id,omitempty" doc:"Parent folder; not validated"`
}

// CreateFolderInput wraps the create request for Huma.
type CreateFolderInput struct {
	Body CreateFolderRequest
}

// UpdateFolderRequest is the request body for a partial folder update.
type UpdateFolderRequest struct {
	Name     *string `json:"name,omitempty" doc:"New name"`
	Label    *string `json:"label,omitempty" doc:"New glyph"`
	ParentID *string `json:"parent_id,omitempty" doc:"New parent; empty string moves the folder to the top level"`
}

// UpdateFolderInput wraps the update request for Huma.
type UpdateFolderInput struct {
	ID   string `path:"id" doc:"Folder ID"`
	Body UpdateFolderRequest
}

// === Handlers ===

func (s *Server) handleListFolders(ctx context.Context, _ *struct{}) (*FoldersOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	folders, err := s.services.Folder.ListFolders(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &FoldersOutput{Body: FoldersResponse{Folders: folders, Total: len(folders)}}, nil
}

func (s *Server) handleCreateFolder(ctx context.Context, input *CreateFolderInput) (*FolderOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	folder, err := s.services.Folder.CreateFolder(ctx, userID, service.CreateFolderRequest{
		Name:     input.Body.Name,
		Label:    input.Body.Label,
		ParentID: input.Body.ParentID,
	})
	if err != nil {
		return nil, err
	}

	return &FolderOutput{Body: folder}, nil
}

func (s *Server) handleGetFolder(ctx context.Context, input *FolderInput) (*FolderOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	folder, err := s.services.Folder.GetFolder(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &FolderOutput{Body: folder}, nil
}

func (s *Server) handleUpdateFolder(ctx context.Context, input *UpdateFolderInput) (*FolderOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	folder, err := s.services.Folder.UpdateFolder(ctx, userID, input.ID, service.UpdateFolderRequest{
		Name:     input.Body.Name,
		Label:    input.Body.Label,
		ParentID: input.Body.ParentID,
	})
	if err != nil {
		return nil, err
	}

	return &FolderOutput{Body: folder}, nil
}

func (s *Server) handleDeleteFolder(ctx context.Context, input *FolderInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Folder.DeleteFolder(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Folder deleted"}}, nil
}
