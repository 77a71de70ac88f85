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

// FolderService handles folder CRUD and the delete cascade.
type FolderService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewFolderService creates a new folder service.
func NewFolderService(store *store.Store, logger *slog.Logger) *FolderService {
	return &FolderService{store: store, logger: logger}
}

// CreateFolderRequest contains new folder data.
// ParentID is accepted verbatim; nothing checks that the parent exists.
type CreateFolderRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Label    string `json:"label" validate:"max=2"`
	ParentID string `json:"parent_id"`
}

// UpdateFolderRequest contains partial folder updates.
// Nil fields are left untouched.
type UpdateFolderRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=120"`
	Label    *string `json:"label" validate:"omitempty,max=2"`
	ParentID *string `json:"parent_id"`
}

// CreateFolder creates a folder owned by the user.
func (s *FolderService) CreateFolder(ctx context.Context, userID string, req CreateFolderRequest) (*domain.Folder, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	folderID, err := id.Generate("folder")
	if err != nil {
		return nil, fmt.Errorf("generate folder ID: %w", err)
	}

	folder := &domain.Folder{
		Record: domain.Record{
			ID: folderID,
		},
		UserID:   userID,
		Name:     req.Name,
		Label:    req.Label,
		ParentID: req.ParentID,
	}
	folder.InitTimestamps()

	if err := s.store.CreateFolder(ctx, folder); err != nil {
		return nil, fmt.Errorf("create folder: %w", err)
	}

	return folder, nil
}

// GetFolder fetches one of the user's folders.
// Someone else's folder looks exactly like a missing one.
func (s *FolderService) GetFolder(ctx context.Context, userID, folderID string) (*domain.Folder, error) {
	folder, err := s.store.GetFolder(ctx, folderID)
	if err != nil {
		if errors.Is(err, store.ErrFolderNotFound) {
			return nil, domainerrors.NotFound("folder not found")
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	if folder.UserID != userID {
		return nil, domainerrors.NotFound("folder not found")
	}

	return folder, nil
}

// ListFolders returns all of the user's folders, most recently updated first.
func (s *FolderService) ListFolders(ctx context.Context, userID string) ([]*domain.Folder, error) {
	folders, err := s.store.ListFolders(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	return folders, nil
}

// UpdateFolder applies a partial update to one of the user's folders.
func (s *FolderService) UpdateFolder(ctx context.Context, userID, folderID string, req UpdateFolderRequest) (*domain.Folder, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	// The read-apply-write runs inside one store transaction so two
	// concurrent partial updates never drop each other's fields.
	folder, err := s.store.UpdateFolderWith(ctx, folderID, func(folder *domain.Folder) error {
		if folder.UserID != userID {
			return store.ErrFolderNotFound
		}

		if req.Name != nil {
			folder.Name = *req.Name
		}
		if req.Label != nil {
			folder.Label = *req.Label
		}
		if req.ParentID != nil {
			folder.ParentID = *req.ParentID
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrFolderNotFound) {
			return nil, domainerrors.NotFound("folder not found")
		}
		return nil, fmt.Errorf("update folder: %w", err)
	}

	return folder, nil
}

// DeleteFolder removes one of the user's folders and every note directly in
// it. Deleting a folder that is already gone succeeds.
func (s *FolderService) DeleteFolder(ctx context.Context, userID, folderID string) error {
	folder, err := s.store.GetFolder(ctx, folderID)
	if err != nil {
		if errors.Is(err, store.ErrFolderNotFound) {
			return nil // Already gone
		}
		return fmt.Errorf("get folder: %w", err)
	}

	// Deleting someone else's folder is indistinguishable from deleting a
	// missing one, and touches nothing.
	if folder.UserID != userID {
		return nil
	}

	if err := s.store.DeleteFolder(ctx, folderID); err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Folder deleted", "folder_id", folderID, "user_id", userID)
	}

	return nil
}
