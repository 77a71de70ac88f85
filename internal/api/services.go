package api

import (
	"github.com/inkwellapp/inkwell-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Auth    *service.AuthService
	Session *service.SessionService
	Note    *service.NoteService
	Folder  *service.FolderService
	Search  *service.SearchService
	Import  *service.ImportService
}
