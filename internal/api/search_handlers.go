package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/inkwellapp/inkwell-server/internal/search"
	"github.com/inkwellapp/inkwell-server/internal/service"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchNotes",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Ranked search",
		Description: "Full-text ranked search over the user's notes with optional folder and tag filters",
		Tags:        []string{"Search"},
	}, s.handleSearch)
}

// SearchInput carries the ranked search parameters.
type SearchInput struct {
	Query  string   `query:"q" required:"true" doc:"Search query"`
	Folder string   `query:"folder" doc:"Restrict to one folder"`
	Tags   []string `query:"tags" doc:"Restrict to notes carrying all of these tags"`
	Limit  int      `query:"limit" doc:"Maximum hits to return (default 20, max 100)"`
	Offset int      `query:"offset" doc:"Hits to skip for paging"`
}

// SearchOutput wraps the search result for Huma.
type SearchOutput struct {
	Body *search.SearchResult
}

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Search.Search(ctx, userID, service.SearchRequest{
		Query:    input.Query,
		FolderID: input.Folder,
		Tags:     input.Tags,
		Limit:    input.Limit,
		Offset:   input.Offset,
	})
	if err != nil {
		return nil, err
	}

	return &SearchOutput{Body: result}, nil
}
