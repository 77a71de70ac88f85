package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/inkwellapp/inkwell-server/internal/search"
)

// SearchService exposes ranked full-text search over the user's notes.
// The index is kept in sync by the store's indexer hook; this service only
// queries it.
type SearchService struct {
	index  *search.SearchIndex
	logger *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(index *search.SearchIndex, logger *slog.Logger) *SearchService {
	return &SearchService{index: index, logger: logger}
}

// SearchRequest narrows a ranked search.
type SearchRequest struct {
	Query    string   `json:"q" validate:"required,min=1,max=200"`
	FolderID string   `json:"folder_id"`
	Tags     []string `json:"tags"`
	Limit    int      `json:"limit" validate:"omitempty,min=1,max=100"`
	Offset   int      `json:"offset" validate:"omitempty,min=0"`
}

// Search runs a ranked query scoped to the user.
func (s *SearchService) Search(ctx context.Context, userID string, req SearchRequest) (*search.SearchResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	params := search.DefaultSearchParams()
	params.UserID = userID
	params.Query = req.Query
	params.FolderID = req.FolderID
	params.Tags = req.Tags
	if req.Limit > 0 {
		params.Limit = req.Limit
	}
	if req.Offset > 0 {
		params.Offset = req.Offset
	}

	result, err := s.index.Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	return result, nil
}

// DocumentCount reports how many notes the index holds. Used by health checks.
func (s *SearchService) DocumentCount() (uint64, error) {
	return s.index.DocumentCount()
}
