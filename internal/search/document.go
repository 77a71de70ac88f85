// Package search provides ranked full-text search over notes using Bleve.
// The contractual substring search lives in the store; this index adds
// relevance-ranked matching with typo tolerance on top of it.
package search

import (
	"github.com/inkwellapp/inkwell-server/internal/domain"
)

// SearchDocument is the document structure for the Bleve index.
// One document per note; UserID is a keyword field so every query can be
// scoped to its owner.
type SearchDocument struct {
	ID        string   `json:"id"`
	UserID    string   `json:"user_id"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Tags      []string `json:"tags,omitempty"`
	FolderID  string   `json:"folder_id,omitempty"`
	IsPinned  bool     `json:"is_pinned"`
	WordCount int      `json:"word_count"`
	CreatedAt int64    `json:"created_at"` // Unix millis
	UpdatedAt int64    `json:"updated_at"` // Unix millis
}

// ToMap converts the document to a map with lowercase field names.
// Bleve by default uses Go struct field names (capitalized), but our
// mapping uses lowercase names, so we convert explicitly.
func (d *SearchDocument) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":         d.ID,
		"user_id":    d.UserID,
		"title":      d.Title,
		"created_at": d.CreatedAt,
		"updated_at": d.UpdatedAt,
	}

	if d.Content != "" {
		m["content"] = d.Content
	}
	if len(d.Tags) > 0 {
		m["tags"] = d.Tags
	}
	if d.FolderID != "" {
		m["folder_id"] = d.FolderID
	}
	if d.IsPinned {
		m["is_pinned"] = d.IsPinned
	}
	if d.WordCount > 0 {
		m["word_count"] = d.WordCount
	}

	return m
}

// NoteToSearchDocument converts a domain Note to a SearchDocument.
// Encrypted content is opaque ciphertext and never indexed.
func NoteToSearchDocument(note *domain.Note) *SearchDocument {
	return &SearchDocument{
		ID:        note.ID,
		UserID:    note.UserID,
		Title:     note.Title,
		Content:   note.Content,
		Tags:      note.Tags,
		FolderID:  note.FolderID,
		IsPinned:  note.IsPinned,
		WordCount: note.WordCount,
		CreatedAt: note.CreatedAt.UnixMilli(),
		UpdatedAt: note.UpdatedAt.UnixMilli(),
	}
}
