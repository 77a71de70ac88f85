package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/inkwellapp/inkwell-server/internal/domain"
)

// marshalJSON is a small alias so txn-level writes read like s.set.
func marshalJSON(v any) ([]byte, error) {
	return json.Marshal(v)
}

// CreateNote creates a new note and its index entries.
// FolderID is stored as-is; a dangling folder reference just means the note
// never shows up in a folder listing.
func (s *Store) CreateNote(ctx context.Context, note *domain.Note) error {
	key := []byte(notePrefix + note.ID)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check note exists: %w", err)
	}
	if exists {
		return errors.New("note already exists")
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		data, err := marshalJSON(note)
		if err != nil {
			return fmt.Errorf("marshal note: %w", err)
		}

		if err := txn.Set(key, data); err != nil {
			return err
		}

		return s.writeNoteIndexes(txn, note)
	})
	if err != nil {
		return err
	}

	s.indexNote(ctx, note)
	return nil
}

// GetNote retrieves a note by ID.
func (s *Store) GetNote(_ context.Context, id string) (*domain.Note, error) {
	key := []byte(notePrefix + id)

	var note domain.Note
	if err := s.get(key, &note); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("get note: %w", err)
	}

	return &note, nil
}

// UpdateNote updates an existing note, moving index entries that changed.
func (s *Store) UpdateNote(ctx context.Context, note *domain.Note) error {
	key := []byte(notePrefix + note.ID)

	old, err := s.GetNote(ctx, note.ID)
	if err != nil {
		return err
	}

	note.Touch()

	err = s.db.Update(func(txn *badger.Txn) error {
		data, err := marshalJSON(note)
		if err != nil {
			return fmt.Errorf("marshal note: %w", err)
		}

		if err := txn.Set(key, data); err != nil {
			return err
		}

		return s.moveNoteIndexes(txn, old, note)
	})
	if err != nil {
		return err
	}

	s.indexNote(ctx, note)
	return nil
}

// UpdateNoteWith loads a note, applies fn to it, and writes it back in a
// single transaction. A concurrent writer to the same note triggers a
// conflict and the whole read-apply-write is retried, so partial updates
// never clobber each other. fn returning an error aborts without writing.
func (s *Store) UpdateNoteWith(ctx context.Context, noteID string, fn func(*domain.Note) error) (*domain.Note, error) {
	key := []byte(notePrefix + noteID)

	for {
		var updated *domain.Note

		err := s.db.Update(func(txn *badger.Txn) error {
			item, err := txn.Get(key)
			if err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					return ErrNoteNotFound
				}
				return fmt.Errorf("get note: %w", err)
			}

			var note domain.Note
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &note)
			}); err != nil {
				return fmt.Errorf("unmarshal note: %w", err)
			}

			old := note
			if err := fn(&note); err != nil {
				return err
			}
			note.Touch()

			data, err := marshalJSON(&note)
			if err != nil {
				return fmt.Errorf("marshal note: %w", err)
			}
			if err := txn.Set(key, data); err != nil {
				return err
			}

			if err := s.moveNoteIndexes(txn, &old, &note); err != nil {
				return err
			}

			updated = &note
			return nil
		})
		if errors.Is(err, badger.ErrConflict) {
			continue // Lost the race; re-read and reapply
		}
		if err != nil {
			return nil, err
		}

		s.indexNote(ctx, updated)
		return updated, nil
	}
}

// moveNoteIndexes reconciles the secondary indexes after a note changed.
func (s *Store) moveNoteIndexes(txn *badger.Txn, old, note *domain.Note) error {
	// Move the folder index if the note changed folders.
	if old.FolderID != note.FolderID {
		if old.FolderID != "" {
			oldKey := []byte(noteByFolderPrefix + old.FolderID + ":" + note.ID)
			if err := txn.Delete(oldKey); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
		}
		if note.FolderID != "" {
			newKey := []byte(noteByFolderPrefix + note.FolderID + ":" + note.ID)
			if err := txn.Set(newKey, []byte{}); err != nil {
				return err
			}
		}
	}

	// The pinned index exists only while the note is pinned.
	if old.IsPinned != note.IsPinned {
		pinKey := []byte(notePinnedByUserPrefix + note.UserID + ":" + note.ID)
		if note.IsPinned {
			if err := txn.Set(pinKey, []byte{}); err != nil {
				return err
			}
		} else if err := txn.Delete(pinKey); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
	}

	return nil
}

// DeleteNote deletes a note and all its index entries.
// Deleting a missing note is a no-op.
func (s *Store) DeleteNote(ctx context.Context, noteID string) error {
	key := []byte(notePrefix + noteID)

	var note domain.Note
	if err := s.get(key, &note); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil // Already gone
		}
		return fmt.Errorf("get note for deletion: %w", err)
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(key); err != nil {
			return err
		}

		return s.deleteNoteIndexes(txn, &note)
	})
	if err != nil {
		return err
	}

	s.unindexNote(ctx, noteID)
	return nil
}

// writeNoteIndexes creates all secondary index entries for a note.
func (s *Store) writeNoteIndexes(txn *badger.Txn, note *domain.Note) error {
	userKey := []byte(noteByUserPrefix + note.UserID + ":" + note.ID)
	if err := txn.Set(userKey, []byte{}); err != nil {
		return err
	}

	if note.FolderID != "" {
		folderKey := []byte(noteByFolderPrefix + note.FolderID + ":" + note.ID)
		if err := txn.Set(folderKey, []byte{}); err != nil {
			return err
		}
	}

	if note.IsPinned {
		pinKey := []byte(notePinnedByUserPrefix + note.UserID + ":" + note.ID)
		if err := txn.Set(pinKey, []byte{}); err != nil {
			return err
		}
	}

	return nil
}

// deleteNoteIndexes removes all secondary index entries for a note.
func (s *Store) deleteNoteIndexes(txn *badger.Txn, note *domain.Note) error {
	keys := [][]byte{
		[]byte(noteByUserPrefix + note.UserID + ":" + note.ID),
		[]byte(notePinnedByUserPrefix + note.UserID + ":" + note.ID),
	}
	if note.FolderID != "" {
		keys = append(keys, []byte(noteByFolderPrefix+note.FolderID+":"+note.ID))
	}

	for _, k := range keys {
		if err := txn.Delete(k); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
	}

	return nil
}

// ListNotes returns all notes belonging to a user, most recently updated first.
func (s *Store) ListNotes(ctx context.Context, userID string) ([]*domain.Note, error) {
	return s.listNotesByIndex(ctx, noteByUserPrefix+userID+":", "")
}

// ListAllNotes returns every note in the store regardless of owner.
// Used for search index rebuilds, never for user-facing queries.
func (s *Store) ListAllNotes(_ context.Context) ([]*domain.Note, error) {
	prefix := []byte(notePrefix)
	var notes []*domain.Note

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var note domain.Note
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &note)
			})
			if err != nil {
				return err
			}
			notes = append(notes, &note)
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("list all notes: %w", err)
	}

	return notes, nil
}

// ListNotesByFolder returns the user's notes directly inside a folder,
// most recently updated first. An unknown folder ID yields an empty list.
func (s *Store) ListNotesByFolder(ctx context.Context, userID, folderID string) ([]*domain.Note, error) {
	return s.listNotesByIndex(ctx, noteByFolderPrefix+folderID+":", userID)
}

// ListPinnedNotes returns the user's pinned notes, most recently updated first.
func (s *Store) ListPinnedNotes(ctx context.Context, userID string) ([]*domain.Note, error) {
	return s.listNotesByIndex(ctx, notePinnedByUserPrefix+userID+":", "")
}

// SearchNotes returns the user's notes whose title, content, or tags contain
// the query as a case-insensitive substring, most recently updated first.
// An empty query matches every note.
func (s *Store) SearchNotes(ctx context.Context, userID, query string) ([]*domain.Note, error) {
	notes, err := s.ListNotes(ctx, userID)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	matched := notes[:0]
	for _, note := range notes {
		if noteMatches(note, q) {
			matched = append(matched, note)
		}
	}

	return matched, nil
}

// noteMatches reports whether a note contains the lowercased query in its
// title, content, or any tag.
func noteMatches(note *domain.Note, q string) bool {
	if strings.Contains(strings.ToLower(note.Title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(note.Content), q) {
		return true
	}
	for _, tag := range note.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// listNotesByIndex scans an index prefix, loads each note, and sorts the
// result by UpdatedAt descending. When ownerID is non-empty, notes belonging
// to other users are filtered out (folder indexes aren't keyed by owner).
func (s *Store) listNotesByIndex(ctx context.Context, keyPrefix, ownerID string) ([]*domain.Note, error) {
	prefix := []byte(keyPrefix)
	var notes []*domain.Note

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := string(it.Item().Key())
			noteID := key[strings.LastIndex(key, ":")+1:]

			note, err := s.GetNote(ctx, noteID)
			if err != nil {
				if errors.Is(err, ErrNoteNotFound) {
					continue // Stale index entry
				}
				return err
			}

			if ownerID != "" && note.UserID != ownerID {
				continue
			}

			notes = append(notes, note)
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	slices.SortFunc(notes, func(a, b *domain.Note) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})

	return notes, nil
}
