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

// CreateFolder creates a new folder for a user.
// ParentID is stored as-is; nothing checks that the parent exists.
func (s *Store) CreateFolder(_ context.Context, folder *domain.Folder) error {
	key := []byte(folderPrefix + folder.ID)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check folder exists: %w", err)
	}
	if exists {
		return errors.New("folder already exists")
	}

	userIndexKey := []byte(folderByUserPrefix + folder.UserID + ":" + folder.ID)

	return s.db.Update(func(txn *badger.Txn) error {
		data, err := marshalJSON(folder)
		if err != nil {
			return fmt.Errorf("marshal folder: %w", err)
		}

		if err := txn.Set(key, data); err != nil {
			return err
		}

		return txn.Set(userIndexKey, []byte{})
	})
}

// GetFolder retrieves a folder by ID.
func (s *Store) GetFolder(_ context.Context, id string) (*domain.Folder, error) {
	key := []byte(folderPrefix + id)

	var folder domain.Folder
	if err := s.get(key, &folder); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrFolderNotFound
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	return &folder, nil
}

// UpdateFolder updates an existing folder.
func (s *Store) UpdateFolder(ctx context.Context, folder *domain.Folder) error {
	key := []byte(folderPrefix + folder.ID)

	if _, err := s.GetFolder(ctx, folder.ID); err != nil {
		return err
	}

	folder.Touch()

	return s.set(key, folder)
}

// UpdateFolderWith loads a folder, applies fn to it, and writes it back in a
// single transaction. Concurrent writers to the same folder conflict and the
// read-apply-write is retried, so partial updates never clobber each other.
// fn returning an error aborts without writing.
func (s *Store) UpdateFolderWith(_ context.Context, folderID string, fn func(*domain.Folder) error) (*domain.Folder, error) {
	key := []byte(folderPrefix + folderID)

	for {
		var updated *domain.Folder

		err := s.db.Update(func(txn *badger.Txn) error {
			item, err := txn.Get(key)
			if err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					return ErrFolderNotFound
				}
				return fmt.Errorf("get folder: %w", err)
			}

			var folder domain.Folder
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &folder)
			}); err != nil {
				return fmt.Errorf("unmarshal folder: %w", err)
			}

			if err := fn(&folder); err != nil {
				return err
			}
			folder.Touch()

			data, err := marshalJSON(&folder)
			if err != nil {
				return fmt.Errorf("marshal folder: %w", err)
			}
			if err := txn.Set(key, data); err != nil {
				return err
			}

			updated = &folder
			return nil
		})
		if errors.Is(err, badger.ErrConflict) {
			continue // Lost the race; re-read and reapply
		}
		if err != nil {
			return nil, err
		}

		return updated, nil
	}
}

// ListFolders returns all folders belonging to a user, newest change first.
func (s *Store) ListFolders(ctx context.Context, userID string) ([]*domain.Folder, error) {
	prefix := []byte(folderByUserPrefix + userID + ":")
	var folders []*domain.Folder

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := string(it.Item().Key())
			folderID := key[strings.LastIndex(key, ":")+1:]

			folder, err := s.GetFolder(ctx, folderID)
			if err != nil {
				if errors.Is(err, ErrFolderNotFound) {
					continue
				}
				return err
			}

			folders = append(folders, folder)
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}

	slices.SortFunc(folders, func(a, b *domain.Folder) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})

	return folders, nil
}

// DeleteFolder deletes a folder and every note directly inside it.
// The cascade is shallow: child folders survive with a dangling ParentID and
// keep their notes. Deleting a missing folder is a no-op.
func (s *Store) DeleteFolder(ctx context.Context, folderID string) error {
	folder, err := s.GetFolder(ctx, folderID)
	if err != nil {
		if errors.Is(err, ErrFolderNotFound) {
			return nil // Already gone
		}
		return err
	}

	notes, err := s.ListNotesByFolder(ctx, folder.UserID, folderID)
	if err != nil {
		return fmt.Errorf("list notes for cascade: %w", err)
	}

	for _, note := range notes {
		if err := s.DeleteNote(ctx, note.ID); err != nil {
			return fmt.Errorf("cascade delete note %s: %w", note.ID, err)
		}
	}

	key := []byte(folderPrefix + folderID)
	userIndexKey := []byte(folderByUserPrefix + folder.UserID + ":" + folderID)

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(key); err != nil {
			return err
		}

		if err := txn.Delete(userIndexKey); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		return nil
	})
}
