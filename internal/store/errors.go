package store

import "errors"

var (
	// ErrUserNotFound is returned when a user cannot be found by ID or username.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists is returned when attempting to create a user with an existing ID.
	ErrUserExists = errors.New("user already exists")
	// ErrUsernameExists is returned when attempting to create a user with a username that's already taken.
	ErrUsernameExists = errors.New("username already in use")
	// ErrSessionNotFound is returned when a session cannot be found by ID or token hash.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired is returned when attempting to use an expired session.
	ErrSessionExpired = errors.New("session expired")
	// ErrFolderNotFound is returned when a folder cannot be found by ID.
	ErrFolderNotFound = errors.New("folder not found")
	// ErrNoteNotFound is returned when a note cannot be found by ID.
	ErrNoteNotFound = errors.New("note not found")
)
