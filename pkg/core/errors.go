package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrInvalidTitle     = errors.New("invalid title")
	ErrInvalidPost      = errors.New("invalid post record")
	ErrPostNotFound     = errors.New("post not found")
	ErrPostExists       = errors.New("post already exists")
	ErrInvalidAuthor    = errors.New("invalid author")
	ErrAuthorNotFound   = errors.New("author not found")
	ErrAuthorExists     = errors.New("author already registered")
	ErrNoAuthorRegistry = errors.New("no author registry configured")
	ErrReadOnly         = errors.New("repository is in read-only mode")
	ErrNotSyncable      = errors.New("repository does not support sync")
	ErrNotWatchable     = errors.New("repository does not support watching")
)

// InvalidTitleError is returned by Tracker.Create when a title cannot be
// turned into a slug. It matches ErrInvalidTitle with errors.Is.
type InvalidTitleError struct {
	Title  string
	Reason string
}

func (e *InvalidTitleError) Error() string {
	return fmt.Sprintf("invalid title %q: %s", e.Title, e.Reason)
}

func (e *InvalidTitleError) Is(target error) bool {
	return target == ErrInvalidTitle
}
