package content

import "errors"

var (
	// ErrNotFound is returned when a post file or slug does not exist.
	ErrNotFound = errors.New("content: post not found")
	// ErrConflict is returned when Create would overwrite an existing file.
	ErrConflict = errors.New("content: post already exists")
	// ErrInvalid is returned for missing required fields or unsafe file names.
	ErrInvalid = errors.New("content: invalid post")
)
