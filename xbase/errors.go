package xbase

import "errors"

var (
	// returned when the end of a file is reached inside a structure read
	ErrTruncated = errors.New("TRUNCATED")
	// returned when a sentinel or cross check mismatch marks a file as unusable
	ErrCorrupt = errors.New("CORRUPT")
	// returned when a file variant or key type is recognized but not handled
	ErrUnsupported = errors.New("UNSUPPORTED")
	// returned when an argument or the cursor state does not allow the operation
	ErrInvalid = errors.New("INVALID")
	// returned when an index traversal is attempted before a tag was selected
	ErrNoActiveTag = errors.New("NO_ACTIVE_TAG")
)
