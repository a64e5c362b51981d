package domain

import "errors"

var (
	// ErrBadLanguage is returned when the requested language is not supported.
	ErrBadLanguage = errors.New("unsupported language")

	// ErrNotConfigured is returned when no source URL exists for a
	// (field, lang) pair. It is an admin configuration gap, distinct from a
	// scrape failure, and is never retried automatically.
	ErrNotConfigured = errors.New("no source url configured")
)
