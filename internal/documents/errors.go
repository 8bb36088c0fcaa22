package documents

import (
	"errors"

	"study-backend/internal/extract"
)

var (
	ErrNotFound     = errors.New("document not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrTooLarge     = errors.New("file too large")
	// ErrUnsupportedFormat aliases the extractor sentinel so callers only import documents.
	ErrUnsupportedFormat = extract.ErrUnsupportedFormat
)
