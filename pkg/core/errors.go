package core

import "errors"

// Common errors.
var (
	ErrNotFound    = errors.New("document not found")
	ErrEmptyID     = errors.New("document ID cannot be empty")
	ErrNoRenderer  = errors.New("no renderer configured")
	ErrNoExtractor = errors.New("no block extractor configured")
)
