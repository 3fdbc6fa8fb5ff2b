package util

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrWordNotFound         = fmt.Errorf("word %w", ErrNotFound)
	ErrMemoryRecordNotFound = fmt.Errorf("memory record %w", ErrNotFound)
	ErrSentenceNotFound     = fmt.Errorf("sentence %w", ErrNotFound)
	ErrSummaryNotFound      = fmt.Errorf("session summary %w", ErrNotFound)

	ErrEmptySession            = errors.New("session has no attempts")
	ErrUpstreamUnavailable     = errors.New("language model service unavailable")
	ErrNoContent               = errors.New("no sentences available")
	ErrVectorSearchUnsupported = errors.New("vector search requires postgres with pgvector")
	ErrInvalidEnum             = errors.New("invalid enum value")
	ErrInvalidAttempt          = errors.New("invalid attempt")
)
