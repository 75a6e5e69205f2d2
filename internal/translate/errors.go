package translate

import "fmt"

// TranslationError is returned when the provider fails for any chunk.
// Partial translations are never returned; the caller owns retry policy.
type TranslationError struct {
	// Chunk is the zero-based index of the chunk that failed.
	Chunk int
	Err   error
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("translate: chunk %d failed: %v", e.Chunk, e.Err)
}

func (e *TranslationError) Unwrap() error {
	return e.Err
}
