package ocr

import "fmt"

// ExtractionError is returned when no language profile, including the
// fallback, produced usable text, or when the engine itself is unavailable.
type ExtractionError struct {
	// Language is the profile in use when extraction finally failed.
	Language string
	Err      error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ocr: extraction failed (language %s): %v", e.Language, e.Err)
	}
	return fmt.Sprintf("ocr: extraction failed (language %s)", e.Language)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
