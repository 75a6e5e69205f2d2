package lang

import (
	"errors"
	"strings"

	"github.com/abadojack/whatlanggo"
)

// ErrUnreliable is returned when the text is too short or too ambiguous
// for a trustworthy language call.
var ErrUnreliable = errors.New("language detection unreliable")

// Detector identifies the language of a piece of text.
type Detector interface {
	// Detect returns the ISO 639-1 code of the text's language.
	// It returns an error when the text is too short or ambiguous.
	Detect(text string) (string, error)
}

// WhatlangDetector detects languages with the whatlanggo trigram model.
type WhatlangDetector struct{}

// NewDetector creates the default language detector.
func NewDetector() *WhatlangDetector {
	return &WhatlangDetector{}
}

// Detect implements Detector.
func (d *WhatlangDetector) Detect(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", ErrUnreliable
	}

	info := whatlanggo.Detect(trimmed)
	if !info.IsReliable() {
		return "", ErrUnreliable
	}

	iso := info.Lang.Iso6391()
	if iso == "" {
		return "", ErrUnreliable
	}
	return iso, nil
}
