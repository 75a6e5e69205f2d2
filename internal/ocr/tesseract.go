package ocr

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Engine extracts text from a rendered page image using a language profile.
// The auto-detector and the PDF extractor depend on this rather than on
// Tesseract directly so tests can substitute a fake engine.
type Engine interface {
	ExtractText(imageData []byte, language string) (string, error)
}

// TesseractEngine performs OCR through the Tesseract C API (gosseract).
type TesseractEngine struct {
	tessdataPrefix string
}

// NewTesseractEngine creates a Tesseract-backed engine.
// tessdataPrefix may be empty to use the system tessdata directory.
func NewTesseractEngine(tessdataPrefix string) *TesseractEngine {
	return &TesseractEngine{tessdataPrefix: tessdataPrefix}
}

// ExtractText runs Tesseract with the given language profile and returns
// the recognized text with surrounding whitespace trimmed.
func (t *TesseractEngine) ExtractText(imageData []byte, language string) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if t.tessdataPrefix != "" {
		if err := client.SetTessdataPrefix(t.tessdataPrefix); err != nil {
			return "", fmt.Errorf("failed to set tessdata prefix: %w", err)
		}
	}
	if language != "" {
		if err := client.SetLanguage(language); err != nil {
			return "", fmt.Errorf("failed to set language %s: %w", language, err)
		}
	}
	if err := client.SetPageSegMode(gosseract.PSM_AUTO); err != nil {
		return "", fmt.Errorf("failed to set page segmentation mode: %w", err)
	}

	if err := client.SetImageFromBytes(imageData); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("tesseract OCR failed: %w", err)
	}

	return strings.TrimSpace(text), nil
}
