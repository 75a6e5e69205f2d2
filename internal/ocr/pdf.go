package ocr

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// pageSeparator joins per-page extractions; each page is prefixed with a
// "--- Page N ---" marker so downstream consumers can tell pages apart.
const pageSeparator = "\n\n"

// PageRenderer turns a PDF into one image per page, in page order.
// It never returns an empty page list without an error.
type PageRenderer interface {
	Render(pdfData []byte) ([][]byte, error)
}

// PopplerRenderer renders PDF pages to PNG images with pdftoppm.
type PopplerRenderer struct {
	dpi int
}

// NewPopplerRenderer creates a renderer. A dpi of 0 uses 300.
func NewPopplerRenderer(dpi int) *PopplerRenderer {
	if dpi <= 0 {
		dpi = 300
	}
	return &PopplerRenderer{dpi: dpi}
}

// Render writes the PDF to a temp file, runs pdftoppm on it and reads the
// rendered pages back in page order.
func (r *PopplerRenderer) Render(pdfData []byte) ([][]byte, error) {
	tmpDir, err := os.MkdirTemp("", "pdf_ocr_")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	pdfPath := filepath.Join(tmpDir, uuid.New().String()[:8]+".pdf")
	if err := os.WriteFile(pdfPath, pdfData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write temp PDF: %w", err)
	}

	prefix := filepath.Join(tmpDir, "page")
	cmd := exec.Command("pdftoppm", "-png", "-r", fmt.Sprintf("%d", r.dpi), pdfPath, prefix)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if _, lookErr := exec.LookPath("pdftoppm"); lookErr != nil {
			return nil, fmt.Errorf("pdftoppm not found, install poppler-utils: %w", err)
		}
		return nil, fmt.Errorf("pdftoppm failed: %v - %s", err, stderr.String())
	}

	paths, err := filepath.Glob(prefix + "-*.png")
	if err != nil || len(paths) == 0 {
		return nil, fmt.Errorf("PDF produced no pages")
	}

	// pdftoppm zero-pads page numbers, lexical order is page order
	sort.Strings(paths)

	pages := make([][]byte, 0, len(paths))
	for _, path := range paths {
		imageData, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read rendered page: %w", err)
		}
		pages = append(pages, imageData)
	}

	return pages, nil
}

// PDFExtractor feeds rendered PDF pages through the language auto-detector
// and the OCR engine. Language detection runs on the first page only; the
// remaining pages reuse the winning profile.
type PDFExtractor struct {
	engine   Engine
	detector *Detector
	renderer PageRenderer
}

// NewPDFExtractor creates a poppler-backed PDF extractor. A dpi of 0 uses 300.
func NewPDFExtractor(engine Engine, detector *Detector, dpi int) *PDFExtractor {
	return &PDFExtractor{
		engine:   engine,
		detector: detector,
		renderer: NewPopplerRenderer(dpi),
	}
}

// ExtractAuto auto-detects the language on page 1 and extracts all pages
// with the winning profile.
func (x *PDFExtractor) ExtractAuto(pdfData []byte) (*Result, error) {
	pages, err := x.renderer.Render(pdfData)
	if err != nil {
		return nil, err
	}

	detected, err := x.detector.DetectAndExtract(pages[0])
	if err != nil {
		return nil, err
	}

	parts := make([]string, 0, len(pages))
	if detected.Text != "" {
		parts = append(parts, fmt.Sprintf("--- Page 1 ---\n%s", detected.Text))
	}

	for i, page := range pages[1:] {
		text, err := x.engine.ExtractText(page, detected.Language)
		if err != nil {
			return nil, &ExtractionError{Language: detected.Language, Err: err}
		}
		if text = strings.TrimSpace(text); text != "" {
			parts = append(parts, fmt.Sprintf("--- Page %d ---\n%s", i+2, text))
		}
	}

	return &Result{
		Text:     strings.Join(parts, pageSeparator),
		Language: detected.Language,
	}, nil
}

// Extract extracts all pages with a caller-chosen language profile.
func (x *PDFExtractor) Extract(pdfData []byte, language string) (string, error) {
	pages, err := x.renderer.Render(pdfData)
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, len(pages))
	for i, page := range pages {
		text, err := x.engine.ExtractText(page, language)
		if err != nil {
			return "", &ExtractionError{Language: language, Err: err}
		}
		if text = strings.TrimSpace(text); text != "" {
			parts = append(parts, fmt.Sprintf("--- Page %d ---\n%s", i+1, text))
		}
	}

	return strings.Join(parts, pageSeparator), nil
}
