package ocr

import (
	"strings"
	"unicode/utf8"

	"github.com/SubuM/TTS-test/internal/lang"
)

// PriorityLanguages is the ordered list of Tesseract profiles the detector
// tries. Order matters: common languages come first and the detector stops
// at the first profile whose output looks like real text.
var PriorityLanguages = []string{
	"eng", "deu", "spa", "fra", "ita", "por", "rus", "jpn", "chi_sim", "ara",
}

const (
	// DefaultLanguage is the fallback profile when no candidate yields text.
	DefaultLanguage = "eng"

	// meaningfulTextLen is the minimum trimmed length, in runes, before
	// the secondary language detector is consulted at all.
	meaningfulTextLen = 20
)

// Result is the outcome of auto-detection: the best text obtained and the
// language profile that produced it.
type Result struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// Detector selects an OCR language profile by trial over a fixed candidate
// list. It favors latency over completeness: the first candidate whose
// output is long enough and confirmed by the language detector wins, even
// if a later candidate would have scored better.
type Detector struct {
	engine     Engine
	detector   lang.Detector
	candidates []string
	fallback   string
	minLen     int
}

// NewDetector creates a Detector with the default candidate list.
func NewDetector(engine Engine, detector lang.Detector) *Detector {
	return &Detector{
		engine:     engine,
		detector:   detector,
		candidates: PriorityLanguages,
		fallback:   DefaultLanguage,
		minLen:     meaningfulTextLen,
	}
}

// WithFallback overrides the profile used when no candidate yields text.
// An empty profile keeps the default.
func (d *Detector) WithFallback(profile string) *Detector {
	if profile != "" {
		d.fallback = profile
	}
	return d
}

// candidateResult is the per-candidate outcome. A failed candidate is not
// an error for the whole operation, it just means "try the next one".
type candidateResult struct {
	text string
	err  error
}

// DetectAndExtract runs OCR with each candidate profile in priority order
// and returns the best text found together with the winning profile.
//
// A candidate wins outright when its output exceeds the meaningful-text
// threshold and the language detector accepts it; iteration stops there.
// Otherwise the longest output seen so far is kept. When every candidate
// fails or returns nothing, one more extraction runs with the fallback
// profile, and only a failure of that final attempt surfaces as an
// ExtractionError.
func (d *Detector) DetectAndExtract(imageData []byte) (*Result, error) {
	bestText := ""
	bestLang := d.fallback
	bestRunes := 0

	for _, candidate := range d.candidates {
		res := d.tryCandidate(imageData, candidate)
		if res.err != nil {
			// This profile didn't work, move on.
			continue
		}

		// Lengths are in runes so multibyte scripts don't outrank
		// shorter Latin output byte-for-byte.
		text := strings.TrimSpace(res.text)
		runes := utf8.RuneCountInString(text)
		if runes <= bestRunes {
			continue
		}

		if runes > d.minLen {
			if _, err := d.detector.Detect(text); err == nil {
				// Plausible real text: take it and stop searching.
				return &Result{Text: text, Language: candidate}, nil
			}
			// Detection failing is a soft signal, the text still counts.
		}

		bestText = text
		bestLang = candidate
		bestRunes = runes
	}

	if bestText == "" {
		text, err := d.engine.ExtractText(imageData, d.fallback)
		if err != nil {
			return nil, &ExtractionError{Language: d.fallback, Err: err}
		}
		return &Result{Text: strings.TrimSpace(text), Language: d.fallback}, nil
	}

	return &Result{Text: bestText, Language: bestLang}, nil
}

func (d *Detector) tryCandidate(imageData []byte, language string) candidateResult {
	text, err := d.engine.ExtractText(imageData, language)
	if err != nil {
		return candidateResult{err: err}
	}
	return candidateResult{text: text}
}
