package ocr

import (
	"errors"
	"strings"
	"testing"

	"github.com/SubuM/TTS-test/internal/lang"
)

// fakeEngine returns canned text per language profile and records the
// order profiles are tried in.
type fakeEngine struct {
	outputs map[string]string
	errs    map[string]error
	calls   []string
}

func (e *fakeEngine) ExtractText(imageData []byte, language string) (string, error) {
	e.calls = append(e.calls, language)
	if err, ok := e.errs[language]; ok {
		return "", err
	}
	return e.outputs[language], nil
}

// fakeLangDetector accepts only texts containing the given marker.
type fakeLangDetector struct {
	accept string
	code   string
}

func (d *fakeLangDetector) Detect(text string) (string, error) {
	if d.accept != "" && strings.Contains(text, d.accept) {
		return d.code, nil
	}
	return "", lang.ErrUnreliable
}

func TestDetectAndExtractEarlyExit(t *testing.T) {
	engine := &fakeEngine{
		outputs: map[string]string{
			"eng": "The quick brown fox jumps over the lazy dog.",
			"deu": "should never be tried",
		},
	}
	detector := NewDetector(engine, &fakeLangDetector{accept: "quick", code: "en"})

	result, err := detector.DetectAndExtract(nil)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if result.Language != "eng" {
		t.Fatalf("language = %q, want eng", result.Language)
	}
	if len(engine.calls) != 1 {
		t.Fatalf("expected 1 engine call (early exit), got %d: %v", len(engine.calls), engine.calls)
	}
}

func TestDetectAndExtractPrefersLongerText(t *testing.T) {
	// 15 chars of noise for eng, 200 chars for deu; nothing passes the
	// secondary detector, so the longest output wins.
	engine := &fakeEngine{
		outputs: map[string]string{
			"eng": "abcdefghijklmno",
			"deu": strings.Repeat("x", 200),
		},
	}
	detector := NewDetector(engine, &fakeLangDetector{})

	result, err := detector.DetectAndExtract(nil)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if result.Language != "deu" {
		t.Fatalf("language = %q, want deu", result.Language)
	}
	if len(result.Text) != 200 {
		t.Fatalf("text length = %d, want 200", len(result.Text))
	}
	// No early exit, so every candidate was tried.
	if len(engine.calls) != len(PriorityLanguages) {
		t.Fatalf("expected %d engine calls, got %d", len(PriorityLanguages), len(engine.calls))
	}
}

func TestDetectAndExtractSkipsFailingCandidates(t *testing.T) {
	engine := &fakeEngine{
		outputs: map[string]string{
			"spa": "Texto real con palabras suficientes para contar.",
		},
		errs: map[string]error{
			"eng": errors.New("traineddata missing"),
			"deu": errors.New("traineddata missing"),
		},
	}
	detector := NewDetector(engine, &fakeLangDetector{accept: "palabras", code: "es"})

	result, err := detector.DetectAndExtract(nil)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if result.Language != "spa" {
		t.Fatalf("language = %q, want spa", result.Language)
	}
}

func TestDetectAndExtractFallbackRerun(t *testing.T) {
	// Every candidate yields whitespace only; one final extraction runs
	// with the fallback profile.
	outputs := map[string]string{}
	for _, c := range PriorityLanguages {
		outputs[c] = "   \n  "
	}
	engine := &fakeEngine{outputs: outputs}
	detector := NewDetector(engine, &fakeLangDetector{})

	result, err := detector.DetectAndExtract(nil)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if result.Language != DefaultLanguage {
		t.Fatalf("language = %q, want %q", result.Language, DefaultLanguage)
	}
	if result.Text != "" {
		t.Fatalf("text = %q, want empty", result.Text)
	}
	if len(engine.calls) != len(PriorityLanguages)+1 {
		t.Fatalf("expected %d calls (candidates + fallback), got %d",
			len(PriorityLanguages)+1, len(engine.calls))
	}
	if last := engine.calls[len(engine.calls)-1]; last != DefaultLanguage {
		t.Fatalf("final call used %q, want %q", last, DefaultLanguage)
	}
}

func TestDetectAndExtractFallbackFailure(t *testing.T) {
	errs := map[string]error{}
	for _, c := range PriorityLanguages {
		errs[c] = errors.New("engine down")
	}
	engine := &fakeEngine{errs: errs}
	detector := NewDetector(engine, &fakeLangDetector{})

	_, err := detector.DetectAndExtract(nil)
	if err == nil {
		t.Fatal("expected error when even the fallback fails")
	}

	var xerr *ExtractionError
	if !errors.As(err, &xerr) {
		t.Fatalf("expected ExtractionError, got %T: %v", err, err)
	}
	if xerr.Language != DefaultLanguage {
		t.Fatalf("error language = %q, want %q", xerr.Language, DefaultLanguage)
	}
}

func TestDetectAndExtractFallbackOverride(t *testing.T) {
	outputs := map[string]string{}
	for _, c := range PriorityLanguages {
		outputs[c] = ""
	}
	engine := &fakeEngine{outputs: outputs}
	detector := NewDetector(engine, &fakeLangDetector{}).WithFallback("deu")

	result, err := detector.DetectAndExtract(nil)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if result.Language != "deu" {
		t.Fatalf("language = %q, want configured fallback deu", result.Language)
	}
	if last := engine.calls[len(engine.calls)-1]; last != "deu" {
		t.Fatalf("final call used %q, want deu", last)
	}
}

func TestDetectAndExtractRanksByRunes(t *testing.T) {
	// 16 ASCII runes for eng against 15 Cyrillic runes (30 bytes) for
	// rus: the shorter text must not win on byte count.
	engine := &fakeEngine{
		outputs: map[string]string{
			"eng": "abcdefghijklmnop",
			"rus": "пятнадцатьбуквы",
		},
	}
	detector := NewDetector(engine, &fakeLangDetector{})

	result, err := detector.DetectAndExtract(nil)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if result.Language != "eng" {
		t.Fatalf("language = %q, want eng (16 runes beats 15)", result.Language)
	}
}

func TestDetectAndExtractThresholdCountsRunes(t *testing.T) {
	// 15 Cyrillic runes are 30 bytes. The meaningful-text threshold is
	// in runes, so the secondary detector must not run and no early
	// exit may happen even though it would accept the text.
	engine := &fakeEngine{
		outputs: map[string]string{
			"rus": "пятнадцатьбуквы",
		},
	}
	detector := NewDetector(engine, &fakeLangDetector{accept: "пятнадцать", code: "ru"})

	result, err := detector.DetectAndExtract(nil)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(engine.calls) != len(PriorityLanguages) {
		t.Fatalf("expected %d calls (no early exit), got %d", len(PriorityLanguages), len(engine.calls))
	}
	if result.Language != "rus" {
		t.Fatalf("language = %q, want rus", result.Language)
	}
}

func TestDetectAndExtractShortTextSkipsDetector(t *testing.T) {
	// 20 chars or fewer never triggers the secondary detector, even when
	// it would have accepted the text.
	engine := &fakeEngine{
		outputs: map[string]string{"eng": "short accept text  "},
	}
	detector := NewDetector(engine, &fakeLangDetector{accept: "accept", code: "en"})

	result, err := detector.DetectAndExtract(nil)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	// No early exit happened: all candidates were tried first.
	if len(engine.calls) != len(PriorityLanguages) {
		t.Fatalf("expected %d calls, got %d", len(PriorityLanguages), len(engine.calls))
	}
	if result.Text != "short accept text" {
		t.Fatalf("text = %q, want trimmed short text", result.Text)
	}
}
