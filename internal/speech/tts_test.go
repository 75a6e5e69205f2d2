package speech

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSplitForTTSShortText(t *testing.T) {
	pieces := splitForTTS("hello world", 200)
	if len(pieces) != 1 || pieces[0] != "hello world" {
		t.Fatalf("pieces = %v, want single piece", pieces)
	}
}

func TestSplitForTTSRespectsLimit(t *testing.T) {
	words := make([]string, 100)
	for i := range words {
		words[i] = "wordwordword"
	}
	text := strings.Join(words, " ")

	for _, piece := range splitForTTS(text, 50) {
		if len(piece) > 50 {
			t.Fatalf("piece exceeds limit: %d chars", len(piece))
		}
		if strings.HasPrefix(piece, " ") || strings.HasSuffix(piece, " ") {
			t.Fatalf("piece has boundary whitespace: %q", piece)
		}
	}
}

func TestSplitForTTSHardCutsLongWord(t *testing.T) {
	long := strings.Repeat("z", 450)
	pieces := splitForTTS(long, 200)
	if len(pieces) != 3 {
		t.Fatalf("pieces = %d, want 3", len(pieces))
	}
	total := 0
	for _, p := range pieces {
		total += len(p)
	}
	if total != 450 {
		t.Fatalf("total length = %d, want 450", total)
	}
}

func TestSynthesizeConcatenatesSegments(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if got := r.URL.Query().Get("client"); got != "tw-ob" {
			t.Errorf("client = %q, want tw-ob", got)
		}
		if got := r.URL.Query().Get("tl"); got != "de" {
			t.Errorf("tl = %q, want de", got)
		}
		w.Write([]byte("SEG"))
	}))
	defer server.Close()

	tts := NewGoogleTTS(server.URL)

	// Two words that cannot share a 200-char piece force two segments.
	text := strings.Repeat("a", 150) + " " + strings.Repeat("b", 150)
	audio, err := tts.Synthesize(context.Background(), text, "de", false)
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if requests != 2 {
		t.Fatalf("requests = %d, want 2", requests)
	}
	if string(audio) != "SEGSEG" {
		t.Fatalf("audio = %q, want concatenated segments", audio)
	}
}

func TestSynthesizeSlowSetsSpeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("ttsspeed"); got != "0.3" {
			t.Errorf("ttsspeed = %q, want 0.3", got)
		}
		w.Write([]byte("x"))
	}))
	defer server.Close()

	tts := NewGoogleTTS(server.URL)
	if _, err := tts.Synthesize(context.Background(), "hello", "en", true); err != nil {
		t.Fatalf("synthesize: %v", err)
	}
}

func TestSynthesizeRejectsUnsupportedLanguage(t *testing.T) {
	tts := NewGoogleTTS("")
	if _, err := tts.Synthesize(context.Background(), "hello", "xx", false); err == nil {
		t.Fatal("expected error for unsupported language")
	}
}

func TestSynthesizeRejectsEmptyText(t *testing.T) {
	tts := NewGoogleTTS("")
	if _, err := tts.Synthesize(context.Background(), "   ", "en", false); err == nil {
		t.Fatal("expected error for empty text")
	}
}
