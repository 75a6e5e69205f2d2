package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

// fakeProvider records every chunk it is asked to translate and can be
// programmed to fail on a specific call.
type fakeProvider struct {
	calls   []string
	failOn  int // 1-based call number to fail on, 0 never fails
	failErr error
}

func (p *fakeProvider) Translate(ctx context.Context, text, targetLang string) (string, error) {
	p.calls = append(p.calls, text)
	if p.failOn > 0 && len(p.calls) == p.failOn {
		return "", p.failErr
	}
	return "[" + targetLang + "]" + text, nil
}

func TestTranslateEmptyInputSkipsProvider(t *testing.T) {
	provider := &fakeProvider{}
	tr := NewChunkedTranslator(provider, 100)

	out, err := tr.Translate(context.Background(), "", "de")
	if err != nil {
		t.Fatalf("translate empty: %v", err)
	}
	if out != "" {
		t.Fatalf("expected empty output, got %q", out)
	}
	if len(provider.calls) != 0 {
		t.Fatalf("expected no provider calls, got %d", len(provider.calls))
	}
}

func TestTranslateShortTextSingleCall(t *testing.T) {
	provider := &fakeProvider{}
	tr := NewChunkedTranslator(provider, 100)

	text := "Hello world.\n\nSecond paragraph."
	out, err := tr.Translate(context.Background(), text, "fr")
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if len(provider.calls) != 1 {
		t.Fatalf("expected 1 provider call, got %d", len(provider.calls))
	}
	if provider.calls[0] != text {
		t.Fatalf("provider got %q, want the full text", provider.calls[0])
	}
	if out != "[fr]"+text {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestTranslateLongTextChunks(t *testing.T) {
	// Five 2000-char paragraphs against a 4500 limit pack as
	// [p1+p2] [p3+p4] [p5]: 2000+2+2000 fits, adding a third does not.
	para := strings.Repeat("a", 2000)
	text := strings.Join([]string{para, para, para, para, para}, "\n\n")

	provider := &fakeProvider{}
	tr := NewChunkedTranslator(provider, 4500)

	if _, err := tr.Translate(context.Background(), text, "es"); err != nil {
		t.Fatalf("translate: %v", err)
	}

	if len(provider.calls) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(provider.calls))
	}
	wantLens := []int{4002, 4002, 2000}
	for i, call := range provider.calls {
		if len(call) != wantLens[i] {
			t.Errorf("chunk %d: length %d, want %d", i, len(call), wantLens[i])
		}
		if len(call) > 4500 {
			t.Errorf("chunk %d exceeds limit: %d chars", i, len(call))
		}
	}
}

func TestSplitRoundTrips(t *testing.T) {
	cases := []string{
		strings.Repeat("x", 30) + "\n\n" + strings.Repeat("y", 30) + "\n\n" + strings.Repeat("z", 30),
		"one\n\n\n\nwith empty paragraph", // Split produces an empty middle element
		strings.Repeat("q", 200),          // single oversized paragraph
	}

	tr := NewChunkedTranslator(&fakeProvider{}, 50)
	for _, text := range cases {
		chunks := tr.split(text)
		if got := strings.Join(chunks, ParagraphSeparator); got != text {
			t.Errorf("round trip failed:\n got %q\nwant %q", got, text)
		}
	}
}

func TestSplitOversizedParagraphKeptWhole(t *testing.T) {
	big := strings.Repeat("b", 500)
	text := "small" + "\n\n" + big + "\n\n" + "tail"

	tr := NewChunkedTranslator(&fakeProvider{}, 100)
	chunks := tr.split(text)

	found := false
	for _, c := range chunks {
		if c == big {
			found = true
		}
		if strings.Contains(c, "bbb") && c != big {
			t.Fatalf("oversized paragraph was split: %q", c[:20])
		}
	}
	if !found {
		t.Fatalf("oversized paragraph missing from chunks")
	}
}

func TestTranslateProviderFailureAborts(t *testing.T) {
	para := strings.Repeat("a", 80)
	text := strings.Join([]string{para, para, para, para}, "\n\n")

	cause := errors.New("rate limited")
	provider := &fakeProvider{failOn: 2, failErr: cause}
	tr := NewChunkedTranslator(provider, 100)

	out, err := tr.Translate(context.Background(), text, "it")
	if out != "" {
		t.Fatalf("expected no partial output, got %q", out)
	}

	var terr *TranslationError
	if !errors.As(err, &terr) {
		t.Fatalf("expected TranslationError, got %T: %v", err, err)
	}
	if terr.Chunk != 1 {
		t.Errorf("failed chunk index = %d, want 1", terr.Chunk)
	}
	if !errors.Is(err, cause) {
		t.Errorf("error should wrap the provider failure")
	}
}

func TestTranslateZeroMaxLenUsesDefault(t *testing.T) {
	tr := NewChunkedTranslator(&fakeProvider{}, 0)
	if tr.maxLen != MaxChunkLength {
		t.Fatalf("maxLen = %d, want %d", tr.maxLen, MaxChunkLength)
	}
}

func TestParseGoogleResponse(t *testing.T) {
	// Shape of a real translate_a/single reply: segments under index 0.
	body := `[[["Hallo Welt. ","Hello world. ",null,null,10],["Zweiter Satz.","Second sentence.",null,null,10]],null,"en"]`

	got, err := parseGoogleResponse([]byte(body))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := "Hallo Welt. Zweiter Satz."
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestParseGoogleResponseMalformed(t *testing.T) {
	for i, body := range []string{"", "{}", "[]", "[null]"} {
		if _, err := parseGoogleResponse([]byte(body)); err == nil {
			t.Errorf("case %d: expected error for %q", i, body)
		}
	}
}

func ExampleChunkedTranslator_Translate() {
	tr := NewChunkedTranslator(&fakeProvider{}, 4500)
	out, _ := tr.Translate(context.Background(), "Hello", "de")
	fmt.Println(out)
	// Output: [de]Hello
}
