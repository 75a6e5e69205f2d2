package speech

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SubuM/TTS-test/internal/lang"
)

const (
	defaultTTSBaseURL = "https://translate.google.com"

	// maxTTSLen is the per-request character cap of the TTS endpoint.
	// Longer text is split at whitespace and the MP3 segments are
	// concatenated, which players accept as a single stream.
	maxTTSLen = 200
)

// Synthesizer converts text to speech audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, langCode string, slow bool) ([]byte, error)
}

// GoogleTTS generates MP3 audio through the Google Translate TTS endpoint.
type GoogleTTS struct {
	baseURL    string
	httpClient *http.Client
}

// NewGoogleTTS creates a TTS client. baseURL may be empty.
func NewGoogleTTS(baseURL string) *GoogleTTS {
	if baseURL == "" {
		baseURL = defaultTTSBaseURL
	}
	return &GoogleTTS{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Synthesize implements Synthesizer. Returns MP3 bytes.
func (g *GoogleTTS) Synthesize(ctx context.Context, text, langCode string, slow bool) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("tts: empty text")
	}
	if !lang.TTSSupported(langCode) {
		return nil, fmt.Errorf("tts: language %q not supported", langCode)
	}

	var audio bytes.Buffer
	for _, piece := range splitForTTS(text, maxTTSLen) {
		segment, err := g.fetchSegment(ctx, piece, langCode, slow)
		if err != nil {
			return nil, err
		}
		audio.Write(segment)
	}

	return audio.Bytes(), nil
}

func (g *GoogleTTS) fetchSegment(ctx context.Context, text, langCode string, slow bool) ([]byte, error) {
	params := url.Values{
		"ie":     {"UTF-8"},
		"client": {"tw-ob"},
		"tl":     {langCode},
		"q":      {text},
	}
	if slow {
		params.Set("ttsspeed", "0.3")
	}

	endpoint := fmt.Sprintf("%s/translate_tts?%s", g.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tts endpoint returned %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// splitForTTS breaks text into pieces of at most maxLen bytes, preferring
// whitespace boundaries. A single word longer than maxLen is cut hard.
func splitForTTS(text string, maxLen int) []string {
	var pieces []string
	var current strings.Builder

	for _, word := range strings.Fields(text) {
		for len(word) > maxLen {
			if current.Len() > 0 {
				pieces = append(pieces, current.String())
				current.Reset()
			}
			pieces = append(pieces, word[:maxLen])
			word = word[maxLen:]
		}
		if current.Len() > 0 && current.Len()+1+len(word) > maxLen {
			pieces = append(pieces, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		pieces = append(pieces, current.String())
	}

	return pieces
}
