package speech

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Transcriber converts uploaded audio to text.
type Transcriber interface {
	// Transcribe returns the transcript of the audio. langCode is an
	// ISO 639-1 hint; empty lets the model detect the language.
	Transcribe(ctx context.Context, audio []byte, filename, langCode string) (string, error)
}

// WhisperTranscriber performs speech-to-text through the OpenAI
// audio transcription API.
type WhisperTranscriber struct {
	client *openai.Client
	model  string
}

// NewWhisperTranscriber creates a Whisper-backed transcriber.
// baseURL may be empty for the default OpenAI endpoint; model defaults
// to whisper-1.
func NewWhisperTranscriber(apiKey, baseURL, model string) (*WhisperTranscriber, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key is required for transcription")
	}

	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if model == "" {
		model = openai.Whisper1
	}

	return &WhisperTranscriber{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}, nil
}

// Transcribe implements Transcriber.
func (w *WhisperTranscriber) Transcribe(ctx context.Context, audio []byte, filename, langCode string) (string, error) {
	req := openai.AudioRequest{
		Model:    w.model,
		FilePath: filename,
		Reader:   bytes.NewReader(audio),
		Language: normalizeWhisperLang(langCode),
	}

	resp, err := w.client.CreateTranscription(ctx, req)
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}

	return strings.TrimSpace(resp.Text), nil
}

// normalizeWhisperLang reduces a BCP-47 tag like "en-US" to the bare
// ISO 639-1 code Whisper expects.
func normalizeWhisperLang(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" || code == "auto" {
		return ""
	}
	if idx := strings.IndexAny(code, "-_"); idx > 0 {
		return code[:idx]
	}
	return code
}
