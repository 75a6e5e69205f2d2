package translate

import (
	"context"
	"strings"
)

const (
	// MaxChunkLength stays under the provider's undocumented input limit.
	MaxChunkLength = 4500

	// ParagraphSeparator bounds chunks; chunks never split mid-paragraph.
	ParagraphSeparator = "\n\n"
)

// Provider is the external translation service. Source language is always
// inferred by the provider ("auto").
type Provider interface {
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

// ChunkedTranslator translates arbitrarily long text through a provider
// with a hard input-length limit. Long text is split into paragraph-aligned
// chunks, each translated independently (no cross-chunk context) and
// rejoined in order.
type ChunkedTranslator struct {
	provider Provider
	maxLen   int
	sep      string
}

// NewChunkedTranslator wraps a provider. maxLen of 0 uses MaxChunkLength.
func NewChunkedTranslator(provider Provider, maxLen int) *ChunkedTranslator {
	if maxLen <= 0 {
		maxLen = MaxChunkLength
	}
	return &ChunkedTranslator{
		provider: provider,
		maxLen:   maxLen,
		sep:      ParagraphSeparator,
	}
}

// Translate translates text to targetLang. Empty input returns empty
// output without calling the provider. Text within the chunk limit is
// translated in a single call. Any provider failure aborts the whole
// operation with a TranslationError carrying the failed chunk index.
func (t *ChunkedTranslator) Translate(ctx context.Context, text, targetLang string) (string, error) {
	if text == "" {
		return "", nil
	}

	if len(text) <= t.maxLen {
		out, err := t.provider.Translate(ctx, text, targetLang)
		if err != nil {
			return "", &TranslationError{Chunk: 0, Err: err}
		}
		return out, nil
	}

	chunks := t.split(text)
	translated := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		out, err := t.provider.Translate(ctx, chunk, targetLang)
		if err != nil {
			return "", &TranslationError{Chunk: i, Err: err}
		}
		translated = append(translated, out)
	}

	return strings.Join(translated, t.sep), nil
}

// split packs paragraphs greedily, left to right, into chunks of at most
// maxLen. A paragraph that would overflow the running chunk starts a new
// one; a single paragraph longer than maxLen ships as an oversized chunk
// rather than being split mid-paragraph. Joining the returned chunks with
// the separator reproduces the input exactly.
func (t *ChunkedTranslator) split(text string) []string {
	paragraphs := strings.Split(text, t.sep)

	var chunks []string
	current := paragraphs[0]
	for _, para := range paragraphs[1:] {
		if len(current)+len(t.sep)+len(para) > t.maxLen {
			chunks = append(chunks, current)
			current = para
			continue
		}
		current += t.sep + para
	}
	if current != "" {
		chunks = append(chunks, current)
	}

	return chunks
}
