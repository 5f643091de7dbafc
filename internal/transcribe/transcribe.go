package transcribe

import (
	"context"
	"fmt"
	"strings"

	"github.com/capedit/capedit/internal/caption"
)

// interface for video transcription into timed caption spans
type Transcriber interface {
	Transcribe(ctx context.Context, videoPath string, duration float64) ([]caption.Span, error)
}

// transcription service provider
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
)

// transcription options
type Options struct {
	Language string // Source language of the audio, empty for auto
	Model    string
}

// creates a transcriber based on provider
func Factory(ctx context.Context, provider Provider, apiKey string, opts Options) (Transcriber, error) {
	switch provider {
	case ProviderGemini:
		return NewGeminiTranscriber(ctx, apiKey, opts)
	case ProviderOpenAI:
		return NewOpenAITranscriber(ctx, apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

// FilterSpans drops malformed entries from a provider response: a
// start at or past the end, an end past the video duration, or blank
// text. One bad entry never fails the batch.
func FilterSpans(spans []caption.Span, duration float64) []caption.Span {
	out := make([]caption.Span, 0, len(spans))
	for _, s := range spans {
		if s.StartTime < 0 || s.StartTime >= s.EndTime {
			continue
		}
		if duration > 0 && s.EndTime > duration {
			continue
		}
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		s.Text = text
		out = append(out, s)
	}
	return out
}
