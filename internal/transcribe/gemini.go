package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/cenkalti/backoff/v4"
	"google.golang.org/genai"

	"github.com/capedit/capedit/internal/caption"
)

// implements Transcriber using Google Gemini over the whole video
type GeminiTranscriber struct {
	client  *genai.Client
	model   string
	options Options
}

// span from Gemini's JSON response
type geminiSpan struct {
	StartTime float64 `json:"startTime"`
	EndTime   float64 `json:"endTime"`
	Text      string  `json:"text"`
}

func NewGeminiTranscriber(ctx context.Context, apiKey string, opts Options) (*GeminiTranscriber, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := opts.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}

	return &GeminiTranscriber{
		client:  client,
		model:   model,
		options: opts,
	}, nil
}

// transcribes the video into timed caption spans
func (t *GeminiTranscriber) Transcribe(ctx context.Context, videoPath string, duration float64) ([]caption.Span, error) {
	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("video file not found: %s", videoPath)
	}

	uploadedFile, err := t.client.Files.UploadFromPath(ctx, videoPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to upload video file: %w", err)
	}

	defer func() {
		_, _ = t.client.Files.Delete(ctx, uploadedFile.Name, nil)
	}()

	parts := []*genai.Part{
		genai.NewPartFromURI(uploadedFile.URI, uploadedFile.MIMEType),
		genai.NewPartFromText(t.buildPrompt(duration)),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   captionSchema(),
	}

	var result *genai.GenerateContentResponse
	operation := func() error {
		var genErr error
		result, genErr = t.client.Models.GenerateContent(ctx, t.model, contents, config)
		return genErr
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 2), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	spans, err := parseResponse(result)
	if err != nil {
		return nil, fmt.Errorf("failed to parse transcription: %w", err)
	}

	return FilterSpans(spans, duration), nil
}

// response schema keeps the model output machine-parseable
func captionSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"startTime": {
					Type:        genai.TypeNumber,
					Description: "The start time of the caption in seconds.",
				},
				"endTime": {
					Type:        genai.TypeNumber,
					Description: "The end time of the caption in seconds.",
				},
				"text": {
					Type:        genai.TypeString,
					Description: "The text content of the caption.",
				},
			},
			Required: []string{"startTime", "endTime", "text"},
		},
	}
}

func (t *GeminiTranscriber) buildPrompt(duration float64) string {
	var sb strings.Builder

	sb.WriteString("You are an expert video caption generator. ")
	sb.WriteString("Transcribe the audio from the provided video and create a series of short, engaging captions. ")
	sb.WriteString(fmt.Sprintf("The video is %.0f seconds long. ", duration))
	sb.WriteString("Provide the output as a valid JSON array of objects with 'startTime', 'endTime', and 'text' properties, where times are in seconds. ")
	sb.WriteString("Captions should not overlap; leave a small gap between them. ")
	sb.WriteString(fmt.Sprintf("Ensure the timestamps are chronologically ordered and do not exceed the video duration of %.0f seconds. ", duration))

	if t.options.Language != "" {
		sb.WriteString(fmt.Sprintf("The audio is in %s. ", t.options.Language))
	}

	sb.WriteString("Make the captions concise, easy to read, and broken into small chunks for readability.")

	return sb.String()
}

// parses Gemini's response into raw spans
func parseResponse(result *genai.GenerateContentResponse) ([]caption.Span, error) {
	if result == nil || len(result.Candidates) == 0 {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	var responseText string
	for _, candidate := range result.Candidates {
		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				if part.Text != "" {
					responseText += part.Text
				}
			}
		}
	}

	if responseText == "" {
		return nil, fmt.Errorf("no text in Gemini response")
	}

	responseText = cleanJSONResponse(responseText)

	var raw []geminiSpan
	if err := json.Unmarshal([]byte(responseText), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w (response: %s)", err, truncateString(responseText, 200))
	}

	spans := make([]caption.Span, len(raw))
	for i, r := range raw {
		spans[i] = caption.Span{
			StartTime: r.StartTime,
			EndTime:   r.EndTime,
			Text:      strings.TrimSpace(r.Text),
		}
	}

	return spans, nil
}

// removes markdown formatting from the response
func cleanJSONResponse(s string) string {
	s = strings.TrimSpace(s)

	jsonBlockRegex := regexp.MustCompile("```(?:json)?\\s*")
	s = jsonBlockRegex.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "```", "")

	return strings.TrimSpace(s)
}

// truncates a string to maxLen characters
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
