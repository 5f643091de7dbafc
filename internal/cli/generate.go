package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/capedit/capedit/internal/caption"
	"github.com/capedit/capedit/internal/subtitle"
	"github.com/capedit/capedit/internal/transcribe"
	"github.com/capedit/capedit/internal/video"
)

var generateCmd = &cobra.Command{
	Use:   "generate [video_file]",
	Short: "Generate captions for a video file",
	Long: `Generate captions for the specified video file using AI transcription
and write them out as an SRT file.

The video is sent to the configured provider (Google Gemini by default,
OpenAI Whisper with --provider openai) and the returned segments become
the caption timeline.

Examples:
  capedit generate video.mp4
  capedit generate video.mp4 --provider openai
  capedit generate video.mp4 --api-key YOUR_KEY -o captions.srt`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().
		StringP("api-key", "k", "", "Provider API key (or set GEMINI_API_KEY / OPENAI_API_KEY)")
	generateCmd.Flags().
		String("provider", "gemini", "Transcription provider (gemini, openai)")
	generateCmd.Flags().
		String("model", "", "Model to use for transcription")
	generateCmd.Flags().
		StringP("language", "l", "", "Source language code (e.g., en, es), empty for auto")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	videoPath := args[0]
	ctx := context.Background()

	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", videoPath)
	}
	if !video.IsVideoFile(videoPath) {
		return fmt.Errorf("unsupported file type: %s (expected a video file)", filepath.Ext(videoPath))
	}

	apiKey, _ := cmd.Flags().GetString("api-key")
	providerStr, _ := cmd.Flags().GetString("provider")
	model, _ := cmd.Flags().GetString("model")
	language, _ := cmd.Flags().GetString("language")
	outputPath, _ := cmd.Flags().GetString("output")

	provider := transcribe.Provider(providerStr)
	if apiKey == "" {
		apiKey = apiKeyFromEnv(provider)
	}
	if apiKey == "" {
		return fmt.Errorf("API key is required: use --api-key or set the provider's environment variable")
	}

	if outputPath == "" {
		outputPath = subtitle.ExportName(videoPath)
	}

	info, err := video.Probe(ctx, videoPath)
	if err != nil {
		return fmt.Errorf("failed to read video metadata: %w", err)
	}

	logger.Infow("Starting caption generation",
		"input", videoPath,
		"output", outputPath,
		"provider", providerStr,
		"duration", info.Duration,
	)

	transcriber, err := transcribe.Factory(ctx, provider, apiKey, transcribe.Options{
		Language: language,
		Model:    model,
	})
	if err != nil {
		return fmt.Errorf("failed to create transcriber: %w", err)
	}

	spans, err := transcriber.Transcribe(ctx, videoPath, info.Duration)
	if err != nil {
		return fmt.Errorf("transcription failed: %w", err)
	}

	tl := caption.NewTimeline(transcribe.FilterSpans(spans, info.Duration))
	if len(tl) == 0 {
		return fmt.Errorf("no captions were generated")
	}

	if err := subtitle.WriteFile(tl, outputPath); err != nil {
		return fmt.Errorf("failed to write captions: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Captions generated successfully: %s\n", absOutput)
	fmt.Printf("  Entries: %d\n", len(tl))

	return nil
}

func apiKeyFromEnv(provider transcribe.Provider) string {
	if provider == transcribe.ProviderOpenAI {
		return os.Getenv("OPENAI_API_KEY")
	}
	return os.Getenv("GEMINI_API_KEY")
}
