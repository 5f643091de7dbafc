package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/capedit/capedit/internal/caption"
	"github.com/capedit/capedit/internal/subtitle"
	"github.com/capedit/capedit/internal/video"
)

var burnCmd = &cobra.Command{
	Use:   "burn [video_file] [srt_file]",
	Short: "Burn captions from an SRT file onto a video",
	Long: `Burn the captions from an SRT file onto the video as a new file.

The video is re-encoded with the captions rendered into the picture,
so they play everywhere. The audio track is copied unchanged.

Examples:
  capedit burn video.mp4 captions.srt
  capedit burn video.mp4 captions.srt -o final.mp4
  capedit burn video.mp4 captions.srt --preset slow --crf 18`,
	Args: cobra.ExactArgs(2),
	RunE: runBurn,
}

func init() {
	rootCmd.AddCommand(burnCmd)

	burnCmd.Flags().
		String("preset", video.DefaultBurnOptions().Preset, "x264 encoder preset")
	burnCmd.Flags().
		Int("crf", video.DefaultBurnOptions().CRF, "x264 constant rate factor (lower is better quality)")
}

func runBurn(cmd *cobra.Command, args []string) error {
	videoPath, srtPath := args[0], args[1]
	ctx := context.Background()

	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", videoPath)
	}
	if !video.IsVideoFile(videoPath) {
		return fmt.Errorf("unsupported file type: %s (expected a video file)", filepath.Ext(videoPath))
	}

	spans, err := subtitle.ParseFile(srtPath)
	if err != nil {
		return fmt.Errorf("failed to read captions: %w", err)
	}
	tl := caption.NewTimeline(spans)

	preset, _ := cmd.Flags().GetString("preset")
	crf, _ := cmd.Flags().GetInt("crf")
	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		outputPath = subtitle.CaptionedName(videoPath)
	}

	logger.Infow("Starting caption burn-in",
		"input", videoPath,
		"captions", srtPath,
		"output", outputPath,
		"entries", len(tl),
	)

	burner := video.NewBurner(logger, video.BurnOptions{Preset: preset, CRF: crf})
	err = burner.Burn(ctx, videoPath, tl, outputPath, func(phase string) {
		fmt.Println(phase)
	})
	if err != nil {
		return fmt.Errorf("burn-in failed: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Video exported successfully: %s\n", absOutput)

	return nil
}
