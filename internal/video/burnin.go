package video

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/capedit/capedit/internal/caption"
	ffmpegbin "github.com/capedit/capedit/internal/ffmpeg"
	"github.com/capedit/capedit/internal/logging"
	"github.com/capedit/capedit/internal/subtitle"
)

// ErrExportInFlight is returned when a burn-in is already running for
// the same source video. The scratch file set is mutated in place, so
// two concurrent exports of one video would corrupt each other.
var ErrExportInFlight = errors.New("an export is already running for this video")

// ErrNoCaptions rejects exports before any external call is made.
var ErrNoCaptions = errors.New("no captions to export")

// ProgressFunc receives free-text phase descriptions while an export
// runs.
type ProgressFunc func(message string)

// BurnOptions control the re-encode. The video track is always
// re-encoded (burning requires it); audio is copied unchanged.
type BurnOptions struct {
	Preset string
	CRF    int
}

func DefaultBurnOptions() BurnOptions {
	// balance of quality and speed; crf 18-28 is the usable range
	return BurnOptions{Preset: "fast", CRF: 22}
}

// Burner runs caption burn-in jobs, at most one per source video at a
// time.
type Burner struct {
	log  *logging.Logger
	opts BurnOptions

	mu     sync.Mutex
	active map[string]bool
}

func NewBurner(log *logging.Logger, opts BurnOptions) *Burner {
	return &Burner{
		log:    log,
		opts:   opts,
		active: make(map[string]bool),
	}
}

// Burn renders the timeline's text permanently into the video frames
// and writes the result to outputPath. Styling beyond plain text is
// not forwarded; the subtitle filter renders its own defaults.
func (b *Burner) Burn(ctx context.Context, videoPath string, tl caption.Timeline, outputPath string, progress ProgressFunc) error {
	if len(tl) == 0 {
		return ErrNoCaptions
	}
	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return fmt.Errorf("video file not found: %s", videoPath)
	}
	if progress == nil {
		progress = func(string) {}
	}

	b.mu.Lock()
	if b.active[videoPath] {
		b.mu.Unlock()
		return ErrExportInFlight
	}
	b.active[videoPath] = true
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		delete(b.active, videoPath)
		b.mu.Unlock()
	}()

	progress("Loading video engine...")

	scratch, err := os.MkdirTemp("", "capedit-burn-*")
	if err != nil {
		return fmt.Errorf("failed to create scratch directory: %w", err)
	}
	defer func() {
		// cleanup failures are logged and swallowed
		if err := os.RemoveAll(scratch); err != nil {
			b.log.Warnw("failed to clean up scratch directory",
				"dir", scratch,
				"error", err,
			)
		}
	}()

	progress("Preparing files...")

	srtPath := filepath.Join(scratch, "subtitles.srt")
	if err := subtitle.WriteFile(tl, srtPath); err != nil {
		return fmt.Errorf("failed to write subtitle file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	progress("Burning captions onto video. This may take a while...")

	ffmpegPath, err := ffmpegbin.FFmpegPath()
	if err != nil {
		return err
	}

	err = ffmpeg.Input(videoPath).
		Output(outputPath, ffmpeg.KwArgs{
			"vf":     "subtitles=" + srtPath,
			"c:v":    "libx264",
			"preset": b.opts.Preset,
			"crf":    b.opts.CRF,
			"c:a":    "copy", // audio track passes through unchanged
		}).
		OverWriteOutput().
		SetFfmpegPath(ffmpegPath).
		Run()
	if err != nil {
		return fmt.Errorf("ffmpeg encode failed: %w", err)
	}

	progress("Finalizing export...")
	return nil
}

// Active reports whether a burn-in is currently running for the
// given source video.
func (b *Burner) Active(videoPath string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.active[videoPath]
}
