// Package subtitle projects the caption timeline into the SRT
// interchange format and parses existing SRT files back into a
// timeline. Styling and animation are not representable in SRT and
// are dropped on export.
package subtitle

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/capedit/capedit/internal/caption"
)

// FormatTimestamp renders seconds as an SRT timestamp,
// HH:MM:SS,mmm. Hours, minutes and seconds are floored; the
// millisecond remainder is rounded.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := int(seconds / 3600)
	minutes := int(math.Mod(seconds, 3600) / 60)
	secs := int(math.Mod(seconds, 60))
	millis := int(math.Round((seconds - math.Floor(seconds)) * 1000))

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}

// Marshal serializes the timeline as SRT text: 1-indexed blocks of
// index, timestamp range and literal caption text.
func Marshal(tl caption.Timeline) string {
	var sb strings.Builder
	for i, c := range tl {
		sb.WriteString(fmt.Sprintf("%d\n", i+1))
		sb.WriteString(fmt.Sprintf("%s --> %s\n",
			FormatTimestamp(c.StartTime),
			FormatTimestamp(c.EndTime)))
		sb.WriteString(c.Text)
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// WriteFile writes the timeline to an SRT file, creating parent
// directories as needed.
func WriteFile(tl caption.Timeline, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(Marshal(tl)), 0644)
}

// ExportName returns the download name for a subtitle export:
// <original-basename>.srt.
func ExportName(videoPath string) string {
	base := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
	if base == "" {
		base = "captions"
	}
	return base + ".srt"
}

// CaptionedName returns the download name for a burned-in video
// export: <original-basename>_captioned.<original-extension>.
func CaptionedName(videoPath string) string {
	ext := filepath.Ext(videoPath)
	if ext == "" {
		ext = ".mp4"
	}
	base := strings.TrimSuffix(filepath.Base(videoPath), ext)
	return base + "_captioned" + ext
}
