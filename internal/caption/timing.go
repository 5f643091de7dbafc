package caption

import (
	"errors"
	"strings"
)

// ErrSplitEmpty is returned when a split would leave an empty half
// after trimming.
var ErrSplitEmpty = errors.New("split would produce an empty caption")

// ActiveAt returns the caption whose interval contains t. Both ends
// of the interval are inclusive. When manual edits have produced
// overlapping captions the first match in sequence order wins, so the
// result is deterministic.
func ActiveAt(tl Timeline, t float64) (Caption, bool) {
	for _, c := range tl {
		if t >= c.StartTime && t <= c.EndTime {
			return c, true
		}
	}
	return Caption{}, false
}

// SplitAt divides a caption in two at a rune offset into its text.
// The split instant is linearly interpolated over character count:
// a split two fifths into the text lands two fifths into the time
// span, regardless of glyph width or speech pacing. Both halves are
// trimmed; if either comes out empty the split is rejected. The first
// half keeps the original id, the second gets a fresh one, and both
// inherit style and animation unchanged.
//
// Offsets outside [0, len(text)] are clamped rather than rejected.
func SplitAt(c Caption, offset int) (Caption, Caption, error) {
	runes := []rune(c.Text)
	if offset < 0 {
		offset = 0
	}
	if offset > len(runes) {
		offset = len(runes)
	}

	first := strings.TrimSpace(string(runes[:offset]))
	second := strings.TrimSpace(string(runes[offset:]))
	if first == "" || second == "" {
		return Caption{}, Caption{}, ErrSplitEmpty
	}

	splitTime := c.StartTime + c.Duration()*(float64(offset)/float64(len(runes)))

	a := c
	a.Text = first
	a.EndTime = splitTime

	b := c
	b.ID = NewID()
	b.Text = second
	b.StartTime = splitTime

	return a, b, nil
}

// KaraokeWordProgress returns the fill fraction for one word of a
// karaoke caption at playback time t. The caption's span is divided
// into wordCount equal slices, one per word left to right; each word
// fills linearly within its slice while earlier words stay full and
// later words stay empty.
func KaraokeWordProgress(c Caption, t float64, wordIndex, wordCount int) float64 {
	if wordCount <= 0 {
		return 0
	}
	d := c.Duration()
	if d <= 0 {
		if t >= c.StartTime {
			return 1
		}
		return 0
	}
	p := (t - c.StartTime) / d
	return clamp01(p*float64(wordCount) - float64(wordIndex))
}

// Words returns the karaoke word segmentation of a caption's text.
func Words(c Caption) []string {
	return strings.Fields(c.Text)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
