// Package render resolves what is drawn over the video frame for a
// caption at a given playback time. Everything here is pure: the same
// caption, time and frame always produce the same state, so the
// resolver is safe to call on every playback tick.
package render

import (
	"math"
	"strings"

	"github.com/capedit/capedit/internal/caption"
)

// how long entry animations run, seconds from caption start
const entryDuration = 0.3

// Frame is the pixel size of the rendering surface.
type Frame struct {
	Width  float64
	Height float64
}

// Shadow is one text-shadow entry: an offset copy (outline) or a
// blurred halo (glow).
type Shadow struct {
	DX    float64 `json:"dx"`
	DY    float64 `json:"dy"`
	Blur  float64 `json:"blur"`
	Color string  `json:"color"`
}

// Point is a pixel coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// RGBA is an alpha-blended fill color.
type RGBA struct {
	R uint8   `json:"r"`
	G uint8   `json:"g"`
	B uint8   `json:"b"`
	A float64 `json:"a"`
}

// Transform is the whole-caption entry transform.
type Transform struct {
	Opacity    float64 `json:"opacity"`
	TranslateY float64 `json:"translateY"`
	Scale      float64 `json:"scale"`
}

// WordSpan is one karaoke word: a dim base copy plus a bright copy
// clipped to Progress of its width.
type WordSpan struct {
	Text     string  `json:"text"`
	Progress float64 `json:"progress"`
}

// State is the full set of render instructions for one caption at one
// playback instant.
type State struct {
	Text           string     `json:"text"`
	FontFamily     string     `json:"fontFamily"`
	FontSize       int        `json:"fontSize"`
	Color          string     `json:"color"`
	Shadows        []Shadow   `json:"shadows"`
	Anchor         Point      `json:"anchor"`
	Background     RGBA       `json:"background"`
	ShowBackground bool       `json:"showBackground"`
	Transform      Transform  `json:"transform"`
	Words          []WordSpan `json:"words,omitempty"`
}

// Resolve computes the render state for a caption at playback time t
// against a frame of the given size.
func Resolve(c caption.Caption, t float64, frame Frame) State {
	st := State{
		Text:       transformText(c.Text, c.Style.TextTransform),
		FontFamily: string(c.Style.FontFamily),
		FontSize:   c.Style.FontSize,
		Color:      c.Style.PrimaryColor,
		Shadows:    shadows(c.Style),
		Anchor: Point{
			X: c.Style.Position.X / 100 * frame.Width,
			Y: c.Style.Position.Y / 100 * frame.Height,
		},
		ShowBackground: c.Style.ShowBackground,
		Transform:      entryTransform(c, t),
	}

	if c.Style.ShowBackground {
		st.Background = fill(c.Style.BackgroundColor, c.Style.BackgroundOpacity)
	}

	if c.Animation == caption.AnimationKaraoke {
		words := caption.Words(c)
		st.Words = make([]WordSpan, len(words))
		for i, w := range words {
			st.Words[i] = WordSpan{
				Text:     w,
				Progress: caption.KaraokeWordProgress(c, t, i, len(words)),
			}
		}
	}

	return st
}

func transformText(text string, tr caption.TextTransform) string {
	if tr == caption.TransformUppercase {
		return strings.ToUpper(text)
	}
	return text
}

// shadows builds the outline ring plus glow halo. The outline is a
// discrete ring of offset copies: every integer (dx, dy) within the
// outline radius except the origin, each colored with the outline
// color. Glow adds two blurred entries at half and full strength.
func shadows(s caption.Style) []Shadow {
	var out []Shadow
	if s.OutlineWidth > 0 {
		w := s.OutlineWidth
		for dx := -w; dx <= w; dx++ {
			for dy := -w; dy <= w; dy++ {
				if dx == 0 && dy == 0 {
					continue
				}
				out = append(out, Shadow{DX: float64(dx), DY: float64(dy), Color: s.OutlineColor})
			}
		}
	}
	if s.GlowStrength > 0 {
		out = append(out,
			Shadow{Blur: float64(s.GlowStrength) * 0.5, Color: s.GlowColor},
			Shadow{Blur: float64(s.GlowStrength), Color: s.GlowColor},
		)
	}
	return out
}

// entryTransform computes the whole-caption transform for the entry
// animation window, measured from the caption's start so it plays
// once per contiguous visible interval.
func entryTransform(c caption.Caption, t float64) Transform {
	tr := Transform{Opacity: 1, Scale: 1}
	if c.Animation == caption.AnimationNone || c.Animation == caption.AnimationKaraoke {
		return tr
	}

	p := clamp01((t - c.StartTime) / entryDuration)

	switch c.Animation {
	case caption.AnimationFadeIn:
		tr.Opacity = p
	case caption.AnimationSlideUp:
		tr.Opacity = p
		tr.TranslateY = 20 * (1 - p)
	case caption.AnimationPopUp:
		tr.Opacity = p
		tr.Scale = 0.8 + 0.2*overshoot(p)
	}
	return tr
}

// overshoot eases with a back curve so pop-in swings slightly past
// its final scale before settling, approximating the reference
// cubic-bezier(0.68, -0.55, 0.27, 1.55).
func overshoot(p float64) float64 {
	const c1 = 1.70158
	const c2 = c1 * 1.525
	if p < 0.5 {
		return (math.Pow(2*p, 2) * ((c2+1)*2*p - c2)) / 2
	}
	return (math.Pow(2*p-2, 2)*((c2+1)*(2*p-2)+c2) + 2) / 2
}

// fill converts a #RRGGBB color plus opacity into an RGBA fill.
// Malformed colors fall back to black so rendering stays total.
func fill(hex string, opacity float64) RGBA {
	r, g, b := parseHex(hex)
	return RGBA{R: r, G: g, B: b, A: clamp01(opacity)}
}

func parseHex(s string) (uint8, uint8, uint8) {
	if len(s) != 7 || s[0] != '#' {
		return 0, 0, 0
	}
	var vals [3]uint8
	for i := 0; i < 3; i++ {
		hi, ok1 := hexDigit(s[1+i*2])
		lo, ok2 := hexDigit(s[2+i*2])
		if !ok1 || !ok2 {
			return 0, 0, 0
		}
		vals[i] = hi<<4 | lo
	}
	return vals[0], vals[1], vals[2]
}

func hexDigit(b byte) (uint8, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	}
	return 0, false
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
