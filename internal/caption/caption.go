package caption

import (
	"github.com/google/uuid"
)

// entry animation applied to a caption
type Animation string

const (
	AnimationNone    Animation = "None"
	AnimationFadeIn  Animation = "FadeIn"
	AnimationSlideUp Animation = "SlideUp"
	AnimationPopUp   Animation = "PopUp"
	AnimationKaraoke Animation = "Karaoke"
)

// supported font families, stored as CSS family strings so the
// compositor can use them verbatim
type FontFamily string

const (
	FontArial     FontFamily = "Arial, sans-serif"
	FontPoppins   FontFamily = "Poppins, sans-serif"
	FontRoboto    FontFamily = "Roboto, sans-serif"
	FontBebasNeue FontFamily = "'Bebas Neue', cursive"
	FontLobster   FontFamily = "Lobster, cursive"
)

// text casing applied at render time
type TextTransform string

const (
	TransformNone      TextTransform = "none"
	TransformUppercase TextTransform = "uppercase"
)

// anchor point as percentages of the video frame
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Style is the visual presentation of a caption. It is a value type:
// copying a Style copies everything.
type Style struct {
	FontFamily        FontFamily    `json:"fontFamily"`
	FontSize          int           `json:"fontSize"`
	PrimaryColor      string        `json:"primaryColor"`
	OutlineColor      string        `json:"outlineColor"`
	OutlineWidth      int           `json:"outlineWidth"`
	BackgroundColor   string        `json:"backgroundColor"`
	BackgroundOpacity float64       `json:"backgroundOpacity"`
	ShowBackground    bool          `json:"showBackground"`
	TextTransform     TextTransform `json:"textTransform"`
	GlowColor         string        `json:"glowColor"`
	GlowStrength      int           `json:"glowStrength"`
	Position          Position      `json:"position"`
}

// presentation applied to freshly generated captions
func DefaultStyle() Style {
	return Style{
		FontFamily:        FontPoppins,
		FontSize:          48,
		PrimaryColor:      "#FFFFFF",
		OutlineColor:      "#000000",
		OutlineWidth:      2,
		BackgroundColor:   "#000000",
		BackgroundOpacity: 0.5,
		ShowBackground:    true,
		TextTransform:     TransformNone,
		GlowColor:         "#FFD700",
		GlowStrength:      0,
		Position:          Position{X: 50, Y: 85},
	}
}

// Caption is a single timed subtitle unit. Times are seconds from the
// start of the video, StartTime < EndTime.
type Caption struct {
	ID        string    `json:"id"`
	StartTime float64   `json:"startTime"`
	EndTime   float64   `json:"endTime"`
	Text      string    `json:"text"`
	Style     Style     `json:"style"`
	Animation Animation `json:"animation"`
}

// Duration returns the caption length in seconds.
func (c Caption) Duration() float64 {
	return c.EndTime - c.StartTime
}

// Span is a raw timed text span as produced by a transcription
// provider or subtitle parser, before styling.
type Span struct {
	StartTime float64 `json:"startTime"`
	EndTime   float64 `json:"endTime"`
	Text      string  `json:"text"`
}

// New creates a caption from a raw span with the default style and
// the default entry animation.
func New(span Span) Caption {
	return Caption{
		ID:        NewID(),
		StartTime: span.StartTime,
		EndTime:   span.EndTime,
		Text:      span.Text,
		Style:     DefaultStyle(),
		Animation: AnimationPopUp,
	}
}

// NewID generates a fresh caption identifier.
func NewID() string {
	return uuid.NewString()
}
