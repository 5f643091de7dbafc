// Package editor ties the caption store, the playback surface and the
// external collaborators together into one editing session, the same
// shape a frontend would drive.
package editor

import (
	"context"
	"errors"
	"sync"

	"github.com/capedit/capedit/internal/caption"
	"github.com/capedit/capedit/internal/logging"
	"github.com/capedit/capedit/internal/player"
	"github.com/capedit/capedit/internal/render"
	"github.com/capedit/capedit/internal/subtitle"
	"github.com/capedit/capedit/internal/transcribe"
	"github.com/capedit/capedit/internal/video"
)

var (
	// ErrNoVideo rejects operations that need a loaded video.
	ErrNoVideo = errors.New("no video loaded")

	// ErrNoCaptions rejects exports before any external call runs.
	ErrNoCaptions = errors.New("no captions to export")

	// ErrGenerationInFlight serializes caption generation: a second
	// request for the same session waits for or abandons the first.
	ErrGenerationInFlight = errors.New("caption generation already in progress")

	// ErrGenerationFailed is the generic user-facing transcription
	// failure; the underlying cause is logged, not surfaced.
	ErrGenerationFailed = errors.New("sorry, couldn't generate captions, please try again")
)

// Session is one video's editing state.
type Session struct {
	log         *logging.Logger
	store       *caption.Store
	player      player.Player
	transcriber transcribe.Transcriber
	burner      *video.Burner

	mu         sync.Mutex
	videoPath  string
	duration   float64
	generating bool
}

func NewSession(log *logging.Logger, p player.Player, t transcribe.Transcriber, b *video.Burner) *Session {
	return &Session{
		log:         log,
		store:       caption.NewStore(),
		player:      p,
		transcriber: t,
		burner:      b,
	}
}

// LoadVideo points the session at a new source video, discarding all
// captions and selection state.
func (s *Session) LoadVideo(path string, duration float64) {
	s.mu.Lock()
	s.videoPath = path
	s.duration = duration
	s.mu.Unlock()

	s.store.ReplaceAll(nil)
	s.player.Seek(0)
}

// VideoPath returns the loaded source path, empty if none.
func (s *Session) VideoPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.videoPath
}

// Duration returns the loaded video duration in seconds.
func (s *Session) Duration() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.duration
}

// Store exposes the caption store for read access.
func (s *Session) Store() *caption.Store {
	return s.store
}

// GenerateCaptions asks the transcription provider for spans and
// replaces the timeline with default-styled captions. Only one
// generation may run per session at a time.
func (s *Session) GenerateCaptions(ctx context.Context) error {
	s.mu.Lock()
	if s.videoPath == "" || s.duration <= 0 {
		s.mu.Unlock()
		return ErrNoVideo
	}
	if s.generating {
		s.mu.Unlock()
		return ErrGenerationInFlight
	}
	s.generating = true
	path := s.videoPath
	duration := s.duration
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.generating = false
		s.mu.Unlock()
	}()

	spans, err := s.transcriber.Transcribe(ctx, path, duration)
	if err != nil {
		s.log.Errorw("caption generation failed",
			"video", path,
			"error", err,
		)
		return ErrGenerationFailed
	}

	tl := caption.NewTimeline(transcribe.FilterSpans(spans, duration))
	s.store.ReplaceAll(tl)

	s.log.Infow("captions generated",
		"video", path,
		"count", len(tl),
	)
	return nil
}

// UpdateCaption applies an edit under the given dispatch context.
func (s *Session) UpdateCaption(edited caption.Caption, field caption.Field, ectx caption.EditContext) {
	s.store.Update(edited, field, ectx)
}

// SplitCaption splits a caption at a rune offset. Missing ids and
// rejected splits are no-ops.
func (s *Session) SplitCaption(id string, offset int) error {
	return s.store.Split(id, offset)
}

// SelectCaption moves the selection cursor and seeks playback to the
// selected caption's start.
func (s *Session) SelectCaption(id string) {
	s.store.Select(id)
	if c, ok := s.store.Get(id); ok {
		s.player.Seek(c.StartTime)
	}
}

// HandleKey processes a keyboard shortcut. Space toggles play/pause
// unless a text field owns focus; play and pause failures are logged
// and swallowed, never propagated.
func (s *Session) HandleKey(key string, focus player.FocusTarget) {
	if !player.ShouldToggle(key, focus) {
		return
	}

	var err error
	if s.player.Playing() {
		err = s.player.Pause()
	} else {
		err = s.player.Play()
	}
	if err != nil {
		s.log.Debugw("playback toggle rejected", "error", err)
	}
}

// ActiveCaption returns the caption under the current playback time.
func (s *Session) ActiveCaption() (caption.Caption, bool) {
	return caption.ActiveAt(s.store.Snapshot(), s.player.CurrentTime())
}

// RenderAt resolves the render state for the active caption at time t
// against the given frame, or false if no caption is visible.
func (s *Session) RenderAt(t float64, frame render.Frame) (render.State, bool) {
	c, ok := caption.ActiveAt(s.store.Snapshot(), t)
	if !ok {
		return render.State{}, false
	}
	return render.Resolve(c, t, frame), true
}

// ExportSRT writes the timeline as an SRT file.
func (s *Session) ExportSRT(path string) error {
	tl := s.store.Snapshot()
	if len(tl) == 0 {
		return ErrNoCaptions
	}
	return subtitle.WriteFile(tl, path)
}

// ExportVideo burns the captions into a re-encoded copy of the source
// video. At most one export per source video runs at a time; the
// burner enforces that.
func (s *Session) ExportVideo(ctx context.Context, outputPath string, progress video.ProgressFunc) error {
	s.mu.Lock()
	path := s.videoPath
	s.mu.Unlock()

	if path == "" {
		return ErrNoVideo
	}
	tl := s.store.Snapshot()
	if len(tl) == 0 {
		return ErrNoCaptions
	}

	return s.burner.Burn(ctx, path, tl, outputPath, progress)
}
