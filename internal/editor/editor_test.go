package editor

import (
	"context"
	"errors"
	"testing"

	"github.com/capedit/capedit/internal/caption"
	"github.com/capedit/capedit/internal/logging"
	"github.com/capedit/capedit/internal/player"
	"github.com/capedit/capedit/internal/render"
	"github.com/capedit/capedit/internal/transcribe"
)

type fakeTranscriber struct {
	spans   []caption.Span
	err     error
	started chan struct{}
	release chan struct{}
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, videoPath string, duration float64) ([]caption.Span, error) {
	if f.started != nil {
		close(f.started)
	}
	if f.release != nil {
		<-f.release
	}
	return f.spans, f.err
}

var _ transcribe.Transcriber = (*fakeTranscriber)(nil)

func newTestSession(t *fakeTranscriber) (*Session, *player.Memory) {
	p := player.NewMemory(60)
	s := NewSession(logging.NewNop(), p, t, nil)
	s.LoadVideo("/tmp/clip.mp4", 60)
	return s, p
}

func TestGenerateCaptions(t *testing.T) {
	ft := &fakeTranscriber{spans: []caption.Span{
		{StartTime: 2, EndTime: 4, Text: "second"},
		{StartTime: 0, EndTime: 2, Text: "first"},
		{StartTime: 50, EndTime: 120, Text: "runs past the end"},
	}}
	s, _ := newTestSession(ft)

	if err := s.GenerateCaptions(context.Background()); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	tl := s.Store().Snapshot()
	if len(tl) != 2 {
		t.Fatalf("got %d captions, want 2 after filtering", len(tl))
	}
	if tl[0].Text != "first" || tl[1].Text != "second" {
		t.Errorf("timeline not sorted: %q, %q", tl[0].Text, tl[1].Text)
	}
	if tl[0].Animation != caption.AnimationPopUp {
		t.Errorf("default animation = %q, want pop-up", tl[0].Animation)
	}
}

func TestGenerateCaptionsWithoutVideo(t *testing.T) {
	s := NewSession(logging.NewNop(), player.NewMemory(0), &fakeTranscriber{}, nil)
	if err := s.GenerateCaptions(context.Background()); !errors.Is(err, ErrNoVideo) {
		t.Errorf("err = %v, want ErrNoVideo", err)
	}
}

func TestGenerateCaptionsFailureIsGeneric(t *testing.T) {
	ft := &fakeTranscriber{err: errors.New("api key invalid: sk-12345")}
	s, _ := newTestSession(ft)

	err := s.GenerateCaptions(context.Background())
	if !errors.Is(err, ErrGenerationFailed) {
		t.Fatalf("err = %v, want ErrGenerationFailed", err)
	}
	if got := err.Error(); got != ErrGenerationFailed.Error() {
		t.Errorf("provider detail leaked into user-facing error: %q", got)
	}
}

func TestGenerateCaptionsSingleFlight(t *testing.T) {
	ft := &fakeTranscriber{
		spans:   []caption.Span{{StartTime: 0, EndTime: 1, Text: "hi"}},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	s, _ := newTestSession(ft)

	done := make(chan error, 1)
	go func() { done <- s.GenerateCaptions(context.Background()) }()

	<-ft.started
	if err := s.GenerateCaptions(context.Background()); !errors.Is(err, ErrGenerationInFlight) {
		t.Errorf("concurrent generate err = %v, want ErrGenerationInFlight", err)
	}

	close(ft.release)
	if err := <-done; err != nil {
		t.Fatalf("first generate failed: %v", err)
	}

	// once the first finishes, a new run is admitted again
	ft.started = nil
	ft.release = nil
	if err := s.GenerateCaptions(context.Background()); err != nil {
		t.Errorf("generate after completion failed: %v", err)
	}
}

func TestLoadVideoResetsState(t *testing.T) {
	ft := &fakeTranscriber{spans: []caption.Span{{StartTime: 0, EndTime: 1, Text: "hi"}}}
	s, p := newTestSession(ft)
	if err := s.GenerateCaptions(context.Background()); err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	p.Seek(30)

	s.LoadVideo("/tmp/other.mp4", 42)

	if got := s.Store().Len(); got != 0 {
		t.Errorf("captions survived a video swap: %d", got)
	}
	if got := p.CurrentTime(); got != 0 {
		t.Errorf("playback time = %v, want rewind to 0", got)
	}
	if s.VideoPath() != "/tmp/other.mp4" || s.Duration() != 42 {
		t.Errorf("video = %q (%vs)", s.VideoPath(), s.Duration())
	}
}

func TestSelectCaptionSeeksPlayer(t *testing.T) {
	ft := &fakeTranscriber{spans: []caption.Span{
		{StartTime: 0, EndTime: 2, Text: "first"},
		{StartTime: 5, EndTime: 8, Text: "second"},
	}}
	s, p := newTestSession(ft)
	if err := s.GenerateCaptions(context.Background()); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	tl := s.Store().Snapshot()
	s.SelectCaption(tl[1].ID)

	if got, ok := s.Store().Selected(); !ok || got.ID != tl[1].ID {
		t.Errorf("selected = %+v, %v", got, ok)
	}
	if got := p.CurrentTime(); got != 5 {
		t.Errorf("player time = %v, want 5", got)
	}

	// unknown id clears selection and leaves playback alone
	s.SelectCaption("no-such-id")
	if _, ok := s.Store().Selected(); ok {
		t.Error("selection survived unknown id")
	}
	if got := p.CurrentTime(); got != 5 {
		t.Errorf("player time moved on unknown id: %v", got)
	}
}

func TestHandleKeyTogglesPlayback(t *testing.T) {
	s, p := newTestSession(&fakeTranscriber{})

	s.HandleKey(player.SpaceKey, player.FocusNone)
	if !p.Playing() {
		t.Fatal("space did not start playback")
	}

	// typing a space into a caption must not pause the video
	s.HandleKey(player.SpaceKey, player.FocusTextInput)
	if !p.Playing() {
		t.Fatal("space paused playback while a text input had focus")
	}

	s.HandleKey(player.SpaceKey, player.FocusNone)
	if p.Playing() {
		t.Fatal("space did not pause playback")
	}

	s.HandleKey("k", player.FocusNone)
	if p.Playing() {
		t.Fatal("non-space key toggled playback")
	}
}

func TestActiveCaptionAndRenderAt(t *testing.T) {
	ft := &fakeTranscriber{spans: []caption.Span{{StartTime: 1, EndTime: 3, Text: "hello world"}}}
	s, p := newTestSession(ft)
	if err := s.GenerateCaptions(context.Background()); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	p.Seek(2)
	if c, ok := s.ActiveCaption(); !ok || c.Text != "hello world" {
		t.Errorf("active at 2s = %+v, %v", c, ok)
	}

	p.Seek(10)
	if _, ok := s.ActiveCaption(); ok {
		t.Error("caption reported active outside its interval")
	}

	frame := render.Frame{Width: 1920, Height: 1080}
	if st, ok := s.RenderAt(2, frame); !ok || st.Text == "" {
		t.Errorf("render at 2s = %+v, %v", st, ok)
	}
	if _, ok := s.RenderAt(10, frame); ok {
		t.Error("render state produced with no active caption")
	}
}

func TestExportSRT(t *testing.T) {
	s, _ := newTestSession(&fakeTranscriber{})
	if err := s.ExportSRT(t.TempDir() + "/out.srt"); !errors.Is(err, ErrNoCaptions) {
		t.Errorf("empty export err = %v, want ErrNoCaptions", err)
	}
}

func TestExportVideoRejectsEarly(t *testing.T) {
	s := NewSession(logging.NewNop(), player.NewMemory(0), &fakeTranscriber{}, nil)
	if err := s.ExportVideo(context.Background(), "/tmp/out.mp4", nil); !errors.Is(err, ErrNoVideo) {
		t.Errorf("err = %v, want ErrNoVideo", err)
	}

	s.LoadVideo("/tmp/clip.mp4", 60)
	if err := s.ExportVideo(context.Background(), "/tmp/out.mp4", nil); !errors.Is(err, ErrNoCaptions) {
		t.Errorf("err = %v, want ErrNoCaptions", err)
	}
}
