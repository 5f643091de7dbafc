// Package player defines the boundary to the media playback element.
// The editor engine only ever talks to this interface; the real
// implementation lives in the browser frontend.
package player

import "sync"

// Events are the playback callbacks a consumer can subscribe to,
// mirroring the media element's event surface.
type Events struct {
	OnTimeUpdate     func(seconds float64)
	OnLoadedMetadata func(duration float64)
	OnPlay           func()
	OnPause          func()
}

// Player is the playback control surface. Play and Pause may fail
// (media elements reject play promises); callers are expected to
// swallow those failures rather than propagate them.
type Player interface {
	CurrentTime() float64
	Seek(seconds float64)
	Duration() float64
	Playing() bool
	Play() error
	Pause() error
}

// FocusTarget describes what currently owns keyboard focus.
type FocusTarget int

const (
	FocusNone FocusTarget = iota
	FocusTextInput
)

// SpaceKey is the play/pause shortcut key value.
const SpaceKey = " "

// ShouldToggle reports whether a keypress toggles playback. The space
// shortcut is suppressed while a text input or textarea owns focus so
// typing a space into a caption does not pause the video.
func ShouldToggle(key string, focus FocusTarget) bool {
	return key == SpaceKey && focus != FocusTextInput
}

// Memory is an in-process player used by the HTTP API and tests. It
// tracks the state the browser element would hold and fires the same
// events.
type Memory struct {
	mu       sync.Mutex
	time     float64
	duration float64
	playing  bool
	events   Events
}

func NewMemory(duration float64) *Memory {
	return &Memory{duration: duration}
}

// Subscribe replaces the event callbacks.
func (m *Memory) Subscribe(ev Events) {
	m.mu.Lock()
	m.events = ev
	m.mu.Unlock()
}

// SetDuration records the media duration, as the loadedmetadata event
// would.
func (m *Memory) SetDuration(d float64) {
	m.mu.Lock()
	m.duration = d
	cb := m.events.OnLoadedMetadata
	m.mu.Unlock()
	if cb != nil {
		cb(d)
	}
}

func (m *Memory) CurrentTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.time
}

func (m *Memory) Seek(seconds float64) {
	m.mu.Lock()
	if seconds < 0 {
		seconds = 0
	}
	if m.duration > 0 && seconds > m.duration {
		seconds = m.duration
	}
	m.time = seconds
	cb := m.events.OnTimeUpdate
	t := m.time
	m.mu.Unlock()
	if cb != nil {
		cb(t)
	}
}

func (m *Memory) Duration() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

func (m *Memory) Playing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playing
}

func (m *Memory) Play() error {
	m.mu.Lock()
	m.playing = true
	cb := m.events.OnPlay
	m.mu.Unlock()
	if cb != nil {
		cb()
	}
	return nil
}

func (m *Memory) Pause() error {
	m.mu.Lock()
	m.playing = false
	cb := m.events.OnPause
	m.mu.Unlock()
	if cb != nil {
		cb()
	}
	return nil
}
