package playback

import (
	"errors"
	"fmt"
	"math"
	"sync"
)

var (
	ErrNoMedia      = errors.New("no media loaded")
	ErrInvalidValue = errors.New("invalid playback value")
)

// the narrow view of a media player the caption editor depends on
type Player interface {
	CurrentTime() float64
	Duration() float64
	Play() error
	Pause()
	Stop()
	Load(mediaRef string, duration float64) error
	SeekTo(fraction float64) error
	SetVolume(volume float64) error
	SetZoom(level float64) error
	OnProgress(fn func(seconds float64))
}

type State string

const (
	StateStopped State = "stopped"
	StatePlaying State = "playing"
	StatePaused  State = "paused"
)

// point-in-time copy of the mirror
type Status struct {
	MediaRef string  `json:"media"`
	Duration float64 `json:"duration"`
	Position float64 `json:"position"`
	State    State   `json:"state"`
	Volume   float64 `json:"volume"`
	Zoom     float64 `json:"zoom"`
}

// Mirror tracks the state of the player running in the browser page. The
// page pushes position reports and the mirror answers CurrentTime for
// captions added on the server side.
type Mirror struct {
	mu        sync.Mutex
	mediaRef  string
	duration  float64
	position  float64
	state     State
	volume    float64
	zoom      float64
	listeners []func(float64)
}

var _ Player = (*Mirror)(nil)

func NewMirror() *Mirror {
	return &Mirror{
		state:  StateStopped,
		volume: 1,
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (m *Mirror) Load(mediaRef string, duration float64) error {
	if mediaRef == "" {
		return fmt.Errorf("%w: empty media reference", ErrInvalidValue)
	}
	if !finite(duration) || duration < 0 {
		return fmt.Errorf("%w: duration %v", ErrInvalidValue, duration)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.mediaRef = mediaRef
	m.duration = duration
	m.position = 0
	m.state = StateStopped
	return nil
}

func (m *Mirror) CurrentTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *Mirror) Duration() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

func (m *Mirror) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mediaRef == "" {
		return ErrNoMedia
	}
	m.state = StatePlaying
	return nil
}

func (m *Mirror) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StatePlaying {
		m.state = StatePaused
	}
}

// Toggle is the play/pause button.
func (m *Mirror) Toggle() (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mediaRef == "" {
		return m.state, ErrNoMedia
	}
	if m.state == StatePlaying {
		m.state = StatePaused
	} else {
		m.state = StatePlaying
	}
	return m.state, nil
}

// Stop halts playback and rewinds to the start.
func (m *Mirror) Stop() {
	m.mu.Lock()
	m.state = StateStopped
	m.position = 0
	listeners := m.snapshotListeners()
	m.mu.Unlock()

	notify(listeners, 0)
}

// SeekTo moves to a fraction of the duration, clamped to [0, 1].
func (m *Mirror) SeekTo(fraction float64) error {
	if !finite(fraction) {
		return fmt.Errorf("%w: seek fraction %v", ErrInvalidValue, fraction)
	}
	fraction = math.Min(math.Max(fraction, 0), 1)

	m.mu.Lock()
	if m.mediaRef == "" {
		m.mu.Unlock()
		return ErrNoMedia
	}
	m.position = fraction * m.duration
	pos := m.position
	listeners := m.snapshotListeners()
	m.mu.Unlock()

	notify(listeners, pos)
	return nil
}

// SetVolume clamps to [0, 1].
func (m *Mirror) SetVolume(volume float64) error {
	if !finite(volume) {
		return fmt.Errorf("%w: volume %v", ErrInvalidValue, volume)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = math.Min(math.Max(volume, 0), 1)
	return nil
}

// SetZoom takes the waveform zoom in pixels per second; 0 resets to fit.
func (m *Mirror) SetZoom(level float64) error {
	if !finite(level) || level < 0 {
		return fmt.Errorf("%w: zoom %v", ErrInvalidValue, level)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.zoom = level
	return nil
}

func (m *Mirror) OnProgress(fn func(seconds float64)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// Report records a position pushed by the page's timeupdate or
// audioprocess events.
func (m *Mirror) Report(seconds float64) error {
	if !finite(seconds) || seconds < 0 {
		return fmt.Errorf("%w: position %v", ErrInvalidValue, seconds)
	}

	m.mu.Lock()
	if m.mediaRef == "" {
		m.mu.Unlock()
		return ErrNoMedia
	}
	m.position = seconds
	listeners := m.snapshotListeners()
	m.mu.Unlock()

	notify(listeners, seconds)
	return nil
}

func (m *Mirror) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Status{
		MediaRef: m.mediaRef,
		Duration: m.duration,
		Position: m.position,
		State:    m.state,
		Volume:   m.volume,
		Zoom:     m.zoom,
	}
}

// callers hold m.mu
func (m *Mirror) snapshotListeners() []func(float64) {
	return append([]func(float64)(nil), m.listeners...)
}

// listeners run outside the lock so they may call back into the mirror
func notify(listeners []func(float64), pos float64) {
	for _, fn := range listeners {
		fn(pos)
	}
}
