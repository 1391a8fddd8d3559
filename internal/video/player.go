package video

import (
	"errors"
	"sync"
	"time"
)

// ErrUnavailable is returned by a Player whose media never loaded.
var ErrUnavailable = errors.New("media unavailable")

// Player is a single seekable media element.
type Player interface {
	Seek(seconds float64) error
	Play() error
	Pause() error
	Position() (float64, error)
}

// SimPlayer is a clock-driven media element with no decoding. Position
// advances at Speed media seconds per wall second while playing and
// stops at Duration.
type SimPlayer struct {
	mu          sync.Mutex
	now         func() time.Time
	speed       float64
	duration    float64
	unavailable bool

	pos     float64
	playing bool
	since   time.Time
}

type SimOption func(*SimPlayer)

// WithSpeed sets the playback rate; values <= 0 are ignored.
func WithSpeed(speed float64) SimOption {
	return func(p *SimPlayer) {
		if speed > 0 {
			p.speed = speed
		}
	}
}

func WithClock(now func() time.Time) SimOption {
	return func(p *SimPlayer) { p.now = now }
}

// WithUnavailableMedia makes every call fail with ErrUnavailable, as a
// source that failed to load would.
func WithUnavailableMedia() SimOption {
	return func(p *SimPlayer) { p.unavailable = true }
}

func NewSimPlayer(duration float64, opts ...SimOption) *SimPlayer {
	p := &SimPlayer{
		now:      time.Now,
		speed:    1,
		duration: duration,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *SimPlayer) Seek(seconds float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.unavailable {
		return ErrUnavailable
	}
	p.pos = p.clamp(seconds)
	p.since = p.now()
	return nil
}

func (p *SimPlayer) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.unavailable {
		return ErrUnavailable
	}
	if !p.playing {
		p.playing = true
		p.since = p.now()
	}
	return nil
}

func (p *SimPlayer) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.unavailable {
		return ErrUnavailable
	}
	p.pos = p.current()
	p.playing = false
	return nil
}

func (p *SimPlayer) Position() (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.unavailable {
		return 0, ErrUnavailable
	}
	return p.current(), nil
}

// Playing reports whether the element is advancing.
func (p *SimPlayer) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

func (p *SimPlayer) current() float64 {
	if !p.playing {
		return p.pos
	}
	return p.clamp(p.pos + p.now().Sub(p.since).Seconds()*p.speed)
}

func (p *SimPlayer) clamp(s float64) float64 {
	return min(max(s, 0), p.duration)
}
