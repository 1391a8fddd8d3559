// Package video keeps a media element in step with the game's video phase:
// the approach plays up to the freeze point and stops, the reveal plays
// from the freeze point to the end.
package video

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// DefaultInterval is how often playback position is sampled.
const DefaultInterval = 50 * time.Millisecond

var (
	ErrInvalidTransition = errors.New("invalid video phase transition")
	ErrClosed            = errors.New("controller closed")
)

// State is a point-in-time view of the controller.
type State struct {
	Phase    Phase   `json:"phase"`
	Position float64 `json:"position"`
	Boundary float64 `json:"boundary"`
	Playing  bool    `json:"playing"`
	Complete bool    `json:"complete"`
	Stalled  bool    `json:"stalled"`
}

// Controller drives one Player through the initial and reveal phases and
// reports each phase's completion exactly once per entry on Completions.
//
// Boundary detection polls Position on a ticker, since media elements
// have no "reached time T" event. Only the sampler started for the
// current phase entry may complete it: every stop, seek or phase change
// retires the running sampler.
type Controller struct {
	player    Player
	window    Window
	interval  time.Duration
	tolerance float64
	logger    *slog.Logger

	mu       sync.Mutex
	phase    Phase
	playing  bool
	fired    bool
	stalled  bool
	closed   bool
	position float64
	sampler  chan struct{}
	done     chan Phase
}

type Option func(*Controller)

func WithInterval(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithTolerance lets a sample that lands within seconds of the boundary
// complete the phase. It is capped at one sampling interval of playback.
func WithTolerance(seconds float64) Option {
	return func(c *Controller) { c.tolerance = seconds }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewController binds player to window. A nil player behaves like media
// that never loads: every call is a no-op and no phase ever completes.
func NewController(player Player, window Window, opts ...Option) (*Controller, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}
	c := &Controller{
		player:   player,
		window:   window,
		interval: DefaultInterval,
		logger:   slog.Default(),
		done:     make(chan Phase, 2),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.tolerance = min(max(c.tolerance, 0), c.interval.Seconds())
	return c, nil
}

// Completions delivers each phase once when its boundary is reached. It is
// closed by Close.
func (c *Controller) Completions() <-chan Phase {
	return c.done
}

// Enter moves to next and positions playback: initial seeks to the start
// and waits for Play, reveal seeks to the freeze point and plays at once.
func (c *Controller) Enter(next Phase) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if !c.phase.canEnter(next) {
		return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, c.phase, next)
	}

	c.retireSampler()
	c.phase = next
	c.fired = false
	c.playing = false

	c.seek(c.window.from(next))
	switch next {
	case PhaseInitial:
		c.call("pause", c.pausePlayer)
	case PhaseReveal:
		c.start()
	}

	c.logger.Debug("video phase entered", "phase", next, "from", c.window.from(next), "until", c.window.until(next))
	return nil
}

// Play starts playback of the current phase.
func (c *Controller) Play() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if c.phase == PhaseNone {
		return fmt.Errorf("%w: play before any phase", ErrInvalidTransition)
	}
	if c.playing {
		return nil
	}
	c.start()
	return nil
}

func (c *Controller) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	c.retireSampler()
	c.playing = false
	c.call("pause", c.pausePlayer)
	return nil
}

// Replay rewinds to the start of the current phase and pauses. The phase
// is unchanged and its completion is not reported again.
func (c *Controller) Replay() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if c.phase == PhaseNone {
		return fmt.Errorf("%w: replay before any phase", ErrInvalidTransition)
	}
	c.retireSampler()
	c.playing = false
	c.seek(c.window.from(c.phase))
	c.call("pause", c.pausePlayer)
	return nil
}

// Close stops sampling and closes Completions.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.retireSampler()
	c.closed = true
	close(c.done)
	return nil
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.player != nil && !c.stalled {
		if pos, err := c.player.Position(); err == nil {
			c.position = pos
		}
	}
	return State{
		Phase:    c.phase,
		Position: c.position,
		Boundary: c.window.until(c.phase),
		Playing:  c.playing,
		Complete: c.fired,
		Stalled:  c.stalled,
	}
}

// start plays the player and launches a sampler for this entry. Caller
// holds mu.
func (c *Controller) start() {
	if !c.call("play", func() error { return c.player.Play() }) {
		return
	}
	c.playing = true
	stop := make(chan struct{})
	c.sampler = stop
	go c.run(stop)
}

// retireSampler stops the running sampler, if any. Caller holds mu.
func (c *Controller) retireSampler() {
	if c.sampler != nil {
		close(c.sampler)
		c.sampler = nil
	}
}

func (c *Controller) run(stop chan struct{}) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !c.sample(stop) {
				return
			}
		}
	}
}

// sample reads the position once and reports whether the sampler that
// owns stop should keep going.
func (c *Controller) sample(stop chan struct{}) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if stop == nil || c.sampler != stop {
		return false
	}

	pos, err := c.player.Position()
	if err != nil {
		c.markStalled("position", err)
		c.retireSampler()
		c.playing = false
		return false
	}
	c.position = pos

	boundary := c.window.until(c.phase)
	if pos+c.tolerance < boundary {
		return true
	}

	c.retireSampler()
	c.playing = false
	c.call("pause", c.pausePlayer)

	if !c.fired {
		c.fired = true
		c.logger.Debug("video phase complete", "phase", c.phase, "position", pos, "boundary", boundary)
		select {
		case c.done <- c.phase:
		default:
		}
	}
	return false
}

func (c *Controller) seek(to float64) {
	c.position = to
	c.call("seek", func() error { return c.player.Seek(to) })
}

func (c *Controller) pausePlayer() error {
	return c.player.Pause()
}

// call runs a player operation, turning a missing or failed player into a
// stall instead of an error. Caller holds mu.
func (c *Controller) call(op string, fn func() error) bool {
	if c.player == nil {
		c.markStalled(op, ErrUnavailable)
		return false
	}
	if err := fn(); err != nil {
		c.markStalled(op, err)
		return false
	}
	return true
}

func (c *Controller) markStalled(op string, err error) {
	if !c.stalled {
		c.logger.Warn("video playback stalled", "op", op, "phase", c.phase, "error", err)
	}
	c.stalled = true
}
