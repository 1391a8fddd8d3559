package video

import (
	"fmt"

	"github.com/playperu/bowlingdle/internal/bowling"
)

// Phase is the segment of the delivery the player is bound to.
type Phase int

const (
	PhaseNone Phase = iota
	PhaseInitial
	PhaseReveal
)

func (p Phase) String() string {
	switch p {
	case PhaseNone:
		return "none"
	case PhaseInitial:
		return "initial"
	case PhaseReveal:
		return "reveal"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// canEnter reports whether next follows p. Playback only moves forward:
// none, then initial, then reveal.
func (p Phase) canEnter(next Phase) bool {
	switch p {
	case PhaseNone:
		return next == PhaseInitial
	case PhaseInitial:
		return next == PhaseReveal
	default:
		return false
	}
}

// Window holds the three timestamps, in seconds, that bound both phases.
type Window struct {
	Start  float64
	Freeze float64
	End    float64
}

func WindowOf(c bowling.Challenge) Window {
	return Window{Start: c.StartTime, Freeze: c.FreezeTime, End: c.EndTime}
}

func (w Window) Validate() error {
	if w.Start < 0 || w.Start > w.Freeze || w.Freeze > w.End {
		return fmt.Errorf("%w: window %g/%g/%g is not ordered", bowling.ErrValidation, w.Start, w.Freeze, w.End)
	}
	return nil
}

// from is where playback of p begins.
func (w Window) from(p Phase) float64 {
	if p == PhaseReveal {
		return w.Freeze
	}
	return w.Start
}

// until is where playback of p must stop.
func (w Window) until(p Phase) float64 {
	if p == PhaseReveal {
		return w.End
	}
	return w.Freeze
}
