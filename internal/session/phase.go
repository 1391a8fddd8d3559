package session

import (
	"fmt"

	"github.com/playperu/bowlingdle/internal/bowling"
)

// Phase is the game phase. It only moves forward: guess, then pins
// (unless the delivery was a strike), then complete.
type Phase int

const (
	PhaseGuess Phase = iota
	PhasePins
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseGuess:
		return "guess"
	case PhasePins:
		return "pins"
	case PhaseComplete:
		return "complete"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

type event int

const (
	evStrikeVerified event = iota
	evPinsSubmitted
)

func (e event) String() string {
	if e == evStrikeVerified {
		return "strike guess"
	}
	return "pins guess"
}

func (p Phase) accepts(e event) bool {
	switch e {
	case evStrikeVerified:
		return p == PhaseGuess
	case evPinsSubmitted:
		return p == PhasePins
	}
	return false
}

// transition returns the phase that follows e. A strike leaves no pins to
// guess, so it goes straight to complete.
func transition(from Phase, e event, answer bowling.Outcome) (Phase, error) {
	if !from.accepts(e) {
		return from, fmt.Errorf("%w: %s not allowed in %s phase", ErrInvalidTransition, e, from)
	}
	switch e {
	case evStrikeVerified:
		if answer == bowling.OutcomeStrike {
			return PhaseComplete, nil
		}
		return PhasePins, nil
	default:
		return PhaseComplete, nil
	}
}
