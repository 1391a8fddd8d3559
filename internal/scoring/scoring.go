// Package scoring computes points for a daily challenge. Every function is
// pure: the same inputs always yield the same score.
package scoring

import "github.com/playperu/bowlingdle/internal/bowling"

const (
	StrikePoints = 50
	PinsPoints   = 50
	MaxScore     = StrikePoints + PinsPoints
)

// Round is everything needed to score a finished or partial session.
type Round struct {
	StrikeCorrect bool
	Answer        bowling.Outcome
	Standing      bowling.PinSet
	Guessed       bowling.PinSet
}

// Strike returns the strike component.
func Strike(correct bool) int {
	if correct {
		return StrikePoints
	}
	return 0
}

// CorrectPins counts guessed pins that were really standing.
func CorrectPins(standing, guessed bowling.PinSet) int {
	return standing.Intersect(guessed).Len()
}

// Pins returns the pins component. A strike leaves nothing to guess and
// scores 0 here, as does an empty standing set. An exact match earns the
// full PinsPoints; anything else earns PinsPoints/len(standing) per
// correctly named pin, rounded half up. Wrong extra pins cost nothing
// beyond the exact-match path.
func Pins(answer bowling.Outcome, standing, guessed bowling.PinSet) int {
	if answer != bowling.OutcomeNotStrike {
		return 0
	}
	total := standing.Len()
	if total == 0 {
		return 0
	}
	if guessed == standing {
		return PinsPoints
	}
	return roundRatio(PinsPoints*CorrectPins(standing, guessed), total)
}

// Total is the strike component plus the pins component, within [0, MaxScore].
func Total(r Round) int {
	score := Strike(r.StrikeCorrect) + Pins(r.Answer, r.Standing, r.Guessed)
	return min(max(score, 0), MaxScore)
}

// roundRatio returns num/den rounded half away from zero for non-negative
// operands.
func roundRatio(num, den int) int {
	return (2*num + den) / (2 * den)
}
