// Package bowling defines the core domain types of the daily strike
// prediction game. It has zero external dependencies.
package bowling

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-day key of a daily challenge.
const DateLayout = "2006-01-02"

// Today returns the challenge key for the UTC day containing now.
func Today(now time.Time) string {
	return now.UTC().Format(DateLayout)
}

type Outcome string

const (
	OutcomeStrike    Outcome = "strike"
	OutcomeNotStrike Outcome = "not_strike"
)

// ParseOutcome accepts either outcome in any letter case.
func ParseOutcome(s string) (Outcome, error) {
	o := Outcome(strings.ToLower(strings.TrimSpace(s)))
	if !o.Valid() {
		return "", fmt.Errorf("%w: unknown outcome %q", ErrValidation, s)
	}
	return o, nil
}

func (o Outcome) Valid() bool {
	return o == OutcomeStrike || o == OutcomeNotStrike
}

// Label is the human form, e.g. "not strike".
func (o Outcome) Label() string {
	return strings.ReplaceAll(string(o), "_", " ")
}

// Challenge is the pre-reveal view of a daily puzzle. It never carries
// the answer.
type Challenge struct {
	Date        string  `json:"date"`
	VideoID     string  `json:"videoId"`
	VideoSource string  `json:"videoSource"`
	StartTime   float64 `json:"startTime"`
	FreezeTime  float64 `json:"freezeTime"`
	EndTime     float64 `json:"endTime"`
}

func (c Challenge) Validate() error {
	if c.Date == "" {
		return fmt.Errorf("%w: challenge date is required", ErrValidation)
	}
	if _, err := time.Parse(DateLayout, c.Date); err != nil {
		return fmt.Errorf("%w: challenge date %q is not YYYY-MM-DD", ErrValidation, c.Date)
	}
	if c.StartTime < 0 || c.StartTime > c.FreezeTime || c.FreezeTime > c.EndTime {
		return fmt.Errorf("%w: times must satisfy 0 <= start <= freeze <= end (got %g, %g, %g)",
			ErrValidation, c.StartTime, c.FreezeTime, c.EndTime)
	}
	return nil
}

// Verdict is the provider's answer to a strike guess.
type Verdict struct {
	Correct      bool    `json:"correct"`
	Answer       Outcome `json:"answer"`
	StandingPins PinSet  `json:"standingPins"`
}

func (v Verdict) Validate() error {
	if !v.Answer.Valid() {
		return fmt.Errorf("%w: verdict answer %q", ErrValidation, v.Answer)
	}
	return nil
}

// Record is the stored form of a challenge, answer included. Only the
// provider ever holds one.
type Record struct {
	Challenge
	Answer       Outcome `json:"answer"`
	StandingPins PinSet  `json:"standingPins"`
}

func (r Record) Validate() error {
	if err := r.Challenge.Validate(); err != nil {
		return err
	}
	if !r.Answer.Valid() {
		return fmt.Errorf("%w: answer %q", ErrValidation, r.Answer)
	}
	if r.Answer == OutcomeStrike && r.StandingPins.Len() > 0 {
		return fmt.Errorf("%w: a strike leaves no standing pins", ErrValidation)
	}
	return nil
}

// Public strips the answer.
func (r Record) Public() Challenge {
	return r.Challenge
}

// Judge compares a guess against the stored answer.
func (r Record) Judge(guess Outcome) Verdict {
	return Verdict{
		Correct:      guess == r.Answer,
		Answer:       r.Answer,
		StandingPins: r.StandingPins,
	}
}
