package session

import (
	"github.com/playperu/bowlingdle/internal/bowling"
	"github.com/playperu/bowlingdle/internal/video"
)

// Controls says which inputs the presentation layer should enable.
type Controls struct {
	Guess bool `json:"guess"`
	Pins  bool `json:"pins"`
}

// Snapshot is an immutable copy of session state taken between
// transitions, so observers never see a partial update.
type Snapshot struct {
	ID             string          `json:"id"`
	Date           string          `json:"date"`
	Phase          Phase           `json:"phase"`
	VideoPhase     video.Phase     `json:"videoPhase"`
	StrikeGuess    bowling.Outcome `json:"strikeGuess,omitempty"`
	StrikeCorrect  bool            `json:"strikeCorrect"`
	RevealedAnswer bowling.Outcome `json:"revealedAnswer,omitempty"`
	StandingPins   bowling.PinSet  `json:"standingPins"`
	PinsGuess      bowling.PinSet  `json:"pinsGuess"`
	PinsScore      int             `json:"pinsScore"`
	Score          int             `json:"score"`
	Submitting     bool            `json:"submitting"`
	Loading        bool            `json:"loading"`
	RevealWatched  bool            `json:"revealWatched"`
	Error          string          `json:"error,omitempty"`
	Controls       Controls        `json:"controls"`
}

// snapshot copies state. Caller holds mu.
func (s *Session) snapshot() Snapshot {
	snap := Snapshot{
		ID:             s.id,
		Date:           s.challenge.Date,
		Phase:          s.phase,
		VideoPhase:     s.videoPhase,
		StrikeGuess:    s.strikeGuess,
		StrikeCorrect:  s.strikeCorrect,
		RevealedAnswer: s.answer,
		StandingPins:   s.standing,
		PinsGuess:      s.pinsGuess,
		PinsScore:      s.pinsScore,
		Score:          s.score,
		Submitting:     s.submitting,
		Loading:        !s.initialWatched,
		RevealWatched:  s.revealWatched,
		Controls: Controls{
			Guess: s.phase == PhaseGuess && s.initialWatched && !s.submitting,
			Pins:  s.phase == PhasePins && !s.submitting,
		},
	}
	if s.lastErr != nil {
		snap.Error = s.lastErr.Error()
	}
	return snap
}

// Watch returns a channel of snapshots published after every change and a
// func that stops the feed. A slow reader skips intermediate states but
// always receives the most recent one.
func (s *Session) Watch() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 8)

	s.mu.Lock()
	s.watchers[ch] = struct{}{}
	ch <- s.snapshot()
	s.mu.Unlock()

	var once bool
	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if once {
			return
		}
		once = true
		delete(s.watchers, ch)
		close(ch)
	}
}

// publish fans the current state out to watchers. Caller holds mu.
func (s *Session) publish() {
	if len(s.watchers) == 0 {
		return
	}
	snap := s.snapshot()
	for ch := range s.watchers {
		select {
		case ch <- snap:
			continue
		default:
		}
		// Full: drop the oldest so the newest state still lands.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}
