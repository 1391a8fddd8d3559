// Package session runs one day's game for one viewer: a strike guess
// checked by the challenge provider, an optional standing-pins guess, and
// the score that results. It drives the video controller into the reveal
// once the answer is known.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/playperu/bowlingdle/internal/bowling"
	"github.com/playperu/bowlingdle/internal/scoring"
	"github.com/playperu/bowlingdle/internal/video"
)

var (
	ErrInvalidTransition  = errors.New("invalid session transition")
	ErrSubmissionInFlight = errors.New("a submission is already in flight")
)

// Provider supplies the daily challenge and judges strike guesses.
type Provider interface {
	Today(ctx context.Context) (bowling.Challenge, error)
	Verify(ctx context.Context, date string, guess bowling.Outcome) (bowling.Verdict, error)
}

// Video is the part of the video controller a session drives.
type Video interface {
	Enter(video.Phase) error
	Completions() <-chan video.Phase
}

// AttachFunc binds playback to a freshly loaded challenge.
type AttachFunc func(bowling.Challenge) (Video, error)

type Session struct {
	id        string
	challenge bowling.Challenge
	provider  Provider
	video     Video
	logger    *slog.Logger

	mu             sync.Mutex
	phase          Phase
	videoPhase     video.Phase
	strikeGuess    bowling.Outcome
	strikeCorrect  bool
	revealed       bool
	answer         bowling.Outcome
	standing       bowling.PinSet
	pinsGuess      bowling.PinSet
	pinsScore      int
	score          int
	submitting     bool
	initialWatched bool
	revealWatched  bool
	lastErr        error
	watchers       map[chan Snapshot]struct{}
}

type Option func(*Session)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Open fetches today's challenge from p, attaches playback and starts a
// session. It returns bowling.ErrNotFound when there is no challenge today.
func Open(ctx context.Context, p Provider, attach AttachFunc, opts ...Option) (*Session, error) {
	ch, err := p.Today(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading today's challenge: %w", err)
	}
	v, err := attach(ch)
	if err != nil {
		return nil, fmt.Errorf("attaching video: %w", err)
	}
	return New(ch, p, v, opts...)
}

// New starts a session in the guess phase with playback cued to the start
// of the approach.
func New(ch bowling.Challenge, p Provider, v Video, opts ...Option) (*Session, error) {
	if err := ch.Validate(); err != nil {
		return nil, err
	}
	if p == nil || v == nil {
		return nil, errors.New("session needs a provider and a video")
	}

	s := &Session{
		id:        uuid.NewString(),
		challenge: ch,
		provider:  p,
		video:     v,
		logger:    slog.Default(),
		phase:     PhaseGuess,
		watchers:  make(map[chan Snapshot]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("session_id", s.id, "date", ch.Date)

	if err := v.Enter(video.PhaseInitial); err != nil {
		return nil, fmt.Errorf("cueing initial phase: %w", err)
	}
	s.videoPhase = video.PhaseInitial

	s.logger.Info("session started")
	return s, nil
}

func (s *Session) ID() string { return s.id }

func (s *Session) Challenge() bowling.Challenge { return s.challenge }

// Run records phase completions from the video until ctx ends or the
// controller is closed.
func (s *Session) Run(ctx context.Context) error {
	done := s.video.Completions()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case p, ok := <-done:
			if !ok {
				return nil
			}
			s.watched(p)
		}
	}
}

// SubmitStrikeGuess asks the provider to judge guess. On success the
// answer and standing pins are revealed, the strike component is scored
// and the reveal starts playing. On failure the session stays in the
// guess phase and the error is kept for display; resubmitting is up to
// the caller.
func (s *Session) SubmitStrikeGuess(ctx context.Context, guess bowling.Outcome) (Snapshot, error) {
	if !guess.Valid() {
		return s.reject(fmt.Errorf("%w: guess must be %q or %q", bowling.ErrValidation, bowling.OutcomeStrike, bowling.OutcomeNotStrike))
	}

	s.mu.Lock()
	if err := s.admit(evStrikeVerified); err != nil {
		s.mu.Unlock()
		return s.reject(err)
	}
	s.submitting = true
	s.lastErr = nil
	s.publish()
	s.mu.Unlock()

	verdict, err := s.provider.Verify(ctx, s.challenge.Date, guess)
	if err == nil {
		err = verdict.Validate()
	}

	s.mu.Lock()
	s.submitting = false
	if err != nil {
		s.lastErr = err
		s.publish()
		snap := s.snapshot()
		s.mu.Unlock()
		s.logger.Warn("strike guess failed", "guess", guess, "error", err)
		return snap, fmt.Errorf("verifying guess: %w", err)
	}

	next, err := transition(s.phase, evStrikeVerified, verdict.Answer)
	if err != nil {
		s.lastErr = err
		s.publish()
		snap := s.snapshot()
		s.mu.Unlock()
		return snap, err
	}

	standing := verdict.StandingPins
	if verdict.Answer == bowling.OutcomeStrike {
		standing = 0
	}
	s.strikeGuess = guess
	s.strikeCorrect = verdict.Correct
	s.revealed = true
	s.answer = verdict.Answer
	s.standing = standing
	s.score = scoring.Strike(verdict.Correct)
	s.phase = next
	s.lastErr = nil

	// The verdict stands even if the reveal cannot play; the failure is
	// kept for display and videoPhase only moves once playback has.
	revealErr := s.video.Enter(video.PhaseReveal)
	if revealErr != nil {
		s.lastErr = fmt.Errorf("starting reveal: %w", revealErr)
	} else {
		s.videoPhase = video.PhaseReveal
	}
	s.publish()
	snap := s.snapshot()
	s.mu.Unlock()

	s.logger.Info("strike guess scored",
		"guess", guess, "answer", verdict.Answer, "correct", verdict.Correct,
		"phase", next, "score", snap.Score)
	if revealErr != nil {
		s.logger.Warn("starting reveal", "error", revealErr)
	}
	return snap, nil
}

// SubmitPinsGuess scores the standing-pins guess and completes the
// session.
func (s *Session) SubmitPinsGuess(pins bowling.PinSet) (Snapshot, error) {
	if !pins.Valid() {
		return s.reject(fmt.Errorf("%w: pins must be numbered 1-10", bowling.ErrValidation))
	}

	s.mu.Lock()
	if err := s.admit(evPinsSubmitted); err != nil {
		s.mu.Unlock()
		return s.reject(err)
	}
	if !s.revealed {
		s.mu.Unlock()
		return s.reject(fmt.Errorf("%w: standing pins not revealed", ErrInvalidTransition))
	}

	next, err := transition(s.phase, evPinsSubmitted, s.answer)
	if err != nil {
		s.mu.Unlock()
		return s.reject(err)
	}

	s.pinsGuess = pins
	s.pinsScore = scoring.CorrectPins(s.standing, pins)
	s.score += scoring.Pins(s.answer, s.standing, pins)
	s.phase = next
	s.lastErr = nil
	s.publish()
	snap := s.snapshot()
	s.mu.Unlock()

	s.logger.Info("pins guess scored",
		"pins", pins.String(), "standing", snap.StandingPins.String(),
		"pins_score", snap.PinsScore, "score", snap.Score)
	return snap, nil
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// admit checks that e may start now. Caller holds mu.
func (s *Session) admit(e event) error {
	if s.submitting {
		return ErrSubmissionInFlight
	}
	if !s.phase.accepts(e) {
		return fmt.Errorf("%w: %s not allowed in %s phase", ErrInvalidTransition, e, s.phase)
	}
	return nil
}

// reject records err for display without changing the game state. A
// complete session is frozen, so there err is only returned.
func (s *Session) reject(err error) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseComplete {
		return s.snapshot(), err
	}
	s.lastErr = err
	s.publish()
	return s.snapshot(), err
}

func (s *Session) watched(p video.Phase) {
	s.mu.Lock()
	switch p {
	case video.PhaseInitial:
		s.initialWatched = true
	case video.PhaseReveal:
		s.revealWatched = true
	}
	s.publish()
	s.mu.Unlock()

	s.logger.Debug("video phase watched", "video_phase", p)
}
