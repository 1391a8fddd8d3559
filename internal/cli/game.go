package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/playperu/bowlingdle/internal/bowling"
	"github.com/playperu/bowlingdle/internal/config"
	"github.com/playperu/bowlingdle/internal/session"
	"github.com/playperu/bowlingdle/internal/video"
)

// errInputClosed ends a game whose input ran out before it finished.
var errInputClosed = errors.New("input closed before the game finished")

// playbackSlack is added to every bounded wait on playback.
const playbackSlack = 2 * time.Second

// game is one interactive run of a session in the terminal.
type game struct {
	cfg   *config.PlayConfig
	out   io.Writer
	st    styles
	lines <-chan string
	sess  *session.Session
	ctrl  *video.Controller
	feed  <-chan session.Snapshot
}

func (g *game) play(ctx context.Context) error {
	ch := g.sess.Challenge()
	g.println(g.st.renderChallenge(ch))

	if _, err := g.ask(ctx, "Press Enter to roll"); err != nil {
		return err
	}
	if err := g.ctrl.Play(); err != nil {
		return err
	}
	g.println(g.st.faint.Render("Rolling..."))

	watched, err := g.waitFor(ctx, func(s session.Snapshot) bool { return !s.Loading }, g.segment(ch.StartTime, ch.FreezeTime))
	if err != nil {
		return err
	}
	if !watched {
		g.println(g.st.warning.Render("Playback stalled. Make your call anyway."))
	}

	snap, err := g.guessStrike(ctx)
	if err != nil {
		return err
	}
	g.println(g.st.renderVerdict(snap))

	if snap.Phase == session.PhasePins {
		if _, err := g.guessPins(ctx); err != nil {
			return err
		}
	}

	revealed, err := g.waitFor(ctx, func(s session.Snapshot) bool { return s.RevealWatched }, g.segment(ch.FreezeTime, ch.EndTime))
	if err != nil {
		return err
	}
	if !revealed {
		g.println(g.st.faint.Render("Reveal did not finish playing."))
	}

	g.println(g.st.renderFinal(g.sess.Snapshot()))
	return nil
}

func (g *game) guessStrike(ctx context.Context) (session.Snapshot, error) {
	for {
		line, err := g.ask(ctx, "Strike? [s]trike / [n]ot strike / [r]eplay")
		if err != nil {
			return session.Snapshot{}, err
		}

		var guess bowling.Outcome
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "r", "replay":
			if err := g.replay(ctx); err != nil {
				return session.Snapshot{}, err
			}
			continue
		case "s", "strike":
			guess = bowling.OutcomeStrike
		case "n", "not", "not strike", "not_strike":
			guess = bowling.OutcomeNotStrike
		default:
			g.println(g.st.warning.Render("Type s, n or r."))
			continue
		}

		snap, err := g.sess.SubmitStrikeGuess(ctx, guess)
		if err == nil {
			return snap, nil
		}
		if ctx.Err() != nil {
			return snap, ctx.Err()
		}
		g.println(g.st.bad.Render("Could not check your call: " + err.Error()))
	}
}

func (g *game) guessPins(ctx context.Context) (session.Snapshot, error) {
	g.println(g.st.section.Render(g.st.detail.Render("Which pins are still standing?")))
	g.println(g.st.renderPicker())

	for {
		line, err := g.ask(ctx, "Pins (e.g. 7 10, blank for none)")
		if err != nil {
			return session.Snapshot{}, err
		}
		pins, err := bowling.ParsePins(line)
		if err != nil {
			g.println(g.st.warning.Render("Pins are numbered 1 to 10."))
			continue
		}
		snap, err := g.sess.SubmitPinsGuess(pins)
		if err != nil {
			g.println(g.st.bad.Render(err.Error()))
			continue
		}
		return snap, nil
	}
}

// replay plays the approach again. Its completion was already recorded,
// so this waits on the controller rather than the session.
func (g *game) replay(ctx context.Context) error {
	if err := g.ctrl.Replay(); err != nil {
		return err
	}
	if err := g.ctrl.Play(); err != nil {
		return err
	}
	g.println(g.st.faint.Render("Replaying..."))

	ch := g.sess.Challenge()
	deadline := time.NewTimer(g.segment(ch.StartTime, ch.FreezeTime))
	defer deadline.Stop()
	ticker := time.NewTicker(g.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return nil
		case <-ticker.C:
			if st := g.ctrl.State(); !st.Playing || st.Stalled {
				return nil
			}
		}
	}
}

// waitFor blocks until done holds for a published snapshot, limit passes
// or ctx ends. It reports whether done was met.
func (g *game) waitFor(ctx context.Context, done func(session.Snapshot) bool, limit time.Duration) (bool, error) {
	if done(g.sess.Snapshot()) {
		return true, nil
	}
	timer := time.NewTimer(limit)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-timer.C:
			return false, nil
		case snap, ok := <-g.feed:
			if !ok {
				return false, nil
			}
			if done(snap) {
				return true, nil
			}
		}
	}
}

// segment is the wall time needed to play media seconds from..to.
func (g *game) segment(from, to float64) time.Duration {
	media := time.Duration((to - from) / g.cfg.PlaybackSpeed * float64(time.Second))
	return media + 4*g.cfg.PollInterval + playbackSlack
}

func (g *game) ask(ctx context.Context, prompt string) (string, error) {
	fmt.Fprint(g.out, g.st.prompt.Render(prompt)+": ")
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-g.lines:
		if !ok {
			fmt.Fprintln(g.out)
			return "", errInputClosed
		}
		return line, nil
	}
}

func (g *game) println(s string) {
	fmt.Fprintln(g.out, s)
}

// readLines feeds lines from r until EOF. Reads cannot be interrupted, so
// the reader goroutine outlives a cancelled game.
func readLines(r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()
	return lines
}
