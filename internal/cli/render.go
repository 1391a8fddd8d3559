package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/playperu/bowlingdle/internal/bowling"
	"github.com/playperu/bowlingdle/internal/scoring"
	"github.com/playperu/bowlingdle/internal/session"
)

// pinMark is how one pin is drawn on the result deck.
type pinMark int

const (
	markDown  pinMark = iota // knocked down, not guessed
	markHit                  // standing and guessed
	markMiss                 // standing, not guessed
	markWrong                // guessed but knocked down
)

func markOf(p bowling.Pin, standing, guessed bowling.PinSet) pinMark {
	switch {
	case standing.Has(p) && guessed.Has(p):
		return markHit
	case standing.Has(p):
		return markMiss
	case guessed.Has(p):
		return markWrong
	default:
		return markDown
	}
}

// renderRack draws the pins in their triangle, back row first, with each
// pin styled by style.
func renderRack(style func(bowling.Pin) lipgloss.Style) string {
	width := len(bowling.Rack[0])*4 - 1
	rows := make([]string, 0, len(bowling.Rack))
	for _, row := range bowling.Rack {
		cells := make([]string, 0, len(row))
		for _, p := range row {
			cells = append(cells, style(p).Render(fmt.Sprintf("%2d", p)))
		}
		rows = append(rows, lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(cells, "  ")))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderPicker is the deck shown while the player picks standing pins.
func (st styles) renderPicker() string {
	return renderRack(func(bowling.Pin) lipgloss.Style { return st.pinOpen })
}

// renderDeck is the result deck: guessed standing pins, missed standing
// pins, wrong guesses and fallen pins each get their own color.
func (st styles) renderDeck(standing, guessed bowling.PinSet) string {
	deck := renderRack(func(p bowling.Pin) lipgloss.Style {
		switch markOf(p, standing, guessed) {
		case markHit:
			return st.pinHit
		case markMiss:
			return st.pinMiss
		case markWrong:
			return st.pinWrong
		default:
			return st.pinDown
		}
	})
	legend := strings.Join([]string{
		st.pinHit.Render("correct"),
		st.pinMiss.Render("missed"),
		st.pinWrong.Render("wrong"),
		st.pinDown.Render("down"),
	}, "  ")
	return lipgloss.JoinVertical(lipgloss.Left, deck, "", legend)
}

func (st styles) renderChallenge(ch bowling.Challenge) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		st.title.Render("Bowlingdle "+ch.Date),
		st.faint.Render(fmt.Sprintf("Video %s, approach %.1fs to %.1fs", ch.VideoID, ch.StartTime, ch.FreezeTime)),
	)
}

func (st styles) renderVerdict(snap session.Snapshot) string {
	call := st.bad.Render("Wrong call.")
	if snap.StrikeCorrect {
		call = st.good.Render("Correct!")
	}
	answer := "It was a strike."
	if snap.RevealedAnswer == bowling.OutcomeNotStrike {
		answer = "It was not a strike."
	}
	return call + " " + st.detail.Render(answer)
}

func (st styles) renderFinal(snap session.Snapshot) string {
	lines := []string{}
	if snap.RevealedAnswer == bowling.OutcomeNotStrike {
		lines = append(lines,
			st.renderDeck(snap.StandingPins, snap.PinsGuess),
			"",
			st.detail.Render(fmt.Sprintf("Pins: %d/%d correct", snap.PinsScore, snap.StandingPins.Len())),
		)
	}
	lines = append(lines, st.score.Render(fmt.Sprintf("Final Score: %d/%d", snap.Score, scoring.MaxScore)))
	return st.section.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
