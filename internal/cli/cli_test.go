package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playperu/bowlingdle/internal/bowling"
	"github.com/playperu/bowlingdle/internal/database"
	"github.com/playperu/bowlingdle/internal/migrations"
	"github.com/playperu/bowlingdle/internal/server"
)

var gameDay = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

func splitChallenge() *bowling.Record {
	return &bowling.Record{
		Challenge: bowling.Challenge{
			Date:       bowling.Today(gameDay),
			VideoID:    "lane4-split",
			StartTime:  0,
			FreezeTime: 2,
			EndTime:    4,
		},
		Answer:       bowling.OutcomeNotStrike,
		StandingPins: bowling.MustPinSet(7, 10),
	}
}

func strikeChallenge() *bowling.Record {
	return &bowling.Record{
		Challenge: bowling.Challenge{
			Date:       bowling.Today(gameDay),
			VideoID:    "pocket",
			StartTime:  1,
			FreezeTime: 3,
			EndTime:    5,
		},
		Answer: bowling.OutcomeStrike,
	}
}

// newProvider serves the real provider API with rec as today's challenge,
// or no challenge when rec is nil.
func newProvider(t *testing.T, rec *bowling.Record) string {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.Run(db))

	store := server.NewSQLiteStore(db)
	if rec != nil {
		require.NoError(t, store.PutChallenge(ctx, *rec))
	}

	srv := httptest.NewServer(server.NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), server.Deps{
		Store: store,
		Now:   func() time.Time { return gameDay },
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func executeCLI(t *testing.T, input string, args ...string) (string, string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("LOG_LEVEL", "ERROR")

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetIn(strings.NewReader(input))
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func playArgs(url string) []string {
	return []string{"play", "--provider", url, "--speed", "100", "--interval", "1ms"}
}

func TestVersion(t *testing.T) {
	stdout, _, err := executeCLI(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, Version+"\n", stdout)
}

func TestPlay(t *testing.T) {
	tests := []struct {
		name      string
		challenge *bowling.Record
		input     string
		want      []string
		wantNot   []string
	}{
		{
			name:      "perfect game",
			challenge: splitChallenge(),
			input:     "\nn\n7 10\n",
			want:      []string{"Bowlingdle 2026-03-02", "Correct!", "Pins: 2/2 correct", "Final Score: 100/100"},
		},
		{
			name:      "wrong call still plays pins",
			challenge: splitChallenge(),
			input:     "\ns\n7\n",
			want:      []string{"Wrong call.", "It was not a strike.", "Pins: 1/2 correct", "Final Score: 25/100"},
		},
		{
			name:      "strike called",
			challenge: strikeChallenge(),
			input:     "\ns\n",
			want:      []string{"Correct!", "It was a strike.", "Final Score: 50/100"},
			wantNot:   []string{"Which pins", "Pins:"},
		},
		{
			name:      "strike missed",
			challenge: strikeChallenge(),
			input:     "\nnot strike\n",
			want:      []string{"Wrong call.", "Final Score: 0/100"},
			wantNot:   []string{"Which pins"},
		},
		{
			name:      "replay before calling",
			challenge: strikeChallenge(),
			input:     "\nr\nS\n",
			want:      []string{"Replaying...", "Final Score: 50/100"},
		},
		{
			name:      "bad input is asked again",
			challenge: splitChallenge(),
			input:     "\nmaybe\nn\n11\nseven\n\n",
			want:      []string{"Type s, n or r.", "Pins are numbered 1 to 10.", "Pins: 0/2 correct", "Final Score: 50/100"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url := newProvider(t, tt.challenge)

			stdout, _, err := executeCLI(t, tt.input, playArgs(url)...)
			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, stdout, want)
			}
			for _, not := range tt.wantNot {
				assert.NotContains(t, stdout, not)
			}
		})
	}
}

func TestPlayWithoutChallenge(t *testing.T) {
	url := newProvider(t, nil)

	stdout, _, err := executeCLI(t, "", playArgs(url)...)
	require.NoError(t, err)
	assert.Contains(t, stdout, "No challenge available for today")
}

func TestPlayInputClosed(t *testing.T) {
	url := newProvider(t, splitChallenge())

	_, _, err := executeCLI(t, "\n", playArgs(url)...)
	require.ErrorIs(t, err, errInputClosed)
}

func TestPlayProviderDown(t *testing.T) {
	srv := httptest.NewServer(nil)
	url := srv.URL
	srv.Close()

	_, _, err := executeCLI(t, "", playArgs(url)...)
	require.ErrorIs(t, err, bowling.ErrTransport)
}

func TestPlayRejectsBadSpeed(t *testing.T) {
	_, _, err := executeCLI(t, "", "play", "--provider", "http://localhost:1", "--speed", "-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "playback speed")
}

func TestMarkOf(t *testing.T) {
	standing := bowling.MustPinSet(7, 10)
	guessed := bowling.MustPinSet(7, 8)

	tests := []struct {
		pin  bowling.Pin
		want pinMark
	}{
		{7, markHit},
		{10, markMiss},
		{8, markWrong},
		{1, markDown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, markOf(tt.pin, standing, guessed), "pin %d", tt.pin)
	}
}

func TestRenderDeckShowsRack(t *testing.T) {
	deck := newStyles().renderDeck(bowling.MustPinSet(7, 10), bowling.MustPinSet(7))
	lines := strings.Split(deck, "\n")
	require.GreaterOrEqual(t, len(lines), 4)

	assert.Contains(t, lines[0], "7")
	assert.Contains(t, lines[0], "10")
	assert.Contains(t, lines[3], "1")
	assert.Contains(t, deck, "missed")
}
