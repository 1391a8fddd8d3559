package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/playperu/bowlingdle/internal/bowling"
)

// SeedDemo stores a demo challenge for today's date if there is none.
// Idempotent: an existing challenge is left untouched.
func SeedDemo(ctx context.Context, logger *slog.Logger, store Store, now time.Time) error {
	today := bowling.Today(now)

	_, err := store.Challenge(ctx, today)
	if err == nil {
		return nil
	}
	if !errors.Is(err, bowling.ErrNotFound) {
		return err
	}

	if err := store.PutChallenge(ctx, demoChallenge(today)); err != nil {
		return err
	}
	logger.Info("demo challenge seeded", "date", today)
	return nil
}

// demoChallenge leaves a 7-10 split standing.
func demoChallenge(date string) bowling.Record {
	return bowling.Record{
		Challenge: bowling.Challenge{
			Date:       date,
			VideoID:    "demo-lane",
			StartTime:  0,
			FreezeTime: 4.2,
			EndTime:    6.0,
		},
		Answer:       bowling.OutcomeNotStrike,
		StandingPins: bowling.MustPinSet(7, 10),
	}
}
