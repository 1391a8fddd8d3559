package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/playperu/bowlingdle/internal/bowling"
)

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore expects the schema from internal/migrations.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Challenge(ctx context.Context, date string) (bowling.Record, error) {
	var (
		rec    bowling.Record
		answer string
		pins   string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT date, video_id, start_time, freeze_time, end_time, answer, standing_pins
		FROM daily_challenges
		WHERE date = ?
	`, date).Scan(&rec.Date, &rec.VideoID, &rec.StartTime, &rec.FreezeTime, &rec.EndTime, &answer, &pins)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, bowling.ErrNotFound
	}
	if err != nil {
		return rec, fmt.Errorf("querying challenge %s: %w", date, err)
	}

	rec.Answer = bowling.Outcome(answer)
	if err := json.Unmarshal([]byte(pins), &rec.StandingPins); err != nil {
		return rec, fmt.Errorf("decoding standing pins for %s: %w", date, err)
	}
	return rec, nil
}

// PutChallenge inserts or replaces the challenge for rec.Date.
func (s *SQLiteStore) PutChallenge(ctx context.Context, rec bowling.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	pins, err := json.Marshal(rec.StandingPins)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO daily_challenges (date, video_id, start_time, freeze_time, end_time, answer, standing_pins)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			video_id = excluded.video_id,
			start_time = excluded.start_time,
			freeze_time = excluded.freeze_time,
			end_time = excluded.end_time,
			answer = excluded.answer,
			standing_pins = excluded.standing_pins
	`, rec.Date, rec.VideoID, rec.StartTime, rec.FreezeTime, rec.EndTime, string(rec.Answer), string(pins))
	if err != nil {
		return fmt.Errorf("saving challenge %s: %w", rec.Date, err)
	}
	return nil
}
