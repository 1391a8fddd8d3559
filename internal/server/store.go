package server

import (
	"context"

	"github.com/playperu/bowlingdle/internal/bowling"
)

// Store holds one challenge per calendar day. Challenge returns
// bowling.ErrNotFound for a day without one.
type Store interface {
	Challenge(ctx context.Context, date string) (bowling.Record, error)
	PutChallenge(ctx context.Context, rec bowling.Record) error
}
