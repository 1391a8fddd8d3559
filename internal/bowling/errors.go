package bowling

import "errors"

var (
	ErrNotFound   = errors.New("no challenge for this date")
	ErrValidation = errors.New("invalid input")
	ErrTransport  = errors.New("challenge provider unavailable")
)
