package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/playperu/bowlingdle/internal/bowling"
)

type VerifyRequest struct {
	Guess string `json:"guess"`
	Date  string `json:"date"`
}

type NoChallengeResponse struct {
	Error string `json:"error"`
	Date  string `json:"date"`
}

// handleToday returns today's challenge without its answer.
func handleToday(logger *slog.Logger, store Store, now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		today := bowling.Today(now())

		rec, err := store.Challenge(r.Context(), today)
		if errors.Is(err, bowling.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, NoChallengeResponse{
				Error: "No challenge found for today",
				Date:  today,
			})
			return
		}
		if err != nil {
			logger.Error("loading today's challenge", "date", today, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		ch := rec.Public()
		ch.VideoSource = videoSource(ch.VideoID)
		writeJSON(w, http.StatusOK, ch)
	}
}

// handleVerify judges a strike guess and reveals the answer.
func handleVerify(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req VerifyRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.Guess = strings.TrimSpace(req.Guess)
		req.Date = strings.TrimSpace(req.Date)
		if req.Guess == "" || req.Date == "" {
			writeError(w, http.StatusBadRequest, "Guess and date are required")
			return
		}

		guess, err := bowling.ParseOutcome(req.Guess)
		if err != nil {
			writeError(w, http.StatusBadRequest, "guess must be strike or not_strike")
			return
		}

		rec, err := store.Challenge(r.Context(), req.Date)
		if errors.Is(err, bowling.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Challenge not found")
			return
		}
		if err != nil {
			logger.Error("loading challenge", "date", req.Date, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, rec.Judge(guess))
	}
}
