package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/playperu/bowlingdle/internal/bowling"
	"github.com/playperu/bowlingdle/internal/database"
	"github.com/playperu/bowlingdle/internal/handler/health"
	"github.com/playperu/bowlingdle/internal/migrations"
)

func fixedNow() time.Time {
	return time.Date(2026, 3, 2, 18, 30, 0, 0, time.UTC)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := database.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("opening db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := migrations.Run(db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}
	return NewSQLiteStore(db)
}

func newTestHandler(t *testing.T, now func() time.Time) (http.Handler, *SQLiteStore) {
	t.Helper()
	store := newTestStore(t)
	h := NewHandler(discardLogger(), Deps{
		Store:  store,
		Checks: map[string]health.Checker{},
		Now:    now,
	})
	return h, store
}

func splitRecord(date string) bowling.Record {
	return bowling.Record{
		Challenge: bowling.Challenge{
			Date:       date,
			VideoID:    "lane4-split",
			StartTime:  1.5,
			FreezeTime: 4.25,
			EndTime:    7,
		},
		Answer:       bowling.OutcomeNotStrike,
		StandingPins: bowling.MustPinSet(7, 10),
	}
}

func putRecord(t *testing.T, store Store, rec bowling.Record) {
	t.Helper()
	if err := store.PutChallenge(context.Background(), rec); err != nil {
		t.Fatalf("saving challenge: %v", err)
	}
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandleToday(t *testing.T) {
	h, store := newTestHandler(t, fixedNow)
	putRecord(t, store, splitRecord("2026-03-02"))

	rec := do(t, h, http.MethodGet, "/api/challenge/today", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body = %s", rec.Code, http.StatusOK, rec.Body)
	}

	var raw map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	for _, leaked := range []string{"answer", "standingPins"} {
		if _, ok := raw[leaked]; ok {
			t.Errorf("today response leaks %q", leaked)
		}
	}

	var got bowling.Challenge
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding challenge: %v", err)
	}
	want := bowling.Challenge{
		Date:        "2026-03-02",
		VideoID:     "lane4-split",
		VideoSource: "/videos/lane4-split.mp4",
		StartTime:   1.5,
		FreezeTime:  4.25,
		EndTime:     7,
	}
	if got != want {
		t.Errorf("challenge = %+v, want %+v", got, want)
	}
}

func TestHandleTodayUsesUTCDate(t *testing.T) {
	// 23:30 in UTC-5 is already the next day in UTC.
	local := time.FixedZone("EST", -5*60*60)
	now := func() time.Time { return time.Date(2026, 3, 1, 23, 30, 0, 0, local) }

	h, store := newTestHandler(t, now)
	putRecord(t, store, splitRecord("2026-03-02"))

	rec := do(t, h, http.MethodGet, "/api/challenge/today", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestHandleTodayMissing(t *testing.T) {
	h, _ := newTestHandler(t, fixedNow)

	rec := do(t, h, http.MethodGet, "/api/challenge/today", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}

	var body NoChallengeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Date != "2026-03-02" {
		t.Errorf("date = %q, want 2026-03-02", body.Date)
	}
	if body.Error == "" {
		t.Error("error message is empty")
	}
}

func TestHandleVerify(t *testing.T) {
	h, store := newTestHandler(t, fixedNow)
	putRecord(t, store, splitRecord("2026-03-02"))
	putRecord(t, store, bowling.Record{
		Challenge: bowling.Challenge{Date: "2026-03-03", VideoID: "pocket", StartTime: 0, FreezeTime: 3, EndTime: 5},
		Answer:    bowling.OutcomeStrike,
	})

	tests := []struct {
		name        string
		body        string
		wantCorrect bool
		wantAnswer  bowling.Outcome
		wantPins    []bowling.Pin
	}{
		{
			name:        "correct not strike",
			body:        `{"guess":"not_strike","date":"2026-03-02"}`,
			wantCorrect: true,
			wantAnswer:  bowling.OutcomeNotStrike,
			wantPins:    []bowling.Pin{7, 10},
		},
		{
			name:        "wrong guess still reveals",
			body:        `{"guess":"strike","date":"2026-03-02"}`,
			wantCorrect: false,
			wantAnswer:  bowling.OutcomeNotStrike,
			wantPins:    []bowling.Pin{7, 10},
		},
		{
			name:        "case insensitive",
			body:        `{"guess":"STRIKE","date":"2026-03-03"}`,
			wantCorrect: true,
			wantAnswer:  bowling.OutcomeStrike,
			wantPins:    []bowling.Pin{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/challenge/verify", tt.body)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d; body = %s", rec.Code, http.StatusOK, rec.Body)
			}

			var got VerifyResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("decoding body: %v", err)
			}
			if got.Correct != tt.wantCorrect {
				t.Errorf("correct = %v, want %v", got.Correct, tt.wantCorrect)
			}
			if got.Answer != string(tt.wantAnswer) {
				t.Errorf("answer = %q, want %q", got.Answer, tt.wantAnswer)
			}
			if len(got.StandingPins) != len(tt.wantPins) {
				t.Fatalf("standingPins = %v, want %v", got.StandingPins, tt.wantPins)
			}
			for i, p := range tt.wantPins {
				if got.StandingPins[i] != int(p) {
					t.Errorf("standingPins = %v, want %v", got.StandingPins, tt.wantPins)
				}
			}
		})
	}
}

func TestHandleVerifyErrors(t *testing.T) {
	h, store := newTestHandler(t, fixedNow)
	putRecord(t, store, splitRecord("2026-03-02"))

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"malformed json", `{"guess":`, http.StatusBadRequest},
		{"missing guess", `{"date":"2026-03-02"}`, http.StatusBadRequest},
		{"missing date", `{"guess":"strike"}`, http.StatusBadRequest},
		{"unknown guess", `{"guess":"spare","date":"2026-03-02"}`, http.StatusBadRequest},
		{"unknown date", `{"guess":"strike","date":"1999-01-01"}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/challenge/verify", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var body ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decoding body: %v", err)
			}
			if body.Error == "" {
				t.Error("error message is empty")
			}
		})
	}
}

func TestHandleHealth(t *testing.T) {
	h, _ := newTestHandler(t, fixedNow)

	rec := do(t, h, http.MethodGet, "/api/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body StatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Status != "OK" {
		t.Errorf("status = %q, want OK", body.Status)
	}
	if body.Timestamp != "2026-03-02T18:30:00Z" {
		t.Errorf("timestamp = %q", body.Timestamp)
	}
}

func TestHealthzMounted(t *testing.T) {
	h, _ := newTestHandler(t, fixedNow)

	rec := do(t, h, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestCORSPreflight(t *testing.T) {
	h, _ := newTestHandler(t, fixedNow)

	req := httptest.NewRequest(http.MethodOptions, "/api/challenge/verify", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK && rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 200 or 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("allow-origin = %q, want *", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, http.MethodPost) {
		t.Errorf("allow-methods = %q, want POST", got)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("preflight reached the handler: body = %s", rec.Body)
	}
}

func TestCORSOnSimpleRequest(t *testing.T) {
	h, _ := newTestHandler(t, fixedNow)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("allow-origin = %q, want *", got)
	}
}

func TestHandleVideos(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "videos")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "lane4.mp4"), []byte("not really mp4"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "secret.txt"), []byte("secret"), 0o644); err != nil {
		t.Fatal(err)
	}

	h := NewHandler(discardLogger(), Deps{Store: newTestStore(t), VideoDir: dir, Now: fixedNow})

	rec := do(t, h, http.MethodGet, "/videos/lane4.mp4", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec.Body.String() != "not really mp4" {
		t.Errorf("body = %q", rec.Body)
	}

	for _, path := range []string{"/videos/missing.mp4", "/videos/../secret.txt"} {
		rec := do(t, h, http.MethodGet, path, "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("GET %s status = %d, want %d", path, rec.Code, http.StatusNotFound)
		}
	}
}

func TestVideoSource(t *testing.T) {
	if got := videoSource("lane4"); got != "/videos/lane4.mp4" {
		t.Errorf("videoSource = %q", got)
	}
	if got := videoSource(""); got != "" {
		t.Errorf("videoSource(\"\") = %q, want empty", got)
	}
}
