// Package provider is the HTTP client for the challenge provider API.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/playperu/bowlingdle/internal/bowling"
)

const (
	todayPath  = "/api/challenge/today"
	verifyPath = "/api/challenge/verify"
)

// VerifyRequest is the body of a verify call.
type VerifyRequest struct {
	Guess string `json:"guess"`
	Date  string `json:"date"`
}

// ErrorResponse is the provider's error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Today fetches the current challenge. The response never carries the
// answer.
func (c *Client) Today(ctx context.Context) (bowling.Challenge, error) {
	var ch bowling.Challenge
	if err := c.do(ctx, http.MethodGet, todayPath, nil, &ch); err != nil {
		return bowling.Challenge{}, err
	}
	if err := ch.Validate(); err != nil {
		return bowling.Challenge{}, fmt.Errorf("%w: malformed challenge: %v", bowling.ErrTransport, err)
	}
	return ch, nil
}

// Verify submits guess for the challenge on date. Missing input is
// rejected before any request is made.
func (c *Client) Verify(ctx context.Context, date string, guess bowling.Outcome) (bowling.Verdict, error) {
	if date == "" || guess == "" {
		return bowling.Verdict{}, fmt.Errorf("%w: guess and date are required", bowling.ErrValidation)
	}
	if !guess.Valid() {
		return bowling.Verdict{}, fmt.Errorf("%w: unknown guess %q", bowling.ErrValidation, guess)
	}

	var v bowling.Verdict
	body := VerifyRequest{Guess: string(guess), Date: date}
	if err := c.do(ctx, http.MethodPost, verifyPath, body, &v); err != nil {
		return bowling.Verdict{}, err
	}
	return v, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		c.logger.Warn("provider request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("%w: %v", bowling.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding %s response: %v", bowling.ErrTransport, path, err)
	}
	return nil
}

// statusError maps a non-200 response onto the domain errors.
func statusError(resp *http.Response) error {
	msg := resp.Status
	var e ErrorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&e); err == nil && e.Error != "" {
		msg = e.Error
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", bowling.ErrNotFound, msg)
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", bowling.ErrValidation, msg)
	default:
		return fmt.Errorf("%w: status %d: %s", bowling.ErrTransport, resp.StatusCode, msg)
	}
}
