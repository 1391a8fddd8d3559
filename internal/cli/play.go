package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/playperu/bowlingdle/internal/bowling"
	"github.com/playperu/bowlingdle/internal/config"
	"github.com/playperu/bowlingdle/internal/provider"
	"github.com/playperu/bowlingdle/internal/session"
	"github.com/playperu/bowlingdle/internal/video"
)

func newPlayCmd() *cobra.Command {
	var (
		providerURL string
		speed       float64
		interval    time.Duration
		timeout     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play today's challenge",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadPlay()
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("provider") {
				cfg.ProviderURL = providerURL
			}
			if flags.Changed("speed") {
				cfg.PlaybackSpeed = speed
			}
			if flags.Changed("interval") {
				cfg.PollInterval = interval
			}
			if flags.Changed("timeout") {
				cfg.RequestTimeout = timeout
			}

			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: cfg.LogLevel,
			}))

			err = play(cmd.Context(), cfg, cmd.InOrStdin(), cmd.OutOrStdout(), logger)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&providerURL, "provider", "", "challenge provider base URL (default $PROVIDER_URL)")
	cmd.Flags().Float64Var(&speed, "speed", 0, "playback speed multiplier (default $PLAYBACK_SPEED)")
	cmd.Flags().DurationVar(&interval, "interval", 0, "playback sampling interval (default $POLL_INTERVAL)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "provider request timeout (default $REQUEST_TIMEOUT)")

	return cmd
}

// play runs one game against cfg.ProviderURL, reading answers from in.
func play(ctx context.Context, cfg *config.PlayConfig, in io.Reader, out io.Writer, logger *slog.Logger) error {
	if cfg.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", cfg.PollInterval)
	}
	if cfg.PlaybackSpeed <= 0 {
		return fmt.Errorf("playback speed must be positive, got %g", cfg.PlaybackSpeed)
	}
	st := newStyles()

	client := provider.NewClient(cfg.ProviderURL,
		provider.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}),
		provider.WithLogger(logger),
	)

	var ctrl *video.Controller
	attach := func(ch bowling.Challenge) (session.Video, error) {
		player := video.NewSimPlayer(ch.EndTime, video.WithSpeed(cfg.PlaybackSpeed))
		c, err := video.NewController(player, video.WindowOf(ch),
			video.WithInterval(cfg.PollInterval),
			video.WithLogger(logger),
		)
		if err != nil {
			return nil, err
		}
		ctrl = c
		return c, nil
	}

	sess, err := session.Open(ctx, client, attach, session.WithLogger(logger))
	if ctrl != nil {
		defer ctrl.Close()
	}
	if errors.Is(err, bowling.ErrNotFound) {
		fmt.Fprintln(out, st.warning.Render("No challenge available for today"))
		return nil
	}
	if err != nil {
		return err
	}

	feed, stop := sess.Watch()
	defer stop()

	g := &game{
		cfg:   cfg,
		out:   out,
		st:    st,
		lines: readLines(in),
		sess:  sess,
		ctrl:  ctrl,
		feed:  feed,
	}

	eg, egctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return sess.Run(egctx)
	})
	eg.Go(func() error {
		defer ctrl.Close()
		return g.play(egctx)
	})
	return eg.Wait()
}
