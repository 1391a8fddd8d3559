package server

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/playperu/bowlingdle/internal/handler/health"
)

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Bowlingdle API", "/openapi.json", "/docs"))
	r.Mount("/healthz", health.NewHandler(logger, deps.Checks).Routes())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handleHealth(deps.Now))
		r.Get("/challenge/today", handleToday(logger, deps.Store, deps.Now))
		r.Post("/challenge/verify", handleVerify(logger, deps.Store))
	})

	if deps.VideoDir != "" {
		if info, err := os.Stat(deps.VideoDir); err == nil && info.IsDir() {
			logger.Info("serving videos", "dir", deps.VideoDir)
			r.Get("/videos/*", handleVideos(deps.VideoDir))
		} else {
			logger.Warn("video dir not found, media will not be served", "dir", deps.VideoDir)
		}
	}
}
