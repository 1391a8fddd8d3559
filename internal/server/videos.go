package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
)

// handleVideos serves delivery clips from dir. http.ServeFile answers range
// requests, which media elements need for seeking.
func handleVideos(dir string) http.HandlerFunc {
	root := filepath.Clean(dir)

	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "*")
		path := filepath.Join(root, filepath.Clean("/"+name))
		if !strings.HasPrefix(path, root+string(filepath.Separator)) {
			writeError(w, http.StatusNotFound, "video not found")
			return
		}

		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			writeError(w, http.StatusNotFound, "video not found")
			return
		}
		http.ServeFile(w, r, path)
	}
}

// videoSource is the path a client plays for videoID.
func videoSource(videoID string) string {
	if videoID == "" {
		return ""
	}
	return "/videos/" + videoID + ".mp4"
}
