package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mgpai22/cueline/internal/metrics"
	"github.com/mgpai22/cueline/internal/subtitle"
)

// uploads larger than this are rejected on import
const maxImportBytes = 10 << 20

func NewRouter(cfg ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))
	r.Use(MetricsMiddleware())

	r.Get("/health", healthHandler(cfg))
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/captions", listCaptionsHandler(cfg))
		r.Post("/captions", addCaptionHandler(cfg))
		r.Delete("/captions", clearCaptionsHandler(cfg))
		r.Patch("/captions/{index}", editCaptionHandler(cfg))
		r.Delete("/captions/{index}", deleteCaptionHandler(cfg))

		r.Get("/export", exportHandler(cfg))
		r.Post("/import", importHandler(cfg))

		r.Get("/playback", playbackStateHandler(cfg))
		r.Post("/playback/progress", progressHandler(cfg))
		r.Post("/playback/{command}", transportHandler(cfg))
		r.Post("/playback/seek", seekHandler(cfg))
		r.Post("/playback/volume", volumeHandler(cfg))
		r.Post("/playback/zoom", zoomHandler(cfg))

		r.Group(func(r chi.Router) {
			r.Use(LoopbackGuard())

			r.Post("/media", loadMediaHandler(cfg))
			r.Get("/media", mediaInfoHandler(cfg))
			r.Get("/media/stream", streamMediaHandler(cfg))
			r.Head("/media/stream", streamMediaHandler(cfg))
		})
	})

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uptime := int64(time.Since(cfg.StartTime).Seconds())
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Version: cfg.Version,
			UptimeS: uptime,
		})
	}
}

func listCaptionsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, CaptionsResponse{View: cfg.Session.View()})
	}
}

func addCaptionHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AddCaptionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		idx, err := cfg.Session.Add(req.Text, req.Time)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, CaptionsResponse{View: cfg.Session.View(), Index: &idx})
	}
}

func captionIndex(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "index")
	idx, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid caption index %q", raw)
	}
	return idx, nil
}

func editCaptionHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idx, err := captionIndex(r)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}

		var req EditCaptionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		value, err := req.StringValue()
		if err != nil {
			writeServiceError(w, err)
			return
		}

		if err := cfg.Session.Edit(idx, req.Field, value); err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, CaptionsResponse{View: cfg.Session.View(), Index: &idx})
	}
}

func deleteCaptionHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idx, err := captionIndex(r)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}
		if err := cfg.Session.Delete(idx); err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, CaptionsResponse{View: cfg.Session.View()})
	}
}

func clearCaptionsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg.Session.Clear()
		WriteJSON(w, http.StatusOK, CaptionsResponse{View: cfg.Session.View()})
	}
}

// empty format selects the session default
func queryFormat(r *http.Request) (subtitle.Format, error) {
	raw := r.URL.Query().Get("format")
	if raw == "" {
		if name := r.URL.Query().Get("filename"); name != "" {
			return subtitle.FormatFromPath(name)
		}
		return "", nil
	}
	return subtitle.ParseFormat(raw)
}

func exportHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		format, err := queryFormat(r)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		out, err := cfg.Session.Export(format)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		w.Header().Set("Content-Type", out.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", out.Filename))
		w.Header().Set("Content-Length", strconv.Itoa(len(out.Data)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(out.Data)
	}
}

func importHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		format, err := queryFormat(r)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if format == "" {
			format = subtitle.FormatSRT
		}

		body := http.MaxBytesReader(w, r.Body, maxImportBytes)
		n, err := cfg.Session.Import(body, format)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				WriteError(w, http.StatusRequestEntityTooLarge, "subtitle file too large", "TOO_LARGE")
				return
			}
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, CaptionsResponse{View: cfg.Session.View(), Count: &n})
	}
}

func playbackStateHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, cfg.Session.PlaybackState())
	}
}

func progressHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ProgressRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if err := cfg.Session.Player().Report(req.Time); err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, cfg.Session.PlaybackState())
	}
}

func transportHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player := cfg.Session.Player()

		var err error
		switch chi.URLParam(r, "command") {
		case "play":
			err = player.Play()
		case "pause":
			player.Pause()
		case "toggle":
			_, err = player.Toggle()
		case "stop":
			player.Stop()
		default:
			WriteError(w, http.StatusNotFound, "unknown playback command", "NOT_FOUND")
			return
		}
		if err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, cfg.Session.PlaybackState())
	}
}

func seekHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SeekRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if err := cfg.Session.Player().SeekTo(req.Fraction); err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, cfg.Session.PlaybackState())
	}
}

func volumeHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req VolumeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if err := cfg.Session.Player().SetVolume(req.Volume); err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, cfg.Session.PlaybackState())
	}
}

func zoomHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ZoomRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if err := cfg.Session.Player().SetZoom(req.Zoom); err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, cfg.Session.PlaybackState())
	}
}

func loadMediaHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoadMediaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		if req.Path == "" {
			WriteError(w, http.StatusBadRequest, "path is required", "BAD_REQUEST")
			return
		}

		path, err := filepath.Abs(req.Path)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "invalid path", "BAD_REQUEST")
			return
		}

		info, err := cfg.Session.LoadMedia(r.Context(), path)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, MediaToResponse(info))
	}
}

func mediaInfoHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		info := cfg.Session.Media()
		if info == nil {
			WriteError(w, http.StatusConflict, "no media loaded", "NO_MEDIA")
			return
		}
		WriteJSON(w, http.StatusOK, MediaToResponse(info))
	}
}

func streamMediaHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := cfg.Session.MediaPath()
		if path == "" {
			WriteError(w, http.StatusConflict, "no media loaded", "NO_MEDIA")
			return
		}
		if err := cfg.Streamer.ServeFile(w, r, path); err != nil {
			cfg.Logger.Errorw("media stream failed", "path", path, "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to stream media", "INTERNAL_ERROR")
		}
	}
}
