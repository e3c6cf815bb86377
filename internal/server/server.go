// Package server exposes stored assets over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"orbMint/internal/metrics"
	"orbMint/internal/storage"
)

// NewRouter serves GET /{key} from reader plus /healthz and /metrics.
func NewRouter(reader storage.AssetReader, collector *metrics.Collector, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &assetHandler{reader: reader, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer, requestLogger(logger))

	r.Get("/healthz", health)
	if collector != nil {
		r.Method(http.MethodGet, "/metrics", collector.Handler())
	}
	r.Get("/{key}", h.serve)

	return r
}

type assetHandler struct {
	reader storage.AssetReader
	logger *zap.Logger
}

func (h *assetHandler) serve(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	asset, err := h.reader.LoadAsset(r.Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "asset not found")
			return
		}
		h.logger.Error("load asset failed", zap.String("key", key), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load asset")
		return
	}

	for _, header := range asset.Headers {
		w.Header().Add(header.Name, header.Value)
	}
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", http.DetectContentType(asset.Body))
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(asset.Body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(asset.Body)
}

func health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
