// Package server exposes the transcription pipeline over HTTP.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"

	"github.com/t0mer/transcribing-service/internal/transcribe"
)

type Options struct {
	Port string
	// RateLimit is requests per minute per client IP; 0 disables limiting.
	RateLimit int
}

// New builds the http.Server for the service: CORS, per-request IDs and
// logging, optional rate limiting, and the transcription routes.
func New(opts Options, svc *transcribe.Service, log *zap.Logger) *http.Server {
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(requestLogger(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	if opts.RateLimit > 0 {
		r.Use(httprate.LimitByIP(opts.RateLimit, time.Minute))
	}

	h := NewHandler(svc, log)
	r.Post("/transcribe", h.Transcribe)
	r.Get("/health", h.Health)

	return &http.Server{
		Addr:              ":" + opts.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
