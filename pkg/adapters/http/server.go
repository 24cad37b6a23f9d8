package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/talebox/pkg/domain"
	"github.com/aretw0/talebox/pkg/runner"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Controller is the part of the runner the HTTP surface drives.
type Controller interface {
	Snapshot() runner.Snapshot
	Send(ctx context.Context, ev runner.Event) error
}

// Server exposes the player state and a remote control over HTTP.
type Server struct {
	Controller Controller
	gatherer   prometheus.Gatherer
	logger     *slog.Logger
	poll       time.Duration
}

// Option configures the Server.
type Option func(*Server)

// WithGatherer serves /metrics from g instead of the default registry.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithPollInterval sets how often the event stream looks for a new snapshot.
func WithPollInterval(d time.Duration) Option {
	return func(s *Server) {
		s.poll = d
	}
}

// NewHandler creates the HTTP handler for ctrl.
//
//	GET  /health
//	GET  /metrics
//	GET  /api/status
//	GET  /api/events          server-sent snapshots
//	POST /api/keys/{key}      ?hold=home for chords
//	POST /api/reload
//	POST /api/settings/exit
func NewHandler(ctrl Controller, opts ...Option) http.Handler {
	s := &Server{
		Controller: ctrl,
		gatherer:   prometheus.DefaultGatherer,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		poll:       200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.GetHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	r.Route("/api", func(r chi.Router) {
		r.Get("/status", s.GetStatus)
		r.Get("/events", s.SubscribeEvents)
		r.Post("/keys/{key}", s.PressKey)
		r.Post("/reload", s.Reload)
		r.Post("/settings/exit", s.ExitSettings)
	})
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetStatus handles GET /api/status.
func (s *Server) GetStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Controller.Snapshot())
}

// remoteKeys are the keys a client may press. Internal events stay internal.
var remoteKeys = map[domain.Key]bool{
	domain.KeyLeft:  true,
	domain.KeyRight: true,
	domain.KeyUp:    true,
	domain.KeyDown:  true,
	domain.KeyHome:  true,
	domain.KeyOK:    true,
	domain.KeyPause: true,
	domain.KeyEnd:   true,
}

// PressKey handles POST /api/keys/{key}.
func (s *Server) PressKey(w http.ResponseWriter, r *http.Request) {
	key := domain.ParseKey(chi.URLParam(r, "key"))
	if !remoteKeys[key] {
		http.Error(w, fmt.Sprintf("unknown key %q", chi.URLParam(r, "key")), http.StatusBadRequest)
		return
	}

	var status domain.Status
	for _, name := range r.URL.Query()["hold"] {
		held := domain.ParseKey(name)
		if !remoteKeys[held] {
			http.Error(w, fmt.Sprintf("unknown key %q", name), http.StatusBadRequest)
			return
		}
		status = status.With(held, true)
	}

	s.send(w, r, runner.Event{Key: key, Status: status})
}

// Reload handles POST /api/reload.
func (s *Server) Reload(w http.ResponseWriter, r *http.Request) {
	s.send(w, r, runner.Event{Key: domain.KeyReload})
}

// ExitSettings handles POST /api/settings/exit.
func (s *Server) ExitSettings(w http.ResponseWriter, r *http.Request) {
	s.send(w, r, runner.Event{Key: domain.KeyResume})
}

func (s *Server) send(w http.ResponseWriter, r *http.Request, ev runner.Event) {
	err := s.Controller.Send(r.Context(), ev)
	switch {
	case errors.Is(err, runner.ErrStopped):
		http.Error(w, "player stopped", http.StatusServiceUnavailable)
		return
	case err != nil:
		s.logger.Warn("remote event not queued", "key", ev.Key, "err", err)
		http.Error(w, err.Error(), http.StatusRequestTimeout)
		return
	}
	s.logger.Debug("remote event queued", "key", ev.Key)
	writeJSON(w, http.StatusAccepted, map[string]string{"key": ev.Key.String()})
}

// SubscribeEvents handles GET /api/events, streaming each new snapshot as a
// server-sent event until the client goes away.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ticker := time.NewTicker(s.poll)
	defer ticker.Stop()

	var (
		last uint64
		sent bool
	)
	for {
		if snap := s.Controller.Snapshot(); !sent || snap.Seq != last {
			last, sent = snap.Seq, true
			data, err := json.Marshal(snap)
			if err != nil {
				s.logger.Error("snapshot encode failed", "err", err)
				return
			}
			fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", data)
			flusher.Flush()
		}

		select {
		case <-r.Context().Done():
			s.logger.Debug("event stream closed")
			return
		case <-ticker.C:
		}
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
