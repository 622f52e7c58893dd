package panel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/asakaida/dirschema/internal/component"
	"github.com/asakaida/dirschema/internal/infrastructure/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

var errNotRunning = errors.New("panel is not running")

// RegisterHTTPHandlers registers the panel handlers on mux:
//
//	GET  /
//	GET  /attributes.md
//	POST /attributes/{name}/delete
//	POST /reload
//	GET  /healthz
//	GET  /metrics (when gatherer is non-nil)
func (p *Panel) RegisterHTTPHandlers(mux *http.ServeMux, gatherer prometheus.Gatherer) {
	mux.HandleFunc("GET /{$}", p.handleIndex)
	mux.HandleFunc("GET /attributes.md", p.handleMarkdown)
	mux.HandleFunc("POST /attributes/{name}/delete", p.handleDelete)
	mux.HandleFunc("POST /reload", p.handleReload)
	mux.HandleFunc("GET /healthz", p.handleHealth)
	if gatherer != nil {
		mux.Handle("GET /metrics", metrics.Handler(gatherer))
	}
}

func (p *Panel) handleIndex(w http.ResponseWriter, r *http.Request) {
	snap := p.Snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Snapshot-Version", fmt.Sprint(snap.Version))
	_, _ = w.Write([]byte(snap.HTML))
}

func (p *Panel) handleMarkdown(w http.ResponseWriter, r *http.Request) {
	snap := p.Snapshot()
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("X-Snapshot-Version", fmt.Sprint(snap.Version))
	_, _ = w.Write([]byte(snap.Markdown + "\n"))
}

func (p *Panel) handleDelete(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" {
		http.Error(w, "attribute name is required", http.StatusBadRequest)
		return
	}
	p.accepted(w, r, p.table.DeleteAttribute(r.Context(), name))
}

func (p *Panel) handleReload(w http.ResponseWriter, r *http.Request) {
	p.accepted(w, r, p.table.Reload(r.Context()))
}

// accepted answers a queued command: browsers are sent back to the table,
// the outcome shows up in a later snapshot.
func (p *Panel) accepted(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		if errors.Is(err, component.ErrClosed) {
			err = errNotRunning
		}
		p.log.Warn().Err(err).Str("path", r.URL.Path).Msg("command rejected")
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type healthResponse struct {
	Status     string `json:"status"`
	Version    uint64 `json:"version"`
	Loaded     bool   `json:"loaded"`
	Attributes int    `json:"attributes"`
	Error      string `json:"error,omitempty"`
}

func (p *Panel) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := p.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(healthResponse{
		Status:     "healthy",
		Version:    snap.Version,
		Loaded:     snap.Loaded,
		Attributes: snap.Attributes,
		Error:      snap.Error,
	})
}

// Server serves the panel over HTTP.
type Server struct {
	server *http.Server
	log    zerolog.Logger
}

// NewServer creates the panel HTTP server.
func NewServer(addr string, p *Panel, gatherer prometheus.Gatherer, log zerolog.Logger) *Server {
	mux := http.NewServeMux()
	p.RegisterHTTPHandlers(mux, gatherer)

	return &Server{
		server: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		log: log,
	}
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("panel listening")

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("panel server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
