package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hazz-dev/pinglog/internal/config"
	"github.com/hazz-dev/pinglog/internal/logline"
	"github.com/hazz-dev/pinglog/internal/probe"
)

// StatusSource exposes the monitor's in-memory view of recent cycles.
type StatusSource interface {
	Latest() (probe.Result, bool)
	Counts() (cycles, failures int)
}

// Server holds the chi router and its dependencies.
type Server struct {
	source StatusSource
	opts   config.Options
	router chi.Router
	logger *slog.Logger
}

// New creates a new Server and registers all routes.
func New(source StatusSource, opts config.Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		source: source,
		opts:   opts,
		router: chi.NewRouter(),
		logger: logger,
	}
	s.registerRoutes()
	return s
}

// Router returns the chi router (for mounting or testing).
func (s *Server) Router() chi.Router {
	return s.router
}

func (s *Server) registerRoutes() {
	r := s.router
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/api/health", s.handleHealth)
	r.Get("/api/status", s.handleStatus)
}

// --- Response helpers ---

type envelope struct {
	Data  interface{} `json:"data"`
	Error string      `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{Data: data})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{Error: msg})
}

// --- Handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

type statusResponse struct {
	Host                 string    `json:"host"`
	Status               string    `json:"status"`
	RTTMs                int64     `json:"rtt_ms"`
	Interface            string    `json:"interface"`
	InterfaceDescription string    `json:"interface_description"`
	CheckedAt            time.Time `json:"checked_at"`
	Line                 string    `json:"line"`
	Path                 string    `json:"path"`
	Interval             string    `json:"interval"`
	Cycles               int       `json:"cycles"`
	Failures             int       `json:"failures"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	latest, ok := s.source.Latest()
	if !ok {
		writeError(w, http.StatusNotFound, "no cycle yet")
		return
	}
	cycles, failures := s.source.Counts()

	path := s.opts.Path
	if !latest.Status.OK() {
		path = s.opts.ErrorPath
	}

	writeJSON(w, http.StatusOK, statusResponse{
		Host:                 latest.Host,
		Status:               string(latest.Status),
		RTTMs:                latest.RTT.Milliseconds(),
		Interface:            latest.InterfaceName,
		InterfaceDescription: latest.InterfaceDescription,
		CheckedAt:            latest.CheckedAt,
		Line:                 logline.FromResult(latest),
		Path:                 path,
		Interval:             s.opts.IntervalDuration().String(),
		Cycles:               cycles,
		Failures:             failures,
	})
}

// --- Middleware ---

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration", time.Since(start),
		)
	})
}
