// Package server exposes the command registry to the kiosk UI over a
// loopback HTTP listener.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "timeclock-kiosk/internal/common/errors"
	"timeclock-kiosk/internal/common/logger"
	"timeclock-kiosk/pkg/registry"
)

const maxArgsBytes = 1 << 20

// Dispatcher is satisfied by *registry.Registry.
type Dispatcher interface {
	Invoke(ctx context.Context, name string, args json.RawMessage) (interface{}, error)
	Catalog() registry.Catalog
}

type Server struct {
	dispatcher Dispatcher
	imageDir   string
	logger     logger.Logger
	httpServer *http.Server
}

type commandResponse struct {
	OK     bool        `json:"ok"`
	Result interface{} `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
	Code   string      `json:"code,omitempty"`
}

func New(addr string, dispatcher Dispatcher, imageDir string, log logger.Logger) *Server {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	s := &Server{
		dispatcher: dispatcher,
		imageDir:   imageDir,
		logger:     log.Named("server"),
	}
	// No WriteTimeout: a response waits for its command to finish.
	s.httpServer = &http.Server{
		Addr:        addr,
		Handler:     s.Handler(),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}
	return s
}

// Handler returns the routed handler wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/commands/{name}", s.handleInvoke)
	mux.HandleFunc("GET /api/commands", s.handleCatalog)
	mux.Handle("GET /images/", http.StripPrefix("/images/", http.FileServer(http.Dir(s.imageDir))))
	mux.HandleFunc("GET /health", s.handleStatus("healthy"))
	mux.HandleFunc("GET /ready", s.handleStatus("ready"))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s.loggingMiddleware(mux)
}

func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until Shutdown is called.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("Listening", map[string]interface{}{"address": ln.Addr().String()})
	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleInvoke(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	body, err := io.ReadAll(io.LimitReader(r.Body, maxArgsBytes))
	if err != nil {
		s.writeError(w, apperrors.NewInvalidInputError(err.Error()))
		return
	}
	args := bytes.TrimSpace(body)
	if len(args) > 0 && !json.Valid(args) {
		s.writeError(w, apperrors.NewInvalidInputError("arguments are not valid JSON"))
		return
	}

	// Commands run to completion even if the UI goes away mid-request.
	ctx := context.WithoutCancel(r.Context())

	result, err := s.dispatcher.Invoke(ctx, name, json.RawMessage(args))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, commandResponse{OK: true, Result: result})
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.dispatcher.Catalog())
}

func (s *Server) handleStatus(status string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, http.StatusOK, map[string]string{
			"status": status,
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	stdErr := apperrors.FromError(err)
	s.writeJSON(w, apperrors.HTTPStatus(stdErr.Code), commandResponse{
		OK:    false,
		Error: stdErr.Message,
		Code:  string(stdErr.Code),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", map[string]interface{}{"error": err})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request served", map[string]interface{}{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).String(),
		})
	})
}
