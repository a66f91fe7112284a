package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/df07/go-pathtracer/pkg/log"
)

var logger = log.New("server")

// Options configures the web server
type Options struct {
	Port           int
	AssetDir       string
	Workers        int      // Workers per render job; zero means one per CPU
	Seed           int64    // Base seed for render jobs that do not pick one
	OriginPatterns []string // Allowed websocket origins
}

// Server exposes scene listing and asynchronous render jobs over HTTP
type Server struct {
	opts   Options
	jobs   *JobStore
	router *mux.Router

	// Jobs outlive the request that created them
	baseCtx context.Context
	stop    context.CancelFunc
}

// NewServer creates a new web server
func NewServer(opts Options) *Server {
	ctx, stop := context.WithCancel(context.Background())
	s := &Server{
		opts:    opts,
		jobs:    NewJobStore(),
		baseCtx: ctx,
		stop:    stop,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(recovery)
	r.Use(requestLogger)

	r.HandleFunc("/api/health", s.handleHealth).Methods("GET")
	r.HandleFunc("/api/scenes", s.handleScenes).Methods("GET")

	r.HandleFunc("/api/render", s.handleCreateRender).Methods("POST")
	r.HandleFunc("/api/render/{jobId}", s.handleGetRender).Methods("GET")
	r.HandleFunc("/api/render/{jobId}", s.handleCancelRender).Methods("DELETE")
	r.HandleFunc("/api/render/{jobId}/image", s.handleRenderImage).Methods("GET")

	r.HandleFunc("/ws/render/{jobId}", s.handleRenderProgress)
	return r
}

// Handler returns the HTTP handler serving every route
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then cancels running jobs and shuts down
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.opts.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logger.Notice("shutting down server")
		s.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Noticef("listening on http://localhost%s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close cancels every running job
func (s *Server) Close() {
	s.stop()
	s.jobs.CancelAll()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

// WriteHeader records the status before passing it on
func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Hijack lets websocket upgrades through the logging middleware
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return hijacker.Hijack()
}

// Unwrap exposes the wrapped writer to http.ResponseController
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Debugf("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Microsecond))
	})
}

func recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				logger.Errorf("panic serving %s: %v", r.URL.Path, err)
				writeError(w, http.StatusInternalServerError, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
