// Package web exposes the editing session over HTTP: sheet state as JSON,
// provider imports, timeline edits, and background split jobs with progress
// streamed over a websocket.
package web

import (
	"context"
	"net/http"
	"sync"

	"cueforge/internal/config"
	"cueforge/internal/logger"
	"cueforge/internal/session"
)

type Server struct {
	ctx    context.Context
	jobMgr *JobManager
	config config.Config
	logger *logger.Logger

	// The session is shared by every request; sheet edits are serialized.
	mu      sync.Mutex
	session *session.Session
}

func NewServer(ctx context.Context, jobMgr *JobManager, sess *session.Session, cfg config.Config, log *logger.Logger) *Server {
	return &Server{
		ctx:     ctx,
		jobMgr:  jobMgr,
		session: sess,
		config:  cfg,
		logger:  log,
	}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	// Static files
	mux.Handle("/", http.FileServer(http.Dir("web/static")))

	// API endpoints
	mux.HandleFunc("/api/sheet", s.handleSheet)
	mux.HandleFunc("/api/sheet/tracks/", s.handleTrackEdit)
	mux.HandleFunc("/api/import", s.handleImport)
	mux.HandleFunc("/api/split", s.handleSplit)
	mux.HandleFunc("/api/jobs", s.handleListJobs)
	mux.HandleFunc("/api/jobs/", s.handleJobAction)
	mux.HandleFunc("/ws", s.handleWebSocket)

	return s.loggingMiddleware(mux)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("%s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
