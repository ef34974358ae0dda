// Package server exposes the tree pipeline and tree store over HTTP.
//
// The API is JSON over REST:
//
//	POST   /api/v1/parse    validate Newick text, return canonical form
//	POST   /api/v1/render   run the pipeline, return one rendered artifact
//	POST   /api/v1/compare  compare two trees for structural equality
//	POST   /api/v1/trees    save a named tree
//	GET    /api/v1/trees    list saved trees
//	GET    /api/v1/trees/{id}
//	PUT    /api/v1/trees/{id}
//	DELETE /api/v1/trees/{id}
//	GET    /healthz
//
// The store endpoints require a configured MongoDB connection and return 503
// when the server runs without one.
package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cladeviz/clade/pkg/pipeline"
	"github.com/cladeviz/clade/pkg/store"
)

// Server holds the dependencies shared by all handlers.
type Server struct {
	runner *pipeline.Runner
	store  *store.Store // nil when persistence is not configured
	logger *log.Logger
}

// New builds a server. The store may be nil; the tree CRUD endpoints then
// respond with 503.
func New(runner *pipeline.Runner, st *store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, store: st, logger: logger}
}

// Router assembles the chi router with middleware and all routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/parse", s.handleParse)
		r.Post("/render", s.handleRender)
		r.Post("/compare", s.handleCompare)

		r.Route("/trees", func(r chi.Router) {
			r.Use(s.requireStore)
			r.Post("/", s.handleSaveTree)
			r.Get("/", s.handleListTrees)
			r.Get("/{id}", s.handleGetTree)
			r.Put("/{id}", s.handleUpdateTree)
			r.Delete("/{id}", s.handleDeleteTree)
		})
	})

	return r
}

// ListenAndServe runs the server on addr until the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("listening", "addr", addr)
	return srv.ListenAndServe()
}
