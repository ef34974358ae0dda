package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cladeviz/clade/pkg/cache"
	"github.com/cladeviz/clade/pkg/errors"
	"github.com/cladeviz/clade/pkg/newick"
	"github.com/cladeviz/clade/pkg/pipeline"
	"github.com/cladeviz/clade/pkg/store"
	"github.com/cladeviz/clade/pkg/tree"
)

// contentTypes maps output formats to response content types.
var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatDOT:  "text/vnd.graphviz",
	pipeline.FormatJSON: "application/json",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type parseRequest struct {
	Newick string `json:"newick"`
}

type parseResponse struct {
	Newick    string `json:"newick"`
	LeafCount int    `json:"leaf_count"`
	Hash      string `json:"hash"`
}

// handleParse validates Newick text and returns its canonical serialization.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	t, err := newick.Parse(req.Newick)
	if err != nil {
		s.writeError(w, err)
		return
	}
	canonical := newick.String(t)
	s.writeJSON(w, http.StatusOK, parseResponse{
		Newick:    canonical,
		LeafCount: t.LeafCount(),
		Hash:      cache.Hash([]byte(canonical)),
	})
}

// handleRender runs the pipeline and streams back a single artifact. The
// request body is pipeline options; exactly one output format is allowed.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if err := decode(r, &opts); err != nil {
		s.writeError(w, err)
		return
	}
	opts.Logger = s.logger
	opts.SetDefaults()
	if len(opts.Formats) != 1 {
		s.writeError(w, errors.New(errors.ErrCodeInvalidFormat, "render accepts exactly one format"))
		return
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	format := opts.Formats[0]
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Tree-Hash", result.TreeHash)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Artifacts[format]); err != nil {
		s.logger.Error("write artifact", "error", err)
	}
}

type compareRequest struct {
	A string `json:"a"`
	B string `json:"b"`
}

type compareResponse struct {
	Equal bool `json:"equal"`
	Cmp   int  `json:"cmp"`
}

// handleCompare parses two trees and reports whether they are structurally
// and metrically equal.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	a, err := newick.Parse(req.A)
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeMalformedTree, err, "tree a"))
		return
	}
	b, err := newick.Parse(req.B)
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeMalformedTree, err, "tree b"))
		return
	}
	cmp := tree.Compare(a, b)
	s.writeJSON(w, http.StatusOK, compareResponse{Equal: cmp == 0, Cmp: cmp})
}

type saveTreeRequest struct {
	Name   string `json:"name"`
	Newick string `json:"newick"`
}

// handleSaveTree validates and persists a named tree.
func (s *Server) handleSaveTree(w http.ResponseWriter, r *http.Request) {
	var req saveTreeRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Name == "" {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "name is required"))
		return
	}
	t, err := newick.Parse(req.Newick)
	if err != nil {
		s.writeError(w, err)
		return
	}
	doc, err := s.store.Save(r.Context(), req.Name, newick.String(t), t.LeafCount())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, doc)
}

func (s *Server) handleListTrees(w http.ResponseWriter, r *http.Request) {
	docs, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if docs == nil {
		docs = []store.Document{}
	}
	s.writeJSON(w, http.StatusOK, docs)
}

func (s *Server) handleGetTree(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, doc)
}

type updateTreeRequest struct {
	Newick string `json:"newick"`
}

// handleUpdateTree replaces the stored Newick text after validating it.
func (s *Server) handleUpdateTree(w http.ResponseWriter, r *http.Request) {
	var req updateTreeRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	t, err := newick.Parse(req.Newick)
	if err != nil {
		s.writeError(w, err)
		return
	}
	id := chi.URLParam(r, "id")
	if err := s.store.Update(r.Context(), id, newick.String(t), t.LeafCount()); err != nil {
		s.writeError(w, err)
		return
	}
	doc, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDeleteTree(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decode reads a JSON request body, mapping malformed bodies to an
// invalid-input error.
func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}
