package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/Veraticus/loadboard/internal/common"
	"github.com/Veraticus/loadboard/internal/engine"
	"github.com/Veraticus/loadboard/internal/model"
	"github.com/Veraticus/loadboard/internal/report"
	"github.com/Veraticus/loadboard/internal/segment"
)

// LoadResponse is the JSON view of one load.
type LoadResponse struct {
	Header     model.Header            `json:"header"`
	Key        string                  `json:"key"`
	Status     model.Status            `json:"status"`
	Category   string                  `json:"category"`
	Notes      []engine.NoteMetrics    `json:"notes,omitempty"`
	Mismatches []engine.HeaderMismatch `json:"mismatches,omitempty"`
	Document   *report.Document        `json:"document,omitempty"`
	Rejected   string                  `json:"rejected,omitempty"`
	Totals     model.Aggregate         `json:"totals"`
	Allocation model.Allocation        `json:"allocation"`
	Index      int                     `json:"index"`
}

// ErrResponse is the JSON body of a failed request.
type ErrResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

func newLoadResponse(l engine.LoadResult, detailed bool) LoadResponse {
	resp := LoadResponse{
		Index:      l.Load.Index,
		Key:        l.Key,
		Header:     l.Summary.Header,
		Status:     l.Summary.Status,
		Category:   l.Summary.Category,
		Totals:     l.Summary.Aggregate,
		Allocation: l.Allocation,
	}
	if l.Rejected != nil {
		resp.Rejected = l.Rejected.Error()
	}
	if detailed {
		doc := l.Document
		resp.Document = &doc
		resp.Notes = l.Summary.Notes
		resp.Mismatches = l.Mismatches
	}
	return resp
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok", "source": s.source.Name()})
}

// listLoads handles GET /api/loads?status=pending|completed.
func (s *Server) listLoads(w http.ResponseWriter, r *http.Request) {
	filter, err := statusFilter(r)
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}

	result, err := s.compute(r.Context())
	if err != nil {
		s.failCompute(w, r, err)
		return
	}

	loads := filter(result)
	out := make([]LoadResponse, len(loads))
	for i, l := range loads {
		out[i] = newLoadResponse(l, false)
	}
	render.JSON(w, r, out)
}

// getLoad handles GET /api/loads/{index}.
func (s *Server) getLoad(w http.ResponseWriter, r *http.Request) {
	load, ok := s.lookup(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, newLoadResponse(*load, true))
}

// getLoadPDF handles GET /api/loads/{index}/pdf.
func (s *Server) getLoadPDF(w http.ResponseWriter, r *http.Request) {
	if s.renderer == nil {
		s.fail(w, r, http.StatusNotImplemented, errors.New("document rendering is not configured"))
		return
	}

	load, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if load.Rejected != nil {
		s.fail(w, r, http.StatusUnprocessableEntity, load.Rejected)
		return
	}

	out, err := s.renderer.Render(load.Document)
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}

	name := load.Document.Filename(s.renderer.Extension())
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out); err != nil {
		s.logger.Warn("failed to write document", "error", err)
	}
}

// categories handles GET /api/categories?status=pending|completed|all.
// Without a status the series covers pending loads.
func (s *Server) categories(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("status") == "" {
		q := r.URL.Query()
		q.Set("status", "pending")
		r.URL.RawQuery = q.Encode()
	}
	filter, err := statusFilter(r)
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}

	result, err := s.compute(r.Context())
	if err != nil {
		s.failCompute(w, r, err)
		return
	}

	render.JSON(w, r, engine.Summarize(filter(result)))
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*engine.LoadResult, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, fmt.Errorf("invalid load index %q", chi.URLParam(r, "index")))
		return nil, false
	}

	result, err := s.compute(r.Context())
	if err != nil {
		s.failCompute(w, r, err)
		return nil, false
	}

	load, err := result.Load(index)
	if err != nil {
		s.fail(w, r, http.StatusNotFound, err)
		return nil, false
	}
	return load, true
}

func statusFilter(r *http.Request) (func(*engine.Result) []engine.LoadResult, error) {
	switch strings.ToLower(r.URL.Query().Get("status")) {
	case "", "all":
		return func(res *engine.Result) []engine.LoadResult { return res.Loads }, nil
	case "pending":
		return (*engine.Result).Pending, nil
	case "completed":
		return (*engine.Result).Completed, nil
	default:
		return nil, fmt.Errorf("unknown status %q", r.URL.Query().Get("status"))
	}
}

func (s *Server) failCompute(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusBadGateway
	switch {
	case errors.Is(err, segment.ErrMissingColumn):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, common.ErrNoData), errors.Is(err, common.ErrNotFound):
		status = http.StatusServiceUnavailable
	}
	s.fail(w, r, status, err)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
	}
	render.Status(r, status)
	render.JSON(w, r, ErrResponse{Error: err.Error(), Status: status})
}
