// Package api serves the cleanup-run report surface over HTTP: run
// listings, per-run merge records, an on-demand cleanup endpoint for
// JSON models, and an echarts scatter page for eyeballing merges.
package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gantry-data/strukt/internal/cleanup"
	"github.com/gantry-data/strukt/internal/db"
	"github.com/gantry-data/strukt/internal/httputil"
	"github.com/gantry-data/strukt/internal/importer"
	"github.com/gantry-data/strukt/internal/proxtree"
	"github.com/gantry-data/strukt/internal/timeutil"
	"github.com/gantry-data/strukt/internal/version"
)

type Server struct {
	db    *db.DB
	clock timeutil.Clock
}

func NewServer(database *db.DB, clock timeutil.Clock) *Server {
	if clock == nil {
		clock = timeutil.NewRealClock()
	}
	return &Server{db: database, clock: clock}
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/runs", s.listRuns)
	mux.HandleFunc("/api/merges", s.listMerges)
	mux.HandleFunc("/api/cleanup", s.runCleanup)
	mux.HandleFunc("/debug/merges/scatter", s.mergeScatter)
	mux.HandleFunc("/", s.homeHandler)
	return mux
}

func (s *Server) homeHandler(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintf(w, "Welcome to the strukt model cleanup server! (version %s)", version.Version)
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	limit := 100
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			limit = v
		}
	}
	runs, err := s.db.Runs(limit)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to list runs: %v", err))
		return
	}
	if runs == nil {
		runs = []db.Run{}
	}
	httputil.WriteJSONOK(w, runs)
}

func (s *Server) listMerges(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	runID := r.URL.Query().Get("run_id")
	if runID == "" {
		httputil.BadRequest(w, "run_id query parameter is required")
		return
	}
	ok, err := s.db.HasRun(runID)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to look up run: %v", err))
		return
	}
	if !ok {
		httputil.NotFound(w, "unknown run_id")
		return
	}
	merges, err := s.db.MergesForRun(runID)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to list merges: %v", err))
		return
	}
	if merges == nil {
		merges = []cleanup.Merge{}
	}
	httputil.WriteJSONOK(w, merges)
}

// runCleanup accepts a JSON model document, merges coincident nodes at
// the requested tolerance (meters), records the run, and returns the
// report.
func (s *Server) runCleanup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}
	tolerance, err := strconv.ParseFloat(r.URL.Query().Get("tolerance"), 64)
	if err != nil || tolerance <= 0 {
		httputil.BadRequest(w, "tolerance query parameter must be a positive number (meters)")
		return
	}

	m, err := importer.ReadModelJSON(r.Body)
	if err != nil {
		httputil.BadRequest(w, fmt.Sprintf("invalid model: %v", err))
		return
	}

	report, err := cleanup.MergeCoincidentNodes(m, tolerance, s.clock)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, proxtree.ErrInvalidArgument) {
			status = http.StatusBadRequest
		}
		httputil.WriteJSONError(w, status, fmt.Sprintf("cleanup failed: %v", err))
		return
	}

	if err := s.db.RecordRun(report); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to record run: %v", err))
		return
	}
	httputil.WriteJSONOK(w, report)
}
