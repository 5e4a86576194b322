// Package http serves a validated experience to the browser UI and
// compiles the submission it posts back.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/iaee"
	"github.com/aretw0/iaee/pkg/domain"
	"github.com/aretw0/iaee/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// MaxSubmitBytes bounds the body accepted by POST /api/submit.
const MaxSubmitBytes = 4 << 20

// RuntimeFlag is injected into index.html so the UI posts results back
// instead of running in playground mode.
const RuntimeFlag = "<script>window.IAEE_MODE = 'runtime';</script>"

// Engine is the subset of iaee.Engine the server needs.
type Engine interface {
	ParseSubmission(data []byte) (domain.Results, domain.Comments, error)
	Submit(ctx context.Context, exp *domain.Experience, results domain.Results, comments domain.Comments) (*domain.Report, error)
}

// Server holds the state behind the runtime routes.
type Server struct {
	Engine     Engine
	Experience *domain.Experience
	// SectionTypes is served by GET /api/section-types.
	SectionTypes []string
	// Reports backs GET /api/reports/{id}; nil disables the route.
	Reports ports.ReportStore
	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
	// UI holds the built frontend (index.html and assets).
	UI     fs.FS
	Logger *slog.Logger
	// OnSubmit runs after a submission has been compiled and stored.
	OnSubmit func(*domain.Report)
}

// NewHandler creates the HTTP handler for s.
func NewHandler(s *Server) http.Handler {
	if s.Logger == nil {
		s.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.Metrics != nil {
		r.Handle("/metrics", s.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/experience", s.GetExperience)
		r.Get("/section-types", s.GetSectionTypes)
		r.Post("/submit", s.Submit)
		r.Get("/reports/{id}", s.GetReport)
	})

	r.Get("/", s.GetIndex)
	r.Get("/index.html", s.GetIndex)
	if s.UI != nil {
		r.Handle("/*", http.FileServerFS(s.UI))
	}

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
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "iaee-http",
		"version": strings.TrimSpace(iaee.Version),
	})
}

// GetExperience handles GET /api/experience.
func (s *Server) GetExperience(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Experience)
}

// GetSectionTypes handles GET /api/section-types.
func (s *Server) GetSectionTypes(w http.ResponseWriter, r *http.Request) {
	types := s.SectionTypes
	if types == nil {
		types = []string{}
	}
	s.writeJSON(w, http.StatusOK, types)
}

// Submit handles POST /api/submit.
func (s *Server) Submit(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxSubmitBytes))
	if err != nil {
		http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
		s.Logger.Warn("Submit: failed to read body", "error", err)
		return
	}

	results, comments, err := s.Engine.ParseSubmission(data)
	if err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		s.Logger.Warn("Submit: invalid request body", "error", err)
		return
	}

	report, err := s.Engine.Submit(r.Context(), s.Experience, results, comments)
	if report == nil {
		http.Error(w, "Submit failed", http.StatusInternalServerError)
		s.Logger.Error("Submit failed", "error", err)
		return
	}
	if err != nil {
		// The report was compiled; a store failing is not the client's problem.
		s.Logger.Warn("Submit: report not stored everywhere", "report_id", report.ID, "error", err)
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"id":       report.ID,
		"approved": report.Approved,
		"markdown": report.Markdown,
	})

	if s.OnSubmit != nil {
		s.OnSubmit(report)
	}
}

// GetReport handles GET /api/reports/{id}.
func (s *Server) GetReport(w http.ResponseWriter, r *http.Request) {
	if s.Reports == nil {
		http.Error(w, "Reports are not stored", http.StatusNotFound)
		return
	}

	report, err := s.Reports.Load(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, domain.ErrReportNotFound) {
		http.Error(w, "Report not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Failed to load report", http.StatusInternalServerError)
		s.Logger.Error("GetReport failed", "error", err)
		return
	}

	if r.URL.Query().Get("format") == "markdown" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		io.WriteString(w, report.Markdown)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

// GetIndex serves index.html with the runtime flag injected into <head>.
func (s *Server) GetIndex(w http.ResponseWriter, r *http.Request) {
	if s.UI == nil {
		http.NotFound(w, r)
		return
	}
	content, err := fs.ReadFile(s.UI, "index.html")
	if err != nil {
		http.NotFound(w, r)
		return
	}

	content = bytes.Replace(content, []byte("<head>"), []byte("<head>"+RuntimeFlag), 1)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(content)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "error", err)
	}
}
