// Package server exposes curriculum extraction and the course catalog over
// HTTP.
package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/akashicode/grade/internal/catalog"
	"github.com/akashicode/grade/internal/curriculum"
	"github.com/akashicode/grade/internal/importer"
)

// Config holds the HTTP server configuration.
type Config struct {
	Importer       *importer.Importer
	StoreDriver    string
	ExtractTimeout time.Duration
	MaxUploadBytes int64
	CORSOrigins    []string
}

// Server is the grade HTTP API.
type Server struct {
	cfg Config
	mux *http.ServeMux
}

// New creates a Server and registers its routes.
func New(cfg Config) (*Server, error) {
	if cfg.Importer == nil {
		return nil, errors.New("importer is required")
	}
	if cfg.ExtractTimeout <= 0 {
		cfg.ExtractTimeout = 30 * time.Second
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 20 << 20
	}

	s := &Server{cfg: cfg, mux: http.NewServeMux()}
	s.registerRoutes()
	return s, nil
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return logRequests(corsMiddleware(s.cfg.CORSOrigins, s.mux))
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("POST /v1/curricula/extract", s.handleExtract)
	s.mux.HandleFunc("GET /v1/courses/{id}/curriculum", s.handleGetCurriculum)
	s.mux.HandleFunc("PUT /v1/courses/{id}/curriculum", s.handlePutCurriculum)
}

// extractRequest carries either a base64-encoded PDF or already extracted
// text.
type extractRequest struct {
	PDFBase64 string `json:"pdfBase64"`
	Text      string `json:"text"`
	FileName  string `json:"fileName"`
}

type extractResponse struct {
	Success    bool                      `json:"success"`
	Data       curriculum.Result         `json:"data"`
	Format     curriculum.Format         `json:"format"`
	Candidates map[curriculum.Format]int `json:"candidates"`
}

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type errorResponse struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
}

// handleHealth returns a simple health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"store":  s.cfg.StoreDriver,
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// handleExtract handles POST /v1/curricula/extract.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if !s.decode(w, r, &req) {
		return
	}

	var (
		data []byte
		name = "upload.txt"
	)
	switch {
	case req.PDFBase64 != "":
		decoded, err := base64.StdEncoding.DecodeString(stripDataURL(req.PDFBase64))
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "pdfBase64 is not valid base64: "+err.Error())
			return
		}
		data, name = decoded, "upload.pdf"
		if req.FileName != "" {
			name = req.FileName
		}
	case req.Text != "":
		data = []byte(req.Text)
	default:
		writeError(w, http.StatusBadRequest, "bad_request", "one of pdfBase64 or text is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.ExtractTimeout)
	defer cancel()

	type outcome struct {
		analysis curriculum.Analysis
		err      error
	}
	done := make(chan outcome, 1)
	go func() {
		a, err := s.cfg.Importer.ExtractBytes(ctx, name, data)
		done <- outcome{a, err}
	}()

	var out outcome
	select {
	case out = <-done:
	case <-ctx.Done():
		out.err = ctx.Err()
	}

	if out.err != nil {
		writeExtractError(w, out.err)
		return
	}

	writeJSON(w, http.StatusOK, extractResponse{
		Success:    true,
		Data:       out.analysis.Result,
		Format:     out.analysis.Format,
		Candidates: out.analysis.Counts(),
	})
}

// handleGetCurriculum handles GET /v1/courses/{id}/curriculum.
func (s *Server) handleGetCurriculum(w http.ResponseWriter, r *http.Request) {
	id, ok := courseID(w, r)
	if !ok {
		return
	}

	entries, err := s.cfg.Importer.Load(r.Context(), id)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    entries,
	})
}

type saveRequest struct {
	Subjects []catalog.Entry `json:"subjects"`
}

// handlePutCurriculum handles PUT /v1/courses/{id}/curriculum.
func (s *Server) handlePutCurriculum(w http.ResponseWriter, r *http.Request) {
	id, ok := courseID(w, r)
	if !ok {
		return
	}

	var req saveRequest
	if !s.decode(w, r, &req) {
		return
	}

	if err := s.cfg.Importer.Save(r.Context(), id, req.Subjects); err != nil {
		writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   len(req.Subjects),
	})
}

// decode reads a size-limited JSON body into v, writing a 400 or 413 on
// failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "bad_request",
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return false
		}
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body: "+err.Error())
		return false
	}
	return true
}

func courseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Sprintf("invalid course id %q", r.PathValue("id")))
		return 0, false
	}
	return id, true
}

func writeExtractError(w http.ResponseWriter, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		writeError(w, http.StatusGatewayTimeout, "timeout", "extraction timed out")
		return
	}
	failure := curriculum.NewFailure(err)
	status := http.StatusUnprocessableEntity
	if failure.Kind == curriculum.KindInternal {
		status = http.StatusInternalServerError
	}
	writeError(w, status, string(failure.Kind), failure.Message)
}

func writeCatalogError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrInvalidCourse),
		errors.Is(err, catalog.ErrInvalidEntry),
		errors.Is(err, importer.ErrEmptyCurriculum):
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, errorResponse{Error: errorBody{Kind: kind, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// stripDataURL drops a "data:application/pdf;base64," prefix.
func stripDataURL(s string) string {
	if strings.HasPrefix(s, "data:") {
		if i := strings.Index(s, ","); i >= 0 {
			return s[i+1:]
		}
	}
	return s
}
