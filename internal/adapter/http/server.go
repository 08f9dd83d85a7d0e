// Package http is the upload/download boundary: it accepts a CSV of trips,
// hands it to the batch pipeline, and streams the augmented CSV back, plus
// the service's health, readiness, and metrics endpoints.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/szting/sgtravel-co2-calculator/internal/pipeline"
	"github.com/szting/sgtravel-co2-calculator/internal/table"
)

// BatchProcessor runs one uploaded table through the pipeline and reports
// readiness to serve traffic.
type BatchProcessor interface {
	Process(ctx context.Context, in *table.Table) (*pipeline.Result, error)
	CheckReadiness(ctx context.Context) error
}

// Server exposes the upload UI and API together with health, readiness, and
// metrics routes.
type Server struct {
	httpServer     *http.Server
	processor      BatchProcessor
	clock          clockwork.Clock
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewServer creates the HTTP server. maxUploadBytes caps the multipart
// request body; the clock names downloaded files, injectable for tests.
func NewServer(addr string, processor BatchProcessor, maxUploadBytes int64, clock clockwork.Clock, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:    addr,
			Handler: mux,
			// Batches block on sequential geocoding; allow long writes.
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 15 * time.Minute,
			IdleTimeout:  60 * time.Second,
		},
		processor:      processor,
		clock:          clock,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /methodology", s.handleMethodology)
	mux.HandleFunc("POST /upload", s.handleUpload)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(processor))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{
				"error": fmt.Sprintf("file exceeds the %d byte upload limit", tooLarge.Limit),
			})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "no file selected"})
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".csv") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "please upload a CSV file"})
		return
	}

	result, status, err := s.processUpload(r.Context(), file)
	if err != nil {
		s.logger.Warn("upload rejected", "filename", header.Filename, "error", err)
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}

	filename := fmt.Sprintf("emissions_calculated_%s.csv", s.clock.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("X-Processing-Summary", result.Summary())

	if err := result.Table.Write(w); err != nil {
		s.logger.Error("streaming result failed", "error", err)
	}
}

// processUpload parses and processes one uploaded table, returning the HTTP
// status to use on failure. Structural faults map to 422; anything the
// client can fix maps there too, since the upload itself was well-formed.
func (s *Server) processUpload(ctx context.Context, file multipart.File) (*pipeline.Result, int, error) {
	tbl, err := table.Read(file)
	if err != nil {
		return nil, http.StatusUnprocessableEntity, fmt.Errorf("parsing CSV: %w", err)
	}

	result, err := s.processor.Process(ctx, tbl)
	if err != nil {
		if errors.Is(err, table.ErrMissingColumns) {
			return nil, http.StatusUnprocessableEntity, err
		}
		return nil, http.StatusInternalServerError, err
	}
	return result, http.StatusOK, nil
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexHTML))
}

func (s *Server) handleMethodology(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(methodologyHTML))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker BatchProcessor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
