package webui

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/heap-browser/internal/browser"
	apperrors "github.com/heap-browser/pkg/errors"
	"github.com/heap-browser/pkg/utils"
)

// Server exposes the browse service as a JSON API.
type Server struct {
	service *BrowseService
	port    int
	logger  utils.Logger
	server  *http.Server
}

// NewServer creates a browse API server.
func NewServer(service *BrowseService, port int, logger utils.Logger) *Server {
	return &Server{
		service: service,
		port:    port,
		logger:  logger,
	}
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/snapshots", s.handleSnapshots)
	mux.HandleFunc("/api/summary", s.handleSummary)
	mux.HandleFunc("/api/object", s.handleObjectInfo)
	mux.HandleFunc("/api/object/fields", s.handleObjectFields)
	mux.HandleFunc("/api/object/references", s.handleObjectReferences)
	mux.HandleFunc("/api/object/items", s.handleObjectItems)
	mux.HandleFunc("/api/object/expand", s.handleExpand)
	mux.HandleFunc("/api/class/fields", s.handleMergedFields)
	mux.HandleFunc("/api/class/references", s.handleMergedReferences)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	s.logger.Info("Starting browse server at http://localhost:%d", s.port)
	s.logger.Info("Press Ctrl+C to stop")

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleSnapshots(w http.ResponseWriter, r *http.Request) {
	snapshots, err := s.service.ListSnapshots()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, snapshots)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	snapshot := r.URL.Query().Get("snapshot")
	if snapshot == "" {
		s.writeError(w, apperrors.New(apperrors.CodeInvalidInput, "missing snapshot parameter"))
		return
	}

	summary, err := s.service.Summary(r.Context(), snapshot)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, summary)
}

func (s *Server) handleObjectInfo(w http.ResponseWriter, r *http.Request) {
	snapshot, objectID, ok := s.objectParams(w, r)
	if !ok {
		return
	}

	info, err := s.service.ObjectInfo(r.Context(), snapshot, objectID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, info)
}

func (s *Server) handleObjectFields(w http.ResponseWriter, r *http.Request) {
	snapshot, objectID, ok := s.objectParams(w, r)
	if !ok {
		return
	}

	nodes, err := s.service.ObjectFields(r.Context(), snapshot, objectID, parseSort(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, nodes)
}

func (s *Server) handleObjectReferences(w http.ResponseWriter, r *http.Request) {
	snapshot, objectID, ok := s.objectParams(w, r)
	if !ok {
		return
	}

	nodes, err := s.service.ObjectReferences(r.Context(), snapshot, objectID, parseSort(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, nodes)
}

func (s *Server) handleObjectItems(w http.ResponseWriter, r *http.Request) {
	snapshot, objectID, ok := s.objectParams(w, r)
	if !ok {
		return
	}

	nodes, err := s.service.ObjectItems(r.Context(), snapshot, objectID, parseSort(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, nodes)
}

func (s *Server) handleExpand(w http.ResponseWriter, r *http.Request) {
	snapshot, objectID, ok := s.objectParams(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	property := q.Get("property")
	start, err1 := strconv.Atoi(q.Get("start"))
	end, err2 := strconv.Atoi(q.Get("end"))
	if err1 != nil || err2 != nil {
		s.writeError(w, apperrors.New(apperrors.CodeInvalidInput, "invalid start/end parameters"))
		return
	}

	nodes, err := s.service.Expand(r.Context(), snapshot, objectID, property, start, end, parseSort(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, nodes)
}

func (s *Server) handleMergedFields(w http.ResponseWriter, r *http.Request) {
	snapshot, className, ok := s.classParams(w, r)
	if !ok {
		return
	}

	nodes, err := s.service.MergedFields(r.Context(), snapshot, className, parseSort(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, nodes)
}

func (s *Server) handleMergedReferences(w http.ResponseWriter, r *http.Request) {
	snapshot, className, ok := s.classParams(w, r)
	if !ok {
		return
	}

	nodes, err := s.service.MergedReferences(r.Context(), snapshot, className, parseSort(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, nodes)
}

func (s *Server) objectParams(w http.ResponseWriter, r *http.Request) (snapshot, objectID string, ok bool) {
	q := r.URL.Query()
	snapshot = q.Get("snapshot")
	objectID = q.Get("id")
	if snapshot == "" || objectID == "" {
		s.writeError(w, apperrors.New(apperrors.CodeInvalidInput, "missing snapshot or id parameter"))
		return "", "", false
	}
	return snapshot, objectID, true
}

func (s *Server) classParams(w http.ResponseWriter, r *http.Request) (snapshot, className string, ok bool) {
	q := r.URL.Query()
	snapshot = q.Get("snapshot")
	className = q.Get("class")
	if snapshot == "" || className == "" {
		s.writeError(w, apperrors.New(apperrors.CodeInvalidInput, "missing snapshot or class parameter"))
		return "", "", false
	}
	return snapshot, className, true
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case apperrors.IsInvalidInput(err):
		status = http.StatusBadRequest
	case apperrors.IsNotFound(err):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("Request failed: %v", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": apperrors.GetErrorMessage(err),
	})
}

// parseSort reads the sort/order query parameters. Unknown values mean
// item order.
func parseSort(r *http.Request) browser.Sort {
	s := browser.Sort{Key: browser.SortNone, Order: browser.Ascending}
	switch r.URL.Query().Get("sort") {
	case "name":
		s.Key = browser.SortByName
	case "type":
		s.Key = browser.SortByType
	case "value":
		s.Key = browser.SortByValue
	case "count":
		s.Key = browser.SortByCount
	}
	if r.URL.Query().Get("order") == "desc" {
		s.Order = browser.Descending
	}
	return s
}
