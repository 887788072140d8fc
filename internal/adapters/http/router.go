// Package httpadapter exposes the library over REST: synchronous folder
// analysis, asynchronous scan scheduling, and document/folder reads and
// deletes.
package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/docsight/internal/core/domain"
	"github.com/kirillkom/docsight/internal/core/ports"
	"github.com/kirillkom/docsight/internal/observability/metrics"
)

type Router struct {
	analyzer  ports.FolderAnalyzer
	scheduler ports.ScanScheduler
	reader    ports.DocumentReader
	remover   ports.LibraryRemover

	service string
	metrics *metrics.HTTPServerMetrics
}

func NewRouter(
	analyzer ports.FolderAnalyzer,
	scheduler ports.ScanScheduler,
	reader ports.DocumentReader,
	remover ports.LibraryRemover,
) *Router {
	return &Router{
		analyzer:  analyzer,
		scheduler: scheduler,
		reader:    reader,
		remover:   remover,
		service:   "api",
	}
}

func (rt *Router) WithMetrics(m *metrics.HTTPServerMetrics) *Router {
	rt.metrics = m
	return rt
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/folders/analysis", rt.analyzeFolder)
	mux.HandleFunc("/v1/folders/scans", rt.scheduleScan)
	mux.HandleFunc("/v1/folders/", rt.folderByID)
	mux.HandleFunc("/v1/documents", rt.listDocuments)
	mux.HandleFunc("/v1/documents/", rt.documentByID)

	var handler http.Handler = mux
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(rt.service, handler)
	}
	return requestIDMiddleware(accessLogMiddleware(handler))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) analyzeFolder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	path := strings.TrimSpace(r.URL.Query().Get("path"))
	if path == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query parameter 'path' is required"})
		return
	}

	start := time.Now()
	analysis, err := rt.analyzer.Analyze(r.Context(), path)
	if rt.metrics != nil {
		count := 0
		if analysis != nil {
			count = analysis.TotalDocuments
		}
		rt.metrics.RecordAnalysis(rt.service, count, time.Since(start), err)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

func (rt *Router) scheduleScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Path string `json:"path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.Path) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "path is required"})
		return
	}

	jobID, err := rt.scheduler.Schedule(r.Context(), req.Path)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{
		"job_id": jobID,
		"path":   strings.TrimSpace(req.Path),
	})
}

func (rt *Router) listDocuments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	folderID := strings.TrimSpace(r.URL.Query().Get("folder_id"))
	folderPath := strings.TrimSpace(r.URL.Query().Get("path"))
	if folderID == "" && folderPath == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query parameter 'folder_id' or 'path' is required"})
		return
	}
	recursive := r.URL.Query().Get("recursive") == "true"

	var docs []domain.Document
	var err error
	if folderID != "" {
		docs, err = rt.reader.ListByFolder(r.Context(), folderID, recursive)
	} else {
		docs, err = rt.reader.ListByFolderPath(r.Context(), folderPath, recursive)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

func (rt *Router) documentByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/documents/")
	if id == "" || strings.Contains(id, "/") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document id is required"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		doc, err := rt.reader.GetByID(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, doc)
	case http.MethodDelete:
		if err := rt.remover.RemoveDocument(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func (rt *Router) folderByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/folders/")
	if id == "" || strings.Contains(id, "/") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "folder id is required"})
		return
	}

	if r.Method != http.MethodDelete {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	if err := rt.remover.RemoveFolder(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}
