package httpadapter

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequestIDMiddlewareGeneratesAndEchoesID(t *testing.T) {
	var seen string
	handler := requestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if seen == "" {
		t.Fatalf("expected a generated request id in context")
	}
	if got := res.Header().Get(requestIDHeader); got != seen {
		t.Fatalf("expected echoed header %q, got %q", seen, got)
	}
}

func TestRequestIDMiddlewareKeepsIncomingID(t *testing.T) {
	handler := requestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "req-123")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if got := res.Header().Get(requestIDHeader); got != "req-123" {
		t.Fatalf("expected incoming id to be kept, got %q", got)
	}
}

func TestAccessLogRecordsStatusBytesAndFolderPath(t *testing.T) {
	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(previous) })

	handler := accessLogMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"missing"}`))
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/folders/analysis?path=/data/contracts", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["level"] != "WARN" {
		t.Fatalf("expected WARN for a 4xx, got %v", entry["level"])
	}
	if entry["status"] != float64(http.StatusNotFound) {
		t.Fatalf("expected status 404, got %v", entry["status"])
	}
	if entry["bytes"] != float64(len(`{"error":"missing"}`)) {
		t.Fatalf("expected body length recorded, got %v", entry["bytes"])
	}
	if entry["folder_path"] != "/data/contracts" {
		t.Fatalf("expected folder_path attribute, got %v", entry["folder_path"])
	}
}
