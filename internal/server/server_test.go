package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/agenthands/concord/internal/archive"
	"github.com/agenthands/concord/internal/config"
	"github.com/agenthands/concord/internal/core"
	"github.com/agenthands/concord/internal/core/brief"
	"github.com/agenthands/concord/internal/core/model"
	"github.com/agenthands/concord/internal/export"
)

const faqBody = `{"records":[
	{"id":"1","name":"What are your hours?","type":"faq","answer":"We close at 5pm"},
	{"id":"2","name":"What are your hours?","type":"faq","answer":"We close at 9pm"},
	{"id":"3","name":"Blue Cafe","type":"venue","phone":"555 123 4567"}
]}`

func newTestServer() *Server {
	gin.SetMode(gin.TestMode)
	svc := core.NewService(core.NewDetector(config.DefaultDetection()))
	svc.UUIDGenerator = func() string { return "run-1" }
	return NewServer(svc, nil)
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.SetupRouter().ServeHTTP(w, req)
	return w
}

func TestDetect(t *testing.T) {
	w := do(t, newTestServer(), http.MethodPost, "/conflicts/detect", faqBody)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Conflicts []model.ConflictGroup `json:"conflicts"`
		Summary   model.Summary         `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Conflicts, 1)
	assert.Equal(t, model.ConflictFAQAnswer, resp.Conflicts[0].ConflictDetails[0].ConflictType)
	assert.Equal(t, 1, resp.Summary.HighSeverity)
	assert.Equal(t, 2, resp.Summary.AffectedEntities)
}

func TestDetect_EmptyRecords(t *testing.T) {
	w := do(t, newTestServer(), http.MethodPost, "/conflicts/detect", `{"records":[]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"conflicts":[],"summary":{"totalConflicts":0,"highSeverity":0,"mediumSeverity":0,"lowSeverity":0,"affectedEntities":0}}`, w.Body.String())
}

func TestDetect_NumericFields(t *testing.T) {
	body := `{"records":[
		{"id":"a","name":"Blue Cafe","type":"venue","phone":"555-123-4567"},
		{"id":7,"name":"Red Bistro","type":"venue","phone":5551234567}
	]}`
	w := do(t, newTestServer(), http.MethodPost, "/conflicts/detect", body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Conflicts []model.ConflictGroup `json:"conflicts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Conflicts, 1)
	assert.Equal(t, model.ConflictPhoneMismatch, resp.Conflicts[0].ConflictDetails[0].ConflictType)
	assert.Equal(t, "7", resp.Conflicts[0].Entities[1].ID)
}

func TestDetect_InvalidBody(t *testing.T) {
	w := do(t, newTestServer(), http.MethodPost, "/conflicts/detect", `{"records":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid request")
}

func TestSummary(t *testing.T) {
	w := do(t, newTestServer(), http.MethodPost, "/conflicts/summary", faqBody)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"summary":{"totalConflicts":1,"highSeverity":1,"mediumSeverity":0,"lowSeverity":0,"affectedEntities":2}}`, w.Body.String())
}

func TestExport_YAML(t *testing.T) {
	w := do(t, newTestServer(), http.MethodPost, "/conflicts/export?format=yaml", faqBody)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/yaml", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "conflicts-run-1.yaml")

	var doc export.Document
	require.NoError(t, yaml.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "run-1", doc.RunID)
	assert.Len(t, doc.Conflicts, 1)
	assert.Len(t, doc.Clusters, 1)
}

func TestExport_UnknownFormat(t *testing.T) {
	w := do(t, newTestServer(), http.MethodPost, "/conflicts/export?format=xml", faqBody)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBrief(t *testing.T) {
	s := newTestServer()
	w := do(t, s, http.MethodPost, "/conflicts/brief", faqBody)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	briefer := &MockBriefer{Result: &brief.Brief{Text: "Start with the opening hours.", Focus: []string{"g1"}}}
	s.Briefer = briefer
	w = do(t, s, http.MethodPost, "/conflicts/brief", faqBody)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, briefer.Groups, 1)

	var resp struct {
		Brief string   `json:"brief"`
		Focus []string `json:"focus"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Start with the opening hours.", resp.Brief)
	assert.Equal(t, []string{"g1"}, resp.Focus)

	s.Briefer = &MockBriefer{Err: errors.New("rate limited")}
	w = do(t, s, http.MethodPost, "/conflicts/brief", faqBody)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestPersist(t *testing.T) {
	s := newTestServer()
	store := &MockStore{}
	s.Service.Store = store

	w := do(t, s, http.MethodPost, "/conflicts/persist", faqBody)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"runId":"run-1"`)
	require.Len(t, store.Runs, 1)
	assert.Len(t, store.Runs[0].Conflicts, 1)

	store.Err = errors.New("disk full")
	w = do(t, s, http.MethodPost, "/conflicts/persist", faqBody)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to persist run")
}

func TestRuns(t *testing.T) {
	s := newTestServer()
	w := do(t, s, http.MethodGet, "/runs", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	arch := &MockArchive{
		Infos: []archive.RunInfo{{ID: "run-1"}},
		Runs:  map[string]*model.Run{"run-1": {ID: "run-1", Conflicts: []model.ConflictGroup{}}},
	}
	s.Archive = arch

	w = do(t, s, http.MethodGet, "/runs?limit=5", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, arch.Limit)
	assert.Contains(t, w.Body.String(), `"id":"run-1"`)

	w = do(t, s, http.MethodGet, "/runs?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s, http.MethodGet, "/runs/run-1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"run-1"`)

	w = do(t, s, http.MethodGet, "/runs/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer()
	w := do(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)

	do(t, s, http.MethodPost, "/conflicts/detect", faqBody)
	w = do(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, bytes.Contains(w.Body.Bytes(), []byte("concord_http_requests_total")))
}
