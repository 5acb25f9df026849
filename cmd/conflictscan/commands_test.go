package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/concord/internal/core/model"
	"github.com/agenthands/concord/internal/export"
)

const recordsJSON = `{"records": [
	{"id": "1", "type": "faq", "name": "What are your hours?", "answer": "We close at 5pm"},
	{"id": "2", "type": "faq", "name": "What are your hours?", "answer": "We close at 9pm"},
	{"id": "3", "type": "venue", "name": "Blue Cafe", "phone": "555 123 4567"},
	{"id": "4", "type": "venue", "name": "Red Bistro", "phone": "(555) 123-4567"}
]}`

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "records.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("LOG_LEVEL", "")

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--no-color"))
	err := cmd.Execute()
	return out.String(), err
}

func TestDetect_Table(t *testing.T) {
	out, err := execute(t, "detect", writeInput(t, recordsJSON))
	require.NoError(t, err)
	assert.Contains(t, out, "faq_answer_conflict")
	assert.Contains(t, out, "phone_mismatch")
	assert.Contains(t, out, "HIGH")
	assert.Contains(t, out, "2 conflicts: 1 high, 1 medium, 0 low across 4 records")
}

func TestDetect_NoConflicts(t *testing.T) {
	out, err := execute(t, "detect", writeInput(t, `[]`))
	require.NoError(t, err)
	assert.Contains(t, out, "No conflicts found.")
}

func TestDetect_JSONToFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.json")
	_, err := execute(t, "detect", writeInput(t, recordsJSON), "--format", "json", "--out", dest)
	require.NoError(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	var doc export.Document
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, 2, doc.Summary.TotalConflicts)
	assert.Len(t, doc.Clusters, 2)
}

func TestDetect_UnknownFormat(t *testing.T) {
	_, err := execute(t, "detect", writeInput(t, recordsJSON), "--format", "xml")
	assert.Error(t, err)
}

func TestDetect_FailOn(t *testing.T) {
	_, err := execute(t, "detect", writeInput(t, recordsJSON), "--fail-on", "high")
	var found *conflictsFoundError
	require.True(t, errors.As(err, &found))
	assert.Equal(t, 1, found.count)

	_, err = execute(t, "detect", writeInput(t, recordsJSON), "--fail-on", "medium")
	require.True(t, errors.As(err, &found))
	assert.Equal(t, 2, found.count)

	_, err = execute(t, "detect", writeInput(t, recordsJSON), "--fail-on", "urgent")
	assert.Error(t, err)
	assert.False(t, errors.As(err, &found))
}

func TestDetect_MissingFile(t *testing.T) {
	_, err := execute(t, "detect", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestSummary(t *testing.T) {
	out, err := execute(t, "summary", writeInput(t, recordsJSON), "--json")
	require.NoError(t, err)

	var s model.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, model.Summary{TotalConflicts: 2, HighSeverity: 1, MediumSeverity: 1, AffectedEntities: 4}, s)
}

func TestCheckFailOn(t *testing.T) {
	run := &model.Run{Conflicts: []model.ConflictGroup{{Severity: model.SeverityLow}}}
	assert.NoError(t, checkFailOn(run, ""))
	assert.NoError(t, checkFailOn(run, "medium"))
	assert.Error(t, checkFailOn(run, "low"))
}
