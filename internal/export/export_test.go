package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/agenthands/concord/internal/core/model"
)

func sampleDoc() *Document {
	return NewDocument(&model.Run{
		ID:          "run-1",
		GeneratedAt: time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC),
		Summary:     model.Summary{TotalConflicts: 1, MediumSeverity: 1, AffectedEntities: 2},
		Conflicts: []model.ConflictGroup{{
			ID:       "g1",
			Title:    "Conflict between A and B",
			Severity: model.SeverityMedium,
			Entities: []model.EntityRef{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}},
			ConflictDetails: []model.ConflictDetail{{
				Field:        "phone",
				Values:       []model.ConflictValue{{EntityID: "a", EntityName: "A", Value: "555-0100"}, {EntityID: "b", EntityName: "B", Value: "(555) 0100"}},
				ConflictType: model.ConflictPhoneMismatch,
				Severity:     model.SeverityMedium,
			}},
		}},
	})
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatJSON, "JSON": FormatJSON, "yml": FormatYAML, "csv": FormatCSV} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestWrite_JSONFieldNames(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleDoc(), FormatJSON))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	assert.Equal(t, "2024-02-03T04:05:06Z", raw["generatedAt"])
	assert.EqualValues(t, 1, raw["summary"].(map[string]any)["totalConflicts"])
	group := raw["conflicts"].([]any)[0].(map[string]any)
	detail := group["conflictDetails"].([]any)[0].(map[string]any)
	assert.Equal(t, "phone_mismatch", detail["conflictType"])
	assert.Equal(t, "a", detail["values"].([]any)[0].(map[string]any)["entityId"])
	assert.Len(t, raw["clusters"], 1)
}

func TestWrite_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleDoc(), FormatYAML))

	var raw map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &raw))
	assert.Equal(t, "run-1", raw["runId"])
	assert.Contains(t, buf.String(), "conflictDetails:")
	assert.Contains(t, buf.String(), "affectedEntities: 2")
}

func TestWrite_CSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleDoc(), FormatCSV))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "conflict_id,title,conflict_severity,field,conflict_type,severity,entity_id,entity_name,value", lines[0])
	assert.Equal(t, "g1,Conflict between A and B,medium,phone,phone_mismatch,medium,b,B,(555) 0100", lines[2])
}

func TestNewDocument_EmptyRunHasLists(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, NewDocument(&model.Run{}), FormatJSON))
	assert.Contains(t, buf.String(), `"conflicts": []`)
	assert.Contains(t, buf.String(), `"clusters": []`)
}
