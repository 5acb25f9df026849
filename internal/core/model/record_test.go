package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_UnmarshalScalars(t *testing.T) {
	var records []Record
	err := json.Unmarshal([]byte(`[
		{"id": "a", "name": "Blue Cafe", "type": "venue", "phone": "555-1234"},
		{"id": "b", "name": "Red Bistro", "type": "venue", "phone": 5551234},
		{"id": 7, "name": 2024, "type": "venue", "answer": true, "website": null},
		{"_id": 12.5, "description": {"en": "hi"}, "content": [1, 2]}
	]`), &records)
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, "555-1234", records[0].Phone)
	assert.Equal(t, "5551234", records[1].Phone)
	assert.Equal(t, "7", records[2].ID)
	assert.Equal(t, "7", records[2].Key())
	assert.Equal(t, "2024", records[2].Name)
	assert.Equal(t, "true", records[2].Answer)
	assert.Empty(t, records[2].Website)
	assert.Equal(t, "12.5", records[3].Key())
	assert.Equal(t, `{"en": "hi"}`, records[3].Description)
	assert.Equal(t, "[1, 2]", records[3].Content)
}

func TestRecord_UnmarshalNonObject(t *testing.T) {
	var records []Record
	err := json.Unmarshal([]byte(`[42, "text", null, {"id": "x", "richContent": {"markdown": "**hi**"}}]`), &records)
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, UnknownKey, records[0].Key())
	assert.Equal(t, Record{}, records[1])
	assert.Equal(t, "x", records[3].ID)
	assert.Equal(t, "**hi**", records[3].RichContent.Markdown)
}

func TestRecord_MarshalKeepsStrings(t *testing.T) {
	data, err := json.Marshal(Record{ID: "7", Phone: "5551234"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"7","phone":"5551234"}`, string(data))
}
