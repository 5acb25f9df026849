package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecords(t *testing.T) {
	records, err := parseRecords([]byte(`[{"id":"1","name":"A","type":"faq"},{"_id":"2","name":"B"}]`))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "faq", records[0].Category)
	assert.Equal(t, "2", records[1].Key())

	records, err = parseRecords([]byte("\xEF\xBB\xBF  {\"records\": [{\"id\":\"x\",\"richContent\":{\"markdown\":\"**hi**\"}}]}"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "**hi**", records[0].RichContent.Markdown)

	records, err = parseRecords([]byte(`{"records": []}`))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParseRecords_NumericFields(t *testing.T) {
	records, err := parseRecords([]byte(`[
		{"id": "a", "name": "Blue Cafe", "type": "venue", "phone": "555-1234"},
		{"id": "b", "name": "Red Bistro", "type": "venue", "phone": 5551234},
		{"id": 7, "name": "Green Bar", "type": "venue", "phone": 5559999}
	]`))
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "5551234", records[1].Phone)
	assert.Equal(t, "7", records[2].Key())
}

func TestParseRecords_Errors(t *testing.T) {
	for name, input := range map[string]string{
		"empty":      "  ",
		"no records": `{"items": []}`,
		"bad array":  `[{"id": 1`,
		"scalar":     `"records"`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := parseRecords([]byte(input))
			assert.Error(t, err)
		})
	}
}
