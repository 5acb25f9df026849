package report

import (
	"strings"
	"testing"

	"github.com/agenthands/concord/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFAQGroup(t *testing.T) {
	a := NewAssembler(DefaultValueMaxLength)
	members := []model.Record{
		{ID: "1", Name: "What are your hours?", Category: "faq"},
		{AltID: "x2", Name: "What are your hours?", Category: "faq"},
	}
	g := a.FAQGroup("What are your hours?", members, []string{"We close at 5pm", "We close at 9pm"})

	assert.Equal(t, `Conflicting answers for "What are your hours?"`, g.Title)
	assert.Equal(t, model.SeverityHigh, g.Severity)
	require.Len(t, g.ConflictDetails, 1)
	d := g.ConflictDetails[0]
	assert.Equal(t, model.ConflictFAQAnswer, d.ConflictType)
	assert.Equal(t, []model.ConflictValue{
		{EntityID: "1", EntityName: "What are your hours?", Value: "We close at 5pm"},
		{EntityID: "x2", EntityName: "What are your hours?", Value: "We close at 9pm"},
	}, d.Values)
	assert.Equal(t, []string{"1", "x2"}, []string{g.Entities[0].ID, g.Entities[1].ID})

	again := a.FAQGroup("what are your hours", members, []string{"a", "b"})
	assert.Equal(t, g.ID, again.ID, "id follows the normalized question")
}

func TestPairGroup(t *testing.T) {
	a := NewAssembler(10)
	x := model.Record{Name: "Cafe"}
	y := model.Record{Name: "Café"}

	_, ok := a.PairGroup("venue", 0, 1, x, y, nil)
	assert.False(t, ok)

	details := []model.ConflictDetail{
		{Severity: model.SeverityMedium},
		{Severity: model.SeverityHigh},
	}
	g1, ok := a.PairGroup("venue", 0, 1, x, y, details)
	require.True(t, ok)
	g2, _ := a.PairGroup("venue", 0, 2, x, y, details)

	assert.Equal(t, model.SeverityHigh, g1.Severity)
	assert.NotEqual(t, g1.ID, g2.ID, "records without ids still get distinct groups")
	assert.Equal(t, `Conflict between "Cafe" and "Café"`, g1.Title)
	assert.Equal(t, model.UnknownKey, g1.Entities[0].ID)
}

func TestValue_Truncates(t *testing.T) {
	a := NewAssembler(5)
	v := a.Value(model.Record{ID: "1"}, strings.Repeat("é", 8))
	assert.Equal(t, "ééééé...", v.Value)
}

func TestMaxSeverity(t *testing.T) {
	assert.Equal(t, model.SeverityMedium, MaxSeverity([]model.ConflictDetail{
		{Severity: model.SeverityLow}, {Severity: model.SeverityMedium},
	}))
	assert.Equal(t, model.Severity(""), MaxSeverity(nil))
}

func TestSummarize(t *testing.T) {
	groups := []model.ConflictGroup{
		{Severity: model.SeverityHigh, Entities: []model.EntityRef{{ID: "a"}, {ID: "b"}}},
		{Severity: model.SeverityMedium, Entities: []model.EntityRef{{ID: "b"}, {ID: "c"}}},
		{Severity: model.SeverityHigh, Entities: []model.EntityRef{{ID: "a"}, {ID: "c"}}},
	}
	s := Summarize(groups)
	assert.Equal(t, model.Summary{
		TotalConflicts:   3,
		HighSeverity:     2,
		MediumSeverity:   1,
		LowSeverity:      0,
		AffectedEntities: 3,
	}, s)

	assert.Equal(t, model.Summary{}, Summarize(nil))
}
