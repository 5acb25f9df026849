// Package report turns comparison results into conflict groups and summaries.
package report

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/agenthands/concord/internal/core/model"
	"github.com/agenthands/concord/internal/core/textnorm"
)

// DefaultValueMaxLength bounds how many runes of a conflicting value are kept.
const DefaultValueMaxLength = 200

// groupNamespace scopes conflict group ids so they never collide with other
// SHA-1 UUIDs.
var groupNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("concord/conflict-group"))

// Assembler builds ConflictDetails and ConflictGroups.
type Assembler struct {
	ValueMaxLength int
}

func NewAssembler(valueMaxLength int) *Assembler {
	return &Assembler{ValueMaxLength: valueMaxLength}
}

// Value is one record's side of a detail, truncated.
func (a *Assembler) Value(r model.Record, value string) model.ConflictValue {
	return model.ConflictValue{
		EntityID:   r.Key(),
		EntityName: r.Name,
		Value:      textnorm.Truncate(value, a.ValueMaxLength),
	}
}

// FAQGroup reports FAQ records that answer the same question differently.
func (a *Assembler) FAQGroup(question string, members []model.Record, answers []string) model.ConflictGroup {
	values := make([]model.ConflictValue, len(members))
	entities := make([]model.EntityRef, len(members))
	for i, m := range members {
		values[i] = a.Value(m, answers[i])
		entities[i] = m.Ref()
	}
	detail := model.ConflictDetail{
		Field:        "answer",
		Values:       values,
		ConflictType: model.ConflictFAQAnswer,
		Severity:     model.SeverityHigh,
		Description:  fmt.Sprintf("%d FAQ entries answer %q differently", len(members), question),
	}
	return model.ConflictGroup{
		ID:              GroupID("faq:" + textnorm.NormalizeString(question)),
		Title:           fmt.Sprintf("Conflicting answers for %q", question),
		Entities:        entities,
		ConflictDetails: []model.ConflictDetail{detail},
		Severity:        model.SeverityHigh,
	}
}

// PairGroup collects the details found between two records of a bucket. i and
// j are the records' positions in the bucket; they keep ids unique when
// records share the unknown key. ok is false when there are no details.
func (a *Assembler) PairGroup(category string, i, j int, x, y model.Record, details []model.ConflictDetail) (model.ConflictGroup, bool) {
	if len(details) == 0 {
		return model.ConflictGroup{}, false
	}
	return model.ConflictGroup{
		ID:              GroupID(fmt.Sprintf("pair:%s:%s|%s#%d:%d", category, x.Key(), y.Key(), i, j)),
		Title:           PairTitle(x, y),
		Entities:        []model.EntityRef{x.Ref(), y.Ref()},
		ConflictDetails: details,
		Severity:        MaxSeverity(details),
	}, true
}

// PairTitle names the two records involved.
func PairTitle(x, y model.Record) string {
	return fmt.Sprintf("Conflict between %q and %q", displayName(x), displayName(y))
}

func displayName(r model.Record) string {
	if name := strings.TrimSpace(r.Name); name != "" {
		return name
	}
	return r.Key()
}

// GroupID derives a stable id from the identity of a group.
func GroupID(identity string) string {
	return uuid.NewSHA1(groupNamespace, []byte(identity)).String()
}

// MaxSeverity is the highest severity among details.
func MaxSeverity(details []model.ConflictDetail) model.Severity {
	var top model.Severity
	for _, d := range details {
		if d.Severity.Rank() > top.Rank() {
			top = d.Severity
		}
	}
	return top
}

// Summarize counts groups per severity and the distinct entity ids involved.
func Summarize(groups []model.ConflictGroup) model.Summary {
	s := model.Summary{TotalConflicts: len(groups)}
	affected := make(map[string]struct{})
	for _, g := range groups {
		switch g.Severity {
		case model.SeverityHigh:
			s.HighSeverity++
		case model.SeverityMedium:
			s.MediumSeverity++
		default:
			s.LowSeverity++
		}
		for _, e := range g.Entities {
			affected[e.ID] = struct{}{}
		}
	}
	s.AffectedEntities = len(affected)
	return s
}
