package grouping

import (
	"github.com/agenthands/concord/internal/core/model"
	"github.com/agenthands/concord/internal/core/textnorm"
)

// Field names as they appear on records.
const (
	FieldAnswer          = "answer"
	FieldDescription     = "description"
	FieldContent         = "content"
	FieldBody            = "body"
	FieldRichDescription = "richDescription"
	FieldRichContent     = "richContent"
	FieldPhone           = "phone"
	FieldWebsite         = "website"
)

// DefaultFieldPriority applies to categories without their own entry.
var DefaultFieldPriority = []string{
	FieldAnswer,
	FieldDescription,
	FieldContent,
	FieldBody,
	FieldRichDescription,
	FieldRichContent,
}

// DefaultCategoryPriority prefers the long-form fields for article-like
// categories and the short description for listings.
var DefaultCategoryPriority = map[string][]string{
	"article": {FieldContent, FieldRichContent, FieldBody, FieldDescription, FieldRichDescription},
	"post":    {FieldContent, FieldRichContent, FieldBody, FieldDescription, FieldRichDescription},
	"page":    {FieldContent, FieldRichContent, FieldBody, FieldDescription, FieldRichDescription},
	"service": {FieldDescription, FieldRichDescription, FieldContent, FieldRichContent, FieldBody},
	"product": {FieldDescription, FieldRichDescription, FieldContent, FieldRichContent, FieldBody},
}

// FieldText returns the cleaned text of a named field, or "" when the record
// has none.
func FieldText(r model.Record, field string) string {
	switch field {
	case FieldAnswer:
		return textnorm.ExtractTextContent(r.Answer)
	case FieldDescription:
		return textnorm.ExtractTextContent(r.Description)
	case FieldContent:
		return textnorm.ExtractTextContent(r.Content)
	case FieldBody:
		return textnorm.ExtractTextContent(r.Body)
	case FieldRichDescription:
		return textnorm.ExtractTextContent(r.RichDescription)
	case FieldRichContent:
		return textnorm.ExtractTextContent(r.RichContent)
	}
	return ""
}

// FAQAnswer is the answer of an FAQ record, falling back to its description.
func FAQAnswer(r model.Record) string {
	if s := FieldText(r, FieldAnswer); s != "" {
		return s
	}
	return FieldText(r, FieldDescription)
}

// Selection is the text picked from each side of a pair.
type Selection struct {
	Field string
	A, B  string
}

// FieldSelector picks which text field of two records to compare.
type FieldSelector struct {
	priority map[string][]string
	fallback []string
}

// NewFieldSelector builds a selector from a category to field list table.
// A nil table means DefaultCategoryPriority.
func NewFieldSelector(priority map[string][]string) *FieldSelector {
	if priority == nil {
		priority = DefaultCategoryPriority
	}
	table := make(map[string][]string, len(priority))
	for cat, fields := range priority {
		table[Category(cat)] = fields
	}
	return &FieldSelector{priority: table, fallback: DefaultFieldPriority}
}

// Priority returns the field order used for category.
func (s *FieldSelector) Priority(category string) []string {
	if fields, ok := s.priority[Category(category)]; ok && len(fields) > 0 {
		return fields
	}
	return s.fallback
}

// Select returns the first field both records fill. Without one it pairs each
// record's best field under a's field name. ok is false when either record has
// no text at all.
func (s *FieldSelector) Select(category string, a, b model.Record) (Selection, bool) {
	fields := s.Priority(category)
	for _, f := range fields {
		ta, tb := FieldText(a, f), FieldText(b, f)
		if ta != "" && tb != "" {
			return Selection{Field: f, A: ta, B: tb}, true
		}
	}

	fa, ta := best(a, fields)
	_, tb := best(b, fields)
	if ta == "" || tb == "" {
		return Selection{}, false
	}
	return Selection{Field: fa, A: ta, B: tb}, true
}

func best(r model.Record, fields []string) (string, string) {
	for _, f := range fields {
		if t := FieldText(r, f); t != "" {
			return f, t
		}
	}
	return "", ""
}

// ContradictionType maps the field that disagreed to its conflict type.
func ContradictionType(field string) model.ConflictType {
	switch field {
	case FieldAnswer:
		return model.ConflictAnswerContradiction
	case FieldDescription, FieldRichDescription:
		return model.ConflictDescriptionContradiction
	default:
		return model.ConflictContentContradiction
	}
}
