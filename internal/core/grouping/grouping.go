// Package grouping decides which records get compared with each other.
package grouping

import (
	"strings"

	"github.com/agenthands/concord/internal/core/model"
	"github.com/agenthands/concord/internal/core/textnorm"
)

var (
	DefaultFAQCategories      = []string{"faq", "question", "qa", "q&a", "faq_item"}
	DefaultExcludedCategories = []string{"location", "address", "image", "divider", "banner", "decoration"}
)

// Policy classifies categories. Categories are matched case-insensitively.
type Policy struct {
	faq      map[string]bool
	excluded map[string]bool
}

func NewPolicy(faq, excluded []string) Policy {
	return Policy{faq: categorySet(faq), excluded: categorySet(excluded)}
}

// DefaultPolicy uses DefaultFAQCategories and DefaultExcludedCategories.
func DefaultPolicy() Policy {
	return NewPolicy(DefaultFAQCategories, DefaultExcludedCategories)
}

func categorySet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[Category(n)] = true
	}
	return set
}

// Category is the canonical form of a category tag.
func Category(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

func (p Policy) IsFAQ(tag string) bool      { return p.faq[Category(tag)] }
func (p Policy) IsExcluded(tag string) bool { return p.excluded[Category(tag)] }

// FAQGroup is every FAQ record asking the same question.
type FAQGroup struct {
	Key      string
	Question string
	Members  []model.Record
}

// FAQGroups groups FAQ records by normalized question and returns the groups
// with two or more members, in order of first appearance. Records without a
// usable question are skipped.
func (p Policy) FAQGroups(records []model.Record) []FAQGroup {
	index := make(map[string]int)
	var groups []FAQGroup
	for _, r := range records {
		if !p.IsFAQ(r.Category) {
			continue
		}
		key := textnorm.NormalizeString(r.Name)
		if key == "" {
			continue
		}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, FAQGroup{Key: key, Question: strings.TrimSpace(r.Name)})
		}
		groups[i].Members = append(groups[i].Members, r)
	}

	out := groups[:0]
	for _, g := range groups {
		if len(g.Members) >= 2 {
			out = append(out, g)
		}
	}
	return out
}

// Bucket is the set of comparable records sharing a category.
type Bucket struct {
	Category string
	Records  []model.Record
}

// Buckets partitions every record that is neither FAQ nor excluded by
// category, in order of first appearance.
func (p Policy) Buckets(records []model.Record) []Bucket {
	index := make(map[string]int)
	var buckets []Bucket
	for _, r := range records {
		if p.IsFAQ(r.Category) || p.IsExcluded(r.Category) {
			continue
		}
		cat := Category(r.Category)
		i, ok := index[cat]
		if !ok {
			i = len(buckets)
			index[cat] = i
			buckets = append(buckets, Bucket{Category: cat})
		}
		buckets[i].Records = append(buckets[i].Records, r)
	}
	return buckets
}
