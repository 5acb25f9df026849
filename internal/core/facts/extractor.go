// Package facts pulls typed literal claims out of cleaned text.
package facts

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/agenthands/concord/internal/core/model"
)

// DefaultWindow is how many bytes of context are kept on each side of a match.
const DefaultWindow = 20

var (
	datePattern = regexp.MustCompile(`\b(?:\d{1,2}/\d{1,2}/\d{4}|\d{4}-\d{2}-\d{2}|1[5-9]\d{2}|20\d{2})\b`)

	quantityPattern = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*(years?|months?|days?|hours?|minutes?|seconds?|times?|units?|items?|pieces?|steps?|versions?)\b`)

	namePattern = regexp.MustCompile(`\b(?i:named|called|known as|referred to as|created by|invented by)\s+([A-Z][\w'-]*(?:[ \t]+[A-Z][\w'-]*)*)`)

	booleanPattern = regexp.MustCompile(`(?i)\b(true|false|yes|no|correct|incorrect|right|wrong|accurate|inaccurate|exists|doesn'?t exist|does not exist|present|absent|available|unavailable)\b`)
)

// Extract returns every fact in text with the default context window.
func Extract(text string) []model.Fact {
	return ExtractWindow(text, DefaultWindow)
}

// ExtractWindow returns dates, quantities, names and booleans (in that order,
// each in text order) with window bytes of context around every match.
func ExtractWindow(text string, window int) []model.Fact {
	if text == "" {
		return nil
	}
	var out []model.Fact

	for _, m := range datePattern.FindAllStringIndex(text, -1) {
		out = append(out, model.Fact{
			Type:    model.FactDate,
			Value:   text[m[0]:m[1]],
			Context: contextAround(text, m[0], m[1], window),
		})
	}

	for _, m := range quantityPattern.FindAllStringSubmatchIndex(text, -1) {
		number := text[m[2]:m[3]]
		unit := Unit(text[m[4]:m[5]])
		out = append(out, model.Fact{
			Type:    model.FactQuantity,
			Value:   number + " " + unit,
			Context: contextAround(text, m[0], m[1], window),
		})
	}

	for _, m := range namePattern.FindAllStringSubmatchIndex(text, -1) {
		out = append(out, model.Fact{
			Type:    model.FactName,
			Value:   strings.TrimSpace(text[m[2]:m[3]]),
			Context: contextAround(text, m[0], m[1], window),
		})
	}

	for _, m := range booleanPattern.FindAllStringIndex(text, -1) {
		out = append(out, model.Fact{
			Type:    model.FactBoolean,
			Value:   canonicalBoolean(text[m[0]:m[1]]),
			Context: contextAround(text, m[0], m[1], window),
		})
	}

	return out
}

// ByType buckets facts by their type, keeping order inside each bucket.
func ByType(facts []model.Fact) map[model.FactType][]model.Fact {
	buckets := make(map[model.FactType][]model.Fact)
	for _, f := range facts {
		buckets[f.Type] = append(buckets[f.Type], f)
	}
	return buckets
}

// Unit lowercases a unit word and drops the plural "s".
func Unit(u string) string {
	u = strings.ToLower(u)
	if len(u) > 1 && strings.HasSuffix(u, "s") {
		return u[:len(u)-1]
	}
	return u
}

// SplitQuantity separates a quantity fact value into number and unit.
func SplitQuantity(value string) (number, unit string) {
	number, unit, _ = strings.Cut(value, " ")
	return number, unit
}

func canonicalBoolean(v string) string {
	v = strings.ToLower(v)
	switch v {
	case "doesn't exist", "doesnt exist", "does not exist":
		return "doesnt exist"
	}
	return v
}

func contextAround(text string, start, end, window int) string {
	lo := max(0, start-window)
	hi := min(len(text), end+window)
	for lo > 0 && !utf8.RuneStart(text[lo]) {
		lo--
	}
	for hi < len(text) && !utf8.RuneStart(text[hi]) {
		hi++
	}
	return text[lo:hi]
}
