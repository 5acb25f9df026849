package contradiction

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agenthands/concord/internal/core/facts"
	"github.com/agenthands/concord/internal/core/model"
	"github.com/agenthands/concord/internal/core/similarity"
)

// Layer names accepted by WithLayers and the detection config.
const (
	LayerLexical    = "lexical"
	LayerFact       = "fact"
	LayerProcedural = "procedural"
	LayerTemporal   = "temporal"
)

// AllLayers lists every layer in evaluation order.
func AllLayers() []string {
	return []string{LayerLexical, LayerFact, LayerProcedural, LayerTemporal}
}

// Text is one side of a comparison. Clean keeps case and punctuation for
// fact extraction, Norm is the normalized form the word rules run on.
type Text struct {
	Clean string
	Norm  string
}

// Layer decides whether two texts disagree and explains why.
type Layer interface {
	Name() string
	Check(a, b Text) (evidence string, ok bool)
}

type lexicalLayer struct{}

func (lexicalLayer) Name() string { return LayerLexical }

func (lexicalLayer) Check(a, b Text) (string, bool) {
	for _, table := range [][]TermPair{lexicalPairs, statePairs} {
		for _, p := range table {
			if x, y, ok := p.Match(a.Norm, b.Norm); ok {
				return fmt.Sprintf("%s: %q vs %q", p.Family, x, y), true
			}
		}
	}
	if ev, ok := negation(a.Norm, b.Norm); ok {
		return ev, true
	}
	if ev, ok := negation(b.Norm, a.Norm); ok {
		return ev, true
	}
	return yearMismatch(a.Norm, b.Norm)
}

// negation finds "<aux> not <word>" in neg whose plain "<aux> <word>" form
// appears in plain.
func negation(neg, plain string) (string, bool) {
	type claim struct{ aux, word, phrase string }
	var claims []claim
	for _, m := range negatedPattern.FindAllStringSubmatch(neg, -1) {
		claims = append(claims, claim{m[1], m[2], m[0]})
	}
	for _, m := range contractionPattern.FindAllStringSubmatch(neg, -1) {
		claims = append(claims, claim{contractions[m[1]], m[2], m[0]})
	}
	for _, c := range claims {
		if negationFillers[c.word] {
			continue
		}
		positive := c.aux + " " + c.word
		re := regexp.MustCompile(`\b` + regexp.QuoteMeta(positive) + `\b`)
		if re.MatchString(plain) {
			return fmt.Sprintf("negation: %q vs %q", c.phrase, positive), true
		}
	}
	return "", false
}

// yearMismatch fires when each text names a year the other does not.
func yearMismatch(a, b string) (string, bool) {
	ya := yearSet(a)
	yb := yearSet(b)
	onlyA := difference(ya, yb)
	onlyB := difference(yb, ya)
	if len(onlyA) == 0 || len(onlyB) == 0 {
		return "", false
	}
	return fmt.Sprintf("year: %s vs %s", strings.Join(onlyA, ","), strings.Join(onlyB, ",")), true
}

func yearSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, y := range yearPattern.FindAllString(s, -1) {
		set[y] = true
	}
	return set
}

func difference(a, b map[string]bool) []string {
	var out []string
	for k := range a {
		if !b[k] {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

type factLayer struct{}

func (factLayer) Name() string { return LayerFact }

func (factLayer) Check(a, b Text) (string, bool) {
	fa := facts.ByType(facts.Extract(a.Clean))
	fb := facts.ByType(facts.Extract(b.Clean))

	for _, typ := range []model.FactType{model.FactDate, model.FactQuantity, model.FactName} {
		for _, x := range fa[typ] {
			for _, y := range fb[typ] {
				if x.Value != y.Value {
					return fmt.Sprintf("%s: %s vs %s", typ, x.Value, y.Value), true
				}
			}
		}
	}
	for _, x := range fa[model.FactBoolean] {
		for _, y := range fb[model.FactBoolean] {
			if booleanOpposites[x.Value][y.Value] {
				return fmt.Sprintf("boolean: %s vs %s", x.Value, y.Value), true
			}
		}
	}
	return "", false
}

type proceduralLayer struct{}

func (proceduralLayer) Name() string { return LayerProcedural }

func (proceduralLayer) Check(a, b Text) (string, bool) {
	sa := instructions(a.Norm)
	sb := instructions(b.Norm)
	n := min(len(sa), len(sb))
	for i := 0; i < n; i++ {
		for _, p := range actionPairs {
			if x, y, ok := p.Match(sa[i], sb[i]); ok {
				return fmt.Sprintf("step %d: %q vs %q", i+1, x, y), true
			}
		}
	}
	return "", false
}

// instructions returns the text following each step marker, in order.
func instructions(s string) []string {
	var out []string
	for _, m := range stepMarkerPattern.FindAllStringIndex(s, -1) {
		end := min(len(s), m[0]+instructionWindow)
		for end < len(s) && !utf8.RuneStart(s[end]) {
			end++
		}
		out = append(out, s[m[0]:end])
	}
	return out
}

// temporalWindow widens fact context so the overlap gate has words to judge.
const temporalWindow = 30

type temporalLayer struct {
	threshold float64
}

func (temporalLayer) Name() string { return LayerTemporal }

func (l temporalLayer) Check(a, b Text) (string, bool) {
	fa := facts.ByType(facts.ExtractWindow(a.Clean, temporalWindow))
	fb := facts.ByType(facts.ExtractWindow(b.Clean, temporalWindow))

	for _, x := range fa[model.FactDate] {
		for _, y := range fb[model.FactDate] {
			if x.Value != y.Value && l.sameEvent(x, y) {
				return fmt.Sprintf("date: %s vs %s", x.Value, y.Value), true
			}
		}
	}
	for _, x := range fa[model.FactQuantity] {
		nx, ux := facts.SplitQuantity(x.Value)
		for _, y := range fb[model.FactQuantity] {
			ny, uy := facts.SplitQuantity(y.Value)
			if ux == uy && nx != ny && l.sameEvent(x, y) {
				return fmt.Sprintf("quantity: %s vs %s", x.Value, y.Value), true
			}
		}
	}
	return "", false
}

func (l temporalLayer) sameEvent(x, y model.Fact) bool {
	return similarity.WordOverlap(x.Context, y.Context) > l.threshold
}
