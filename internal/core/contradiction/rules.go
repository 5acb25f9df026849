package contradiction

import (
	"regexp"
	"strings"
)

// TermPair is one symmetric rule: text on one side matching Pattern while the
// other side matches Opposite is a disagreement. Both patterns run against
// normalized text.
type TermPair struct {
	Family   string
	Pattern  *regexp.Regexp
	Opposite *regexp.Regexp
}

func termPair(family, pattern, opposite string) TermPair {
	return TermPair{
		Family:   family,
		Pattern:  regexp.MustCompile(`\b(?:` + pattern + `)\b`),
		Opposite: regexp.MustCompile(`\b(?:` + opposite + `)\b`),
	}
}

// positive finds Pattern after every Opposite match has been blanked out, so
// "not true" never counts as "true".
func (p TermPair) positive(text string) string {
	return p.Pattern.FindString(p.Opposite.ReplaceAllString(text, " "))
}

// Match reports the terms that disagree, checking both directions.
func (p TermPair) Match(a, b string) (string, string, bool) {
	if pos := p.positive(a); pos != "" {
		if opp := p.Opposite.FindString(b); opp != "" {
			return pos, opp, true
		}
	}
	if pos := p.positive(b); pos != "" {
		if opp := p.Opposite.FindString(a); opp != "" {
			return opp, pos, true
		}
	}
	return "", "", false
}

// lexicalPairs are the opposite-term families: truth, frequency, existence,
// quantity and origin.
var lexicalPairs = []TermPair{
	termPair("truth", `true`, `false|untrue|not true`),
	termPair("truth", `correct`, `incorrect|not correct`),
	termPair("truth", `accurate`, `inaccurate|not accurate`),
	termPair("truth", `right`, `wrong`),
	termPair("frequency", `always`, `never`),
	termPair("frequency", `always`, `sometimes|rarely|occasionally|seldom`),
	termPair("frequency", `never`, `sometimes|often|usually|frequently`),
	termPair("existence",
		`exists?|present|available|there is|there are`,
		`doesnt exist|does not exist|do not exist|dont exist|absent|unavailable|not available|not present|missing|there is no|there are no`),
	termPair("quantity", `many|most|numerous|lots of`, `few|none|hardly any`),
	termPair("origin",
		`discovered|invented|founded|created|established|built`,
		`(?:not|never|wasnt|werent) (?:discovered|invented|founded|created|established|built)`),
}

// statePairs extend the lexical layer with operational states that knowledge
// bases flip between: opening hours, feature flags, policies. They are checked
// after lexicalPairs.
var statePairs = []TermPair{
	termPair("state", `open`, `closed`),
	termPair("state", `enabled`, `disabled`),
	termPair("state", `supported`, `unsupported|not supported`),
	termPair("state", `allowed|permitted`, `prohibited|forbidden|not allowed|not permitted`),
}

// negatedPattern and contractionPattern find "<aux> not <word>" and
// "<aux>nt <word>" in normalized text.
var (
	negatedPattern     = regexp.MustCompile(`\b(is|are|was|were|do|does|did|can|will|has|have|had|should|would|could|must) not (\w+)`)
	contractionPattern = regexp.MustCompile(`\b(isnt|arent|wasnt|werent|dont|doesnt|didnt|cant|cannot|wont|hasnt|havent|hadnt|shouldnt|wouldnt|couldnt|mustnt) (\w+)`)
)

var contractions = map[string]string{
	"isnt":     "is",
	"arent":    "are",
	"wasnt":    "was",
	"werent":   "were",
	"dont":     "do",
	"doesnt":   "does",
	"didnt":    "did",
	"cant":     "can",
	"cannot":   "can",
	"wont":     "will",
	"hasnt":    "has",
	"havent":   "have",
	"hadnt":    "had",
	"shouldnt": "should",
	"wouldnt":  "would",
	"couldnt":  "could",
	"mustnt":   "must",
}

// "is not only" is emphasis, not negation.
var negationFillers = map[string]bool{
	"only": true,
	"just": true,
}

var yearPattern = regexp.MustCompile(`\b(?:1[5-9]\d{2}|20\d{2})\b`)

var booleanPairs = [][2]string{
	{"true", "false"},
	{"true", "no"},
	{"true", "incorrect"},
	{"true", "wrong"},
	{"true", "inaccurate"},
	{"yes", "no"},
	{"yes", "false"},
	{"correct", "incorrect"},
	{"correct", "wrong"},
	{"correct", "false"},
	{"right", "wrong"},
	{"accurate", "inaccurate"},
	{"exists", "doesnt exist"},
	{"exists", "absent"},
	{"present", "absent"},
	{"available", "unavailable"},
}

// booleanOpposites is booleanPairs indexed both ways.
var booleanOpposites = func() map[string]map[string]bool {
	m := make(map[string]map[string]bool)
	add := func(a, b string) {
		if m[a] == nil {
			m[a] = make(map[string]bool)
		}
		m[a][b] = true
	}
	for _, p := range booleanPairs {
		add(p[0], p[1])
		add(p[1], p[0])
	}
	return m
}()

var stepMarkerPattern = regexp.MustCompile(`\b(?:step \d+|first|second|third|then|next|finally|lastly)\b`)

// instructionWindow is how much text after a step marker belongs to it.
const instructionWindow = 150

var actionOpposites = []struct {
	action    string
	opposites []string
}{
	{"click", nil},
	{"select", []string{"deselect", "unselect"}},
	{"enable", []string{"disable"}},
	{"turn on", []string{"turn off"}},
	{"start", []string{"stop"}},
	{"begin", []string{"end"}},
	{"open", []string{"close"}},
	{"add", []string{"remove"}},
	{"include", []string{"exclude"}},
	{"allow", []string{"block", "prevent", "deny"}},
}

// actionPairs pairs each cue action with its opposites plus its negated forms.
var actionPairs = func() []TermPair {
	pairs := make([]TermPair, 0, len(actionOpposites))
	for _, a := range actionOpposites {
		opp := append([]string{`(?:dont|do not|never) ` + a.action}, a.opposites...)
		pairs = append(pairs, termPair("action", a.action, strings.Join(opp, "|")))
	}
	return pairs
}()
