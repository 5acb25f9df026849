// Package textnorm turns knowledge-base field values into comparable text.
package textnorm

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agenthands/concord/internal/core/model"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

type rewrite struct {
	pattern *regexp.Regexp
	replace string
}

// Applied in order. Code blocks and rules go first so their markers are not
// read as emphasis or list items. Line markers go before emphasis so a "* "
// bullet is never taken for an italic opener.
var markdownRules = []rewrite{
	{regexp.MustCompile("(?s)```.*?```"), ""},
	{regexp.MustCompile("`([^`\n]+)`"), "$1"},
	{regexp.MustCompile(`(?m)^[ \t]*(?:(?:-[ \t]*){3,}|(?:\*[ \t]*){3,}|(?:_[ \t]*){3,})$`), ""},
	{regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`), "$1"},
	{regexp.MustCompile(`\[([^\]]+)\]\([^)]*\)`), "$1"},
	{regexp.MustCompile(`(?m)^[ \t]*#{1,6}[ \t]+`), ""},
	{regexp.MustCompile(`(?m)^[ \t]*>[ \t]?`), ""},
	{regexp.MustCompile(`(?m)^[ \t]*[-*+][ \t]+`), ""},
	{regexp.MustCompile(`(?m)^[ \t]*\d+\.[ \t]+`), ""},
	{regexp.MustCompile(`\*\*([^*\n]+)\*\*`), "$1"},
	{regexp.MustCompile(`__([^_\n]+)__`), "$1"},
	{regexp.MustCompile(`\*([^*\n]+)\*`), "$1"},
	{regexp.MustCompile(`(^|[^\w])_([^_\n]+)_([^\w]|$)`), "$1$2$3"},
	{regexp.MustCompile(`\n{3,}`), "\n\n"},
}

var blockTags = map[string]bool{
	"p": true, "br": true, "div": true, "li": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// ExtractTextContent unwraps rich-text wrappers, strips HTML and markdown
// structure and returns trimmed plain text. Nil input yields "".
func ExtractTextContent(content any) string {
	text := coerce(content)
	if text == "" {
		return ""
	}
	if strings.ContainsRune(text, '<') || strings.ContainsRune(text, '&') {
		text = stripTags(text)
	}
	for _, r := range markdownRules {
		text = r.pattern.ReplaceAllString(text, r.replace)
	}
	return strings.TrimSpace(text)
}

func coerce(content any) string {
	switch v := content.(type) {
	case nil:
		return ""
	case string:
		return v
	case *model.RichText:
		if v == nil {
			return ""
		}
		return richString(*v)
	case model.RichText:
		return richString(v)
	case map[string]any:
		for _, key := range []string{"markdown", "html"} {
			if s, ok := v[key].(string); ok && s != "" {
				return s
			}
		}
		return marshal(v)
	case fmt.Stringer:
		return v.String()
	default:
		return marshal(v)
	}
}

func richString(r model.RichText) string {
	switch {
	case r.Markdown != "":
		return r.Markdown
	case r.HTML != "":
		return r.HTML
	case r.Plain != "":
		return r.Plain
	default:
		return r.Raw
	}
}

func marshal(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

func stripTags(s string) string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return b.String()
			}
			return s
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if blockTags[string(name)] {
				b.WriteByte('\n')
			}
		}
	}
}

// NormalizeString lowercases, drops punctuation and diacritics and collapses
// whitespace so that formatting never causes a false conflict.
func NormalizeString(s string) string {
	if s == "" {
		return ""
	}
	decomposed := norm.NFKD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		switch {
		case unicode.Is(unicode.Mn, r):
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_':
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// NormalizePhone keeps only the digits.
func NormalizePhone(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeURL makes website values comparable: case, surrounding space and a
// trailing slash are ignored.
func NormalizeURL(s string) string {
	return strings.TrimRight(strings.ToLower(strings.TrimSpace(s)), "/")
}

// Truncate shortens s to at most limit runes, marking the cut with "...".
func Truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + "..."
}
