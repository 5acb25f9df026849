package textnorm

import (
	"testing"

	"github.com/agenthands/concord/internal/core/model"
	"github.com/stretchr/testify/assert"
)

func TestExtractTextContent_Nil(t *testing.T) {
	assert.Equal(t, "", ExtractTextContent(nil))
	var rt *model.RichText
	assert.Equal(t, "", ExtractTextContent(rt))
}

func TestExtractTextContent_UnwrapsRichText(t *testing.T) {
	assert.Equal(t, "Hello world", ExtractTextContent(&model.RichText{Markdown: "**Hello** world"}))
	assert.Equal(t, "Hello world", ExtractTextContent(model.RichText{HTML: "<b>Hello</b> world"}))
	assert.Equal(t, "plain", ExtractTextContent(model.PlainText("plain")))
	assert.Equal(t, "from map", ExtractTextContent(map[string]any{"markdown": "from map"}))
}

func TestExtractTextContent_CoercesUnexpectedShapes(t *testing.T) {
	assert.Equal(t, "42", ExtractTextContent(42))
	assert.Equal(t, `{"x":1}`, ExtractTextContent(map[string]any{"x": 1}))
	assert.Equal(t, "[1,2]", ExtractTextContent(&model.RichText{Raw: "[1,2]"}))
}

func TestExtractTextContent_StripsMarkdown(t *testing.T) {
	input := "# Title\n\nSome *italic* and `code` with a [link](http://x.y) and ![alt](img.png).\n\n\n\n- item one\n2. item two\n> quoted\n\n---\n```\nblock\n```\nend"
	got := ExtractTextContent(input)
	assert.Equal(t, "Title\n\nSome italic and code with a link and alt.\n\nitem one\nitem two\nquoted\n\nend", got)
}

func TestExtractTextContent_BulletsWithEmphasis(t *testing.T) {
	assert.Equal(t, "item with emphasis", ExtractTextContent("* item with *emphasis*"))
	assert.Equal(t, "Parking is available\nfree after 6pm", ExtractTextContent("- **Parking** is available\n+ _free_ after 6pm"))
	assert.Equal(t, "bold start", ExtractTextContent("**bold** start"))
}

func TestExtractTextContent_StripsHTML(t *testing.T) {
	got := ExtractTextContent("<p>Open <strong>daily</strong> &amp; weekends</p>")
	assert.Equal(t, "Open daily & weekends", got)
}

func TestExtractTextContent_CollapsesBlankLines(t *testing.T) {
	assert.Equal(t, "a\n\nb", ExtractTextContent("a\n\n\n\n\nb"))
}

func TestNormalizeString(t *testing.T) {
	cases := map[string]string{
		"  Hello,   World!  ":       "hello world",
		"What are your hours?":      "what are your hours",
		"Don't\tclick\n\nthe BUTTON": "dont click the button",
		"Café déjà vu":              "cafe deja vu",
		"":                          "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeString(in), in)
	}
}

func TestNormalizeString_Idempotent(t *testing.T) {
	inputs := []string{
		"The store is open on Sundays.",
		"  MIXED case -- with *** punctuation ...",
		"Ünïcödé   tëxt here",
		"snake_case stays",
	}
	for _, in := range inputs {
		once := NormalizeString(in)
		assert.Equal(t, once, NormalizeString(once), in)
	}
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "15551234567", NormalizePhone("+1 (555) 123-4567"))
	assert.Equal(t, "", NormalizePhone("n/a"))
}

func TestNormalizeURL(t *testing.T) {
	assert.Equal(t, "https://example.com", NormalizeURL(" HTTPS://Example.com/ "))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abc...", Truncate("abcdef", 3))
	assert.Equal(t, "héé...", Truncate("héééé", 3))
	assert.Equal(t, "abcdef", Truncate("abcdef", 0))
}
