package llm

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

const rankDocumentLimit = 200

var indexPattern = regexp.MustCompile(`\d+`)

// SimpleLLMRanker asks a model to order documents and falls back to the input
// order when the model fails or omits documents.
type SimpleLLMRanker struct {
	LLM LLMClient
}

func NewSimpleLLMRanker(client LLMClient) *SimpleLLMRanker {
	return &SimpleLLMRanker{LLM: client}
}

func (r *SimpleLLMRanker) Rank(ctx context.Context, instruction string, docs []string) ([]int, error) {
	if len(docs) < 2 {
		return identity(len(docs)), nil
	}

	var docList strings.Builder
	for i, d := range docs {
		if utf8.RuneCountInString(d) > rankDocumentLimit {
			d = string([]rune(d)[:rankDocumentLimit]) + "..."
		}
		fmt.Fprintf(&docList, "[%d] %s\n", i, d)
	}

	prompt := fmt.Sprintf(`%s

Documents:
%s
Output ONLY the indices of the documents in order, separated by commas.
Example: 0, 2, 1
Do not output any other text.`, instruction, docList.String())

	resp, err := r.LLM.Generate(ctx, prompt)
	if err != nil {
		return identity(len(docs)), nil
	}
	return completeOrder(parseIndices(resp), len(docs)), nil
}

func parseIndices(s string) []int {
	var indices []int
	for _, m := range indexPattern.FindAllString(s, -1) {
		if i, err := strconv.Atoi(m); err == nil {
			indices = append(indices, i)
		}
	}
	return indices
}

// completeOrder drops out-of-range and repeated indices and appends the ones
// the model left out in their original order.
func completeOrder(indices []int, n int) []int {
	seen := make([]bool, n)
	out := make([]int, 0, n)
	for _, i := range indices {
		if i >= 0 && i < n && !seen[i] {
			seen[i] = true
			out = append(out, i)
		}
	}
	for i := 0; i < n; i++ {
		if !seen[i] {
			out = append(out, i)
		}
	}
	return out
}

func identity(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
