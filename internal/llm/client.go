package llm

import (
	"context"
)

type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Ranker orders documents by how well they fit an instruction.
type Ranker interface {
	Rank(ctx context.Context, instruction string, documents []string) ([]int, error)
}
