// Package brief asks a language model for a short review brief over detected
// conflicts. The brief orders the work; it never decides which value is right.
package brief

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/agenthands/concord/internal/config"
	"github.com/agenthands/concord/internal/core/common"
	"github.com/agenthands/concord/internal/core/model"
	"github.com/agenthands/concord/internal/llm"
)

// ChunkSize is how many conflict groups go into one prompt.
const ChunkSize = 20

const defaultPrompt = `You are helping an operator reconcile a knowledge base.
Below is a summary of detected conflicts and a list of conflict groups.
Do not decide which value is correct. Write a short brief (at most five
sentences) describing what kinds of conflicts exist and where to start.

Summary: %s

Conflicts:
%s
Return a JSON object: {"brief": "...", "focus": ["<conflict id>", ...]}
where focus lists the ids to review first, most urgent first.`

const rankInstruction = "Order these knowledge-base conflicts so the ones most likely to mislead a reader come first."

// Brief is the model's reading guide for a detection run.
type Brief struct {
	Text  string   `json:"brief" yaml:"brief"`
	Focus []string `json:"focus" yaml:"focus"`
}

type Briefer struct {
	LLM       llm.LLMClient
	Ranker    llm.Ranker
	Prompt    string
	MaxGroups int
}

func NewBriefer(client llm.LLMClient, cfg config.BriefConfig) *Briefer {
	prompt := cfg.Prompt
	if prompt == "" {
		prompt = defaultPrompt
	}
	return &Briefer{
		LLM:       client,
		Ranker:    llm.NewSimpleLLMRanker(client),
		Prompt:    prompt,
		MaxGroups: cfg.MaxGroups,
	}
}

// Brief considers the most severe groups first, at most MaxGroups of them.
// Groups beyond ChunkSize are briefed in chunks whose briefs are combined.
func (b *Briefer) Brief(ctx context.Context, groups []model.ConflictGroup, summary model.Summary) (*Brief, error) {
	if len(groups) == 0 {
		return &Brief{Text: "No conflicts detected."}, nil
	}

	selected := bySeverity(groups)
	if b.MaxGroups > 0 && len(selected) > b.MaxGroups {
		selected = selected[:b.MaxGroups]
	}

	known := make(map[string]bool, len(selected))
	for _, g := range selected {
		known[g.ID] = true
	}

	result, err := b.brief(ctx, selected, summary)
	if err != nil {
		return nil, err
	}

	result.Focus = filterFocus(result.Focus, known)
	if len(result.Focus) == 0 && b.Ranker != nil {
		result.Focus, err = b.rank(ctx, selected)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (b *Briefer) brief(ctx context.Context, groups []model.ConflictGroup, summary model.Summary) (*Brief, error) {
	if len(groups) <= ChunkSize {
		return b.generate(ctx, describeSummary(summary), describeGroups(groups))
	}

	// Brief each chunk, then brief the briefs.
	var parts strings.Builder
	var focus []string
	for i := 0; i < len(groups); i += ChunkSize {
		end := min(i+ChunkSize, len(groups))
		part, err := b.generate(ctx, describeSummary(summary), describeGroups(groups[i:end]))
		if err != nil {
			continue
		}
		fmt.Fprintf(&parts, "- Part %d: %s\n", i/ChunkSize+1, part.Text)
		focus = append(focus, part.Focus...)
	}
	if parts.Len() == 0 {
		return nil, errors.New("failed to generate any partial brief")
	}

	combined, err := b.generate(ctx, describeSummary(summary), parts.String())
	if err != nil {
		return nil, err
	}
	combined.Focus = append(combined.Focus, focus...)
	return combined, nil
}

func (b *Briefer) generate(ctx context.Context, summary, conflicts string) (*Brief, error) {
	response, err := b.LLM.Generate(ctx, fmt.Sprintf(b.Prompt, summary, conflicts))
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate brief")
	}

	result, err := common.ParseJSON[Brief](response)
	if err == nil && result.Text != "" {
		return &result, nil
	}
	// Plain prose is still a usable brief.
	return &Brief{Text: strings.TrimSpace(response)}, nil
}

func (b *Briefer) rank(ctx context.Context, groups []model.ConflictGroup) ([]string, error) {
	docs := make([]string, len(groups))
	for i, g := range groups {
		docs[i] = describeGroup(g)
	}
	order, err := b.Ranker.Rank(ctx, rankInstruction, docs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to rank conflicts")
	}
	ids := make([]string, 0, len(order))
	for _, i := range order {
		if i >= 0 && i < len(groups) {
			ids = append(ids, groups[i].ID)
		}
	}
	return ids, nil
}

func bySeverity(groups []model.ConflictGroup) []model.ConflictGroup {
	out := append([]model.ConflictGroup(nil), groups...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Severity.Rank() > out[j].Severity.Rank()
	})
	return out
}

func filterFocus(ids []string, known map[string]bool) []string {
	seen := make(map[string]bool)
	var out []string
	for _, id := range ids {
		if known[id] && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func describeSummary(s model.Summary) string {
	return fmt.Sprintf("%d conflicts (%d high, %d medium, %d low) across %d records",
		s.TotalConflicts, s.HighSeverity, s.MediumSeverity, s.LowSeverity, s.AffectedEntities)
}

func describeGroups(groups []model.ConflictGroup) string {
	var b strings.Builder
	for _, g := range groups {
		fmt.Fprintf(&b, "- %s\n", describeGroup(g))
	}
	return b.String()
}

func describeGroup(g model.ConflictGroup) string {
	types := make([]string, 0, len(g.ConflictDetails))
	for _, d := range g.ConflictDetails {
		types = append(types, string(d.ConflictType))
	}
	return fmt.Sprintf("id=%s severity=%s title=%s types=%s", g.ID, g.Severity, g.Title, strings.Join(types, ","))
}
