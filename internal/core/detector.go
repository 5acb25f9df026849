package core

import (
	"fmt"

	"github.com/agenthands/concord/internal/config"
	"github.com/agenthands/concord/internal/core/contradiction"
	"github.com/agenthands/concord/internal/core/grouping"
	"github.com/agenthands/concord/internal/core/model"
	"github.com/agenthands/concord/internal/core/observe"
	"github.com/agenthands/concord/internal/core/report"
	"github.com/agenthands/concord/internal/core/similarity"
	"github.com/agenthands/concord/internal/core/textnorm"
)

// Detector finds conflicting records in a materialized record list. Detect is
// a pure function of its input; a Detector may be shared between goroutines as
// long as its Observer is safe for concurrent use.
type Detector struct {
	Config    config.DetectionConfig
	Policy    grouping.Policy
	Fields    *grouping.FieldSelector
	Engine    *contradiction.Engine
	Assembler *report.Assembler
	Observer  observe.Observer
}

type DetectorOption func(*Detector)

func WithObserver(o observe.Observer) DetectorOption {
	return func(d *Detector) {
		d.Observer = observe.Multi(o)
	}
}

func NewDetector(cfg config.DetectionConfig, opts ...DetectorOption) *Detector {
	engineOpts := []contradiction.Option{contradiction.WithContextOverlap(cfg.ContextOverlapThreshold)}
	if len(cfg.Layers) > 0 {
		engineOpts = append(engineOpts, contradiction.WithLayers(cfg.Layers...))
	}

	d := &Detector{
		Config:    cfg,
		Policy:    grouping.NewPolicy(cfg.FAQCategories, cfg.ExcludedCategories),
		Fields:    grouping.NewFieldSelector(cfg.FieldPriority),
		Engine:    contradiction.New(engineOpts...),
		Assembler: report.NewAssembler(cfg.ValueMaxLength),
		Observer:  observe.Nop,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect returns FAQ conflicts in question order followed by pairwise
// conflicts in category then pair order.
func (d *Detector) Detect(records []model.Record) []model.ConflictGroup {
	var groups []model.ConflictGroup

	for _, g := range d.Policy.FAQGroups(records) {
		if group, ok := d.faqConflict(g); ok {
			groups = append(groups, group)
		}
	}

	for _, b := range d.Policy.Buckets(records) {
		pairs, blocked := grouping.Pairs(b.Records, d.Config.MaxBucketSize, d.Config.NeighborhoodWindow)
		if blocked {
			d.Observer.Observe(observe.Event{Kind: observe.KindBlocked, Category: b.Category, Count: len(pairs)})
		}
		for _, p := range pairs {
			x, y := b.Records[p.I], b.Records[p.J]
			details := d.Compare(b.Category, x, y)
			if group, ok := d.Assembler.PairGroup(b.Category, p.I, p.J, x, y, details); ok {
				d.emitGroup(group)
				groups = append(groups, group)
			}
		}
	}

	return groups
}

// Summary rolls up a Detect result.
func (d *Detector) Summary(groups []model.ConflictGroup) model.Summary {
	return report.Summarize(groups)
}

func (d *Detector) faqConflict(g grouping.FAQGroup) (model.ConflictGroup, bool) {
	answers := make([]string, len(g.Members))
	distinct := make(map[string]struct{})
	for i, m := range g.Members {
		answers[i] = grouping.FAQAnswer(m)
		if norm := textnorm.NormalizeString(answers[i]); norm != "" {
			distinct[norm] = struct{}{}
		}
	}
	if len(distinct) < 2 {
		return model.ConflictGroup{}, false
	}
	group := d.Assembler.FAQGroup(g.Question, g.Members, answers)
	d.emitGroup(group)
	return group, true
}

// Compare returns every disagreement between two records of one category.
func (d *Detector) Compare(category string, x, y model.Record) []model.ConflictDetail {
	var details []model.ConflictDetail

	nameX := textnorm.NormalizeString(x.Name)
	nameY := textnorm.NormalizeString(y.Name)
	score := similarity.Score(nameX, nameY)
	d.Observer.Observe(observe.Event{Kind: observe.KindCompare, Category: category, A: x.Key(), B: y.Key(), Score: score})

	if score > d.Config.NameSimilarityThreshold {
		d.Observer.Observe(observe.Event{Kind: observe.KindNameMatch, Category: category, A: x.Key(), B: y.Key(), Score: score})
		if detail, ok := d.contentDetail(category, x, y); ok {
			details = append(details, detail)
		}
	}

	if nameX != nameY {
		px, py := textnorm.NormalizePhone(x.Phone), textnorm.NormalizePhone(y.Phone)
		if px != "" && px == py {
			details = append(details, model.ConflictDetail{
				Field:        grouping.FieldPhone,
				Values:       []model.ConflictValue{d.Assembler.Value(x, x.Phone), d.Assembler.Value(y, y.Phone)},
				ConflictType: model.ConflictPhoneMismatch,
				Severity:     model.SeverityMedium,
				Description:  fmt.Sprintf("Records with different names share phone number %s", px),
			})
		}
		ux, uy := textnorm.NormalizeURL(x.Website), textnorm.NormalizeURL(y.Website)
		if ux != "" && ux == uy {
			details = append(details, model.ConflictDetail{
				Field:        grouping.FieldWebsite,
				Values:       []model.ConflictValue{d.Assembler.Value(x, x.Website), d.Assembler.Value(y, y.Website)},
				ConflictType: model.ConflictURLMismatch,
				Severity:     model.SeverityMedium,
				Description:  fmt.Sprintf("Records with different names share website %s", ux),
			})
		}
	}

	for _, detail := range details {
		d.Observer.Observe(observe.Event{
			Kind:         observe.KindDetail,
			Category:     category,
			A:            x.Key(),
			B:            y.Key(),
			Field:        detail.Field,
			ConflictType: string(detail.ConflictType),
			Severity:     string(detail.Severity),
		})
	}
	return details
}

func (d *Detector) contentDetail(category string, x, y model.Record) (model.ConflictDetail, bool) {
	sel, ok := d.Fields.Select(category, x, y)
	if !ok || textnorm.NormalizeString(sel.A) == textnorm.NormalizeString(sel.B) {
		return model.ConflictDetail{}, false
	}

	values := []model.ConflictValue{d.Assembler.Value(x, sel.A), d.Assembler.Value(y, sel.B)}

	finding, contradicts := d.Engine.Evaluate(sel.A, sel.B)
	if !contradicts {
		return model.ConflictDetail{
			Field:        sel.Field,
			Values:       values,
			ConflictType: model.ConflictInconsistentData,
			Severity:     model.SeverityMedium,
			Description:  fmt.Sprintf("%s differs between records with similar names", sel.Field),
		}, true
	}

	d.Observer.Observe(observe.Event{
		Kind:     observe.KindContradiction,
		Category: category,
		A:        x.Key(),
		B:        y.Key(),
		Layer:    finding.Layer,
		Evidence: finding.Evidence,
		Field:    sel.Field,
	})
	return model.ConflictDetail{
		Field:        sel.Field,
		Values:       values,
		ConflictType: grouping.ContradictionType(sel.Field),
		Severity:     model.SeverityHigh,
		Description:  fmt.Sprintf("%s contradicts between records (%s: %s)", sel.Field, finding.Layer, finding.Evidence),
	}, true
}

func (d *Detector) emitGroup(g model.ConflictGroup) {
	d.Observer.Observe(observe.Event{
		Kind:     observe.KindGroup,
		A:        g.ID,
		Severity: string(g.Severity),
		Count:    len(g.ConflictDetails),
	})
}
