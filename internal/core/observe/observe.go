// Package observe carries diagnostic events out of the detection pipeline.
// Observers never influence results.
package observe

import (
	"go.uber.org/zap"
)

type Kind string

const (
	// KindCompare is emitted for every record pair that gets compared.
	KindCompare Kind = "compare"
	// KindNameMatch is emitted when a pair clears the name similarity gate.
	KindNameMatch     Kind = "name_match"
	KindContradiction Kind = "contradiction"
	KindDetail        Kind = "detail"
	KindGroup         Kind = "group"
	// KindBlocked is emitted when a category bucket is too large for all-pairs
	// comparison and falls back to candidate pairs.
	KindBlocked Kind = "blocked"
)

// Event describes one step of a detection run. Only the fields relevant to
// Kind are set.
type Event struct {
	Kind         Kind
	Category     string
	A, B         string
	Score        float64
	Layer        string
	Evidence     string
	Field        string
	ConflictType string
	Severity     string
	Count        int
}

type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) Observe(e Event) { f(e) }

type nop struct{}

func (nop) Observe(Event) {}

// Nop discards every event.
var Nop Observer = nop{}

type multi []Observer

func (m multi) Observe(e Event) {
	for _, o := range m {
		o.Observe(e)
	}
}

// Multi fans events out to every non-nil observer.
func Multi(observers ...Observer) Observer {
	var m multi
	for _, o := range observers {
		if o != nil {
			m = append(m, o)
		}
	}
	switch len(m) {
	case 0:
		return Nop
	case 1:
		return m[0]
	}
	return m
}

type zapObserver struct {
	logger *zap.Logger
}

// NewZapObserver writes every event as a debug entry on logger.
func NewZapObserver(logger *zap.Logger) Observer {
	return &zapObserver{logger: logger.Named("detect")}
}

func (z *zapObserver) Observe(e Event) {
	if ce := z.logger.Check(zap.DebugLevel, string(e.Kind)); ce != nil {
		ce.Write(fields(e)...)
	}
}

func fields(e Event) []zap.Field {
	var fs []zap.Field
	if e.Category != "" {
		fs = append(fs, zap.String("category", e.Category))
	}
	if e.A != "" {
		fs = append(fs, zap.String("a", e.A))
	}
	if e.B != "" {
		fs = append(fs, zap.String("b", e.B))
	}
	if e.Kind == KindCompare || e.Kind == KindNameMatch {
		fs = append(fs, zap.Float64("score", e.Score))
	}
	if e.Layer != "" {
		fs = append(fs, zap.String("layer", e.Layer), zap.String("evidence", e.Evidence))
	}
	if e.Field != "" {
		fs = append(fs, zap.String("field", e.Field))
	}
	if e.ConflictType != "" {
		fs = append(fs, zap.String("conflict_type", e.ConflictType))
	}
	if e.Severity != "" {
		fs = append(fs, zap.String("severity", e.Severity))
	}
	if e.Count > 0 {
		fs = append(fs, zap.Int("count", e.Count))
	}
	return fs
}
