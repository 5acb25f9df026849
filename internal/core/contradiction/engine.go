// Package contradiction decides whether two pieces of text disagree.
//
// An Engine runs a fixed sequence of rule layers over a pair of texts and
// stops at the first one that fires. Every rule table is declared in
// rules.go; layers are pure functions of their input.
package contradiction

import (
	"github.com/agenthands/concord/internal/core/textnorm"
)

// DefaultContextOverlap is the word overlap above which two fact contexts are
// taken to describe the same event.
const DefaultContextOverlap = 0.3

// Finding names the layer that fired and what it saw.
type Finding struct {
	Layer    string `json:"layer"`
	Evidence string `json:"evidence"`
}

// Engine evaluates text pairs. It holds no mutable state and is safe for
// concurrent use.
type Engine struct {
	layers []Layer
}

type options struct {
	layers         []string
	contextOverlap float64
}

// Option configures an Engine.
type Option func(*options)

// WithLayers restricts the engine to the named layers. Unknown names are
// ignored; evaluation order stays lexical, fact, procedural, temporal.
func WithLayers(names ...string) Option {
	return func(o *options) {
		o.layers = names
	}
}

// WithContextOverlap sets the temporal layer's same-event gate.
func WithContextOverlap(threshold float64) Option {
	return func(o *options) {
		o.contextOverlap = threshold
	}
}

// New builds an Engine with every layer enabled unless told otherwise.
func New(opts ...Option) *Engine {
	o := options{
		layers:         AllLayers(),
		contextOverlap: DefaultContextOverlap,
	}
	for _, opt := range opts {
		opt(&o)
	}

	enabled := make(map[string]bool, len(o.layers))
	for _, name := range o.layers {
		enabled[name] = true
	}

	var layers []Layer
	for _, l := range []Layer{
		lexicalLayer{},
		factLayer{},
		proceduralLayer{},
		temporalLayer{threshold: o.contextOverlap},
	} {
		if enabled[l.Name()] {
			layers = append(layers, l)
		}
	}
	return &Engine{layers: layers}
}

// Layers returns the names of the enabled layers in evaluation order.
func (e *Engine) Layers() []string {
	names := make([]string, len(e.layers))
	for i, l := range e.layers {
		names[i] = l.Name()
	}
	return names
}

// Evaluate compares two cleaned texts. Texts equal after normalization never
// contradict.
func (e *Engine) Evaluate(a, b string) (Finding, bool) {
	ta := Text{Clean: a, Norm: textnorm.NormalizeString(a)}
	tb := Text{Clean: b, Norm: textnorm.NormalizeString(b)}
	if ta.Norm == tb.Norm {
		return Finding{}, false
	}
	for _, l := range e.layers {
		if ev, ok := l.Check(ta, tb); ok {
			return Finding{Layer: l.Name(), Evidence: ev}, true
		}
	}
	return Finding{}, false
}

// Contradicts reports whether any enabled layer finds a disagreement.
func (e *Engine) Contradicts(a, b string) bool {
	_, ok := e.Evaluate(a, b)
	return ok
}
