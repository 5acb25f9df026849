package contradiction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_Evaluate(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		layers   []string
		want     bool
		layer    string
		evidence string
	}{
		{
			name:     "negated state",
			a:        "The store is open on Sundays",
			b:        "The store is not open on Sundays",
			want:     true,
			layer:    LayerLexical,
			evidence: `negation: "is not open" vs "is open"`,
		},
		{
			name:     "truth terms",
			a:        "The claim is true",
			b:        "The claim is false",
			want:     true,
			layer:    LayerLexical,
			evidence: `truth: "true" vs "false"`,
		},
		{
			name:     "frequency terms",
			a:        "We always ship on time",
			b:        "We never ship on time",
			want:     true,
			layer:    LayerLexical,
			evidence: `frequency: "always" vs "never"`,
		},
		{
			name:     "existence terms",
			a:        "Parking is available",
			b:        "Parking is not available",
			want:     true,
			layer:    LayerLexical,
			evidence: `existence: "available" vs "not available"`,
		},
		{
			name:     "differing years",
			a:        "Founded in 1998",
			b:        "Founded in 2001",
			want:     true,
			layer:    LayerLexical,
			evidence: "year: 1998 vs 2001",
		},
		{
			name: "paraphrase agrees",
			a:    "The store opens at 9am daily",
			b:    "The shop opens at 9am every day",
			want: false,
		},
		{
			name: "equal after normalization",
			a:    "Hello, World!",
			b:    "hello world",
			want: false,
		},
		{
			name:     "quantity fact",
			a:        "Warranty lasts 2 years",
			b:        "Warranty lasts 3 years",
			layers:   []string{LayerFact},
			want:     true,
			layer:    LayerFact,
			evidence: "quantity: 2 year vs 3 year",
		},
		{
			name:     "boolean fact",
			a:        "The statement is correct",
			b:        "The statement is wrong",
			layers:   []string{LayerFact},
			want:     true,
			layer:    LayerFact,
			evidence: "boolean: correct vs wrong",
		},
		{
			name:     "name fact",
			a:        "The tool was created by Alice Smith",
			b:        "The tool was created by Bob Jones",
			layers:   []string{LayerFact},
			want:     true,
			layer:    LayerFact,
			evidence: "name: Alice Smith vs Bob Jones",
		},
		{
			name:     "negated step",
			a:        "Step 1: click Save to continue",
			b:        "Step 1: don't click Save to continue",
			layers:   []string{LayerProcedural},
			want:     true,
			layer:    LayerProcedural,
			evidence: `step 1: "click" vs "dont click"`,
		},
		{
			name:     "opposite action",
			a:        "First enable sync, then restart the app",
			b:        "First disable sync, then restart the app",
			layers:   []string{LayerProcedural},
			want:     true,
			layer:    LayerProcedural,
			evidence: `step 1: "enable" vs "disable"`,
		},
		{
			name:   "steps on one side only",
			a:      "First enable sync, then restart the app",
			b:      "Sync is disabled for this account",
			layers: []string{LayerProcedural},
			want:   false,
		},
		{
			name:     "same event different date",
			a:        "The museum opened in 1998 to the public",
			b:        "The museum opened in 2001 to the public",
			layers:   []string{LayerTemporal},
			want:     true,
			layer:    LayerTemporal,
			evidence: "date: 1998 vs 2001",
		},
		{
			name:   "unrelated dates",
			a:      "Our founder was born in 1950.",
			b:      "The new wing opened to visitors in 2010.",
			layers: []string{LayerTemporal},
			want:   false,
		},
		{
			name:     "unrelated dates under the loose fact layer",
			a:        "Our founder was born in 1950.",
			b:        "The new wing opened to visitors in 2010.",
			layers:   []string{LayerFact},
			want:     true,
			layer:    LayerFact,
			evidence: "date: 1950 vs 2010",
		},
		{
			name:     "same measurement different amount",
			a:        "Delivery takes 3 days from order",
			b:        "Delivery takes 5 days from order",
			layers:   []string{LayerTemporal},
			want:     true,
			layer:    LayerTemporal,
			evidence: "quantity: 3 day vs 5 day",
		},
		{
			name:   "different units",
			a:      "Support replies within 2 days of a ticket",
			b:      "Support replies within 4 hours of a ticket",
			layers: []string{LayerTemporal},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts []Option
			if tt.layers != nil {
				opts = append(opts, WithLayers(tt.layers...))
			}
			e := New(opts...)

			f, ok := e.Evaluate(tt.a, tt.b)
			require.Equal(t, tt.want, ok)
			assert.Equal(t, tt.want, e.Contradicts(tt.b, tt.a), "evaluation must be symmetric")
			if tt.want {
				assert.Equal(t, tt.layer, f.Layer)
				assert.Equal(t, tt.evidence, f.Evidence)
			}
		})
	}
}

func TestEngine_Layers(t *testing.T) {
	assert.Equal(t, AllLayers(), New().Layers())
	assert.Equal(t, []string{LayerLexical, LayerTemporal},
		New(WithLayers(LayerTemporal, "bogus", LayerLexical)).Layers())
	assert.Empty(t, New(WithLayers()).Layers())
}

func TestEngine_ContextOverlapGate(t *testing.T) {
	a := "The museum opened in 1998 to the public"
	b := "The museum opened in 2001 to the public"
	strict := New(WithLayers(LayerTemporal), WithContextOverlap(0.9))
	assert.False(t, strict.Contradicts(a, b))
}
