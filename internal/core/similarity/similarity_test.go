package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"same", "same", 0},
		{"héllo", "hello", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Distance(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
	}
}

func TestScore_Bounds(t *testing.T) {
	assert.Equal(t, 1.0, Score("", ""))
	assert.Equal(t, 0.0, Score("", "abc"))
	assert.Equal(t, 0.0, Score("abc", ""))
	assert.Equal(t, 0.0, Score("abc", "xyz"))

	for _, s := range []string{"a", "store", "Main Street Bakery", "ünïcode"} {
		assert.Equal(t, 1.0, Score(s, s), s)
	}
}

func TestScore_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"kitten", "sitting"},
		{"main street bakery", "main st bakery"},
		{"a", "abcdef"},
	}
	for _, p := range pairs {
		assert.Equal(t, Score(p[0], p[1]), Score(p[1], p[0]))
	}
}

func TestScore_Value(t *testing.T) {
	// distance 3 over the longer length 7
	assert.InDelta(t, 4.0/7.0, Score("kitten", "sitting"), 1e-9)
}

func TestWordOverlap(t *testing.T) {
	assert.Equal(t, 0.0, WordOverlap("", "something"))
	assert.Equal(t, 1.0, WordOverlap("Opened in 1998", "opened IN 1998!"))
	// {founded, in, 1998} vs {founded, in, 2001}: 2 shared of 4
	assert.InDelta(t, 0.5, WordOverlap("founded in 1998", "founded in 2001"), 1e-9)
}
