package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfidence(t *testing.T) {
	tests := []struct {
		points int
		want   float64
	}{
		{0, 0.3},
		{4, 0.3},
		{5, 0.5},
		{9, 0.5},
		{10, 0.7},
		{19, 0.7},
		{20, 0.85},
		{49, 0.85},
		{50, 0.95},
		{5000, 0.95},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Confidence(tc.points), "Confidence(%d)", tc.points)
	}
}

func TestConfidence_Monotonic(t *testing.T) {
	prev := Confidence(0)
	for n := 1; n <= 100; n++ {
		c := Confidence(n)
		assert.GreaterOrEqual(t, c, prev, "Confidence(%d)", n)
		prev = c
	}
}
