package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGradientScore(t *testing.T) {
	curve := []Breakpoint{
		{X: 0, Y: 10},
		{X: 2, Y: 90},
		{X: 5, Y: 30},
	}

	tests := []struct {
		name string
		v    float64
		want float64
	}{
		{"below first breakpoint clamps to first score", -100, 10},
		{"at first breakpoint", 0, 10},
		{"interpolates in first segment", 1, 50},
		{"at middle breakpoint", 2, 90},
		{"interpolates in falling segment", 3.5, 60},
		{"at last breakpoint", 5, 30},
		{"above last breakpoint clamps to last score", 100, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GradientScore(tt.v, curve)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestGradientScore_EmptyCurve(t *testing.T) {
	assert.Equal(t, 0.0, GradientScore(42, nil))
	assert.Equal(t, 0.0, GradientScore(42, []Breakpoint{}))
}

func TestGradientScore_SinglePoint(t *testing.T) {
	curve := []Breakpoint{{X: 3, Y: 7}}

	assert.Equal(t, 7.0, GradientScore(-1, curve))
	assert.Equal(t, 7.0, GradientScore(3, curve))
	assert.Equal(t, 7.0, GradientScore(10, curve))
}
