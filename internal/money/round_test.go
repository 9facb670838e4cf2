package money

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRounding(t *testing.T) {
	tests := []struct {
		name string
		fn   func(float64) float64
		in   float64
		want float64
	}{
		{"dollars half up", Dollars, 149_999.5, 150_000},
		{"dollars negative", Dollars, -12.5, -13},
		{"cents", Cents, 37.4251, 37.43},
		{"percent", Percent, 72.349, 72.3},
		{"ratio", Ratio, 0.15873, 15.9},
		{"nan guarded", Dollars, math.NaN(), 0},
		{"inf guarded", Percent, math.Inf(1), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fn(tt.in))
		})
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-3, 0, 100))
	assert.Equal(t, 100.0, Clamp(140, 0, 100))
	assert.Equal(t, 5.0, Clamp(math.NaN(), 5, 95))
	assert.Equal(t, 1.0, Clamp01(1.7))
}
