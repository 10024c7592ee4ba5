package calculation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundSignificant(t *testing.T) {
	tests := []struct {
		in     string
		digits int32
		want   string
	}{
		{"0", 28, "0"},
		{"0.000000000025349234441234", 4, "0.00000000002535"},
		{"2323390.755", 28, "2323390.755"},
		{"2323390.76123456789012345678", 12, "2323390.7612345679"},
		{"-0.00000000001234567", 3, "-0.0000000000123"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := roundSignificant(d(tt.in), tt.digits)
			assert.True(t, got.Equal(d(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestDivSignificant(t *testing.T) {
	assert.True(t, divSignificant(d("120000"), d("24")).Equal(d("5000")))

	q := divSignificant(d("0.000001"), d("3"))
	assert.True(t, q.IsPositive())
	assert.Equal(t, "0.0000003333333333333333333333333333", q.String())
}
