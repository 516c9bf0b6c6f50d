package bonus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPerUnitFirstMatchWins(t *testing.T) {
	table := Table{
		{"⭐️10", 13000},
		{"⭐️1", 900},
	}

	// Table order decides; matching must not fall through to the later,
	// shorter marker even though it is also a substring.
	v, ok := table.PerUnit("2.3000⭐️10")
	assert.True(t, ok)
	assert.Equal(t, 13000, v)
}

func TestPerUnitNoSummation(t *testing.T) {
	table := Table{
		{"❤", 5000},
		{"S", 3000},
	}

	// Two markers on one line pay out only the first in table order.
	v, ok := table.PerUnit("1.1000❤S")
	assert.True(t, ok)
	assert.Equal(t, 5000, v)
}

func TestPerUnitIgnoresSpaces(t *testing.T) {
	table := Default()

	v, ok := table.PerUnit("1.1000 ❤")
	assert.True(t, ok)
	assert.Equal(t, 5000, v)
}

func TestPerUnitNoMatch(t *testing.T) {
	table := Default()

	v, ok := table.PerUnit("1.1000")
	assert.False(t, ok)
	assert.Equal(t, 0, v)
}

func TestDefaultTableValues(t *testing.T) {
	table := Default()

	tests := []struct {
		marker string
		want   int
	}{
		{"❤", 5000},
		{"♥", 5000},
		{"⭕", 4000},
		{"S", 3000},
		{"🔺", 3000},
		{"B", 1000},
		{"E", 2000},
		{"⭐️6", 9000},
		{"⭐️10", 13000},
		{"⭐8", 11000},
		{"🟢", 0},
	}

	for _, tt := range tests {
		v, ok := table.PerUnit(tt.marker)
		assert.True(t, ok, "marker %q", tt.marker)
		assert.Equal(t, tt.want, v, "marker %q", tt.marker)
	}
}
