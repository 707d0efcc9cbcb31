package slugify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake_Basic(t *testing.T) {
	assert.Equal(t, "mazda-3-i-touring-1700000000", Make("Mazda 3 i Touring", 1700000000))
}

func TestMake_Deterministic(t *testing.T) {
	a := Make("Honda Civic EX 2018", 42)
	b := Make("Honda Civic EX 2018", 42)
	assert.Equal(t, a, b)
}

func TestMake_CollapsesNonAlnumRuns(t *testing.T) {
	assert.Equal(t, "vw-jetta-2-0-comfortline-7", Make("  VW Jetta!! 2.0 (Comfortline)  ", 7))
}

func TestMake_EmptyStem(t *testing.T) {
	// A title with no alphanumeric characters yields just the suffix.
	assert.Equal(t, "-123", Make("!!! ???", 123))
}

func TestMake_DistinctDisambiguators(t *testing.T) {
	assert.NotEqual(t, Make("Mazda 3", 1), Make("Mazda 3", 2))
}
