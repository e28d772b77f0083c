package lattice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeightsSumToOne(t *testing.T) {
	var sum float64
	for _, w := range W {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
}

func TestOppositeIsInvolution(t *testing.T) {
	for k, opp := range Opposite {
		assert.Equalf(t, k, Opposite[opp], "opposite(opposite(%d))", k)
	}
}

func TestOppositeVectorsAreNegated(t *testing.T) {
	for k, opp := range Opposite {
		assert.Equalf(t, -E[opp][0], E[k][0], "direction %d and its opposite %d", k, opp)
		assert.Equalf(t, -E[opp][1], E[k][1], "direction %d and its opposite %d", k, opp)
	}
}
